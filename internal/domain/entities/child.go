package entities

import (
	"fmt"
	"time"
)

// Child identifies whose entries are being read or written.
type Child struct {
	ID       string `json:"id"`
	FamilyID string `json:"familyId"`
	Name     string `json:"name"`
	// Timezone is an IANA zone name used for calendar-day bucketing.
	Timezone string `json:"timezone,omitempty"`
}

// Location resolves the child's timezone, falling back to fallback when unset.
func (c Child) Location(fallback *time.Location) (*time.Location, error) {
	if c.Timezone == "" {
		if fallback == nil {
			return time.Local, nil
		}
		return fallback, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
