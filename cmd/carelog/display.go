package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ersonp/carelog/internal/domain/entities"
	"github.com/ersonp/carelog/internal/domain/services"
)

const displayTimeLayout = "Mon Jan 2 15:04"

// entryDetails collects the type-specific parts of a one-line description.
type entryDetails struct {
	parts []string
}

func (d *entryDetails) add(format string, args ...any) {
	d.parts = append(d.parts, fmt.Sprintf(format, args...))
}

func (d *entryDetails) VisitFeed(f *entities.Feed) {
	d.add("%s", f.Kind)
	if f.Side != "" {
		d.add("%s side", f.Side)
	}
	if f.AmountOz != nil {
		d.add("%.1f oz", *f.AmountOz)
	}
}

func (d *entryDetails) VisitSleep(s *entities.Sleep) {
	d.add("%s", s.Category)
	if s.Quality != "" {
		d.add("%s", s.Quality)
	}
}

func (d *entryDetails) VisitPump(p *entities.Pump) {
	d.add("%.1f oz", p.PumpedOz())
	if p.LeftAmountOz != nil && p.RightAmountOz != nil {
		d.add("L %.1f / R %.1f", *p.LeftAmountOz, *p.RightAmountOz)
	}
}

func (d *entryDetails) VisitDiaper(dp *entities.Diaper) {
	d.add("%s", dp.DiaperType)
	if dp.Rash != nil && *dp.Rash {
		d.add("rash")
	}
	for _, v := range []string{string(dp.Consistency), string(dp.Color), string(dp.Volume)} {
		if v != "" {
			d.add("%s", v)
		}
	}
}

func (d *entryDetails) VisitBath(b *entities.Bath) {
	d.add("%s", b.BathType)
}

// describeEntry renders an entry on one line in loc.
func describeEntry(entry entities.Entry, loc *time.Location) string {
	var details entryDetails
	entry.Accept(&details)

	when := entry.Start().In(loc).Format(displayTimeLayout)
	switch {
	case entities.IsOpen(entry):
		when += " (in progress)"
	case entry.Type().IsTimed() && entities.DurationMinutes(entry) > 0:
		when += " for " + services.FormatMinutes(entities.DurationMinutes(entry))
	}

	return fmt.Sprintf("%s %s, %s", entry.Type(), strings.Join(details.parts, ", "), when)
}

func displayEntry(entry entities.Entry, loc *time.Location) {
	fmt.Printf("ID: %s\n", entry.Common().ID)
	fmt.Printf("  %s\n", describeEntry(entry, loc))
	if note := entry.Common().Note; note != "" {
		fmt.Printf("  Note: %s\n", note)
	}
	fmt.Println()
}

func displayRejections(rejections []entities.Rejection) {
	if len(rejections) == 0 {
		return
	}
	fmt.Printf("Skipped %d invalid entries:\n", len(rejections))
	for _, r := range rejections {
		fmt.Printf("  %s\n", r.Error())
	}
	fmt.Println()
}
