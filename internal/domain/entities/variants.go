package entities

import (
	"math"
	"time"
)

// FeedKind distinguishes nursing from bottle feeds.
type FeedKind string

const (
	FeedKindNursing FeedKind = "nursing"
	FeedKindBottle  FeedKind = "bottle"
)

// Side is the nursing side.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// SleepCategory separates naps from night sleep.
type SleepCategory string

const (
	SleepNap   SleepCategory = "nap"
	SleepNight SleepCategory = "night"
)

// SleepQuality is an optional subjective rating of a sleep session.
type SleepQuality string

const (
	QualityGood  SleepQuality = "good"
	QualityOK    SleepQuality = "ok"
	QualityFussy SleepQuality = "fussy"
)

// DiaperType is what a diaper change contained.
type DiaperType string

const (
	DiaperPee  DiaperType = "pee"
	DiaperPoop DiaperType = "poop"
	DiaperBoth DiaperType = "both"
)

// HasPoop reports whether the change involved stool.
func (d DiaperType) HasPoop() bool {
	return d == DiaperPoop || d == DiaperBoth
}

// Consistency, Color and Volume describe stool and only apply when HasPoop.
type (
	Consistency string
	Color       string
	Volume      string
)

// BathType is the kind of bath given.
type BathType string

const (
	BathSponge BathType = "sponge"
	BathFull   BathType = "full"
)

// Allowed values for the enumerated entry fields, keyed by the document field name.
var (
	FeedKinds       = []string{string(FeedKindNursing), string(FeedKindBottle)}
	Sides           = []string{string(SideLeft), string(SideRight)}
	SleepCategories = []string{string(SleepNap), string(SleepNight)}
	SleepQualities  = []string{string(QualityGood), string(QualityOK), string(QualityFussy)}
	DiaperTypes     = []string{string(DiaperPee), string(DiaperPoop), string(DiaperBoth)}
	Consistencies   = []string{"runny", "mushy", "soft", "hard", "solid"}
	Colors          = []string{"yellow", "brown", "green", "black", "red"}
	Volumes         = []string{"light", "medium", "heavy"}
	BathTypes       = []string{string(BathSponge), string(BathFull)}
)

// Feed is a nursing or bottle feed.
type Feed struct {
	Base
	Kind      FeedKind   `json:"kind"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	Side      Side       `json:"side,omitempty"`
	SessionID string     `json:"sessionId,omitempty"`
	AmountOz  *float64   `json:"amountOz,omitempty"`
}

func (f *Feed) Type() EntryType       { return EntryTypeFeed }
func (f *Feed) Start() time.Time      { return f.StartedAt }
func (f *Feed) End() *time.Time       { return f.EndedAt }
func (f *Feed) Accept(v EntryVisitor) { v.VisitFeed(f) }

// Sleep is a nap or night sleep session.
type Sleep struct {
	Base
	Category  SleepCategory `json:"category"`
	Quality   SleepQuality  `json:"quality,omitempty"`
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   *time.Time    `json:"endedAt,omitempty"`
}

func (s *Sleep) Type() EntryType       { return EntryTypeSleep }
func (s *Sleep) Start() time.Time      { return s.StartedAt }
func (s *Sleep) End() *time.Time       { return s.EndedAt }
func (s *Sleep) Accept(v EntryVisitor) { v.VisitSleep(s) }

// Pump is a pumping session. TotalAmountOz is stored as recorded and may
// disagree with LeftAmountOz+RightAmountOz on historical data.
type Pump struct {
	Base
	StartedAt     time.Time  `json:"startedAt"`
	EndedAt       *time.Time `json:"endedAt,omitempty"`
	LeftAmountOz  *float64   `json:"leftAmountOz,omitempty"`
	RightAmountOz *float64   `json:"rightAmountOz,omitempty"`
	TotalAmountOz *float64   `json:"totalAmountOz,omitempty"`
}

func (p *Pump) Type() EntryType       { return EntryTypePump }
func (p *Pump) Start() time.Time      { return p.StartedAt }
func (p *Pump) End() *time.Time       { return p.EndedAt }
func (p *Pump) Accept(v EntryVisitor) { v.VisitPump(p) }

// PumpedOz returns the recorded total, or left+right when no total was stored.
func (p *Pump) PumpedOz() float64 {
	if p.TotalAmountOz != nil {
		return Oz(p.TotalAmountOz)
	}
	return Oz(p.LeftAmountOz) + Oz(p.RightAmountOz)
}

// Diaper is a diaper change.
type Diaper struct {
	Base
	StartedAt   time.Time   `json:"startedAt"`
	EndedAt     time.Time   `json:"endedAt"`
	DiaperType  DiaperType  `json:"diaperType"`
	Rash        *bool       `json:"rash,omitempty"`
	Consistency Consistency `json:"consistency,omitempty"`
	Color       Color       `json:"color,omitempty"`
	Volume      Volume      `json:"volume,omitempty"`
}

func (d *Diaper) Type() EntryType       { return EntryTypeDiaper }
func (d *Diaper) Start() time.Time      { return d.StartedAt }
func (d *Diaper) End() *time.Time       { return &d.EndedAt }
func (d *Diaper) Accept(v EntryVisitor) { v.VisitDiaper(d) }

// Bath is a sponge or full bath.
type Bath struct {
	Base
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	BathType  BathType  `json:"bathType"`
}

func (b *Bath) Type() EntryType       { return EntryTypeBath }
func (b *Bath) Start() time.Time      { return b.StartedAt }
func (b *Bath) End() *time.Time       { return &b.EndedAt }
func (b *Bath) Accept(v EntryVisitor) { v.VisitBath(b) }

// Oz dereferences an optional amount, treating nil and NaN as zero.
func Oz(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return *v
}
