package entities

// ChartSeries holds parallel arrays for a charting component. Index i of
// every slice refers to Dates[i].
type ChartSeries struct {
	Dates          []string  `json:"dates"`
	Labels         []string  `json:"labels"`
	BottleOz       []float64 `json:"bottleOz"`
	NursingMinutes []float64 `json:"nursingMinutes"`
	SleepMinutes   []float64 `json:"sleepMinutes"`
	PumpedOz       []float64 `json:"pumpedOz"`
	Pee            []int     `json:"pee"`
	Poop           []int     `json:"poop"`
	Both           []int     `json:"both"`
}

// Len returns the number of points in the series.
func (c *ChartSeries) Len() int {
	return len(c.Dates)
}
