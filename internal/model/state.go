package model

// SimState is the record threaded through a simulation hour by hour. The
// four history slices are seeded with an hour-zero entry before any tide
// sample is processed, so after n ticks they hold n+1 values (HarvestSizes
// excepted: one entry per harvest event, not per hour).
type SimState struct {
	CaughtFish float64 `json:"caught_fish"`
	FreeFish   float64 `json:"free_fish"`

	// CumulativeHarvested is a running total, non-decreasing.
	CumulativeHarvested []float64 `json:"cumulative_harvested"`
	// InTrap and OutTrap record the populations after each hour's update.
	InTrap  []float64 `json:"in_trap"`
	OutTrap []float64 `json:"out_trap"`
	// HarvestSizes holds the size of each harvest event.
	HarvestSizes []float64 `json:"harvest_sizes"`
}

// NewSimState seeds the hour-zero state: an empty trap and maxFish free.
func NewSimState(maxFish float64) *SimState {
	return &SimState{
		CaughtFish:          0,
		FreeFish:            maxFish,
		CumulativeHarvested: []float64{0},
		InTrap:              []float64{0},
		OutTrap:             []float64{maxFish},
	}
}

// Hours returns the number of tide samples already applied to the state.
func (s *SimState) Hours() int {
	return len(s.InTrap) - 1
}

// TotalHarvested returns the latest cumulative harvest value.
func (s *SimState) TotalHarvested() float64 {
	return s.CumulativeHarvested[len(s.CumulativeHarvested)-1]
}

// Clone returns an independent deep copy, for parallel what-if scenarios.
func (s *SimState) Clone() *SimState {
	c := &SimState{
		CaughtFish:          s.CaughtFish,
		FreeFish:            s.FreeFish,
		CumulativeHarvested: append([]float64(nil), s.CumulativeHarvested...),
		InTrap:              append([]float64(nil), s.InTrap...),
		OutTrap:             append([]float64(nil), s.OutTrap...),
		HarvestSizes:        append([]float64(nil), s.HarvestSizes...),
	}
	return c
}

// CycleResult is what a resumable harvesting cycle hands back to the caller.
// Completed=false means the tide closed over a non-empty trap and the run is
// paused until the caller resubmits with a harvest decision.
type CycleResult struct {
	State     *SimState `json:"state"`
	Completed bool      `json:"completed"`
}
