package sim

import (
	"math"

	"tidetrap/internal/geometry"
	"tidetrap/internal/model"
)

// Params tunes the exchange model. Zero values are replaced by defaults on
// NewSimulator, so a zero Params literal gives the documented behavior.
type Params struct {
	// MovementRate is the per-hour exchange rate between the populations.
	MovementRate float64 `yaml:"movement_rate" json:"movement_rate"`
	// MaxFish is the size of the surrounding population.
	MaxFish float64 `yaml:"max_fish" json:"max_fish"`
	// ConstantPopulation resets the free population to MaxFish after each
	// harvest, modeling an effectively infinite surrounding population.
	// When false, un-harvested caught fish return to the free population.
	ConstantPopulation *bool `yaml:"constant_population" json:"constant_population"`

	// ReferenceRadius scales the movement flows linearly in the trap radius.
	ReferenceRadius float64 `yaml:"-" json:"-"`
}

const (
	defaultMovementRate    = 0.025
	defaultMaxFish         = 1000
	defaultReferenceRadius = 25
)

// Simulator drives the two-compartment exchange model over a tide series.
// The rim is computed once at construction and reused for every coverage
// scan. A Simulator is safe for sequential reuse; concurrent what-if runs
// need independent SimState values, not independent Simulators.
type Simulator struct {
	spec   model.TrapSpec
	params Params

	movementRate float64
	maxFish      float64
	constantPop  bool
	perimRatio   float64
	heightAdj    float64
	rim          []model.Point
}

// NewSimulator builds a simulator for the given trap, filling unset params
// with defaults.
func NewSimulator(spec model.TrapSpec, p Params) *Simulator {
	if p.MovementRate == 0 {
		p.MovementRate = defaultMovementRate
	}
	if p.MaxFish == 0 {
		p.MaxFish = defaultMaxFish
	}
	if p.ReferenceRadius == 0 {
		p.ReferenceRadius = defaultReferenceRadius
	}
	constantPop := true
	if p.ConstantPopulation != nil {
		constantPop = *p.ConstantPopulation
	}
	p.ConstantPopulation = &constantPop
	return &Simulator{
		spec:         spec,
		params:       p,
		movementRate: p.MovementRate,
		maxFish:      p.MaxFish,
		constantPop:  constantPop,
		perimRatio:   spec.Radius / p.ReferenceRadius,
		// Escape from a taller trap is harder: 1/min(1, height/4).
		heightAdj: 1 / math.Min(1, spec.Height/4),
		rim:       geometry.Perimeter(spec),
	}
}

// Spec returns the trap the simulator was built for.
func (s *Simulator) Spec() model.TrapSpec { return s.spec }

// Params returns the effective parameters after defaulting.
func (s *Simulator) Params() Params { return s.params }

// MaxFish returns the surrounding population size.
func (s *Simulator) MaxFish() float64 { return s.maxFish }

// Coverage returns the wetted rim fraction at the given tide level.
func (s *Simulator) Coverage(level float64) float64 {
	return geometry.Coverage(level, s.rim, s.spec.Radius, s.spec.Delta)
}

// exchange applies one bidirectional flow step to the state. Both flows are
// computed from the pre-update populations and applied together, so
// CaughtFish+FreeFish is conserved exactly. The order of operations is part
// of the model's reproducibility contract; do not rearrange.
func (s *Simulator) exchange(st *model.SimState, cov float64) {
	freeToCaught := st.FreeFish * cov * s.movementRate * s.perimRatio
	caughtToFree := st.CaughtFish * cov * s.movementRate * s.perimRatio * s.heightAdj
	st.CaughtFish = st.CaughtFish - caughtToFree + freeToCaught
	st.FreeFish = st.FreeFish + caughtToFree - freeToCaught
}

// harvest applies a harvest event of the given size: the cumulative total
// grows, the trap is emptied, and the free population follows the
// population policy. sizeRecorded controls whether the event lands in
// HarvestSizes (automatic mode skips empty-trap closures).
func (s *Simulator) harvest(st *model.SimState, selected float64, sizeRecorded bool) {
	st.CumulativeHarvested = append(st.CumulativeHarvested, st.TotalHarvested()+selected)
	if sizeRecorded {
		st.HarvestSizes = append(st.HarvestSizes, selected)
	}
	if s.constantPop {
		st.FreeFish = s.maxFish
	} else {
		st.FreeFish += st.CaughtFish - selected
	}
	st.CaughtFish = 0
}

// Run simulates the whole tide series in automatic-harvest mode: every tide
// closure harvests floor(CaughtFish). An empty series returns the seeded
// initial state unchanged.
func (s *Simulator) Run(tides []float64) *model.SimState {
	st := model.NewSimState(s.maxFish)
	for _, level := range tides {
		cov := s.Coverage(level)
		s.exchange(st, cov)

		if cov > 0 {
			// Trap open, fish move freely: no harvest this hour.
			st.CumulativeHarvested = append(st.CumulativeHarvested, st.TotalHarvested())
		} else {
			selected := math.Floor(st.CaughtFish)
			s.harvest(st, selected, selected != 0)
		}

		st.InTrap = append(st.InTrap, st.CaughtFish)
		st.OutTrap = append(st.OutTrap, st.FreeFish)
	}
	return st
}

// RunCycle advances the simulation by one harvesting cycle.
//
// With a nil prev it starts from the seeded state and selectedHarvest is
// ignored. Otherwise prev must be a state previously returned with
// Completed=false: the supplied harvest is validated against the trapped
// population, applied at the tide sample where the run paused, and the
// simulation then ticks forward without harvesting until the tide next
// closes over a trap holding at least one whole fish. It pauses there with
// Completed=false, or finishes the series with Completed=true.
//
// prev is mutated and aliased by the returned result; Clone it first if the
// previous state must survive.
func (s *Simulator) RunCycle(prev *model.SimState, selectedHarvest int, tides []float64) (*model.CycleResult, error) {
	st := prev
	if st == nil {
		st = model.NewSimState(s.maxFish)
	} else {
		if selectedHarvest < 0 || float64(selectedHarvest) > st.CaughtFish {
			return nil, &InvalidHarvestError{Selected: selectedHarvest, Caught: st.CaughtFish}
		}
		if st.Hours() >= len(tides) {
			return &model.CycleResult{State: st, Completed: true}, nil
		}

		// The run paused at this sample without processing it; apply the
		// exchange for that hour, then the user's harvest.
		level := tides[st.Hours()]
		s.exchange(st, s.Coverage(level))
		s.harvest(st, float64(selectedHarvest), true)
		st.InTrap = append(st.InTrap, st.CaughtFish)
		st.OutTrap = append(st.OutTrap, st.FreeFish)
	}

	for _, level := range tides[st.Hours():] {
		cov := s.Coverage(level)
		if math.Floor(st.CaughtFish) != 0 && cov == 0 {
			// Closed over a non-empty trap: a harvest decision is due.
			return &model.CycleResult{State: st, Completed: false}, nil
		}
		s.exchange(st, cov)
		st.CumulativeHarvested = append(st.CumulativeHarvested, st.TotalHarvested())
		st.InTrap = append(st.InTrap, st.CaughtFish)
		st.OutTrap = append(st.OutTrap, st.FreeFish)
	}
	return &model.CycleResult{State: st, Completed: true}, nil
}
