package sim

import (
	"errors"
	"math"
	"testing"

	"tidetrap/internal/model"
	"tidetrap/internal/tide"
)

func weekTide(t *testing.T) []float64 {
	t.Helper()
	levels, err := tide.NewMockSource().Levels()
	if err != nil {
		t.Fatalf("mock tide: %v", err)
	}
	return levels
}

func boolPtr(b bool) *bool { return &b }

// Golden values for the regression scenario: default Comox trap, one week
// of the mock tide (168 hourly samples), constant-population mode.
var goldenSizes = []float64{31, 33, 31, 33, 33, 31, 33, 31, 33, 33, 31, 33, 31, 33}

const (
	goldenTotal           = 450.0
	goldenConservingTotal = 366.0
)

func TestRun_GoldenScenario(t *testing.T) {
	s := NewSimulator(model.DefaultTrap, Params{})
	st := s.Run(weekTide(t))

	if got, want := len(st.CumulativeHarvested), 169; got != want {
		t.Fatalf("cumulative history length = %d, want %d", got, want)
	}
	if math.Abs(st.TotalHarvested()-goldenTotal) > 1e-6 {
		t.Errorf("total harvested = %.9f, want %.0f", st.TotalHarvested(), goldenTotal)
	}
	if len(st.HarvestSizes) != len(goldenSizes) {
		t.Fatalf("harvest events = %d, want %d", len(st.HarvestSizes), len(goldenSizes))
	}
	for i, want := range goldenSizes {
		if math.Abs(st.HarvestSizes[i]-want) > 1e-6 {
			t.Errorf("harvest %d = %.9f, want %.0f", i, st.HarvestSizes[i], want)
		}
	}
}

func TestRun_GoldenScenarioConserving(t *testing.T) {
	s := NewSimulator(model.DefaultTrap, Params{ConstantPopulation: boolPtr(false)})
	st := s.Run(weekTide(t))

	if math.Abs(st.TotalHarvested()-goldenConservingTotal) > 1e-6 {
		t.Errorf("total harvested = %.9f, want %.0f", st.TotalHarvested(), goldenConservingTotal)
	}
	// With no regeneration the system only loses what is harvested.
	for i := range st.InTrap {
		total := st.InTrap[i] + st.OutTrap[i] + st.CumulativeHarvested[i]
		if math.Abs(total-1000) > 1e-6 {
			t.Fatalf("hour %d: population+harvest = %.9f, want 1000", i, total)
		}
	}
}

func TestRun_ExchangeConservesPopulation(t *testing.T) {
	s := NewSimulator(model.DefaultTrap, Params{})
	levels := weekTide(t)
	st := s.Run(levels)

	for i := 1; i < len(st.InTrap); i++ {
		if s.Coverage(levels[i-1]) == 0 {
			continue // harvest hour: the population policy applies
		}
		before := st.InTrap[i-1] + st.OutTrap[i-1]
		after := st.InTrap[i] + st.OutTrap[i]
		if math.Abs(before-after) > 1e-9 {
			t.Fatalf("hour %d: exchange changed total population %.12f -> %.12f", i, before, after)
		}
	}
}

func TestRun_CumulativeHarvestMonotonic(t *testing.T) {
	s := NewSimulator(model.DefaultTrap, Params{})
	st := s.Run(weekTide(t))

	for i := 1; i < len(st.CumulativeHarvested); i++ {
		if st.CumulativeHarvested[i] < st.CumulativeHarvested[i-1] {
			t.Fatalf("cumulative harvest decreased at hour %d: %.6f < %.6f",
				i, st.CumulativeHarvested[i], st.CumulativeHarvested[i-1])
		}
	}
}

func TestRun_EmptyTideSeries(t *testing.T) {
	s := NewSimulator(model.DefaultTrap, Params{})
	st := s.Run(nil)

	if st.Hours() != 0 {
		t.Errorf("expected zero hours, got %d", st.Hours())
	}
	if st.CaughtFish != 0 || st.FreeFish != 1000 {
		t.Errorf("initial populations disturbed: caught=%.1f free=%.1f", st.CaughtFish, st.FreeFish)
	}
	if len(st.CumulativeHarvested) != 1 || st.CumulativeHarvested[0] != 0 {
		t.Errorf("expected seeded cumulative history, got %v", st.CumulativeHarvested)
	}
}

func TestRunCycle_ReproducesAutomaticRun(t *testing.T) {
	s := NewSimulator(model.DefaultTrap, Params{})
	levels := weekTide(t)
	want := s.Run(levels)

	res, err := s.RunCycle(nil, 0, levels)
	if err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	cycles := 0
	for !res.Completed {
		cycles++
		if cycles > 1000 {
			t.Fatal("cycle loop did not terminate")
		}
		selected := int(math.Floor(res.State.CaughtFish))
		res, err = s.RunCycle(res.State, selected, levels)
		if err != nil {
			t.Fatalf("cycle %d: %v", cycles, err)
		}
	}

	got := res.State
	if cycles != len(goldenSizes) {
		t.Errorf("expected %d harvest pauses, got %d", len(goldenSizes), cycles)
	}
	compareHistories(t, "cumulative", want.CumulativeHarvested, got.CumulativeHarvested)
	compareHistories(t, "in_trap", want.InTrap, got.InTrap)
	compareHistories(t, "out_trap", want.OutTrap, got.OutTrap)
	compareHistories(t, "harvest_sizes", want.HarvestSizes, got.HarvestSizes)
}

func compareHistories(t *testing.T, name string, want, got []float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("%s: length %d != %d", name, len(got), len(want))
	}
	for i := range want {
		if math.Abs(want[i]-got[i]) > 1e-9 {
			t.Fatalf("%s[%d] = %.12f, want %.12f", name, i, got[i], want[i])
		}
	}
}

func TestRunCycle_HarvestValidation(t *testing.T) {
	s := NewSimulator(model.DefaultTrap, Params{})
	levels := weekTide(t)

	res, err := s.RunCycle(nil, 0, levels)
	if err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	if res.Completed {
		t.Fatal("expected the tide to close over a non-empty trap during the week")
	}

	caught := res.State.CaughtFish
	whole := int(math.Floor(caught))

	// Too large and negative selections must fail without touching state.
	for _, bad := range []int{whole + 1, -1} {
		if _, err := s.RunCycle(res.State, bad, levels); err == nil {
			t.Errorf("harvest %d of %.3f caught: expected error", bad, caught)
		} else {
			var ihe *InvalidHarvestError
			if !errors.As(err, &ihe) {
				t.Errorf("harvest %d: error type %T, want *InvalidHarvestError", bad, err)
			}
		}
	}
	if res.State.CaughtFish != caught {
		t.Fatal("rejected harvest mutated state")
	}

	// Exactly floor(caught) is accepted.
	if _, err := s.RunCycle(res.State, whole, levels); err != nil {
		t.Errorf("harvest %d of %.3f caught: unexpected error %v", whole, caught, err)
	}
}

func TestRunCycle_EmptySeries(t *testing.T) {
	s := NewSimulator(model.DefaultTrap, Params{})
	res, err := s.RunCycle(nil, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Completed {
		t.Error("empty series should complete immediately")
	}
	if res.State.Hours() != 0 {
		t.Errorf("expected zero hours, got %d", res.State.Hours())
	}
}

func TestNewSimulator_Defaults(t *testing.T) {
	s := NewSimulator(model.DefaultTrap, Params{})
	p := s.Params()
	if p.MovementRate != 0.025 {
		t.Errorf("movement rate default = %v, want 0.025", p.MovementRate)
	}
	if p.MaxFish != 1000 {
		t.Errorf("max fish default = %v, want 1000", p.MaxFish)
	}
	if p.ConstantPopulation == nil || !*p.ConstantPopulation {
		t.Error("constant population should default to true")
	}
}
