package recorder

import (
	"tidetrap/internal/model"
	"tidetrap/internal/sim"
)

// RunRecord summarizes one completed simulation for persistence.
type RunRecord struct {
	RunID      string
	TideSource string
	Trap       model.TrapSpec
	Params     sim.Params
	State      *model.SimState
}

// HarvestEvent records a single harvest decision inside a run.
type HarvestEvent struct {
	RunID string
	Hour  int
	Size  float64
	Total float64
}

// Recorder persists simulation history for later analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecordHarvest(evt *HarvestEvent) error
	Close() error
}
