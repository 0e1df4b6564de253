package scheduler

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"tidetrap/internal/model"
	"tidetrap/internal/recorder"
	"tidetrap/internal/sim"
	"tidetrap/internal/tide"
)

// Scheduler periodically refreshes the tide series from the configured
// source, re-runs the automatic simulation, and records the outcome.
type Scheduler struct {
	Cron      *cron.Cron
	Simulator *sim.Simulator
	Source    tide.Source
	Recorder  recorder.Recorder
}

// NewScheduler creates a new Scheduler.
func NewScheduler(simulator *sim.Simulator, src tide.Source, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Simulator: simulator,
		Source:    src,
		Recorder:  rec,
	}
}

// RegisterAll registers the refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, func() {
		if _, _, err := s.Refresh(); err != nil {
			log.Printf("[ERROR] scheduled refresh: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// Refresh fetches the latest tide series, runs the automatic simulation,
// and records a run summary. Also used for manual triggers; the state and
// series come back so one-shot callers can report on them.
func (s *Scheduler) Refresh() (*model.SimState, []float64, error) {
	log.Printf("[INFO] refreshing simulation from %s", s.Source.Name())
	levels, err := s.Source.Levels()
	if err != nil {
		return nil, nil, fmt.Errorf("fetch tide series: %w", err)
	}

	st := s.Simulator.Run(levels)
	runID := uuid.NewString()

	if err := s.Recorder.RecordRun(&recorder.RunRecord{
		RunID:      runID,
		TideSource: s.Source.Name(),
		Trap:       s.Simulator.Spec(),
		Params:     s.Simulator.Params(),
		State:      st,
	}); err != nil {
		log.Printf("[ERROR] record run %s: %v", runID, err)
	}

	log.Printf("[INFO] run %s: %d hours, %.0f fish harvested over %d events",
		runID, st.Hours(), st.TotalHarvested(), len(st.HarvestSizes))
	return st, levels, nil
}
