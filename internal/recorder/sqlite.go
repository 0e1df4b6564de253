package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists simulation history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the daemon writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                  TEXT PRIMARY KEY,
			timestamp           INTEGER NOT NULL,
			tide_source         TEXT,
			radius              REAL,
			height              REAL,
			slope               REAL,
			delta               REAL,
			intercept           REAL,
			movement_rate       REAL,
			max_fish            REAL,
			constant_population INTEGER,
			hours               INTEGER,
			total_harvested     REAL,
			harvest_events      INTEGER,
			peak_in_trap        REAL,
			final_free          REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS harvest_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			hour      INTEGER,
			size      REAL,
			total     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_harvest_run ON harvest_events(run_id)`,

		`CREATE TABLE IF NOT EXISTS hourly_populations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			hour        INTEGER,
			in_trap     REAL,
			out_trap    REAL,
			cumulative  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hourly_run ON hourly_populations(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := rec.State
	peak := 0.0
	for _, v := range st.InTrap {
		if v > peak {
			peak = v
		}
	}
	constantPop := 1
	if rec.Params.ConstantPopulation != nil && !*rec.Params.ConstantPopulation {
		constantPop = 0
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	_, err = tx.Exec(`INSERT INTO runs
		(id, timestamp, tide_source, radius, height, slope, delta, intercept,
		 movement_rate, max_fish, constant_population,
		 hours, total_harvested, harvest_events, peak_in_trap, final_free)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID, now, rec.TideSource,
		rec.Trap.Radius, rec.Trap.Height, rec.Trap.Slope, rec.Trap.Delta, rec.Trap.Intercept,
		rec.Params.MovementRate, rec.Params.MaxFish, constantPop,
		st.Hours(), st.TotalHarvested(), len(st.HarvestSizes), peak, st.FreeFish,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO hourly_populations
		(run_id, hour, in_trap, out_trap, cumulative) VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for h := range st.InTrap {
		if _, err := stmt.Exec(rec.RunID, h, st.InTrap[h], st.OutTrap[h], st.CumulativeHarvested[h]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) RecordHarvest(evt *HarvestEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO harvest_events
		(run_id, timestamp, hour, size, total)
		VALUES (?,?,?,?,?)`,
		evt.RunID, time.Now().Unix(), evt.Hour, evt.Size, evt.Total,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
