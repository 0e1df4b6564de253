package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tidetrap/internal/config"
	"tidetrap/internal/recorder"
	"tidetrap/internal/report"
	"tidetrap/internal/scheduler"
	"tidetrap/internal/server"
	"tidetrap/internal/sim"
	"tidetrap/internal/tide"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	mode := "run"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Pick the tide source: CSV beats API beats built-in mock.
	var src tide.Source
	switch {
	case cfg.Tide.CSVPath != "":
		src = tide.NewCSVSource(cfg.Tide.CSVPath)
	case cfg.Tide.BaseURL != "":
		src = tide.NewAPISource(cfg.Tide.BaseURL, cfg.Tide.APIKey, cfg.Tide.Station, cfg.Tide.Hours, cfg.Proxy)
	default:
		src = tide.NewMockSource()
	}
	log.Printf("[INFO] tide source: %s", src.Name())

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	simulator := sim.NewSimulator(cfg.Trap, cfg.Simulation)

	switch mode {
	case "run":
		runOnce(simulator, src, rec)
	case "serve":
		serve(cfg, simulator, src, rec)
	default:
		log.Fatalf("[FATAL] unknown mode %q (want run or serve)", mode)
	}
}

// runOnce executes the automatic simulation once and prints the report.
func runOnce(simulator *sim.Simulator, src tide.Source, rec recorder.Recorder) {
	sched := scheduler.NewScheduler(simulator, src, rec)
	st, levels, err := sched.Refresh()
	if err != nil {
		log.Fatalf("[FATAL] run: %v", err)
	}
	fmt.Print(report.FormatRunSummary(simulator.Spec(), st, levels))
}

// serve starts the cron refresh plus the interactive harvesting server.
func serve(cfg *config.Config, simulator *sim.Simulator, src tide.Source, rec recorder.Recorder) {
	levels, err := src.Levels()
	if err != nil {
		log.Fatalf("[FATAL] fetch tide series: %v", err)
	}

	sched := scheduler.NewScheduler(simulator, src, rec)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	hub := server.NewHub()
	go hub.Run()
	srv := server.NewServer(hub, simulator, levels, rec)

	httpSrv := &http.Server{Addr: cfg.Server.ListenAddr, Handler: srv.Router}
	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing refresh now")
		go func() {
			if _, _, err := sched.Refresh(); err != nil {
				log.Printf("[ERROR] refresh: %v", err)
			}
		}()
	}

	log.Println("[INFO] tidetrap is running. Press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	_ = httpSrv.Close()
	log.Println("[INFO] tidetrap stopped")
}
