package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"tidetrap/internal/model"
	"tidetrap/internal/sim"
)

// Config holds all application configuration.
type Config struct {
	Trap       model.TrapSpec `yaml:"trap"`
	Simulation sim.Params     `yaml:"simulation"`
	Tide       struct {
		CSVPath string `yaml:"csv_path"`
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Station string `yaml:"station"`
		Hours   int    `yaml:"hours"`
	} `yaml:"tide"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; the defaults
// describe the Comox trap run over the built-in mock tide.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TIDE_CSV"); v != "" {
		cfg.Tide.CSVPath = v
	}
	if v := os.Getenv("TIDE_BASE_URL"); v != "" {
		cfg.Tide.BaseURL = v
	}
	if v := os.Getenv("TIDE_API_KEY"); v != "" {
		cfg.Tide.APIKey = v
	}
	if v := os.Getenv("TIDE_STATION"); v != "" {
		cfg.Tide.Station = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TRAP_RADIUS"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Trap.Radius = r
		}
	}
	if v := os.Getenv("TRAP_HEIGHT"); v != "" {
		if h, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Trap.Height = h
		}
	}

	// Defaults
	if cfg.Trap == (model.TrapSpec{}) {
		cfg.Trap = model.DefaultTrap
	}
	if cfg.Tide.Hours == 0 {
		cfg.Tide.Hours = 168
	}
	if cfg.Tide.Station == "" {
		cfg.Tide.Station = "comox"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 0 6 * * *"
	}

	return cfg, nil
}

// Validate checks that the configuration describes a runnable trap.
func (c *Config) Validate() error {
	if c.Trap.Radius <= 0 {
		return fmt.Errorf("trap.radius must be positive")
	}
	if c.Simulation.MovementRate < 0 {
		return fmt.Errorf("simulation.movement_rate must not be negative")
	}
	if c.Simulation.MaxFish < 0 {
		return fmt.Errorf("simulation.max_fish must not be negative")
	}
	if c.Tide.Hours < 0 {
		return fmt.Errorf("tide.hours must not be negative")
	}
	return nil
}
