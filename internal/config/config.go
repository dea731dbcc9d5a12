package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth         = 800.0
	DefaultHeight        = 600.0
	DefaultBalls         = 10
	DefaultRadius        = 10.0
	DefaultMass          = 1.0
	DefaultMaxSpeed      = 1.0
	DefaultDt            = 1.0
	DefaultTickInterval  = 16 * time.Millisecond
	DefaultDrainInterval = 100 * time.Millisecond
	DefaultLogPath       = "ballsim-diagnostics.log"
)

type Config struct {
	Table     TableConfig     `yaml:"table" toml:"table"`
	Balls     BallsConfig     `yaml:"balls" toml:"balls"`
	Engine    EngineConfig    `yaml:"engine" toml:"engine"`
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

type TableConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

type BallsConfig struct {
	Count  int     `yaml:"count" toml:"count"`
	Radius float64 `yaml:"radius" toml:"radius"`
	Mass   float64 `yaml:"mass" toml:"mass"`
	// MaxSpeed bounds each velocity component: vx, vy are drawn from [-MaxSpeed, MaxSpeed].
	MaxSpeed float64 `yaml:"max_speed" toml:"max_speed"`
}

type EngineConfig struct {
	// TickInterval of zero disables the background driver; ticks then only
	// happen through explicit Step calls.
	TickInterval time.Duration `yaml:"tick_interval" toml:"tick_interval"`
	Dt           float64       `yaml:"dt" toml:"dt"`
	Seed         int64         `yaml:"seed" toml:"seed"`
}

type TelemetryConfig struct {
	Enabled       bool          `yaml:"enabled" toml:"enabled"`
	Path          string        `yaml:"path" toml:"path"`
	DrainInterval time.Duration `yaml:"drain_interval" toml:"drain_interval"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
}

func DefaultConfig() *Config {
	return &Config{
		Table: TableConfig{Width: DefaultWidth, Height: DefaultHeight},
		Balls: BallsConfig{
			Count:    DefaultBalls,
			Radius:   DefaultRadius,
			Mass:     DefaultMass,
			MaxSpeed: DefaultMaxSpeed,
		},
		Engine: EngineConfig{
			TickInterval: DefaultTickInterval,
			Dt:           DefaultDt,
		},
		Telemetry: TelemetryConfig{
			Enabled:       true,
			Path:          DefaultLogPath,
			DrainInterval: DefaultDrainInterval,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a config file on top of the defaults. Files ending in .toml are
// parsed as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Table.Width <= 0 || c.Table.Height <= 0 {
		errs = append(errs, fmt.Errorf("table must be positive, got %gx%g", c.Table.Width, c.Table.Height))
	}
	if c.Balls.Count < 0 {
		errs = append(errs, fmt.Errorf("ball count must not be negative, got %d", c.Balls.Count))
	}
	if c.Balls.Radius <= 0 {
		errs = append(errs, fmt.Errorf("radius must be positive, got %g", c.Balls.Radius))
	}
	if c.Balls.Mass <= 0 {
		errs = append(errs, fmt.Errorf("mass must be positive, got %g", c.Balls.Mass))
	}
	if c.Balls.MaxSpeed < 0 {
		errs = append(errs, fmt.Errorf("max speed must not be negative, got %g", c.Balls.MaxSpeed))
	}
	if 2*c.Balls.Radius > c.Table.Width || 2*c.Balls.Radius > c.Table.Height {
		errs = append(errs, fmt.Errorf("ball diameter %g does not fit the table", 2*c.Balls.Radius))
	}
	if c.Engine.Dt <= 0 {
		errs = append(errs, fmt.Errorf("dt must be positive, got %g", c.Engine.Dt))
	}
	if c.Engine.TickInterval < 0 || c.Telemetry.DrainInterval < 0 {
		errs = append(errs, errors.New("intervals must not be negative"))
	}
	return errors.Join(errs...)
}
