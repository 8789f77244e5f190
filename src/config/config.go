package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"sandfall/src/universe"
)

//Config is the content of the TOML config file
type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Templates  TemplatesConfig  `toml:"templates"`
	Logging    LoggingConfig    `toml:"logging"`
}

//SimulationConfig maps onto universe.Options
type SimulationConfig struct {
	Width           int           `toml:"width"`
	Height          int           `toml:"height"`
	Interval        time.Duration `toml:"interval"`
	MaxSteps        int           `toml:"max_steps"`
	MaxSkippedTicks int           `toml:"max_skipped_ticks"`
	Seed            int64         `toml:"seed"` //0 picks a time based seed
	StopWhenStable  bool          `toml:"stop_when_stable"`
}

//TemplatesConfig selects the template files and the template settled on start
type TemplatesConfig struct {
	Path    string `toml:"path"`    //optional YAML file with extra templates
	Default string `toml:"default"` //template settled on start, empty for none
}

//LoggingConfig describes the zap logger
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` //"json" or "console"
	Output string `toml:"output"` //"stderr", "stdout" or a file path
}

//Load reads the config file at path over the defaults
//a missing file is not an error when optional is set
func Load(path string, optional bool) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

//Defaults returns the configuration used when no file is given
func Defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Width:           universe.DefWidth,
			Height:          universe.DefHeight,
			Interval:        universe.DefSimulationInterval,
			MaxSteps:        universe.DefMaxSteps,
			MaxSkippedTicks: universe.DefMaxSkippedTicks,
		},
		Templates: TemplatesConfig{
			Default: "hourglass",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

//Validate rejects values the universe can't run with
func (c *Config) Validate() error {
	s := c.Simulation
	if s.Width < 0 || s.Width > 65535 || s.Height < 0 || s.Height > 65535 {
		return fmt.Errorf("simulation size %dx%d out of range", s.Width, s.Height)
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("negative max_steps %d", s.MaxSteps)
	}
	if s.MaxSkippedTicks < 0 {
		return fmt.Errorf("negative max_skipped_ticks %d", s.MaxSkippedTicks)
	}
	if s.Interval < 0 {
		return fmt.Errorf("negative interval %v", s.Interval)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	return nil
}

//UniverseOptions maps the simulation section onto the engine options
func (c *Config) UniverseOptions() *universe.Options {
	s := c.Simulation
	return &universe.Options{
		Width:           s.Width,
		Height:          s.Height,
		Interval:        s.Interval,
		MaxSteps:        s.MaxSteps,
		MaxSkippedTicks: s.MaxSkippedTicks,
		Seed:            s.Seed,
		StopWhenStable:  s.StopWhenStable,
	}
}
