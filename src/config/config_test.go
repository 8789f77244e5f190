package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sandfall.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[simulation]
width = 120
interval = "20ms"
seed = 42
stop_when_stable = true

[templates]
default = "rain"

[logging]
level = "debug"
format = "json"
`)
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatal(err)
	}
	s := cfg.Simulation
	if s.Width != 120 || s.Interval != 20*time.Millisecond || s.Seed != 42 || !s.StopWhenStable {
		t.Fatalf("simulation = %+v", s)
	}
	//keys missing from the file keep their defaults
	if s.Height != Defaults().Simulation.Height || cfg.Logging.Output != "stderr" {
		t.Fatalf("defaults were lost: %+v %+v", s, cfg.Logging)
	}
	if cfg.Templates.Default != "rain" || cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.toml")
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *Defaults() {
		t.Fatalf("config = %+v, want defaults", cfg)
	}
	if _, err := Load(path, false); err == nil {
		t.Fatal("a required config file may not be missing")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[simulation\n", "parse config"},
		{"negative steps", "[simulation]\nmax_steps = -1\n", "max_steps"},
		{"huge width", "[simulation]\nwidth = 70000\n", "out of range"},
		{"negative skipped ticks", "[simulation]\nmax_skipped_ticks = -1\n", "max_skipped_ticks"},
		{"format", "[logging]\nformat = \"xml\"\n", "logging format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), false)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestUniverseOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Simulation.MaxSteps = 9
	cfg.Simulation.Seed = 3
	o := cfg.UniverseOptions()
	if o.Width != cfg.Simulation.Width || o.Height != cfg.Simulation.Height || o.Interval != cfg.Simulation.Interval {
		t.Fatalf("options = %+v", o)
	}
	if o.MaxSteps != 9 || o.Seed != 3 || o.MaxSkippedTicks != cfg.Simulation.MaxSkippedTicks {
		t.Fatalf("options = %+v", o)
	}
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandfall.log")
	log, err := NewLogger(LoggingConfig{Level: "warn", Format: "json", Output: path})
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hidden")
	log.Warn("shown")
	_ = log.Sync()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "hidden") || !strings.Contains(string(raw), `"msg":"shown"`) {
		t.Fatalf("log file = %s", raw)
	}
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandfall.log")
	log, err := NewLogger(LoggingConfig{Level: "loud", Output: path})
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(-1) || !log.Core().Enabled(0) {
		t.Fatal("unknown level must fall back to info")
	}
}
