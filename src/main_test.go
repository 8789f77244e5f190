package main

import (
	"testing"
	"time"

	"sandfall/src/config"
)

func TestApplyOverridesNonZeroValues(t *testing.T) {
	cfg := config.Defaults()
	eo := &EnvOptions{
		width:     100,
		interval:  5 * time.Millisecond,
		maxSteps:  12,
		seed:      9,
		template:  "rain",
		templates: "extra.yaml",
		logLevel:  "debug",
	}
	eo.apply(cfg)
	s := cfg.Simulation
	if s.Width != 100 || s.Height != config.Defaults().Simulation.Height {
		t.Fatalf("size = %dx%d", s.Width, s.Height)
	}
	if s.Interval != 5*time.Millisecond || s.MaxSteps != 12 || s.Seed != 9 {
		t.Fatalf("simulation = %+v", s)
	}
	if s.StopWhenStable {
		t.Fatal("a bounded headless run must not be forced to stop when stable")
	}
	if cfg.Templates.Default != "rain" || cfg.Templates.Path != "extra.yaml" || cfg.Logging.Level != "debug" {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestApplyHeadlessNeedsAnEnd(t *testing.T) {
	cfg := config.Defaults()
	(&EnvOptions{}).apply(cfg)
	if !cfg.Simulation.StopWhenStable {
		t.Fatal("unbounded headless run must stop when stable")
	}
}

func TestApplyInteractiveMovesLogsOffTheTerminal(t *testing.T) {
	cfg := config.Defaults()
	(&EnvOptions{interactive: true}).apply(cfg)
	if cfg.Logging.Output != defInteractiveLog {
		t.Fatalf("log output = %q", cfg.Logging.Output)
	}
	if cfg.Simulation.StopWhenStable {
		t.Fatal("interactive runs go on until quit")
	}

	cfg = config.Defaults()
	cfg.Logging.Output = "/tmp/custom.log"
	(&EnvOptions{interactive: true}).apply(cfg)
	if cfg.Logging.Output != "/tmp/custom.log" {
		t.Fatalf("log output = %q", cfg.Logging.Output)
	}
}
