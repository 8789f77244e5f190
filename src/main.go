package main

import (
	"fmt"
	"os"
	"time"

	"github.com/integrii/flaggy"
	"go.uber.org/zap"

	"sandfall/src/config"
	"sandfall/src/universe"
	"sandfall/src/view"
)

const (
	defConfigPath     = "sandfall.toml"
	defInteractiveLog = "sandfall.log"
)

//EnvOptions holds the command line, non zero values override the config file
type EnvOptions struct {
	configPath  string
	interactive bool
	randomData  bool
	printField  bool
	stable      bool
	template    string
	templates   string
	logLevel    string
	width       int
	height      int
	maxSteps    int
	seed        int64
	interval    time.Duration
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	eo := initOptions()

	cfg, err := config.Load(eo.configPath, eo.configPath == defConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	eo.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("options: %w", err)
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	var stateCh chan universe.Status
	if !eo.interactive {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	u := universe.NewBaseUniverse(cfg.UniverseOptions(), stateCh, log)
	defer u.Close()

	if cfg.Templates.Path != "" {
		tmpls, err := universe.LoadTemplates(cfg.Templates.Path)
		if err != nil {
			return err
		}
		for _, tmpl := range tmpls {
			u.AddTemplate(tmpl)
		}
		log.Info("templates loaded", zap.String("path", cfg.Templates.Path), zap.Int("count", len(tmpls)))
	}

	if eo.randomData {
		u.SettleWithRandomData()
	} else if cfg.Templates.Default != "" {
		if err := u.SettleTemplate(cfg.Templates.Default); err != nil {
			return err
		}
	}

	if eo.interactive {
		v, err := view.NewViewTerminal(log.Named("ui"), cfg.Templates.Default)
		if err != nil {
			return err
		}
		u.RegisterViewer(v)
		u.Run()
		v.Start()
		return nil
	}

	out := view.NewConsoleOut(10, eo.printField)
	u.RegisterViewer(out)
	out.Start()
	u.Run()
	for st := range stateCh {
		if st.RunningMode == universe.RunningStateFinished {
			break
		}
	}
	return nil
}

func initOptions() *EnvOptions {
	eo := &EnvOptions{configPath: defConfigPath}

	flaggy.SetName("sandfall")
	flaggy.SetDescription("Falling sand cellular automaton")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&eo.configPath, "c", "config", "Path to the TOML config file")
	flaggy.Int(&eo.width, "x", "width", "Width of a simulation field")
	flaggy.Int(&eo.height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&eo.interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 50ms")
	flaggy.Int(&eo.maxSteps, "s", "maxSteps", "Limit the simulation to maxSteps")
	flaggy.Int64(&eo.seed, "", "seed", "Seed of the random source, 0 picks one")
	flaggy.Bool(&eo.stable, "", "stable", "Finish as soon as the field stops changing")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.Bool(&eo.printField, "p", "print", "Print the field once the simulation finishes")
	flaggy.String(&eo.template, "t", "template", "Template to settle on start")
	flaggy.String(&eo.templates, "f", "templates", "Path to a YAML templates file")
	flaggy.String(&eo.logLevel, "l", "logLevel", "Log level [debug|info|warn|error]")

	flaggy.Parse()

	return eo
}

//apply overrides the config with the values given on the command line
func (eo *EnvOptions) apply(cfg *config.Config) {
	if eo.width != 0 {
		cfg.Simulation.Width = eo.width
	}
	if eo.height != 0 {
		cfg.Simulation.Height = eo.height
	}
	if eo.interval != 0 {
		cfg.Simulation.Interval = eo.interval
	}
	if eo.maxSteps != 0 {
		cfg.Simulation.MaxSteps = eo.maxSteps
	}
	if eo.seed != 0 {
		cfg.Simulation.Seed = eo.seed
	}
	if eo.stable {
		cfg.Simulation.StopWhenStable = true
	}
	if eo.template != "" {
		cfg.Templates.Default = eo.template
	}
	if eo.templates != "" {
		cfg.Templates.Path = eo.templates
	}
	if eo.logLevel != "" {
		cfg.Logging.Level = eo.logLevel
	}

	if eo.interactive {
		//the terminal is taken by the ui
		switch cfg.Logging.Output {
		case "", "stderr", "stdout":
			cfg.Logging.Output = defInteractiveLog
		}
	} else if cfg.Simulation.MaxSteps == 0 {
		//a headless run needs an end
		cfg.Simulation.StopWhenStable = true
	}
}
