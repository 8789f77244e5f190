package universe

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

//Particle is a cell together with its position
type Particle struct {
	Pos  Vec2
	Cell Cell
}

//Area is a copy of the universe taken at one moment, safe to pass between goroutines
type Area struct {
	Width     int
	Height    int
	Particles []Particle
}

//Options represents the Universe's configurable options
type Options struct {
	Width           int
	Height          int
	Interval        time.Duration
	MaxSteps        int //0 means no limit
	MaxSkippedTicks int
	Seed            int64 //0 means a time based seed
	StopWhenStable  bool  //finish as soon as a step changes nothing
	Advanced        map[string]interface{}
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	DroppedCells  int
	IterationTime time.Duration
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(u Universe)
	Start()
}

//RunningState is the universe running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 50
	DefMaxSteps           = 0
	DefWidth              = 80
	DefHeight             = 24
	DefMaxSkippedTicks    = 5
)

const (
	RunningStateManual   RunningState = 0x0
	RunningStateStep     RunningState = 0x1
	RunningStateRun      RunningState = 0x2
	RunningStateFinished RunningState = 0x3
)

func (s RunningState) String() string {
	switch s {
	case RunningStateManual:
		return "waiting"
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "running"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

var DefaultUniverseOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
}

//BaseUniverse drives a Simulation
//every command is executed by the main loop goroutine, so the simulation itself is never stepped concurrently
type BaseUniverse struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	sim struct {
		*Simulation
		sync.Mutex
	}
	rnd       *RNG
	log       *zap.Logger
	stateCh   chan Status
	views     []Viewer //guarded by state
	runID     int      //guarded by state, bumped on every run
	templates map[string]Template
	controlCh chan func()
	closeCh   chan bool
	doneCh    chan struct{}
}

//NewBaseUniverse creates the BaseUniverse instance and starts its main loop
func NewBaseUniverse(o *Options, stateCh chan Status, log *zap.Logger) *BaseUniverse {
	opts := DefaultUniverseOptions
	if o != nil {
		opts = *o
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	opts.Advanced = map[string]interface{}{
		"engine": "sparse",
		"seed":   opts.Seed,
	}

	u := BaseUniverse{
		options:   opts,
		rnd:       NewRNG(opts.Seed),
		log:       log,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		doneCh:    make(chan struct{}),
		stateCh:   stateCh,
		templates: map[string]Template{},
	}
	u.sim.Simulation = NewSimulation(u.rnd, log.Named("engine"))
	u.sim.UpdateViewport(clampExtent(opts.Width), clampExtent(opts.Height))
	for _, tmpl := range BuiltinTemplates() {
		u.AddTemplate(tmpl)
	}
	go u.mainLoop()
	return &u
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *BaseUniverse) AddTemplate(tmpl Template) {
	u.state.Lock()
	u.templates[tmpl.Name] = tmpl
	u.state.Unlock()
}

//Templates returns the registered templates sorted by name
func (u *BaseUniverse) Templates() []Template {
	u.state.Lock()
	defer u.state.Unlock()
	return sortedTemplates(u.templates)
}

//SettleTemplate populates the universe with the seeding template
func (u *BaseUniverse) SettleTemplate(name string) error {
	u.state.Lock()
	tmpl, ok := u.templates[name]
	u.state.Unlock()
	if !ok {
		return unknownTemplate(name)
	}
	u.sim.Lock()
	err := tmpl.Settle(u.sim.Simulation)
	u.sim.Unlock()
	u.updateLiveCells()
	u.refreshView()
	return err
}

//SettleWithRandomData populates the universe with a random landscape
func (u *BaseUniverse) SettleWithRandomData() {
	if mode := u.mode(); mode == RunningStateManual || mode == RunningStateFinished {
		u.send(u.clear)
		u.send(func() {
			u.sim.Lock()
			n := SettleTerrain(u.sim.Simulation, u.rnd)
			u.sim.Unlock()
			u.log.Info("settled random terrain", zap.Int("cells", n))
			u.updateLiveCells()
			u.refreshView()
		})
	}
}

//Paint places c at p unless the position is occupied
func (u *BaseUniverse) Paint(p Vec2, c Cell) error {
	u.sim.Lock()
	err := u.sim.Paint(p, c)
	u.sim.Unlock()
	if err != nil {
		return err
	}
	u.updateLiveCells()
	u.refreshView()
	return nil
}

//PaintMany places c at every position
func (u *BaseUniverse) PaintMany(ps []Vec2, c Cell) error {
	u.sim.Lock()
	err := u.sim.PaintMany(ps, c)
	u.sim.Unlock()
	u.updateLiveCells()
	u.refreshView()
	return err
}

//Erase removes the cell at p
func (u *BaseUniverse) Erase(p Vec2) error {
	u.sim.Lock()
	err := u.sim.Erase(p)
	u.sim.Unlock()
	if err != nil {
		return err
	}
	u.updateLiveCells()
	u.refreshView()
	return nil
}

//Resize sets the viewport the next steps are bounded by
func (u *BaseUniverse) Resize(width int, height int) {
	w, h := clampExtent(width), clampExtent(height)
	u.sim.Lock()
	cur, ok := u.sim.Window()
	if !ok || cur.Width != w || cur.Height != h {
		u.sim.UpdateViewport(w, h)
		u.log.Debug("viewport resized", zap.Uint16("width", w), zap.Uint16("height", h))
	}
	u.sim.Unlock()
	u.state.Lock()
	u.options.Width, u.options.Height = int(w), int(h)
	u.state.Unlock()
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	u.state.Lock()
	u.views = append(u.views, v)
	u.state.Unlock()
	v.Register(u)
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Status returns current universe status represented by Status struct
func (u *BaseUniverse) Status() Status {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.Status
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() Options {
	u.state.Lock()
	defer u.state.Unlock()
	return u.options
}

//Area returns a copy of the current generation
func (u *BaseUniverse) Area() Area {
	u.sim.Lock()
	defer u.sim.Unlock()
	a := Area{Particles: make([]Particle, 0, u.sim.Len())}
	if w, ok := u.sim.Window(); ok {
		a.Width, a.Height = int(w.Width), int(w.Height)
	}
	for p, c := range u.sim.Snapshot() {
		a.Particles = append(a.Particles, Particle{Pos: p, Cell: c})
	}
	return a
}

//Run starts the universe simulation, returns immediately
func (u *BaseUniverse) Run() {
	u.send(u.run)
}

//Stop stops the universe simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (u *BaseUniverse) Stop() {
	u.send(u.stop)
}

//Toggle pauses a running universe or resumes a paused one, returns immediately
func (u *BaseUniverse) Toggle() {
	u.send(func() {
		if u.mode() == RunningStateRun {
			u.stop()
		} else {
			u.run()
		}
	})
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (u *BaseUniverse) Step() {
	u.send(u.step)
}

//Clear clears the universe (kill all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (u *BaseUniverse) Clear() {
	u.send(u.clear)
}

//Close stops the main loop and waits for it to exit
func (u *BaseUniverse) Close() {
	select {
	case u.closeCh <- true:
	case <-u.doneCh:
	}
	<-u.doneCh
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *BaseUniverse) mainLoop() {
	defer close(u.doneCh)
	for {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-u.closeCh:
			return
		}
	}
}

//send queues the command for the main loop, it reports false once the loop is closed
func (u *BaseUniverse) send(cmd func()) bool {
	select {
	case u.controlCh <- cmd:
		return true
	case <-u.doneCh:
		return false
	}
}

func (u *BaseUniverse) mode() RunningState {
	u.state.Lock()
	defer u.state.Unlock()
	return u.state.RunningMode
}

func (u *BaseUniverse) updateLiveCells() {
	u.sim.Lock()
	n := u.sim.Len()
	u.sim.Unlock()
	u.state.Lock()
	u.state.LiveCells = n
	u.state.Unlock()
}

//switchRunningState switch the state of the universe to RunningState
//also writes the new state to the stateCh to signal upper control software
func (u *BaseUniverse) switchRunningState(to RunningState) {
	u.state.Lock()
	u.state.RunningMode = to
	st := u.state.Status
	u.state.Unlock()
	if u.stateCh != nil {
		u.stateCh <- st
	}
}

//run starts the universe simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
func (u *BaseUniverse) run() {
	if u.mode() == RunningStateRun {
		return
	}
	u.switchRunningState(RunningStateRun)
	o := u.Options()
	u.state.Lock()
	u.runID++
	id := u.runID
	u.state.Unlock()
	go func() {
		var tick <-chan time.Time
		if o.Interval > 0 {
			t := time.NewTicker(o.Interval)
			defer t.Stop()
			tick = t.C
		}
		//busy holds a token while a step is queued or being computed
		busy := make(chan struct{}, 1)
		skipped := 0
		for u.running(id) {
			if tick == nil {
				select {
				case busy <- struct{}{}:
				case <-u.doneCh:
					return
				}
			} else {
				select {
				case busy <- struct{}{}:
					skipped = 0
				default:
					//skip the tick if the universe is still in the calculation mode
					skipped++
				}
			}
			if skipped > o.MaxSkippedTicks {
				u.log.Warn("simulation can't keep up with the interval",
					zap.Duration("interval", o.Interval),
					zap.Int("skipped", skipped))
				u.send(func() {
					if u.running(id) {
						u.switchRunningState(RunningStateFinished)
					}
				})
				return
			}
			if skipped == 0 {
				ok := u.send(func() {
					defer func() { <-busy }()
					if u.running(id) {
						u.step()
					}
				})
				if !ok {
					return
				}
			}
			if tick != nil {
				select {
				case <-tick:
				case <-u.doneCh:
					return
				}
			}
		}
	}()
}

//running reports whether the run started as id is still in progress
//a step in flight reports RunningStateStep, the run only ends once it is stopped or finished
func (u *BaseUniverse) running(id int) bool {
	u.state.Lock()
	defer u.state.Unlock()
	m := u.state.RunningMode
	return u.runID == id && (m == RunningStateRun || m == RunningStateStep)
}

//stop stops the universe running cycle
func (u *BaseUniverse) stop() {
	if u.mode() == RunningStateRun {
		u.switchRunningState(RunningStateManual)
	}
}

//step does the new one state calculation for entire universe
func (u *BaseUniverse) step() {
	rm := u.mode()
	u.switchRunningState(RunningStateStep)

	u.sim.Lock()
	st := u.sim.Step()
	u.sim.Unlock()

	u.state.Lock()
	u.state.IterationNum = st.Generation
	u.state.LiveCells = st.LiveCells
	u.state.DroppedCells += st.Dropped
	u.state.IterationTime = st.Duration
	maxIter := u.options.MaxSteps
	stopWhenStable := u.options.StopWhenStable
	u.state.Unlock()

	finished := (maxIter != 0 && st.Generation >= maxIter) || (stopWhenStable && !st.Changed)
	if finished {
		u.log.Info("simulation finished",
			zap.Int("iteration", st.Generation),
			zap.Int("live", st.LiveCells),
			zap.Bool("stable", !st.Changed))
		u.switchRunningState(RunningStateFinished)
	} else {
		u.switchRunningState(rm)
	}
	u.refreshView()
}

//clear clears the universe data, reset all counters
func (u *BaseUniverse) clear() {
	u.sim.Lock()
	u.sim.Clear()
	u.sim.Unlock()

	u.state.Lock()
	u.state.IterationNum = 0
	u.state.LiveCells = 0
	u.state.DroppedCells = 0
	u.state.IterationTime = 0
	u.state.Unlock()
	u.switchRunningState(RunningStateManual)
	u.refreshView()
}

//refreshView calls Refresh event for all registered views
func (u *BaseUniverse) refreshView() {
	u.state.Lock()
	views := u.views
	u.state.Unlock()
	for _, v := range views {
		v.Refresh()
	}
}

//clampExtent fits a viewport dimension into the packing range
func clampExtent(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}
