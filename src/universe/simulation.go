package universe

import (
	"time"

	"go.uber.org/zap"
)

//EngineState tells whether the engine is between ticks or evaluating one
type EngineState int

const (
	Idle EngineState = iota
	Stepping
)

func (s EngineState) String() string {
	if s == Stepping {
		return "stepping"
	}
	return "idle"
}

//unbounded is the extent used when no window is set, it covers the whole packing domain
const unbounded = 1 << 16

//Window is the current viewport extent, it defines where Border applies
type Window struct {
	Width  uint16
	Height uint16
}

//StepStats describes the outcome of one step
type StepStats struct {
	Generation int
	LiveCells  int
	Changed    bool
	Dropped    int
	Duration   time.Duration
}

//Simulation is the falling sand engine
//it is not safe for concurrent use, callers serialize Step and the canvas operations
type Simulation struct {
	grid       *Grid
	window     *Window
	rnd        Rand
	log        *zap.Logger
	state      EngineState
	generation int
}

//NewSimulation creates an empty unbounded simulation
//a nil rnd means a time seeded RNG, a nil log discards everything
func NewSimulation(rnd Rand, log *zap.Logger) *Simulation {
	if rnd == nil {
		rnd = NewRNG(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulation{
		grid: NewGrid(),
		rnd:  rnd,
		log:  log,
	}
}

//State returns the current engine state
func (s *Simulation) State() EngineState {
	return s.state
}

//Generation returns the number of steps done since creation or the last Clear
func (s *Simulation) Generation() int {
	return s.generation
}

//Len returns the number of live cells
func (s *Simulation) Len() int {
	return s.grid.Len()
}

//Get returns the cell at p in the current generation
func (s *Simulation) Get(p Vec2) (Cell, bool) {
	return s.grid.Get(p)
}

//Window returns the current viewport, ok is false when the grid is unbounded
func (s *Simulation) Window() (w Window, ok bool) {
	if s.window == nil {
		return Window{}, false
	}
	return *s.window, true
}

//Clear kills all the cells and resets the generation counter
func (s *Simulation) Clear() {
	s.grid.Clear()
	s.generation = 0
}

//Step computes the next generation from the current one
//every cell is decided from the pre-step snapshot only, so iteration order
//doesn't matter except for moves landing on the same target: the last
//write wins and which one is last depends on map iteration order
func (s *Simulation) Step() StepStats {
	start := time.Now()
	s.state = Stepping
	defer func() { s.state = Idle }()

	s.grid.clearStaged()
	width, height := s.bounds()
	dropped := 0
	s.grid.walk(func(k Key, c Cell) bool {
		pos := k.Vec2()
		action := Update(c, s.neighbours(pos, width, height), s.rnd)
		if err := s.apply(k, pos, c, action, width, height); err != nil {
			dropped++
			s.log.Warn("cell dropped",
				zap.Stringer("pos", pos),
				zap.Stringer("cell", c),
				zap.Stringer("action", action),
				zap.Error(err))
		}
		return true
	})
	changed := s.grid.changed()
	s.grid.swap()
	s.generation++

	st := StepStats{
		Generation: s.generation,
		LiveCells:  s.grid.Len(),
		Changed:    changed,
		Dropped:    dropped,
		Duration:   time.Since(start),
	}
	s.log.Debug("step done",
		zap.Int("generation", st.Generation),
		zap.Int("live", st.LiveCells),
		zap.Bool("changed", st.Changed),
		zap.Duration("took", st.Duration))
	return st
}

//bounds returns the extent of the playable area
func (s *Simulation) bounds() (width int, height int) {
	if s.window == nil {
		return unbounded, unbounded
	}
	return int(s.window.Width), int(s.window.Height)
}

func inBounds(p Vec2, width int, height int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < width && p.Y < height
}

//neighbours collects the eight surrounding cells of pos
//out of bounds positions resolve to Border, empty positions are left out
func (s *Simulation) neighbours(pos Vec2, width int, height int) (n Neighbours) {
	for _, d := range Directions {
		if c, ok := s.findCell(pos.Add(d.Vec2()), width, height); ok {
			n.Set(d, c)
		}
	}
	return
}

func (s *Simulation) findCell(p Vec2, width int, height int) (Cell, bool) {
	if !inBounds(p, width, height) {
		return Border, true
	}
	k, err := p.Key()
	if err != nil {
		return Border, true
	}
	return s.grid.lookup(k)
}

//apply stages the outcome of action for the cell c found at key k
func (s *Simulation) apply(k Key, pos Vec2, c Cell, action Action, width int, height int) error {
	switch action.Kind {
	case NoChange:
		s.grid.stage(k, c)
	case ReplaceWith:
		s.grid.stage(k, action.Cell)
	case MoveTo:
		target := pos.Add(action.Direction.Vec2())
		if !inBounds(target, width, height) {
			//a move leaving the grid is suppressed
			s.grid.stage(k, c)
			return nil
		}
		tk, err := target.Key()
		if err != nil {
			return err
		}
		s.grid.stage(tk, c)
	case Vanish:
		//nothing is staged, the cell is gone
	}
	return nil
}
