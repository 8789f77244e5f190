package view

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"go.uber.org/zap"

	"sandfall/src/universe"
)

const fieldView = "sandbox"

type keyBindings struct {
	key      interface{}
	name     string //empty name keeps the binding out of the help line
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//brush is what the left mouse button paints
type brush struct {
	cell  universe.Cell
	erase bool
}

func (b brush) String() string {
	if b.erase {
		return "eraser"
	}
	return colorize(b.cell, 1) + " " + b.cell.String()
}

type ConsoleUI struct {
	u        universe.Universe
	g        *gocui.Gui
	k        []keyBindings
	log      *zap.Logger
	brush    brush
	template string
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateManual:   aurora.Colorize("paused", aurora.BlueFg).String(),
		universe.RunningStateStep:     "do the step",
		universe.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
	brushKeys = []universe.Cell{universe.Sand, universe.Wood, universe.Fire, universe.Water}
)

//NewViewTerminal creates the interactive terminal view
//template is the one settled by the T key
func NewViewTerminal(log *zap.Logger, template string) (*ConsoleUI, error) {
	if log == nil {
		log = zap.NewNop()
	}
	t := ConsoleUI{
		log:      log,
		brush:    brush{cell: universe.Sand},
		template: template,
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	t.g = g
	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'q', "Q", "Exit", t.cmdQuit, ""},
		{gocui.KeyEsc, "", "", t.cmdQuit, ""},
		{gocui.KeyEnter, "ENTER", "Pause", t.cmdToggle, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Random", t.cmdSettleWithRandom, ""},
		{'t', "T", "Template", t.cmdSettleTemplate, ""},
		{'x', "X", "Eraser", t.cmdEraser, ""},
		{gocui.MouseLeft, "MOUSE", "Paint brush", t.cmdMouseBrush, fieldView},
		{gocui.MouseRight, "", "", t.cmdMousePaint(universe.Water), fieldView},
		{gocui.MouseMiddle, "", "", t.cmdMousePaint(universe.Fire), fieldView},
	}
	for i, c := range brushKeys {
		name := ""
		if i == 0 {
			name = fmt.Sprintf("1-%d", len(brushKeys))
		}
		t.k = append(t.k, keyBindings{rune('1' + i), name, "Brush", t.cmdBrush(c), ""})
	}
	t.g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}

	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return fmt.Errorf("bind %v: %w", kb.key, err)
		}
	}
	return nil
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

func (t *ConsoleUI) Start() {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		t.log.Error("terminal main loop failed", zap.Error(err))
	}
}

func (t *ConsoleUI) Refresh() {
	t.renderField()
	t.renderConfiguration()
	t.renderStatus()
}

func (t *ConsoleUI) renderField() {
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View(fieldView); e == nil {
			t.drawField(v)
		}
		return nil
	})
}

//drawField redraws the whole field, it must run on the gui goroutine
func (t *ConsoleUI) drawField(v *gocui.View) {
	v.Clear()
	maxW, maxH := v.Size()
	_, _ = fmt.Fprint(v, strings.Join(renderRows(t.u.Area(), maxW, maxH), "\n"))
}

func (t *ConsoleUI) renderStatus() {
	t.g.Update(func(g *gocui.Gui) error {
		s := t.u.Status()
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Step", "%s", humanize.Comma(int64(s.IterationNum))))
			_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%s", humanize.Comma(int64(s.LiveCells))))
			_, _ = fmt.Fprintln(v, t.renderProp("Dropped", "%s", humanize.Comma(int64(s.DroppedCells))))
			_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
			_, _ = fmt.Fprintln(v, t.renderProp("Brush", "%v", t.brush))
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	t.g.Update(func(g *gocui.Gui) error {
		c := t.u.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Width, c.Height))
			_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
			_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v", maxStepsDescr(c.MaxSteps)))
			_, _ = fmt.Fprintln(v, t.renderProp("Seed", "%v", c.Seed))
			_, _ = fmt.Fprintln(v, t.renderProp("Template", "%v", t.template))
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 24

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView(fieldView)
		_ = g.DeleteView("help")
		return nil
	}
	if _, err := t.headerLayout(g, 3, "Falling sand simulation"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	v, err := g.SetView(fieldView, leftColumnWidth+1, 3, maxX-1, maxY-5)
	if err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Sandbox"
		v.Frame = true
	}
	//the sandbox view bounds the simulation, it follows terminal resizes
	w, h := v.Size()
	if o := t.u.Options(); o.Width != w || o.Height != h {
		t.u.Resize(w, h)
		t.renderConfiguration()
	}
	t.drawField(v)

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		first := true
		for _, k := range t.k {
			if k.name == "" {
				continue
			}
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		b.WriteString(" (right click: water, middle click: fire)")
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		if maxX < len(text) {
			text = text[:maxX]
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	}
	return
}

func maxStepsDescr(n int) string {
	if n == 0 {
		return "unlimited"
	}
	return humanize.Comma(int64(n)) + " steps"
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdToggle(_ *gocui.View) error {
	t.u.Toggle()
	return nil
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.u.Run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.u.Stop()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.u.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.u.SettleWithRandomData()
	return nil
}

func (t *ConsoleUI) cmdSettleTemplate(_ *gocui.View) error {
	if t.template == "" {
		return nil
	}
	if err := t.u.SettleTemplate(t.template); err != nil {
		t.log.Warn("settle template", zap.String("template", t.template), zap.Error(err))
	}
	return nil
}

func (t *ConsoleUI) cmdEraser(_ *gocui.View) error {
	t.brush = brush{erase: true}
	t.renderStatus()
	return nil
}

func (t *ConsoleUI) cmdBrush(c universe.Cell) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		t.brush = brush{cell: c}
		t.renderStatus()
		return nil
	}
}

func (t *ConsoleUI) cmdMouseBrush(v *gocui.View) error {
	cx, cy := v.Cursor()
	p := universe.Vec2{X: cx, Y: cy}
	var err error
	if t.brush.erase {
		err = t.u.Erase(p)
	} else {
		err = t.u.Paint(p, t.brush.cell)
	}
	if err != nil {
		t.log.Debug("mouse paint rejected", zap.Stringer("pos", p), zap.Error(err))
	}
	return nil
}

func (t *ConsoleUI) cmdMousePaint(c universe.Cell) func(*gocui.View) error {
	return func(v *gocui.View) error {
		cx, cy := v.Cursor()
		p := universe.Vec2{X: cx, Y: cy}
		if err := t.u.Paint(p, c); err != nil {
			t.log.Debug("mouse paint rejected", zap.Stringer("pos", p), zap.Error(err))
		}
		return nil
	}
}
