package view

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"sandfall/src/universe"
)

//ConsoleOut is the headless viewer, it reports progress and optionally prints the final field
type ConsoleOut struct {
	u          universe.Universe
	w          io.Writer
	startTime  time.Time
	every      int
	printField bool
}

//NewConsoleOut creates the viewer writing to stdout
//progress is reported every n iterations, printField prints the field once finished
func NewConsoleOut(every int, printField bool) *ConsoleOut {
	return newConsoleOut(os.Stdout, every, printField)
}

func newConsoleOut(w io.Writer, every int, printField bool) *ConsoleOut {
	if every <= 0 {
		every = 10
	}
	return &ConsoleOut{w: w, every: every, printField: printField}
}

func (c *ConsoleOut) Refresh() {
	st := c.u.Status()
	switch st.RunningMode {
	case universe.RunningStateFinished:
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": humanize.Comma(int64(st.IterationNum)),
			"Total time":     totalTime,
			"Live cells":     humanize.Comma(int64(st.LiveCells)),
			"Dropped cells":  humanize.Comma(int64(st.DroppedCells)),
		}
		_, _ = fmt.Fprintln(c.w, "\nFinished:")
		c.printHashData(resultData)
		if c.printField {
			c.renderField()
		}
	case universe.RunningStateRun:
		if st.IterationNum%c.every == 0 {
			_, _ = fmt.Fprintf(c.w, "  Iterations done: %v, live cells: %v\n", st.IterationNum, humanize.Comma(int64(st.LiveCells)))
		}
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	_, _ = fmt.Fprintln(c.w, "Running configuration:")
	_, _ = fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	_, _ = fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	_, _ = fmt.Fprintf(c.w, "  Max iterations: %v\n", maxStepsDescr(o.MaxSteps))
	_, _ = fmt.Fprintf(c.w, "  Stop when stable: %v\n", o.StopWhenStable)
	c.printHashData(o.Advanced)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
}

func (c *ConsoleOut) renderField() {
	a := c.u.Area()
	w, h := frameSize(a)
	_, _ = fmt.Fprintln(c.w)
	for _, row := range renderRows(a, w, h) {
		_, _ = fmt.Fprintln(c.w, row)
	}
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
