package view

import (
	"strings"

	"github.com/logrusorgru/aurora"

	"sandfall/src/universe"
)

const (
	cellFiller  = "█"
	emptyFiller = " "
)

var palette = map[universe.Cell]aurora.Color{
	universe.Sand:   aurora.YellowFg,
	universe.Wood:   aurora.GreenFg,
	universe.Fire:   aurora.RedFg,
	universe.Water:  aurora.BlueFg,
	universe.Border: aurora.CyanFg,
}

//colorize paints n fillers with the color of the cell
func colorize(c universe.Cell, n int) string {
	return aurora.Colorize(strings.Repeat(cellFiller, n), palette[c]).String()
}

//frameSize returns the extent to draw, an unbounded area is sized to fit its particles
func frameSize(a universe.Area) (w int, h int) {
	if a.Width > 0 && a.Height > 0 {
		return a.Width, a.Height
	}
	for _, p := range a.Particles {
		if p.Pos.X+1 > w {
			w = p.Pos.X + 1
		}
		if p.Pos.Y+1 > h {
			h = p.Pos.Y + 1
		}
	}
	return
}

//renderRows draws the area into at most maxW x maxH colored text rows
//runs of the same material share one escape sequence
func renderRows(a universe.Area, maxW int, maxH int) []string {
	w, h := frameSize(a)
	if w > maxW {
		w = maxW
	}
	if h > maxH {
		h = maxH
	}
	if w <= 0 || h <= 0 {
		return nil
	}

	const empty = -1
	cells := make([]int, w*h)
	for i := range cells {
		cells[i] = empty
	}
	for _, p := range a.Particles {
		if p.Pos.X < w && p.Pos.Y < h {
			cells[p.Pos.Y*w+p.Pos.X] = int(p.Cell)
		}
	}

	rows := make([]string, h)
	var b strings.Builder
	for y := 0; y < h; y++ {
		b.Reset()
		row := cells[y*w : (y+1)*w]
		for x := 0; x < w; {
			run := 1
			for x+run < w && row[x+run] == row[x] {
				run++
			}
			if row[x] == empty {
				b.WriteString(strings.Repeat(emptyFiller, run))
			} else {
				b.WriteString(colorize(universe.Cell(row[x]), run))
			}
			x += run
		}
		rows[y] = strings.TrimRight(b.String(), emptyFiller)
	}
	return rows
}
