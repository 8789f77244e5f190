package universe

import (
	"errors"
	"fmt"
	"strings"
)

//ErrUnknownMaterial is returned when a material name can't be parsed
var ErrUnknownMaterial = errors.New("unknown material")

//Cell is the material occupying a grid position
type Cell uint8

const (
	Sand Cell = iota
	Wood
	Fire
	Water
	//Border is synthesized for out of bounds neighbours and never stored
	Border
)

var cellNames = [...]string{
	Sand:   "sand",
	Wood:   "wood",
	Fire:   "fire",
	Water:  "water",
	Border: "border",
}

func (c Cell) String() string {
	if int(c) >= len(cellNames) {
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
	return cellNames[c]
}

//ParseCell returns the material with the given name (case insensitive)
func ParseCell(name string) (Cell, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for c, cn := range cellNames {
		if cn == n {
			return Cell(c), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
}

//ActionKind enumerates the outcomes of a cell update
type ActionKind uint8

const (
	NoChange ActionKind = iota
	ReplaceWith
	MoveTo
	Vanish
)

//Action is the outcome of evaluating one cell for one step
//Cell is meaningful for ReplaceWith, Direction for MoveTo
type Action struct {
	Kind      ActionKind
	Cell      Cell
	Direction Direction
}

func (a Action) String() string {
	switch a.Kind {
	case NoChange:
		return "none"
	case ReplaceWith:
		return "replace with " + a.Cell.String()
	case MoveTo:
		return "move " + a.Direction.String()
	case Vanish:
		return "vanish"
	}
	return fmt.Sprintf("action(%d)", uint8(a.Kind))
}

//Neighbours holds copies of the cells around a position
//a direction without a cell is empty space, which is not the same as a Border
type Neighbours struct {
	cells   [len(Directions)]Cell
	present uint8
}

//Set records the cell found in direction d
func (n *Neighbours) Set(d Direction, c Cell) {
	n.cells[d] = c
	n.present |= 1 << d
}

//Get returns the cell in direction d, ok is false for empty space
func (n Neighbours) Get(d Direction) (c Cell, ok bool) {
	if !n.Has(d) {
		return 0, false
	}
	return n.cells[d], true
}

//Has reports whether direction d is occupied
func (n Neighbours) Has(d Direction) bool {
	return n.present&(1<<d) != 0
}

//Any reports whether any neighbour is of material c
func (n Neighbours) Any(c Cell) bool {
	for _, d := range Directions {
		if got, ok := n.Get(d); ok && got == c {
			return true
		}
	}
	return false
}

//Len returns the number of occupied directions
func (n Neighbours) Len() int {
	l := 0
	for _, d := range Directions {
		if n.Has(d) {
			l++
		}
	}
	return l
}

//Rand is the random source used for tie breaks
type Rand interface {
	Bool() bool
}

//Update decides the fate of cell c from its neighbours
func Update(c Cell, n Neighbours, r Rand) Action {
	switch c {
	case Sand, Water:
		return fall(n, r)
	case Wood:
		return burn(n)
	case Fire:
		return Action{Kind: Vanish}
	}
	//Border is never stored, so it is never updated
	return Action{Kind: NoChange}
}

//fall moves straight down when possible, otherwise tries both lower diagonals
//in an order picked by a coin flip on every call
func fall(n Neighbours, r Rand) Action {
	if !n.Has(Down) {
		return Action{Kind: MoveTo, Direction: Down}
	}
	first, second := DownLeft, DownRight
	if r.Bool() {
		first, second = DownRight, DownLeft
	}
	if !n.Has(first) {
		return Action{Kind: MoveTo, Direction: first}
	}
	if !n.Has(second) {
		return Action{Kind: MoveTo, Direction: second}
	}
	return Action{Kind: NoChange}
}

//burn ignites wood touching fire in any of the eight directions
func burn(n Neighbours) Action {
	if n.Any(Fire) {
		return Action{Kind: ReplaceWith, Cell: Fire}
	}
	return Action{Kind: NoChange}
}
