package universe

import (
	"errors"
	"fmt"
)

//ErrBorderNotPlaceable is returned when Border is painted into the grid
var ErrBorderNotPlaceable = errors.New("border can't be placed")

//Grid is the sparse double-buffered cell store
//src is the current generation, dst receives the next one during a step
type Grid struct {
	src map[Key]Cell
	dst map[Key]Cell
}

//NewGrid allocates an empty grid
func NewGrid() *Grid {
	return &Grid{
		src: make(map[Key]Cell),
		dst: make(map[Key]Cell),
	}
}

//Get looks the position up in the current generation
func (g *Grid) Get(p Vec2) (Cell, bool) {
	k, err := p.Key()
	if err != nil {
		return 0, false
	}
	c, ok := g.src[k]
	return c, ok
}

//Set places the cell unless the position is already occupied
//it reports whether the cell was placed
func (g *Grid) Set(p Vec2, c Cell) (bool, error) {
	if c == Border {
		return false, fmt.Errorf("%w at %v", ErrBorderNotPlaceable, p)
	}
	k, err := p.Key()
	if err != nil {
		return false, err
	}
	if _, ok := g.src[k]; ok {
		return false, nil
	}
	g.src[k] = c
	return true, nil
}

//Remove deletes the cell at the position if there is one
func (g *Grid) Remove(p Vec2) error {
	k, err := p.Key()
	if err != nil {
		return err
	}
	delete(g.src, k)
	return nil
}

//Len returns the number of cells in the current generation
func (g *Grid) Len() int {
	return len(g.src)
}

//Clear empties both buffers
func (g *Grid) Clear() {
	clear(g.src)
	clear(g.dst)
}

//walk calls cb for every cell of the current generation, stops when cb returns false
func (g *Grid) walk(cb func(k Key, c Cell) bool) {
	for k, c := range g.src {
		if !cb(k, c) {
			return
		}
	}
}

//lookup reads the current generation by key
func (g *Grid) lookup(k Key) (Cell, bool) {
	c, ok := g.src[k]
	return c, ok
}

//stage writes into the next generation, overwriting what is already staged
func (g *Grid) stage(k Key, c Cell) {
	g.dst[k] = c
}

//clearStaged empties the next generation buffer
func (g *Grid) clearStaged() {
	clear(g.dst)
}

//swap makes the staged generation current and empties the old one
func (g *Grid) swap() {
	g.src, g.dst = g.dst, g.src
	clear(g.dst)
}

//changed reports whether the staged generation differs from the current one
func (g *Grid) changed() bool {
	if len(g.src) != len(g.dst) {
		return true
	}
	for k, c := range g.dst {
		if old, ok := g.src[k]; !ok || old != c {
			return true
		}
	}
	return false
}
