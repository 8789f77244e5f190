package universe

import (
	"fmt"
	"iter"
)

//MaterialCanvas is the contract offered to the input and rendering layer
//its operations only touch the current generation and never run the simulation
type MaterialCanvas interface {
	Paint(p Vec2, c Cell) error
	PaintMany(ps []Vec2, c Cell) error
	Erase(p Vec2) error
	Snapshot() iter.Seq2[Vec2, Cell]
	UpdateViewport(width uint16, height uint16)
}

var _ MaterialCanvas = (*Simulation)(nil)

//Paint places c at p, occupied positions are left untouched
func (s *Simulation) Paint(p Vec2, c Cell) error {
	_, err := s.grid.Set(p, c)
	return err
}

//PaintMany paints every position, it stops at the first failure
func (s *Simulation) PaintMany(ps []Vec2, c Cell) error {
	for i, p := range ps {
		if err := s.Paint(p, c); err != nil {
			return fmt.Errorf("paint point %d: %w", i, err)
		}
	}
	return nil
}

//Erase removes the cell at p if there is one
func (s *Simulation) Erase(p Vec2) error {
	return s.grid.Remove(p)
}

//Snapshot iterates over the current generation
//every new iteration reflects the grid as it is at that moment
func (s *Simulation) Snapshot() iter.Seq2[Vec2, Cell] {
	return func(yield func(Vec2, Cell) bool) {
		s.grid.walk(func(k Key, c Cell) bool {
			return yield(k.Vec2(), c)
		})
	}
}

//UpdateViewport sets the window used as bounds by the next step
func (s *Simulation) UpdateViewport(width uint16, height uint16) {
	s.window = &Window{Width: width, Height: height}
}
