package universe

import (
	"errors"
	"fmt"
	"math"
)

//ErrInvalidCoordinate is returned when a position can't be packed into a Key
var ErrInvalidCoordinate = errors.New("invalid coordinate")

//Key is the packed grid identity of a position
//layout: xxxx xxxx xxxx xxxx yyyy yyyy yyyy yyyy
type Key uint32

//PackKey packs x into the high and y into the low 16 bits
func PackKey(x, y uint16) Key {
	return Key(uint32(x)<<16 | uint32(y))
}

//UnpackKey is the inverse of PackKey
func UnpackKey(k Key) (x, y uint16) {
	return uint16(k >> 16), uint16(k & math.MaxUint16)
}

//Vec2 returns the position encoded by the key
func (k Key) Vec2() Vec2 {
	x, y := UnpackKey(k)
	return Vec2{X: int(x), Y: int(y)}
}

//Vec2 is a signed grid position or offset, row 0 is the top row
type Vec2 struct {
	X int
	Y int
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Mul(k int) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

//Key packs the position, negative or wider than 16 bit components are rejected
func (v Vec2) Key() (Key, error) {
	if v.X < 0 || v.Y < 0 || v.X > math.MaxUint16 || v.Y > math.MaxUint16 {
		return 0, fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinate, v.X, v.Y)
	}
	return PackKey(uint16(v.X), uint16(v.Y)), nil
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%d, %d)", v.X, v.Y)
}

//Direction is one of the eight compass directions
type Direction uint8

const (
	Up Direction = iota
	UpRight
	Right
	DownRight
	Down
	DownLeft
	Left
	UpLeft
)

//Directions lists all the directions clockwise starting from Up
var Directions = [...]Direction{Up, UpRight, Right, DownRight, Down, DownLeft, Left, UpLeft}

var directionOffsets = [...]Vec2{
	Up:        {0, -1},
	UpRight:   {1, -1},
	Right:     {1, 0},
	DownRight: {1, 1},
	Down:      {0, 1},
	DownLeft:  {-1, 1},
	Left:      {-1, 0},
	UpLeft:    {-1, -1},
}

var directionNames = [...]string{
	Up:        "up",
	UpRight:   "up-right",
	Right:     "right",
	DownRight: "down-right",
	Down:      "down",
	DownLeft:  "down-left",
	Left:      "left",
	UpLeft:    "up-left",
}

//Vec2 returns the unit offset of the direction
func (d Direction) Vec2() Vec2 {
	return directionOffsets[d]
}

func (d Direction) String() string {
	if int(d) >= len(directionNames) {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return directionNames[d]
}
