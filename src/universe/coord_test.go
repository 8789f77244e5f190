package universe

import (
	"errors"
	"math"
	"testing"
)

func TestPackKey(t *testing.T) {
	if got := PackKey(123, 102); got != 8061030 {
		t.Fatalf("PackKey(123, 102) = %d, want 8061030", got)
	}
	x, y := UnpackKey(8061030)
	if x != 123 || y != 102 {
		t.Fatalf("UnpackKey(8061030) = (%d, %d), want (123, 102)", x, y)
	}
}

func TestPackKeyRoundTrip(t *testing.T) {
	edges := []uint16{0, 1, 2, 255, 256, 4095, 32767, 32768, 65534, math.MaxUint16}
	for _, x := range edges {
		for _, y := range edges {
			gx, gy := UnpackKey(PackKey(x, y))
			if gx != x || gy != y {
				t.Fatalf("round trip of (%d, %d) gave (%d, %d)", x, y, gx, gy)
			}
		}
	}
	for x := 0; x <= math.MaxUint16; x += 257 {
		for y := 0; y <= math.MaxUint16; y += 263 {
			v := Vec2{X: x, Y: y}
			k, err := v.Key()
			if err != nil {
				t.Fatalf("%v.Key(): %v", v, err)
			}
			if got := k.Vec2(); got != v {
				t.Fatalf("round trip of %v gave %v", v, got)
			}
		}
	}
}

func TestPackKeyIsCollisionFree(t *testing.T) {
	seen := make(map[Key]Vec2)
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			k := PackKey(uint16(x), uint16(y))
			if prev, ok := seen[k]; ok {
				t.Fatalf("(%d, %d) and %v share key %d", x, y, prev, k)
			}
			seen[k] = Vec2{X: x, Y: y}
		}
	}
}

func TestVec2KeyRejectsInvalid(t *testing.T) {
	for _, v := range []Vec2{
		{-1, 0},
		{0, -1},
		{-5, -5},
		{math.MaxUint16 + 1, 0},
		{0, math.MaxUint16 + 1},
	} {
		if _, err := v.Key(); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("%v.Key() error = %v, want ErrInvalidCoordinate", v, err)
		}
	}
}

func TestVec2Arithmetic(t *testing.T) {
	a := Vec2{X: 3, Y: -2}
	b := Vec2{X: -1, Y: 5}
	if got := a.Add(b); got != (Vec2{2, 3}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vec2{4, -7}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Mul(3); got != (Vec2{9, -6}) {
		t.Errorf("Mul = %v", got)
	}
}

func TestDirectionOffsets(t *testing.T) {
	seen := map[Vec2]Direction{}
	for _, d := range Directions {
		o := d.Vec2()
		if o.X < -1 || o.X > 1 || o.Y < -1 || o.Y > 1 || o == (Vec2{}) {
			t.Fatalf("%v has offset %v, want a unit offset", d, o)
		}
		if prev, ok := seen[o]; ok {
			t.Fatalf("%v and %v share offset %v", d, prev, o)
		}
		seen[o] = d
	}
	//rows grow downwards
	if Down.Vec2() != (Vec2{0, 1}) || Up.Vec2() != (Vec2{0, -1}) {
		t.Fatalf("unexpected vertical offsets: down %v up %v", Down.Vec2(), Up.Vec2())
	}
	if DownLeft.Vec2() != (Vec2{-1, 1}) || DownRight.Vec2() != (Vec2{1, 1}) {
		t.Fatalf("unexpected diagonal offsets: %v %v", DownLeft.Vec2(), DownRight.Vec2())
	}
}
