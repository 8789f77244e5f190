package universe

import (
	"errors"
	"testing"
)

//fixedRand always flips the same side
type fixedRand bool

func (r fixedRand) Bool() bool { return bool(r) }

//countingRand counts the coin flips
type countingRand struct {
	flips int
	next  bool
}

func (r *countingRand) Bool() bool {
	r.flips++
	r.next = !r.next
	return r.next
}

func neighboursOf(m map[Direction]Cell) Neighbours {
	var n Neighbours
	for d, c := range m {
		n.Set(d, c)
	}
	return n
}

func TestFallingCells(t *testing.T) {
	move := func(d Direction) Action { return Action{Kind: MoveTo, Direction: d} }
	none := Action{Kind: NoChange}
	tests := []struct {
		name string
		n    map[Direction]Cell
		coin bool
		want Action
	}{
		{"empty below", nil, true, move(Down)},
		{"empty below ignores the sides", map[Direction]Cell{DownLeft: Wood, DownRight: Wood, Left: Sand}, false, move(Down)},
		{"heads tries down right first", map[Direction]Cell{Down: Sand}, true, move(DownRight)},
		{"tails tries down left first", map[Direction]Cell{Down: Sand}, false, move(DownLeft)},
		{"heads falls back to down left", map[Direction]Cell{Down: Sand, DownRight: Wood}, true, move(DownLeft)},
		{"tails falls back to down right", map[Direction]Cell{Down: Sand, DownLeft: Water}, false, move(DownRight)},
		{"border below counts as occupied", map[Direction]Cell{Down: Border}, false, move(DownLeft)},
		{"all blocked", map[Direction]Cell{Down: Sand, DownLeft: Sand, DownRight: Sand}, true, none},
		{"all border", map[Direction]Cell{Down: Border, DownLeft: Border, DownRight: Border}, false, none},
	}
	for _, material := range []Cell{Sand, Water} {
		for _, tt := range tests {
			t.Run(material.String()+"/"+tt.name, func(t *testing.T) {
				got := Update(material, neighboursOf(tt.n), fixedRand(tt.coin))
				if got != tt.want {
					t.Fatalf("Update = %v, want %v", got, tt.want)
				}
			})
		}
	}
}

func TestFallingCellFlipsPerUpdate(t *testing.T) {
	r := &countingRand{}
	n := neighboursOf(map[Direction]Cell{Down: Sand})
	first := Update(Sand, n, r)
	second := Update(Sand, n, r)
	if r.flips != 2 {
		t.Fatalf("got %d coin flips for two updates, want 2", r.flips)
	}
	if first == second {
		t.Fatalf("alternating coin gave the same move twice: %v", first)
	}
	Update(Sand, Neighbours{}, r)
	if r.flips != 2 {
		t.Fatalf("a free fall flipped the coin")
	}
}

func TestWoodIgnites(t *testing.T) {
	for _, d := range Directions {
		t.Run(d.String(), func(t *testing.T) {
			n := neighboursOf(map[Direction]Cell{d: Fire})
			got := Update(Wood, n, fixedRand(true))
			if want := (Action{Kind: ReplaceWith, Cell: Fire}); got != want {
				t.Fatalf("Update = %v, want %v", got, want)
			}
		})
	}
}

func TestWoodWithoutFireStays(t *testing.T) {
	for _, n := range []map[Direction]Cell{
		nil,
		{Down: Border, Left: Border},
		{Up: Sand, Down: Water, Left: Wood, Right: Wood},
	} {
		if got := Update(Wood, neighboursOf(n), fixedRand(false)); got.Kind != NoChange {
			t.Fatalf("wood next to %v: Update = %v, want none", n, got)
		}
	}
}

func TestFireVanishes(t *testing.T) {
	for _, n := range []map[Direction]Cell{nil, {Down: Wood, Up: Wood}} {
		if got := Update(Fire, neighboursOf(n), fixedRand(true)); got.Kind != Vanish {
			t.Fatalf("Update = %v, want vanish", got)
		}
	}
}

func TestBorderNeverActs(t *testing.T) {
	if got := Update(Border, Neighbours{}, fixedRand(true)); got.Kind != NoChange {
		t.Fatalf("Update = %v, want none", got)
	}
}

func TestNeighbours(t *testing.T) {
	var n Neighbours
	if n.Len() != 0 || n.Has(Down) {
		t.Fatal("zero Neighbours is not empty")
	}
	n.Set(Down, Sand)
	n.Set(UpLeft, Border)
	if c, ok := n.Get(Down); !ok || c != Sand {
		t.Fatalf("Get(Down) = %v, %v", c, ok)
	}
	if _, ok := n.Get(Up); ok {
		t.Fatal("Get(Up) reported a cell")
	}
	if !n.Any(Border) || n.Any(Fire) {
		t.Fatal("Any gave the wrong answer")
	}
	if n.Len() != 2 {
		t.Fatalf("Len = %d, want 2", n.Len())
	}
}

func TestParseCell(t *testing.T) {
	for _, c := range []Cell{Sand, Wood, Fire, Water, Border} {
		got, err := ParseCell(c.String())
		if err != nil || got != c {
			t.Fatalf("ParseCell(%q) = %v, %v", c.String(), got, err)
		}
	}
	if got, err := ParseCell(" Water "); err != nil || got != Water {
		t.Fatalf("ParseCell is not case insensitive: %v, %v", got, err)
	}
	if _, err := ParseCell("lava"); !errors.Is(err, ErrUnknownMaterial) {
		t.Fatalf("ParseCell(lava) error = %v", err)
	}
}
