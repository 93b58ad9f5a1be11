package physics

import (
	"math"
	"testing"
)

func TestWithinBox(t *testing.T) {
	tests := []struct {
		name           string
		ax, ay, bx, by float64
		want           bool
	}{
		{"same point", 10, 10, 10, 10, true},
		{"inside both axes", 100, 540, 105, 530, true},
		{"x on the edge is outside", 100, 100, 120, 100, false},
		{"y on the edge is outside", 100, 100, 100, 80, false},
		{"far away", 0, 0, 300, 300, false},
	}
	for _, tt := range tests {
		if got := WithinBox(tt.ax, tt.ay, tt.bx, tt.by, 20); got != tt.want {
			t.Errorf("%s: WithinBox = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-5, 20, 780); got != 20 {
		t.Errorf("Clamp low = %v, want 20", got)
	}
	if got := Clamp(900, 20, 780); got != 780 {
		t.Errorf("Clamp high = %v, want 780", got)
	}
	if got := Clamp(300, 20, 780); got != 300 {
		t.Errorf("Clamp inside = %v, want 300", got)
	}
	if got := Clamp(5, 20, 10); got != 15 {
		t.Errorf("Clamp inverted range = %v, want midpoint 15", got)
	}
}

func TestSpatialGridFindsNeighbours(t *testing.T) {
	g := NewSpatialGrid(800, 600, 40)
	g.Insert(105, 40, 0)
	g.Insert(700, 500, 1)
	g.Insert(-50, 10, 2) // outside the field: lands in an edge cell

	var found []int
	g.QueryAround(100, 50, func(i int) bool {
		found = append(found, i)
		return false
	})
	if len(found) != 1 || found[0] != 0 {
		t.Fatalf("QueryAround near (100,50) = %v, want [0]", found)
	}

	found = found[:0]
	g.QueryAround(5, 5, func(i int) bool {
		found = append(found, i)
		return false
	})
	if len(found) != 1 || found[0] != 2 {
		t.Fatalf("QueryAround near origin = %v, want [2]", found)
	}
}

func TestSpatialGridLowestAround(t *testing.T) {
	g := NewSpatialGrid(400, 400, 40)
	// Insert in descending order across different cells.
	g.Insert(130, 100, 5)
	g.Insert(90, 100, 3)
	g.Insert(100, 130, 4)

	got := g.LowestAround(100, 100, func(int) bool { return true })
	if got != 3 {
		t.Fatalf("LowestAround = %d, want 3", got)
	}
	got = g.LowestAround(100, 100, func(i int) bool { return i != 3 })
	if got != 4 {
		t.Fatalf("LowestAround with 3 rejected = %d, want 4", got)
	}
	got = g.LowestAround(100, 100, func(int) bool { return false })
	if got != -1 {
		t.Fatalf("LowestAround none accepted = %d, want -1", got)
	}
}

func TestSpatialGridResetKeepsShape(t *testing.T) {
	g := NewSpatialGrid(800, 600, 40)
	g.Insert(10, 10, 0)
	g.Reset(800, 600, 40)

	count := 0
	g.QueryAround(10, 10, func(int) bool { count++; return false })
	if count != 0 {
		t.Fatalf("expected empty grid after Reset, found %d items", count)
	}

	g.Reset(math.NaN(), 0, 0)
	g.Insert(1, 1, 7)
	if got := g.LowestAround(0, 0, func(int) bool { return true }); got != 7 {
		t.Fatalf("degenerate grid lookup = %d, want 7", got)
	}
}

func TestSpatialGridBoundsCellCount(t *testing.T) {
	tests := []struct {
		name                    string
		width, height, cellSize float64
	}{
		{"huge field", 1e12, 1e12, 20},
		{"tiny cells", 800, 600, 1e-3},
		{"wide strip", 1e9, 10, 20},
	}
	for _, tt := range tests {
		g := NewSpatialGrid(tt.width, tt.height, tt.cellSize)
		cols, rows := g.Dims()
		if cols < 1 || rows < 1 || cols > MaxGridSide || rows > MaxGridSide {
			t.Errorf("%s: grid is %dx%d, want within 1..%d", tt.name, cols, rows, MaxGridSide)
			continue
		}

		// Points closer than the requested cell size must still meet.
		x, y := tt.width/2, tt.height/2
		g.Insert(x+tt.cellSize*0.9, y-tt.cellSize*0.9, 1)
		if got := g.LowestAround(x, y, func(int) bool { return true }); got != 1 {
			t.Errorf("%s: neighbour lookup = %d, want 1", tt.name, got)
		}
	}
}
