package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection on a
// bounded playfield. Objects are inserted by position and index, then nearby
// objects can be queried via a 3x3 neighborhood lookup.
//
// Cell size must be >= the maximum interaction distance between any two
// colliding objects so that all potential collisions are found within
// the 3x3 neighborhood. Positions outside the field land in the edge cells.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of objects that fall within a grid cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a spatial grid covering the given field dimensions.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	g := &SpatialGrid{}
	g.Reset(width, height, cellSize)
	return g
}

// MaxGridSide bounds the number of columns and rows. Larger fields get
// proportionally larger cells.
const MaxGridSide = 256

// Reset resizes the grid, keeping cell storage when the shape is unchanged.
// The effective cell size is never smaller than cellSize, so neighborhood
// queries stay complete.
func (g *SpatialGrid) Reset(width, height, cellSize float64) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = 1
	}
	if !(width > 0) || math.IsInf(width, 0) {
		width = cellSize
	}
	if !(height > 0) || math.IsInf(height, 0) {
		height = cellSize
	}
	cellSize = max(cellSize, width/MaxGridSide, height/MaxGridSide)

	cols := min(max(int(math.Ceil(width/cellSize)), 1), MaxGridSide)
	rows := min(max(int(math.Ceil(height/cellSize)), 1), MaxGridSide)

	g.cellSize = cellSize
	g.invCellSize = 1.0 / cellSize
	if cols != g.cols || rows != g.rows {
		g.cols = cols
		g.rows = rows
		g.cells = make([]gridCell, cols*rows)
		return
	}
	g.Clear()
}

// Dims returns the number of columns and rows.
func (g *SpatialGrid) Dims() (cols, rows int) {
	return g.cols, g.rows
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(x, y float64, index int) {
	col, row := g.posToCell(x, y)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighborhood
// around the given position. Cells beyond the field edges are skipped.
// If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(x, y float64, fn func(index int) bool) {
	col, row := g.posToCell(x, y)

	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= g.rows {
			continue
		}
		rowOffset := r * g.cols

		for c := col - 1; c <= col+1; c++ {
			if c < 0 || c >= g.cols {
				continue
			}
			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// LowestAround returns the smallest index in the neighborhood for which
// accept returns true, or -1. Visiting order does not affect the answer.
func (g *SpatialGrid) LowestAround(x, y float64, accept func(index int) bool) int {
	best := -1
	g.QueryAround(x, y, func(i int) bool {
		if (best < 0 || i < best) && accept(i) {
			best = i
		}
		return false
	})
	return best
}

// posToCell converts coordinates to grid cell coordinates.
// Clamps to valid range to handle out-of-field positions.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	col = int(math.Floor(x * g.invCellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(math.Floor(y * g.invCellSize))
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
