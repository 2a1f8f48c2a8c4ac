package fx

import "math"

// Grid is a uniform spatial partition over the viewport holding particle
// indices, for neighbour queries that would otherwise be quadratic
type Grid struct {
	// CellSize is the side of each cell in logical pixels
	CellSize float64

	cols, rows int
	cells      [][]int
}

// NewGrid creates a grid with the given cell size
func NewGrid(cellSize float64) *Grid {
	if !(cellSize > 0) {
		cellSize = 64
	}
	return &Grid{CellSize: cellSize}
}

// Rebuild resizes the grid for viewport v. A degenerate viewport leaves the grid empty.
func (g *Grid) Rebuild(v Viewport) {
	if v.Empty() {
		g.cols, g.rows, g.cells = 0, 0, nil
		return
	}
	g.cols = int(math.Ceil(v.Width/g.CellSize)) + 1
	g.rows = int(math.Ceil(v.Height/g.CellSize)) + 1

	// Preallocate each cell with a small initial capacity
	g.cells = make([][]int, g.cols*g.rows)
	for i := range g.cells {
		g.cells[i] = make([]int, 0, 8)
	}
}

// Clear empties every cell, keeping capacity
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert records index i at pos. Positions outside the grid clamp to the edge cells.
func (g *Grid) Insert(i int, pos Vec2) {
	if len(g.cells) == 0 {
		return
	}
	cx, cy := g.cellOf(pos)
	idx := cy*g.cols + cx
	g.cells[idx] = append(g.cells[idx], i)
}

// Near calls fn for every index in the cells overlapping the square of half-size
// radius around pos. Callers filter by exact distance.
func (g *Grid) Near(pos Vec2, radius float64, fn func(i int)) {
	if len(g.cells) == 0 {
		return
	}
	minX, minY := g.cellOf(Vec2{pos.X - radius, pos.Y - radius})
	maxX, maxY := g.cellOf(Vec2{pos.X + radius, pos.Y + radius})
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			for _, i := range g.cells[y*g.cols+x] {
				fn(i)
			}
		}
	}
}

// cellOf converts a position to clamped cell coordinates
func (g *Grid) cellOf(pos Vec2) (int, int) {
	cx, cy := 0, 0
	if finite(pos.X) {
		cx = int(pos.X / g.CellSize)
	}
	if finite(pos.Y) {
		cy = int(pos.Y / g.CellSize)
	}
	cx = max(0, min(cx, g.cols-1))
	cy = max(0, min(cy, g.rows-1))
	return cx, cy
}
