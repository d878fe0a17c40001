package model

import (
	"crypto/md5"
	"fmt"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/MarcHowardGCE/GameofLifeChallenge/rules"
)

// Cell identifies a single grid position by column (X) and row (Y).
type Cell struct {
	X int
	Y int
}

// Grid represents the game board. Cells are stored row-major; (0, 0) is the
// top-left corner. Dimensions are fixed for the life of the grid.
type Grid struct {
	width  int
	height int
	cells  [][]bool
}

// NewGrid creates an empty grid with the specified dimensions. Both
// dimensions must be at least one.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, errors.Errorf("[NewGrid] grid dimensions must be positive, got %dx%d", width, height)
	}
	g := &Grid{}
	g.Reset(width, height)
	return g, nil
}

// FromRows builds a grid from rows of 0/1 values, the form grids travel in
// outside the package. Any nonzero value counts as a living cell. The rows
// must be non-empty and rectangular.
func FromRows(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.Errorf("[FromRows] grid needs at least one row and one column")
	}

	g, err := NewGrid(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != g.width {
			return nil, errors.Errorf("[FromRows] row %d has %d cells, want %d", y, len(row), g.width)
		}
		for x, v := range row {
			g.cells[y][x] = v != 0
		}
	}
	return g, nil
}

// Rows returns the grid as rows of 0/1 values in a freshly allocated buffer.
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.height)
	for y := 0; y < g.height; y++ {
		rows[y] = make([]int, g.width)
		for x := 0; x < g.width; x++ {
			if g.cells[y][x] {
				rows[y][x] = 1
			}
		}
	}
	return rows
}

// GetWidth returns the width of the grid
func (g *Grid) GetWidth() int {
	return g.width
}

// GetHeight returns the height of the grid
func (g *Grid) GetHeight() int {
	return g.height
}

// Reset resets the grid to new dimensions, clearing every cell
func (g *Grid) Reset(width, height int) {
	g.width = width
	g.height = height

	// Resize cells if needed
	if len(g.cells) != height {
		g.cells = make([][]bool, height)
	}
	for i := range g.cells {
		if len(g.cells[i]) != width {
			g.cells[i] = make([]bool, width)
		} else {
			// Clear existing cells
			for j := range g.cells[i] {
				g.cells[i][j] = false
			}
		}
	}
}

// Clear clears all cells
func (g *Grid) Clear() {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			g.cells[y][x] = false
		}
	}
}

// Set sets a cell to alive (true) or dead (false). Out-of-range writes are
// ignored, which lets pattern stamping clip at the edges.
func (g *Grid) Set(x, y int, alive bool) {
	if x >= 0 && x < g.width && y >= 0 && y < g.height {
		g.cells[y][x] = alive
	}
}

// Get returns the state of a cell. Out-of-range reads report a dead cell.
func (g *Grid) Get(x, y int) bool {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return false
	}
	return g.cells[y][x]
}

// Toggle flips the cell at (x, y) and returns its new state. Unlike Set, an
// out-of-range coordinate is an error rather than a silent no-op: toggles
// come from user input and the caller needs to hear about a bad click.
func (g *Grid) Toggle(x, y int) (bool, error) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return false, errors.Errorf("[Toggle] cell (%d, %d) outside %dx%d grid", x, y, g.width, g.height)
	}
	g.cells[y][x] = !g.cells[y][x]
	return g.cells[y][x], nil
}

// CountLiveNeighbors counts living neighbors of the cell at (x, y). The
// eight-cell neighborhood is clipped at the grid edges; there is no
// wraparound, so corner cells see at most three neighbors.
func (g *Grid) CountLiveNeighbors(x, y int) int {
	count := 0

	// Calculate bounds once using efficient integer min/max
	minX := max(0, x-1)
	maxX := min(g.width-1, x+1)
	minY := max(0, y-1)
	maxY := min(g.height-1, y+1)

	// Count neighbors in the bounded region
	for ny := minY; ny <= maxY; ny++ {
		for nx := minX; nx <= maxX; nx++ {
			if nx == x && ny == y {
				continue // Skip the cell itself
			}
			if g.cells[ny][nx] {
				count++
			}
		}
	}

	return count
}

// NextGeneration computes the next generation into a freshly allocated grid.
// The receiver is never mutated, so callers can keep it as a snapshot.
func (g *Grid) NextGeneration() *Grid {
	return g.NextGenerationPooled(nil)
}

// NextGenerationPooled computes the next generation, drawing the destination
// buffer from pool. A nil pool allocates a fresh grid. The receiver is never
// mutated; the caller decides when the previous grid goes back to the pool.
func (g *Grid) NextGenerationPooled(pool *GridPool) *Grid {
	next := pool.Get(g.width, g.height)
	g.stepInto(next)
	return next
}

// stepInto writes the next generation of g into dst, which must share g's
// dimensions and start cleared. This is the single canonical transition;
// every stepping entry point funnels through it.
func (g *Grid) stepInto(dst *Grid) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if rules.NextCellState(g.CountLiveNeighbors(x, y), g.cells[y][x]) {
				dst.cells[y][x] = true
			}
		}
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	clone := &Grid{}
	clone.Reset(g.width, g.height)
	for y := 0; y < g.height; y++ {
		copy(clone.cells[y], g.cells[y])
	}
	return clone
}

// Equal reports whether both grids have identical dimensions and cells.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.width != other.width || g.height != other.height {
		return false
	}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y][x] != other.cells[y][x] {
				return false
			}
		}
	}
	return true
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y][x] {
				count++
			}
		}
	}
	return
}

// LivingCells returns the coordinates of every living cell, scanning
// top-to-bottom and left-to-right.
func (g *Grid) LivingCells() []Cell {
	var cells []Cell
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y][x] {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

// GetGridHash returns an efficient MD5 hash of the current grid state
func (g *Grid) GetGridHash() string {
	h := md5.New()
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y][x] {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// InjectRandomLife turns up to count random cells alive to shake a stuck
// board loose, returning the cells that actually changed state.
func (g *Grid) InjectRandomLife(count int) []Cell {
	var flipped []Cell
	for i := 0; i < count; i++ {
		x, y := rand.Intn(g.width), rand.Intn(g.height)
		if !g.cells[y][x] {
			g.cells[y][x] = true
			flipped = append(flipped, Cell{X: x, Y: y})
		}
	}
	return flipped
}

// Randomize fills the grid with random living cells
func (g *Grid) Randomize(density float64) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			g.Set(x, y, rand.Float64() < density)
		}
	}
}
