package model

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Pattern is a named seed shape expressed as rows of 0/1 values.
type Pattern struct {
	Name string
	Rows [][]int
}

// Width returns the number of columns in the pattern's bounding box.
func (p Pattern) Width() int {
	if len(p.Rows) == 0 {
		return 0
	}
	return len(p.Rows[0])
}

// Height returns the number of rows in the pattern's bounding box.
func (p Pattern) Height() int {
	return len(p.Rows)
}

// The built-in menagerie: the blinker is the classic period-two oscillator,
// the block a still life, the glider travels one cell diagonally every four
// generations.
var (
	Blinker = Pattern{Name: "blinker", Rows: [][]int{
		{1, 1, 1},
	}}
	Block = Pattern{Name: "block", Rows: [][]int{
		{1, 1},
		{1, 1},
	}}
	Glider = Pattern{Name: "glider", Rows: [][]int{
		{0, 1, 0},
		{0, 0, 1},
		{1, 1, 1},
	}}
	Toad = Pattern{Name: "toad", Rows: [][]int{
		{0, 1, 1, 1},
		{1, 1, 1, 0},
	}}
	Beacon = Pattern{Name: "beacon", Rows: [][]int{
		{1, 1, 0, 0},
		{1, 1, 0, 0},
		{0, 0, 1, 1},
		{0, 0, 1, 1},
	}}
)

var builtinPatterns = []Pattern{Blinker, Block, Glider, Toad, Beacon}

// Patterns returns the built-in seed patterns in a stable order.
func Patterns() []Pattern {
	out := make([]Pattern, len(builtinPatterns))
	copy(out, builtinPatterns)
	return out
}

// LookupPattern returns the built-in pattern with the given name.
func LookupPattern(name string) (Pattern, error) {
	for _, p := range builtinPatterns {
		if p.Name == name {
			return p, nil
		}
	}
	return Pattern{}, errors.Errorf("[LookupPattern] unknown pattern: %q", name)
}

// Place stamps the pattern onto the grid with its top-left corner at (x, y).
// The whole bounding box is written, live and dead cells alike; cells that
// fall outside the grid are clipped.
func (g *Grid) Place(p Pattern, x, y int) {
	for dy, row := range p.Rows {
		for dx, v := range row {
			g.Set(x+dx, y+dy, v != 0)
		}
	}
}

// PlaceCentered stamps the pattern in the middle of the grid.
func (g *Grid) PlaceCentered(p Pattern) {
	g.Place(p, (g.width-p.Width())/2, (g.height-p.Height())/2)
}

// SeedShowcase clears the grid and stamps a spread of gliders and blinkers
// sized to the board, then sprinkles random background life over the
// remaining dead cells.
func (g *Grid) SeedShowcase(density float64) {
	g.Clear()

	if g.width >= 10 && g.height >= 10 {
		g.Place(Glider, 5, 5)
		if g.width >= 20 && g.height >= 15 {
			g.Place(Glider, g.width-8, 5)
		}

		g.Place(Blinker, g.width/4, g.height/4)
		if g.width >= 30 {
			g.Place(Blinker, 3*g.width/4, 3*g.height/4)
		}
	}

	g.sprinkle(density)
}

// sprinkle turns dead cells alive with the given probability, leaving
// existing life untouched.
func (g *Grid) sprinkle(density float64) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if !g.cells[y][x] && rand.Float64() < density {
				g.cells[y][x] = true
			}
		}
	}
}
