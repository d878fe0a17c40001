package rules

/*
NextCellState applies Conway's Game of Life rules to a single cell and
reports whether it is alive in the next generation.

Rules, in order:
 1. A live cell with fewer than two live neighbors dies (underpopulation).
 2. A live cell with more than three live neighbors dies (overpopulation).
 3. A live cell with two or three live neighbors survives.
 4. A dead cell with exactly three live neighbors becomes alive (reproduction).

Any other cell stays dead. The four rules collapse to:
(alive && liveNeighbors == 2) || liveNeighbors == 3
*/
func NextCellState(liveNeighbors int, alive bool) bool {
	return (alive && liveNeighbors == 2) || liveNeighbors == 3
}
