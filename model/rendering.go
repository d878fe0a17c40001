package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	ansiClearHome = "\033[2J\033[H"
)

// TerminalRenderer draws grids as text frames. The zero value writes to
// stdout; point Out elsewhere to capture frames.
type TerminalRenderer struct {
	Out io.Writer
}

func (r *TerminalRenderer) writer() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

// Display renders the grid as a single buffered frame.
func (r *TerminalRenderer) Display(g *Grid) {
	w := bufio.NewWriter(r.writer())
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.Get(x, y) {
				w.WriteString(gridPosBlock)
			} else {
				w.WriteString(gridPosEmpty)
			}
		}
		w.WriteByte('\n')
	}
	w.Flush()
}

// Clear clears the screen and homes the cursor.
func (r *TerminalRenderer) Clear() {
	fmt.Fprint(r.writer(), ansiClearHome)
}

// DisplayStatus writes the one-line banner shown above each frame.
func (r *TerminalRenderer) DisplayStatus(generation, living int, density float64, state string, gensPerSec float64) {
	fmt.Fprintf(r.writer(), "Gen: %d | Living: %d | Density: %.1f%% | State: %s | %.1f gen/sec\n",
		generation, living, density, state, gensPerSec)
}
