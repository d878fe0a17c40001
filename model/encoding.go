package model

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ParseRows reads a grid from its text form: one row per line, each cell a
// '0'/'.' (dead) or '1'/'*' (alive). Spaces, tabs and commas between cells
// are ignored, as are blank lines and lines starting with '#'.
func ParseRows(r io.Reader) (*Grid, error) {
	var rows [][]int

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var row []int
		for _, c := range line {
			switch c {
			case '0', '.':
				row = append(row, 0)
			case '1', '*':
				row = append(row, 1)
			case ' ', '\t', ',':
				// separators between cells
			default:
				return nil, errors.Errorf("[ParseRows] unexpected character %q in row %d", c, len(rows))
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "[ParseRows] failed to read input")
	}

	return FromRows(rows)
}

// WriteRows writes the grid in its text form, one line of 0/1 characters per
// row. ParseRows reads the output back unchanged.
func (g *Grid) WriteRows(w io.Writer) error {
	buf := bufio.NewWriter(w)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y][x] {
				buf.WriteByte('1')
			} else {
				buf.WriteByte('0')
			}
		}
		buf.WriteByte('\n')
	}
	return errors.Wrap(buf.Flush(), "[WriteRows] failed to write grid")
}
