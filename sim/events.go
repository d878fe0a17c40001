// Package sim runs the game loop. A Runner owns the live grid and steps
// it on a timer; everything the outside world sees arrives as Events on
// a channel, and everything the outside world wants done goes in as
// commands. UI code never touches the grid directly.
package sim

import (
	"fmt"

	"github.com/MarcHowardGCE/GameofLifeChallenge/model"
	"github.com/MarcHowardGCE/GameofLifeChallenge/utils"
)

// State describes what the runner is currently doing.
type State int

const (
	Paused State = iota
	Executing
	Quitting
)

func (s State) String() string {
	switch s {
	case Paused:
		return "Paused"
	case Executing:
		return "Executing"
	case Quitting:
		return "Quitting"
	default:
		return "Unknown"
	}
}

// Event is anything the runner reports on its events channel.
//
// Grids carried by events are private snapshots taken with Clone; the
// receiver may keep or mutate them freely.
type Event interface {
	fmt.Stringer
}

// StateChange is published every time the runner moves between Paused,
// Executing and Quitting.
type StateChange struct {
	CompletedGenerations int
	NewState             State
}

func (e StateChange) String() string {
	return fmt.Sprintf("Completed Generations %d %v", e.CompletedGenerations, e.NewState)
}

// GenerationComplete is published after each generation is computed.
type GenerationComplete struct {
	CompletedGenerations int
	Grid                 *model.Grid
}

func (e GenerationComplete) String() string {
	return fmt.Sprintf("Generation %d Complete", e.CompletedGenerations)
}

// CellsFlipped is published when cells change outside the normal rules:
// a manual toggle or a life injection.
type CellsFlipped struct {
	CompletedGenerations int
	Cells                []model.Cell
	Grid                 *model.Grid
}

func (e CellsFlipped) String() string {
	return fmt.Sprintf("Generation %d Flipped %d Cells", e.CompletedGenerations, len(e.Cells))
}

// GridReloaded is published when the whole grid is replaced at once:
// startup, reset, randomize, clear, or an auto-restart.
type GridReloaded struct {
	CompletedGenerations int
	Grid                 *model.Grid
}

func (e GridReloaded) String() string {
	return fmt.Sprintf("Generation %d Grid Reloaded", e.CompletedGenerations)
}

// AliveCellsCount is the periodic population report.
type AliveCellsCount struct {
	CompletedGenerations int
	CellsCount           int
}

func (e AliveCellsCount) String() string {
	return fmt.Sprintf("Generation %d Alive Cells %d", e.CompletedGenerations, e.CellsCount)
}

// FinalGridComplete is the last grid-carrying event before the events
// channel closes.
type FinalGridComplete struct {
	CompletedGenerations int
	Grid                 *model.Grid
	Stats                utils.Stats
}

func (e FinalGridComplete) String() string {
	return fmt.Sprintf("Final Generation %d Complete", e.CompletedGenerations)
}
