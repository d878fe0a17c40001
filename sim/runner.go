package sim

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/MarcHowardGCE/GameofLifeChallenge/model"
	"github.com/MarcHowardGCE/GameofLifeChallenge/utils"
)

type commandKind int

const (
	cmdStep commandKind = iota
	cmdStart
	cmdPause
	cmdTogglePlay
	cmdToggle
	cmdReset
	cmdRandomize
	cmdClear
	cmdQuit
	cmdSnapshot
)

type command struct {
	kind    commandKind
	steps   int
	x, y    int
	density float64
	reply   chan Snapshot
}

// Snapshot is a point-in-time copy of the runner's state. The Grid is a
// Clone and belongs to the caller.
type Snapshot struct {
	Generation int
	State      State
	Grid       *model.Grid
	Alive      int
	Stats      utils.Stats
}

// Runner drives the game. The grid it owns is only ever touched on the
// Run goroutine; public methods are safe to call from any goroutine and
// hand work over through an internal command channel.
type Runner struct {
	cfg  utils.Config
	log  *slog.Logger
	pool *model.GridPool

	initial *model.Grid
	width   int
	height  int

	commands chan command
	events   chan Event
	done     chan struct{}

	// Owned by the Run goroutine.
	grid       *model.Grid
	generation int
	state      State
	stats      *utils.Stats
	hashes     []string
	stagnant   int
	lastFrame  time.Time
}

// NewRunner creates a paused runner seeded with a copy of initial. The
// runner keeps its own clone, so the caller's grid stays untouched. A
// nil log discards all output.
func NewRunner(cfg utils.Config, initial *model.Grid, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	def := utils.DefaultConfig()
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = def.FrameRate
	}
	if cfg.ReportInterval <= 0 {
		cfg.ReportInterval = def.ReportInterval
	}

	var pool *model.GridPool
	if cfg.UseMemoryPool {
		pool = model.NewGridPool()
	}

	return &Runner{
		cfg:      cfg,
		log:      log,
		pool:     pool,
		initial:  initial.Clone(),
		width:    initial.GetWidth(),
		height:   initial.GetHeight(),
		commands: make(chan command, 16),
		events:   make(chan Event, 64),
		done:     make(chan struct{}),
		grid:     initial.Clone(),
		state:    Paused,
		stats:    utils.NewStats(),
	}
}

// Events returns the channel the runner reports on. Consumers must keep
// draining it until it closes, which happens once after Quit or context
// cancellation.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Run executes the game loop until ctx is cancelled or Quit is called.
// It always shuts down cleanly: a final grid event, a Quitting state
// change, then the events channel closes.
func (r *Runner) Run(ctx context.Context) error {
	frame := time.NewTicker(r.cfg.FrameRate)
	defer frame.Stop()
	report := time.NewTicker(r.cfg.ReportInterval)
	defer report.Stop()

	r.publish(GridReloaded{r.generation, r.grid.Clone()})
	r.publish(StateChange{r.generation, r.state})
	r.lastFrame = time.Now()

	for {
		// Frame ticks only advance the game while executing.
		var tickC <-chan time.Time
		if r.state == Executing {
			tickC = frame.C
		}

		select {
		case <-ctx.Done():
			r.shutdown()
			return nil
		case cmd := <-r.commands:
			if r.handle(cmd) {
				r.shutdown()
				return nil
			}
		case <-tickC:
			r.advance(1)
			if r.state == Executing && r.capReached() {
				r.log.Info("generation cap reached", "generation", r.generation)
				r.setState(Paused)
			}
		case <-report.C:
			if r.state == Executing {
				r.publish(AliveCellsCount{r.generation, r.grid.CountLivingCells()})
			}
		}
	}
}

// Step computes n generations immediately. A running game is paused
// first so the timer does not race the manual steps.
func (r *Runner) Step(n int) error {
	if n < 1 {
		return errors.Errorf("[Step] generation count must be positive, got %d", n)
	}
	r.send(command{kind: cmdStep, steps: n})
	return nil
}

// Start resumes timed stepping.
func (r *Runner) Start() {
	r.send(command{kind: cmdStart})
}

// Pause stops timed stepping. The grid keeps its state.
func (r *Runner) Pause() {
	r.send(command{kind: cmdPause})
}

// TogglePlay flips between Executing and Paused.
func (r *Runner) TogglePlay() {
	r.send(command{kind: cmdTogglePlay})
}

// Toggle flips a single cell between alive and dead.
func (r *Runner) Toggle(x, y int) error {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return errors.Errorf("[Toggle] cell (%d, %d) outside %dx%d grid", x, y, r.width, r.height)
	}
	r.send(command{kind: cmdToggle, x: x, y: y})
	return nil
}

// Reset restores the initial grid and zeroes the generation counter.
func (r *Runner) Reset() {
	r.send(command{kind: cmdReset})
}

// RandomizeGrid replaces the grid with random noise at the given density.
func (r *Runner) RandomizeGrid(density float64) error {
	if density < 0 || density > 1 {
		return errors.Errorf("[RandomizeGrid] density must be between 0 and 1, got %v", density)
	}
	r.send(command{kind: cmdRandomize, density: density})
	return nil
}

// ClearGrid kills every cell.
func (r *Runner) ClearGrid() {
	r.send(command{kind: cmdClear})
}

// Quit asks the runner to shut down. Safe to call more than once.
func (r *Runner) Quit() {
	r.send(command{kind: cmdQuit})
}

// Snapshot returns a copy of the current state. After shutdown it
// reports State Quitting with no grid.
func (r *Runner) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	select {
	case r.commands <- command{kind: cmdSnapshot, reply: reply}:
	case <-r.done:
		return Snapshot{State: Quitting}
	}
	select {
	case snap := <-reply:
		return snap
	case <-r.done:
		return Snapshot{State: Quitting}
	}
}

func (r *Runner) send(cmd command) {
	select {
	case r.commands <- cmd:
	case <-r.done:
	}
}

func (r *Runner) publish(e Event) {
	r.events <- e
}

func (r *Runner) handle(cmd command) (quit bool) {
	switch cmd.kind {
	case cmdStep:
		if r.state == Executing {
			r.setState(Paused)
		}
		r.advance(cmd.steps)
	case cmdStart:
		if r.state == Executing {
			return false
		}
		if r.capReached() {
			r.log.Info("generation cap reached, refusing to run", "generation", r.generation)
			return false
		}
		r.setState(Executing)
	case cmdPause:
		if r.state == Executing {
			r.setState(Paused)
		}
	case cmdTogglePlay:
		switch {
		case r.state == Executing:
			r.setState(Paused)
		case r.capReached():
			r.log.Info("generation cap reached, refusing to run", "generation", r.generation)
		default:
			r.setState(Executing)
		}
	case cmdToggle:
		alive, err := r.grid.Toggle(cmd.x, cmd.y)
		if err != nil {
			r.log.Error("toggle failed", "error", err)
			return false
		}
		r.log.Debug("cell toggled", "x", cmd.x, "y", cmd.y, "alive", alive)
		r.resetWatch()
		r.publish(CellsFlipped{r.generation, []model.Cell{{X: cmd.x, Y: cmd.y}}, r.grid.Clone()})
	case cmdReset:
		r.generation = 0
		r.reloadInitial()
	case cmdRandomize:
		r.grid.Randomize(cmd.density)
		r.resetWatch()
		r.publish(GridReloaded{r.generation, r.grid.Clone()})
	case cmdClear:
		r.grid.Clear()
		r.resetWatch()
		r.publish(GridReloaded{r.generation, r.grid.Clone()})
	case cmdSnapshot:
		cmd.reply <- Snapshot{
			Generation: r.generation,
			State:      r.state,
			Grid:       r.grid.Clone(),
			Alive:      r.grid.CountLivingCells(),
			Stats:      *r.stats,
		}
	case cmdQuit:
		return true
	}
	return false
}

func (r *Runner) advance(generations int) {
	for i := 0; i < generations; i++ {
		next := r.grid.NextGenerationPooled(r.pool)
		r.pool.Put(r.grid)
		r.grid = next
		r.generation++

		living := r.grid.CountLivingCells()
		now := time.Now()
		r.stats.Update(r.generation, living, now.Sub(r.lastFrame))
		r.lastFrame = now

		r.publish(GenerationComplete{r.generation, r.grid.Clone()})
		r.checkVitality(living)
	}
}

// checkVitality watches for a dead or stuck game. A grid repeating a
// recent hash for a couple of generations gets random life injected; one
// stuck past the stagnation window (or fully extinct) restarts from the
// initial grid when auto-restart is on.
func (r *Runner) checkVitality(living int) {
	stagnantFor := r.observeHash()
	extinct := living == 0
	stuck := r.cfg.StagnationWindow > 0 && stagnantFor >= r.cfg.StagnationWindow

	switch {
	case (extinct || stuck) && r.cfg.AutoRestart:
		reason := "stagnation"
		if extinct {
			reason = "extinction"
		}
		r.log.Info("auto-restarting", "reason", reason, "generation", r.generation)
		r.reloadInitial()
		if r.cfg.InjectionCount > 0 {
			r.injectLife()
		}
	case !extinct && stagnantFor >= 2 && stagnantFor < r.cfg.StagnationWindow && r.cfg.InjectionCount > 0:
		r.injectLife()
	}
}

// observeHash records the current grid hash and reports how many
// consecutive generations have repeated a recently seen hash. Catches
// still lifes and short-period oscillators alike.
func (r *Runner) observeHash() int {
	if r.cfg.StagnationWindow < 1 {
		return 0
	}

	hash := r.grid.GetGridHash()
	repeated := false
	for _, h := range r.hashes {
		if h == hash {
			repeated = true
			break
		}
	}

	r.hashes = append(r.hashes, hash)
	if n := len(r.hashes); n > r.cfg.StagnationWindow {
		r.hashes = r.hashes[n-r.cfg.StagnationWindow:]
	}

	if repeated {
		r.stagnant++
	} else {
		r.stagnant = 0
	}
	return r.stagnant
}

func (r *Runner) injectLife() {
	flipped := r.grid.InjectRandomLife(r.cfg.InjectionCount)
	if len(flipped) == 0 {
		return
	}
	r.log.Debug("injected random life", "cells", len(flipped), "generation", r.generation)
	r.publish(CellsFlipped{r.generation, flipped, r.grid.Clone()})
}

// reloadInitial swaps the live grid for a fresh copy of the initial one.
// The generation counter is left alone; Reset zeroes it separately.
func (r *Runner) reloadInitial() {
	r.pool.Put(r.grid)
	r.grid = r.initial.Clone()
	r.resetWatch()
	r.publish(GridReloaded{r.generation, r.grid.Clone()})
}

func (r *Runner) resetWatch() {
	r.hashes = r.hashes[:0]
	r.stagnant = 0
}

func (r *Runner) setState(s State) {
	if r.state == s {
		return
	}
	r.log.Debug("state change", "from", r.state, "to", s)
	r.state = s
	r.publish(StateChange{r.generation, s})
}

func (r *Runner) capReached() bool {
	return r.cfg.MaxGenerations > 0 && r.generation >= r.cfg.MaxGenerations
}

// shutdown closes done first so blocked callers are released, then
// drains the final events in order: final grid, Quitting, channel close.
func (r *Runner) shutdown() {
	close(r.done)
	r.publish(FinalGridComplete{r.generation, r.grid.Clone(), *r.stats})
	r.setState(Quitting)
	close(r.events)
}
