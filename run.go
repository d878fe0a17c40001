package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MarcHowardGCE/GameofLifeChallenge/logging"
	"github.com/MarcHowardGCE/GameofLifeChallenge/model"
	"github.com/MarcHowardGCE/GameofLifeChallenge/sim"
	"github.com/MarcHowardGCE/GameofLifeChallenge/utils"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Animate the game in the terminal",
		Long: `Run animates Conway's Game of Life in the terminal. The grid renders
to stdout while logs go to stderr. Type h on stdin for the interactive
commands: stepping, pausing, toggling cells, and more.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := utils.Load(configPath)
			if err != nil {
				return err
			}
			applyRunFlags(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logging.NewLogger(cfg.LogLevel, os.Stderr)

			grid, err := seedGrid(cfg)
			if err != nil {
				return err
			}
			runner := sim.NewRunner(cfg, grid, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error { return runner.Run(ctx) })
			eg.Go(func() error { return consumeEvents(runner, log, os.Stdout) })

			// Stdin reads cannot be cancelled, so the reader stays out of
			// the group; it dies with the process.
			reader := &commandReader{runner: runner, log: log, density: cfg.RandomDensity}
			go reader.readLoop(os.Stdin)

			runner.Start()

			log.Info("game started",
				"width", cfg.Width,
				"height", cfg.Height,
				"pattern", cfg.InitialPattern,
				"frame_rate", cfg.FrameRate)

			return eg.Wait()
		},
	}

	flags := cmd.Flags()
	flags.Int("width", 0, "Grid width in cells")
	flags.Int("height", 0, "Grid height in cells")
	flags.Duration("frame-rate", 0, "Delay between generations, e.g. 100ms")
	flags.String("pattern", "", "Starting pattern: showcase, random, empty, or a pattern name")
	flags.Float64("density", 0, "Random fill density between 0 and 1")
	flags.Bool("auto-restart", false, "Restart from the initial grid on extinction or stagnation")
	flags.Int("max-generations", 0, "Pause the animation after this many generations (0 = no cap)")

	return cmd
}

// applyRunFlags overlays explicitly set flags on the loaded config.
func applyRunFlags(cmd *cobra.Command, cfg *utils.Config) {
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("frame-rate") {
		cfg.FrameRate, _ = flags.GetDuration("frame-rate")
	}
	if flags.Changed("pattern") {
		cfg.InitialPattern, _ = flags.GetString("pattern")
	}
	if flags.Changed("density") {
		cfg.RandomDensity, _ = flags.GetFloat64("density")
	}
	if flags.Changed("auto-restart") {
		cfg.AutoRestart, _ = flags.GetBool("auto-restart")
	}
	if flags.Changed("max-generations") {
		cfg.MaxGenerations, _ = flags.GetInt("max-generations")
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
}

// seedGrid builds the starting grid named by the config: the showcase
// layout, random noise, an empty grid, or a built-in pattern centered
// on the grid.
func seedGrid(cfg utils.Config) (*model.Grid, error) {
	grid, err := model.NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, errors.Wrap(err, "[seedGrid] failed to create grid")
	}

	switch cfg.InitialPattern {
	case "", "showcase":
		grid.SeedShowcase(cfg.RandomDensity)
	case "random":
		grid.Randomize(cfg.RandomDensity)
	case "empty":
	default:
		pattern, err := model.LookupPattern(cfg.InitialPattern)
		if err != nil {
			return nil, err
		}
		grid.PlaceCentered(pattern)
	}
	return grid, nil
}

// consumeEvents drains the runner's events until the channel closes,
// redrawing the grid and logging reports. It measures generations per
// second on its own from event arrivals, so it never has to call back
// into the runner mid-render.
func consumeEvents(runner *sim.Runner, log *slog.Logger, out io.Writer) error {
	renderer := &model.TerminalRenderer{Out: out}
	stats := utils.NewStats()
	state := sim.Paused
	last := time.Now()

	for e := range runner.Events() {
		switch ev := e.(type) {
		case sim.StateChange:
			state = ev.NewState
			log.Debug("state changed", "state", ev.NewState.String(), "generation", ev.CompletedGenerations)
		case sim.GenerationComplete:
			now := time.Now()
			stats.Update(ev.CompletedGenerations, ev.Grid.CountLivingCells(), now.Sub(last))
			last = now
			renderFrame(renderer, stats, ev.CompletedGenerations, ev.Grid, state)
		case sim.CellsFlipped:
			renderFrame(renderer, stats, ev.CompletedGenerations, ev.Grid, state)
		case sim.GridReloaded:
			renderFrame(renderer, stats, ev.CompletedGenerations, ev.Grid, state)
		case sim.AliveCellsCount:
			log.Info("population report", "generation", ev.CompletedGenerations, "alive", ev.CellsCount)
		case sim.FinalGridComplete:
			renderer.Clear()
			renderer.Display(ev.Grid)
			seconds := ev.Stats.Runtime().Seconds()
			average := 0.0
			if seconds > 0 {
				average = float64(ev.CompletedGenerations) / seconds
			}
			fmt.Fprintf(out, "Final stats: %d generations in %.1f seconds\n", ev.CompletedGenerations, seconds)
			fmt.Fprintf(out, "Average: %.1f gen/sec, %.1f avg population\n", average, ev.Stats.AveragePopulation)
		}
	}
	return nil
}

func renderFrame(renderer *model.TerminalRenderer, stats *utils.Stats, generation int, grid *model.Grid, state sim.State) {
	living := grid.CountLivingCells()
	density := float64(living) / float64(grid.GetWidth()*grid.GetHeight()) * 100
	renderer.Clear()
	renderer.DisplayStatus(generation, living, density, state.String(), stats.GenerationsPerSecond)
	renderer.Display(grid)
}

const commandHelp = `Commands:
  s, step [n]    advance n generations (default 1) and pause
  r, run         resume the animation
  p, pause       pause the animation
  t, toggle X Y  flip the cell at column X, row Y
  reset          restore the starting grid
  random [d]     refill the grid at density d (default from config)
  c, clear       kill every cell
  i, info        log the current generation and population
  h, help        show this help
  q, quit        exit
`

// commandReader turns stdin lines into runner commands.
type commandReader struct {
	runner  *sim.Runner
	log     *slog.Logger
	density float64
}

func (cr *commandReader) readLoop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if cr.dispatch(line) {
			return
		}
	}
	// Stdin closed; treat it as quit.
	cr.runner.Quit()
}

func (cr *commandReader) dispatch(line string) (quit bool) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "s", "step":
		n := 1
		if len(fields) > 1 {
			parsed, err := strconv.Atoi(fields[1])
			if err != nil {
				cr.log.Error("bad step count", "input", fields[1])
				return false
			}
			n = parsed
		}
		if err := cr.runner.Step(n); err != nil {
			cr.log.Error("step failed", "error", err)
		}
	case "r", "run", "start":
		cr.runner.Start()
	case "p", "pause":
		cr.runner.Pause()
	case "t", "toggle":
		if len(fields) < 3 {
			cr.log.Error("toggle needs coordinates", "usage", "toggle X Y")
			return false
		}
		x, errX := strconv.Atoi(fields[1])
		y, errY := strconv.Atoi(fields[2])
		if errX != nil || errY != nil {
			cr.log.Error("bad toggle coordinates", "input", line)
			return false
		}
		if err := cr.runner.Toggle(x, y); err != nil {
			cr.log.Error("toggle failed", "error", err)
		}
	case "reset":
		cr.runner.Reset()
	case "random":
		density := cr.density
		if len(fields) > 1 {
			parsed, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				cr.log.Error("bad density", "input", fields[1])
				return false
			}
			density = parsed
		}
		if err := cr.runner.RandomizeGrid(density); err != nil {
			cr.log.Error("randomize failed", "error", err)
		}
	case "c", "clear":
		cr.runner.ClearGrid()
	case "i", "info":
		snap := cr.runner.Snapshot()
		cr.log.Info("status", "generation", snap.Generation, "state", snap.State.String(), "alive", snap.Alive)
	case "h", "help":
		fmt.Fprint(os.Stderr, commandHelp)
	case "q", "quit", "exit":
		cr.runner.Quit()
		return true
	default:
		cr.log.Error("unknown command", "input", fields[0], "hint", "type h for help")
	}
	return false
}
