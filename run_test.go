package main

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/MarcHowardGCE/GameofLifeChallenge/logging"
	"github.com/MarcHowardGCE/GameofLifeChallenge/model"
	"github.com/MarcHowardGCE/GameofLifeChallenge/sim"
	"github.com/MarcHowardGCE/GameofLifeChallenge/utils"
)

func TestSeedGrid(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		density    float64
		width      int
		height     int
		wantLiving int
		wantErr    bool
	}{
		{"empty grid", "empty", 0.5, 8, 6, 0, false},
		{"centered blinker", "blinker", 0, 8, 6, 3, false},
		{"random at full density", "random", 1.0, 10, 10, 100, false},
		{"showcase layout", "showcase", 0, 40, 20, 16, false},
		{"unknown pattern", "wobble", 0, 8, 6, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := utils.Config{
				Width:          tt.width,
				Height:         tt.height,
				InitialPattern: tt.pattern,
				RandomDensity:  tt.density,
			}
			grid, err := seedGrid(cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("seedGrid failed: %v", err)
			}
			if grid.GetWidth() != tt.width || grid.GetHeight() != tt.height {
				t.Errorf("expected %dx%d grid, got %dx%d", tt.width, tt.height, grid.GetWidth(), grid.GetHeight())
			}
			if got := grid.CountLivingCells(); got != tt.wantLiving {
				t.Errorf("expected %d living cells, got %d", tt.wantLiving, got)
			}
		})
	}
}

// startTestRunner launches a drained runner for driver tests and joins
// it on cleanup.
func startTestRunner(t *testing.T) *sim.Runner {
	t.Helper()

	grid, err := model.NewGrid(5, 5)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	cfg := utils.Config{
		Width:          5,
		Height:         5,
		FrameRate:      5 * time.Millisecond,
		ReportInterval: time.Hour,
	}
	runner := sim.NewRunner(cfg, grid, logging.NewLogger("info", io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- runner.Run(ctx) }()
	go func() {
		for range runner.Events() {
		}
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-runDone:
			if err != nil {
				t.Errorf("Run returned %v, want nil", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("runner did not stop")
		}
	})
	return runner
}

func awaitQuitting(t *testing.T, runner *sim.Runner) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for runner.Snapshot().State != sim.Quitting {
		if time.Now().After(deadline) {
			t.Fatal("runner did not shut down")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDispatchCommands(t *testing.T) {
	runner := startTestRunner(t)
	cr := &commandReader{runner: runner, log: logging.NewLogger("info", io.Discard), density: 0.15}

	if cr.dispatch("toggle 2 2") {
		t.Fatal("toggle must not request quit")
	}
	deadline := time.Now().Add(2 * time.Second)
	for runner.Snapshot().Alive != 1 {
		if time.Now().After(deadline) {
			t.Fatal("toggle was not applied")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Malformed input is logged, never fatal.
	for _, line := range []string{"toggle nine two", "toggle 1", "step abc", "random nope", "bogus"} {
		if cr.dispatch(line) {
			t.Errorf("dispatch(%q) requested quit", line)
		}
	}

	if !cr.dispatch("q") {
		t.Fatal("expected quit command to request shutdown")
	}
	awaitQuitting(t, runner)
}

func TestReadLoopQuitCommand(t *testing.T) {
	runner := startTestRunner(t)
	cr := &commandReader{runner: runner, log: logging.NewLogger("info", io.Discard), density: 0.15}

	done := make(chan struct{})
	go func() {
		cr.readLoop(strings.NewReader("i\nq\n"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("readLoop did not return after quit command")
	}
	awaitQuitting(t, runner)
}

func TestReadLoopQuitsOnEOF(t *testing.T) {
	runner := startTestRunner(t)
	cr := &commandReader{runner: runner, log: logging.NewLogger("info", io.Discard), density: 0.15}

	cr.readLoop(strings.NewReader(""))
	awaitQuitting(t, runner)
}
