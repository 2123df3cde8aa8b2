// Command ls-parallax is a terminal starfield with parallax depth.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-parallax/internal/logging"
	"github.com/litescript/ls-parallax/internal/render"
	"github.com/litescript/ls-parallax/internal/starfield"
	"github.com/litescript/ls-parallax/internal/throttle"
	"github.com/litescript/ls-parallax/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode  bool
	exportPath   string
	snapshotPath string
	simDuration  time.Duration
	simStep      time.Duration
	viewWidth    float64
	viewHeight   float64
)

const (
	defaultFPS = 12
	minFPS     = 1
	maxFPS     = 60

	defaultDuration = 30 * time.Second
	maxDuration     = time.Hour
)

func main() {
	// Parse flags
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to file (the TUI discards logs otherwise)")
	seed := flag.Uint64("seed", 0, "Random seed for reproducible fields (0 = random)")
	screenHeight := flag.Float64("screen-height", 1080, "Screen height in px that star sizes are relative to")
	pages := flag.Float64("pages", starfield.DefaultContainerPages, "Scrollable height in viewport heights")
	fps := flag.Int("fps", defaultFPS, "Animation frames per second")
	flag.BoolVar(&summaryMode, "summary", false, "Simulate headlessly and print a text summary")
	flag.StringVar(&exportPath, "export-path", "", "Simulate headlessly and export JSON (use - for stdout)")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "PNG path: headless output, or the TUI's s key target")
	flag.DurationVar(&simDuration, "duration", defaultDuration, "Simulated time for headless runs")
	flag.DurationVar(&simStep, "step", 100*time.Millisecond, "Simulation step for headless runs")
	flag.Float64Var(&viewWidth, "width", 1280, "Headless viewport width in px")
	flag.Float64Var(&viewHeight, "height", 720, "Headless viewport height in px")
	flag.Parse()

	// Validate frame rate and simulation time
	if *fps < minFPS {
		*fps = minFPS
	} else if *fps > maxFPS {
		*fps = maxFPS
	}
	if simDuration < 0 {
		simDuration = 0
	} else if simDuration > maxDuration {
		simDuration = maxDuration
	}
	if simStep < time.Millisecond {
		simStep = time.Millisecond
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	headless := summaryMode || exportPath != "" || !isTTY
	if headless && !summaryMode && exportPath == "" && snapshotPath == "" {
		summaryMode = true
	}

	// Set up logging. The TUI owns the terminal, so it only logs to a file.
	level := logging.ParseLevel(*logLevel)
	logger := logging.Discard()
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = logging.NewWriter(level, f)
	} else if headless {
		logger = logging.New(level)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg := starfield.DefaultConfig(*screenHeight)
	cfg.ContainerPages = *pages
	cfg.Seed = *seed

	var err error
	if headless {
		err = runHeadless(ctx, cfg, logger)
	} else {
		err = runTUI(ctx, cfg, time.Second/time.Duration(*fps), logger)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(ctx context.Context, cfg starfield.Config, frameRate time.Duration, logger *logging.Logger) error {
	clock := ui.NewLoopClock()
	field, err := starfield.New(cfg, clock, logger.With("starfield"))
	if err != nil {
		return err
	}
	defer field.Stop()

	opts := ui.DefaultOptions()
	opts.FrameRate = frameRate
	if snapshotPath != "" {
		opts.SnapshotPath = snapshotPath
	}
	model := ui.New(field, clock, opts, logger.With("ui"))

	// Create Bubble Tea program
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// runHeadless simulates the field on a manual clock: the viewport sweeps
// down the container and back while stars expire and refill.
func runHeadless(ctx context.Context, cfg starfield.Config, logger *logging.Logger) error {
	clock := throttle.NewManualClock(time.Now())
	field, err := starfield.New(cfg, clock, logger.With("starfield"))
	if err != nil {
		return err
	}
	defer field.Stop()

	field.Resize(viewWidth, viewHeight)
	field.Start()

	steps := int(simDuration / simStep)
	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			logger.Info("simulation interrupted after %v", time.Duration(i-1)*simStep)
			return nil
		default:
		}

		clock.Advance(simStep)
		m := field.Metrics()
		travel := m.ContainerHeight - m.ViewportHeight
		field.ScrollTo(0, travel*sweep(float64(i)/float64(steps)))
		field.Advance(clock.Now())
	}
	// Let the last throttled recompute land.
	clock.Advance(cfg.ThrottleWait)

	logger.Debug("simulated %v in %d steps", simDuration, steps)
	return writeOutputs(field, cfg, os.Stdout)
}

// sweep maps progress in [0, 1] to a scroll fraction that goes down and
// back up once.
func sweep(p float64) float64 {
	return 1 - math.Abs(2*p-1)
}

func writeOutputs(field *starfield.Field, cfg starfield.Config, stdout io.Writer) error {
	export := field.Export()

	// Export JSON if requested
	if exportPath != "" {
		if exportPath == "-" {
			if err := export.WriteJSON(stdout); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(exportPath)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()
			if err := export.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	// PNG snapshot
	if snapshotPath != "" {
		if err := render.SavePNG(snapshotPath, render.FrameOf(field), render.DefaultOptions(cfg.ScreenHeight)); err != nil {
			return err
		}
	}

	// Print summary table if requested
	if summaryMode {
		export.WriteSummaryTable(stdout)
	}
	return nil
}
