package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/PADLINK/pad"
	"github.com/Alia5/PADLINK/padio"
)

// Replay decodes a captured report log and prints the resulting change
// events, then exits.
type Replay struct {
	File  string        `arg:"" help:"Report capture file" type:"existingfile"`
	Delay time.Duration `help:"Pause between reports" default:"8ms"`
	Speed float64       `help:"Playback speed multiplier applied to --delay" default:"1.0"`
}

// Run is called by Kong when the replay command is executed.
func (r *Replay) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if r.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %g", r.Speed)
	}

	f, err := os.Open(r.File)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()

	ctrl := pad.NewController(logger)
	ctrl.SetObserver(pad.FanIn(func(ev pad.Event) {
		printEvent(os.Stdout, ev, false)
	}))

	replay := &padio.Replay{
		R:      f,
		Delay:  time.Duration(float64(r.Delay) / r.Speed),
		Logger: logger,
	}
	err = replay.Run(ctx, ctrl)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
