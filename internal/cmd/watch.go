package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/Alia5/PADLINK/internal/log"
	"github.com/Alia5/PADLINK/pad"
	"github.com/Alia5/PADLINK/padio"
)

// Watch prints change events from a local gamepad to stdout. With --input
// it reads a captured report log instead of a real device.
type Watch struct {
	Rescan     time.Duration `help:"How often to rescan for the gamepad while none is attached" default:"1s" env:"PADLINK_RESCAN"`
	Input      string        `help:"Read reports from a capture file instead of a real device"`
	InputDelay time.Duration `help:"Pause between replayed reports when --input is set" default:"8ms"`
}

// Run is called by Kong when the watch command is executed.
func (w *Watch) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	color := term.IsTerminal(int(os.Stdout.Fd()))
	ctrl := pad.NewController(logger)
	ctrl.SetObserver(pad.FanIn(func(ev pad.Event) {
		printEvent(os.Stdout, ev, color)
	}))

	var provider padio.Provider
	if w.Input == "" {
		h := padio.NewHIDRaw(logger)
		h.Rescan = w.Rescan
		provider = h
	} else {
		f, err := os.Open(w.Input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		provider = &padio.Replay{R: f, Delay: w.InputDelay, Logger: logger}
	}

	err := provider.Run(ctx, tapSink{inner: ctrl, raw: rawLogger})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

const (
	ansiDim   = "\x1b[2m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// printEvent renders one change event as a line of text, with a little
// emphasis when stdout is a terminal.
func printEvent(w io.Writer, ev pad.Event, color bool) {
	line := formatEvent(ev)
	if color {
		switch ev.Kind {
		case pad.KindConnected, pad.KindDisconnected:
			line = ansiBold + line + ansiReset
		case pad.KindLeftStick, pad.KindRightStick:
			line = ansiDim + line + ansiReset
		}
	}
	fmt.Fprintln(w, line)
}

func formatEvent(ev pad.Event) string {
	switch ev.Kind {
	case pad.KindConnected:
		return "pad connected"
	case pad.KindDisconnected:
		return "pad disconnected"
	case pad.KindLeftStick:
		return fmt.Sprintf("left stick  %+4d %+4d", ev.X, ev.Y)
	case pad.KindRightStick:
		return fmt.Sprintf("right stick %+4d %+4d", ev.X, ev.Y)
	case pad.KindButton:
		state := "released"
		if ev.Pressed {
			state = "pressed"
		}
		return fmt.Sprintf("button %-2d   %s", ev.Button, state)
	case pad.KindDPad:
		return "dpad        " + dpadString(ev.DPad)
	case pad.KindRumble:
		return "rumble      " + onOff(ev.Pressed)
	case pad.KindMode:
		return "mode        " + onOff(ev.Pressed)
	default:
		return fmt.Sprintf("event %d", ev.Kind)
	}
}

func dpadString(flags uint8) string {
	if flags == 0 {
		return "released"
	}
	var dirs []string
	if flags&pad.DPadUp != 0 {
		dirs = append(dirs, "up")
	}
	if flags&pad.DPadDown != 0 {
		dirs = append(dirs, "down")
	}
	if flags&pad.DPadLeft != 0 {
		dirs = append(dirs, "left")
	}
	if flags&pad.DPadRight != 0 {
		dirs = append(dirs, "right")
	}
	return strings.Join(dirs, "+")
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
