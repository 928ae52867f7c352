package padio

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Alia5/PADLINK/pad"
)

// Replay feeds a captured report log into a Sink as if a device had been
// plugged in: one DeviceMatched, every report in file order, one
// DeviceRemoved.
//
// The log format is one report per line as hex digits, optionally separated
// by spaces. Blank lines and lines starting with # are skipped. Lines
// written by the raw report logger ("... hex: c8 32 80 ...") are accepted
// too; everything up to and including a "hex:" marker is ignored.
type Replay struct {
	R io.Reader
	// Delay is the pause between consecutive reports. Zero replays
	// back-to-back.
	Delay  time.Duration
	Logger *slog.Logger
}

// Run replays the whole log. It returns the first parse error encountered;
// the DeviceRemoved event is delivered even on early exit so the sink never
// stays connected to a gone pseudo-device.
func (p *Replay) Run(ctx context.Context, sink Sink) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sink.DeviceMatched()
	defer sink.DeviceRemoved()

	scanner := bufio.NewScanner(p.R)
	lineNo := 0
	count := 0
	for scanner.Scan() {
		lineNo++
		report, ok, err := parseReportLine(scanner.Text())
		if err != nil {
			return fmt.Errorf("replay line %d: %w", lineNo, err)
		}
		if !ok {
			continue
		}

		if p.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Delay):
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if err := sink.HandleReport(report); err != nil {
			return fmt.Errorf("replay line %d: %w", lineNo, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("replay read: %w", err)
	}
	logger.Info("replay finished", "reports", count)
	return nil
}

// parseReportLine extracts one raw report from a log line. ok is false for
// blank and comment lines.
func parseReportLine(line string) ([]byte, bool, error) {
	if i := strings.Index(line, "hex:"); i >= 0 {
		line = line[i+len("hex:"):]
	}
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, false, nil
	}

	report, err := hex.DecodeString(strings.ReplaceAll(line, " ", ""))
	if err != nil {
		return nil, false, err
	}
	if len(report) != pad.ReportSize {
		return nil, false, fmt.Errorf("report is %d bytes, want %d", len(report), pad.ReportSize)
	}
	return report, true, nil
}
