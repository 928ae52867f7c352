// Package log builds the slog.Logger used by every padlink command.
//
// Without a log file, records below Error go to stdout and Error and above
// to stderr, so shell redirection can separate the two. With a log file,
// everything is duplicated to the file while the console keeps receiving
// records on stderr.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LevelTrace is a custom slog level below Debug; per-report logging uses it.
const LevelTrace slog.Level = -8

func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// tee fans out records to multiple handlers.
type tee []slog.Handler

func (t tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t tee) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range t {
		_ = h.Handle(ctx, r)
	}
	return nil
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t tee) WithGroup(name string) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

// split routes records at or above Error to err and the rest to out.
type split struct {
	out, err slog.Handler
}

func (s split) pick(level slog.Level) slog.Handler {
	if level >= slog.LevelError {
		return s.err
	}
	return s.out
}

func (s split) Enabled(ctx context.Context, level slog.Level) bool {
	return s.pick(level).Enabled(ctx, level)
}

func (s split) Handle(ctx context.Context, r slog.Record) error {
	return s.pick(r.Level).Handle(ctx, r)
}

func (s split) WithAttrs(attrs []slog.Attr) slog.Handler {
	return split{out: s.out.WithAttrs(attrs), err: s.err.WithAttrs(attrs)}
}

func (s split) WithGroup(name string) slog.Handler {
	return split{out: s.out.WithGroup(name), err: s.err.WithGroup(name)}
}

// Setup builds the process logger. The returned closer owns the log file,
// if any, and is nil otherwise.
func Setup(logLevel, logFile string) (*slog.Logger, io.Closer, error) {
	level := ParseLevel(logLevel)
	opts := &slog.HandlerOptions{Level: level}

	if logFile == "" {
		h := split{
			out: slog.NewTextHandler(os.Stdout, opts),
			err: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}),
		}
		return slog.New(h), nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	h := tee{
		slog.NewTextHandler(os.Stderr, opts),
		slog.NewTextHandler(f, opts),
	}
	return slog.New(h), f, nil
}
