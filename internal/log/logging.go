// Package log configures the slog.Logger shared by the modtap commands and
// the raw HID report trace.
//
// Without a log file, records below error go to stdout and errors go to
// stderr. With a log file, the console gets everything on stderr and the
// file gets a copy.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below debug and enables the HID report trace.
const LevelTrace slog.Level = -8

// Config is embedded into commands with the "log." prefix.
type Config struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"MODTAP_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" env:"MODTAP_LOG_FILE"`
	RawFile string `help:"Write a hex trace of every HID report to this file" env:"MODTAP_LOG_RAW_FILE"`
}

// ParseLevel maps a level name to a slog.Level. Unknown names give info.
func ParseLevel(s string) slog.Level {
	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// fanout hands every record to all handlers that accept its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f fanout) WithGroup(name string) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f fanout) each(fn func(slog.Handler) slog.Handler) fanout {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = fn(h)
	}
	return out
}

// below passes only records strictly under max to next.
type below struct {
	max  slog.Level
	next slog.Handler
}

func (b below) Enabled(ctx context.Context, level slog.Level) bool {
	return level < b.max && b.next.Enabled(ctx, level)
}

func (b below) Handle(ctx context.Context, r slog.Record) error {
	return b.next.Handle(ctx, r)
}

func (b below) WithAttrs(attrs []slog.Attr) slog.Handler {
	return below{max: b.max, next: b.next.WithAttrs(attrs)}
}

func (b below) WithGroup(name string) slog.Handler {
	return below{max: b.max, next: b.next.WithGroup(name)}
}

// renameTrace prints LevelTrace as TRACE instead of DEBUG-4.
func renameTrace(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if l, ok := a.Value.Any().(slog.Level); ok && l == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}

func textHandler(w io.Writer, l slog.Leveler) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: l, ReplaceAttr: renameTrace})
}

// newLogger wires the console split (or a single console stream when file
// is set) plus the optional file copy.
func newLogger(level slog.Level, stdout, stderr, file io.Writer) *slog.Logger {
	var hs fanout
	if file == nil {
		hs = append(hs,
			below{max: slog.LevelError, next: textHandler(stdout, level)},
			textHandler(stderr, max(level, slog.LevelError)),
		)
	} else {
		hs = append(hs, textHandler(stderr, level), textHandler(file, level))
	}
	return slog.New(hs)
}

// SetupLogger builds the process logger. The returned closers own the log
// file, if any.
func SetupLogger(logLevel, logFile string) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(logLevel)
	if logFile == "" {
		return newLogger(level, os.Stdout, os.Stderr, nil), nil, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return newLogger(level, os.Stdout, os.Stderr, f), []io.Closer{f}, nil
}
