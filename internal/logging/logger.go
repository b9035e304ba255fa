// Package logging builds the zap logger used across backdrop.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output selects where log lines go.
type Output int

const (
	// Stderr writes plain console lines.
	Stderr Output = iota
	// RawTerminal writes to stderr with CRLF endings for a terminal in raw mode.
	RawTerminal
	// File appends to the configured log file, used under the dashboard.
	File
)

// Options configure New.
type Options struct {
	Level  string // debug, info, warn, error; empty is info
	Output Output
	Path   string // required for File
	Writer io.Writer
}

// New creates a console-encoded zap logger. The returned close function
// flushes and releases the log file, if any.
func New(opts Options) (*zap.Logger, func(), error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.EncodeCaller = nil
	encCfg.CallerKey = ""

	closeFn := func() {}
	var sink zapcore.WriteSyncer
	switch {
	case opts.Writer != nil:
		sink = zapcore.AddSync(opts.Writer)
	case opts.Output == File:
		if opts.Path == "" {
			return nil, nil, fmt.Errorf("log file path required")
		}
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		sink = zapcore.AddSync(f)
		closeFn = func() { _ = f.Close() }
	default:
		sink = zapcore.Lock(os.Stderr)
	}

	if opts.Output == RawTerminal {
		encCfg.LineEnding = "\r\n"
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else if opts.Output == Stderr && opts.Writer == nil {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, zap.NewAtomicLevelAt(level))
	logger := zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))

	return logger, func() {
		_ = logger.Sync()
		closeFn()
	}, nil
}
