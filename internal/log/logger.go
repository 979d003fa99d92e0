package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// Level returns the stderr level: Debug when verbose, Warn otherwise.
func Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewSecureLogger returns a text logger on w that masks credentials.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: Level(verbose)})
	return slog.New(NewSecureHandler(h))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: Level(verbose)})
	return slog.New(NewSecureHandler(h))
}

// NewLogger builds the application logger. Records go to w as text at the
// verbosity level. When logFile is set, every record down to Debug is also
// appended to it as JSON, whatever the verbosity. The returned close
// function releases the log file and is never nil.
func NewLogger(w io.Writer, verbose bool, logFile string) (*slog.Logger, func() error, error) {
	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: Level(verbose)})
	if logFile == "" {
		return slog.New(NewSecureHandler(text)), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) //nolint:gosec // path from config
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	jsonHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	fanout := slogmulti.Fanout(text, jsonHandler)
	return slog.New(NewSecureHandler(fanout)), f.Close, nil
}
