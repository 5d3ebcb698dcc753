// Package logging builds the file-backed logger shared by the CLI and TUI.
// The terminal belongs to Bubble Tea, so log output never goes to stdout.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config selects where and how much to log.
type Config struct {
	// Level is a logrus level name: "debug", "info", "warn", "error".
	Level string

	// File is the log file path. Empty means DefaultLogPath().
	// "-" logs to stderr (useful for the line-mode preview command).
	File string

	// Format is "json" (default) or "text".
	Format string
}

// DefaultConfig returns info-level JSON logging to the default path.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json"}
}

// ConfigFromEnv overlays VISIQ_LOG_LEVEL and VISIQ_LOG_FILE on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if l := os.Getenv("VISIQ_LOG_LEVEL"); l != "" {
		cfg.Level = l
	}
	if f := os.Getenv("VISIQ_LOG_FILE"); f != "" {
		cfg.File = f
	}
	return cfg
}

// New creates a logger for cfg. The returned closer releases the log file.
func New(cfg Config) (*logrus.Logger, io.Closer, error) {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(lvl)

	switch strings.ToLower(cfg.Format) {
	case "", "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	default:
		return nil, nil, fmt.Errorf("unknown log format: %q", cfg.Format)
	}

	if cfg.File == "-" {
		logger.SetOutput(os.Stderr)
		return logger, nopCloser{}, nil
	}

	path := cfg.File
	if path == "" {
		path, err = DefaultLogPath()
		if err != nil {
			return nil, nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Discard returns a logger that drops everything. Tests and optional
// dependencies use it in place of a nil logger.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// DefaultLogPath returns $XDG_STATE_HOME/visiq/visiq.log, falling back to
// ~/.local/state/visiq/visiq.log.
func DefaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "visiq", "visiq.log"), nil
}
