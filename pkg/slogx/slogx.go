package slogx

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Service  string
	Version  string
	DeviceID string // terminal identity, attached to every record when set
	Env      string // e.g. "dev", "prod"
	Level    string // e.g. "debug", "info", "warn", "error"
	Format   string // e.g. "json", "text"
}

// New builds the process logger and installs it as the slog default. Every
// record carries the service identity; kiosk deployments also tag the device
// so one log stream can be split per terminal.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.Env == "dev",
		Level:     parseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	attrs := []any{
		"service", cfg.Service,
		"version", cfg.Version,
		"env", cfg.Env,
	}
	if cfg.DeviceID != "" {
		attrs = append(attrs, "device_id", cfg.DeviceID)
	}

	logger := slog.New(handler).With(attrs...)
	slog.SetDefault(logger)
	return logger
}

// parseLevel maps a string to slog.Level, defaulting to info.
func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
