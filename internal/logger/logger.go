package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"notes-vault/internal/config"
)

// New создает логгер по настройкам: уровень из cfg.Level, формат json (по умолчанию) или console
func New(cfg *config.ConfigLogger) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter создает логгер, пишущий в w
func NewWithWriter(cfg *config.ConfigLogger, w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	format := ""
	if cfg != nil {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && parsed != zerolog.NoLevel {
			level = parsed
		}
		format = cfg.Format
	}

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
