package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/matkrin/shtokd/internal/config"
)

// New creates a text logger writing to cfg.File, or to stderr when no file
// is configured. The returned closer releases the log file.
func New(cfg config.Logging) (*slog.Logger, io.Closer, error) {
	level := new(slog.LevelVar)
	level.Set(ParseLevel(cfg.Level))

	var out io.WriteCloser = nopCloser{os.Stderr}
	if cfg.File != "" {
		logfile, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
		if err != nil {
			return nil, nil, err
		}
		out = logfile
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler), out, nil
}

// Init installs the logger built from cfg as the slog default.
func Init(cfg config.Logging) (io.Closer, error) {
	logger, closer, err := New(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closer, nil
}

// ParseLevel converts a level name to slog.Level. Unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
