// pkg/logging/logging.go
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/renderq/renderq/pkg/config"
)

var (
	// logWriter stores the current log writer globally
	logWriter io.Writer
)

// init sets the global logging level for zerolog to InfoLevel by default
func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logWriter = zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
}

// Configure configures the global logging settings for the application
// from the log configuration: level, format (text console or raw JSON),
// and an optional log file.
func Configure(cfg config.LogConfig) error {
	level := parseLogLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	w, err := resolveWriter(cfg)
	if err != nil {
		return err
	}
	logWriter = w

	logContext := zerolog.New(w).With().Timestamp()
	if level <= zerolog.DebugLevel {
		logContext = logContext.Caller()
	}

	log.Logger = logContext.Logger().Level(level)
	zerolog.DefaultContextLogger = &log.Logger

	return nil
}

// SetLevel adjusts the global log level at runtime. Used by the config
// file watcher so a level edit takes effect without a restart.
func SetLevel(levelStr string) {
	level := parseLogLevel(levelStr)
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Logger.Level(level)
}

// NewComponentLogger returns a child of the global logger tagged with a
// component field, the convention used across the codebase.
func NewComponentLogger(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

// parseLogLevel converts a string log level to zerolog.Level
func parseLogLevel(levelString string) zerolog.Level {
	if levelString == "" {
		levelString = "info"
	}

	level, err := zerolog.ParseLevel(strings.ToLower(levelString))
	if err != nil {
		log.Error().Err(err).
			Str("logLevel", levelString).
			Msg("Invalid log level provided. Defaulting to info level.")
		return zerolog.InfoLevel
	}
	return level
}

// resolveWriter picks the output writer from the log configuration.
func resolveWriter(cfg config.LogConfig) (io.Writer, error) {
	var out io.Writer = os.Stdout
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return nil, err
		}
		out = f
	}

	if strings.EqualFold(cfg.Format, "json") {
		return out, nil
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}, nil
}

// SetLogWriter sets the global log writer. Tests use this to capture output.
func SetLogWriter(w io.Writer) {
	logWriter = w
	log.Logger = zerolog.New(w).With().Timestamp().Logger().Level(log.Logger.GetLevel())
}
