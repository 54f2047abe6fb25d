// Package olog provides the slog.Logger used across the SDK.
//
// The default logger is built from the environment, so diagnostics can be
// switched on for a deployed module without rebuilding it:
//
//	OCRE_LOG_LEVEL=debug OCRE_LOG_FORMAT=json ./app
//
// olog also allows calling the log api directly:
//
//	olog.Debug("event dropped", "type", "gpio")
//	olog.Warn("release failed", "err", err)
package olog

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

var defaultLogger = Default()

// SetDefault sets the package-level logger.
func SetDefault(logger *slog.Logger) { defaultLogger = logger }

// Debug logs a message at debug level.
func Debug(msg string, keyvals ...any) { defaultLogger.Debug(msg, keyvals...) }

// Info logs a message at info level.
func Info(msg string, keyvals ...any) { defaultLogger.Info(msg, keyvals...) }

// Warn logs a message at warn level.
func Warn(msg string, keyvals ...any) { defaultLogger.Warn(msg, keyvals...) }

// Error logs a message at error level.
func Error(msg string, keyvals ...any) { defaultLogger.Error(msg, keyvals...) }

// Config is the logger configuration, read from the environment.
type Config struct {
	// Level is one of `debug`, `info`, `warn`, `error`.
	Level string `env:"OCRE_LOG_LEVEL" envDefault:"info"`

	// Format is `text` or `json`.
	Format string `env:"OCRE_LOG_FORMAT" envDefault:"text"`

	// Output is a log file path. Stdout if not set.
	Output string `env:"OCRE_LOG_OUTPUT"`

	// MaxSizeMB caps a log file before rotation. Only used with Output.
	MaxSizeMB int `env:"OCRE_LOG_MAX_SIZE" envDefault:"10"`

	// MaxBackups is the number of rotated files kept. Only used with Output.
	MaxBackups int `env:"OCRE_LOG_MAX_BACKUPS" envDefault:"3"`

	// Verbose adds the source position to every record.
	Verbose bool `env:"OCRE_LOG_VERBOSE" envDefault:"false"`

	// DisableTime drops the time attribute, which keeps test output stable.
	DisableTime bool `env:"OCRE_LOG_DISABLE_TIME" envDefault:"false"`
}

// Default returns a slog.Logger configured from the environment.
func Default() *slog.Logger {
	var conf Config
	if err := env.Parse(&conf); err != nil {
		log.Fatalf("%+v\n", err)
	}
	return NewFromConfig(conf)
}

// NewFromConfig returns a slog.Logger according to conf.
func NewFromConfig(conf Config) *slog.Logger {
	return slog.New(newHandler(conf, parseToWriter(conf)))
}

func newHandler(conf Config, w io.Writer) slog.Handler {
	level := parseToSlogLevel(conf.Level)

	replaceAttr := func(groups []string, a slog.Attr) slog.Attr {
		if conf.DisableTime && a.Key == "time" && len(groups) == 0 {
			return slog.Attr{}
		}
		return a
	}

	if strings.ToLower(conf.Format) == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   conf.Verbose,
			Level:       level,
			ReplaceAttr: replaceAttr,
		})
	}

	return tint.NewHandler(w, &tint.Options{
		AddSource:   conf.Verbose,
		Level:       level,
		ReplaceAttr: replaceAttr,
	})
}

func parseToWriter(conf Config) io.Writer {
	if conf.Output == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   conf.Output,
		MaxSize:    conf.MaxSizeMB,
		MaxBackups: conf.MaxBackups,
	}
}

func parseToSlogLevel(stringLevel string) slog.Level {
	level := slog.LevelInfo
	switch strings.ToLower(stringLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return level
}
