// Package logger holds the process-wide zerolog logger shared by the analyze
// pipeline and the HTTP API.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB = 100
	logFileMaxAge    = 28 // days
)

var base zerolog.Logger

// Init rebuilds the global logger from LOG_LEVEL (debug|info|warn|error,
// default info), LOG_PRETTY (console output for local runs) and LOG_FILE.
// When LOG_FILE is set, JSON lines also go to that file, rotated by size.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stdout
	if strings.EqualFold(getenv("LOG_PRETTY", "false"), "true") {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	if path := getenv("LOG_FILE", ""); path != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename: path,
			MaxSize:  logFileMaxSizeMB,
			MaxAge:   logFileMaxAge,
			Compress: true,
		})
	}

	base = zerolog.New(out).
		Level(parseLevel(getenv("LOG_LEVEL", "info"))).
		With().Timestamp().Logger()
}

// L returns the global logger, initializing it on first use.
func L() *zerolog.Logger {
	if base.GetLevel() == zerolog.NoLevel {
		Init()
	}
	return &base
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
