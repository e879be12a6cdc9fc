// Package logger provides a simple logging interface backed by zerolog
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines the logging interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
}

// Level represents logging levels
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// logger implements the Logger interface
type logger struct {
	zl zerolog.Logger
}

// New creates a new logger instance writing to stdout, level from LOG_LEVEL.
func New() Logger {
	return NewWithLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// NewWithLevel creates a console logger on stdout at level.
func NewWithLevel(level Level) Logger {
	out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return NewWithWriter(out, level)
}

// NewWithWriter creates a logger writing to w at the given level.
func NewWithWriter(w io.Writer, level Level) Logger {
	zl := zerolog.New(w).Level(toZerolog(level)).With().Timestamp().Logger()
	return &logger{zl: zl}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &logger{zl: zerolog.Nop()}
}

// ParseLevel converts string log level to Level type
func ParseLevel(levelStr string) Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func toZerolog(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug logs a debug message
func (l *logger) Debug(v ...interface{}) {
	l.zl.Debug().Msg(fmt.Sprint(v...))
}

// Debugf logs a formatted debug message
func (l *logger) Debugf(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

// Info logs an info message
func (l *logger) Info(v ...interface{}) {
	l.zl.Info().Msg(fmt.Sprint(v...))
}

// Infof logs a formatted info message
func (l *logger) Infof(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

// Warn logs a warning message
func (l *logger) Warn(v ...interface{}) {
	l.zl.Warn().Msg(fmt.Sprint(v...))
}

// Warnf logs a formatted warning message
func (l *logger) Warnf(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

// Error logs an error message
func (l *logger) Error(v ...interface{}) {
	l.zl.Error().Msg(fmt.Sprint(v...))
}

// Errorf logs a formatted error message
func (l *logger) Errorf(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// Fatal logs an error message and exits
func (l *logger) Fatal(v ...interface{}) {
	l.zl.Error().Msg(fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf logs a formatted error message and exits
func (l *logger) Fatalf(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
	os.Exit(1)
}
