// Package logger configures the process-wide slog logger: extended levels
// (trace below debug, fatal above error), a JSON or text handler, and
// package-level logging functions used by the service and command layers.
// The evaluation engine itself never logs; it is pure computation.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Type alias for slog.Level for easier usage
type Level = slog.Level

const (
	LevelTrace   = slog.Level(-8)
	LevelDebug   = slog.LevelDebug // -4
	LevelInfo    = slog.LevelInfo  // 0
	LevelWarning = slog.LevelWarn  // 4
	LevelError   = slog.LevelError // 8
	LevelFatal   = slog.Level(12)
)

// Output formats accepted by Configure.
const (
	FormatJSON = "json"
	FormatText = "text"
)

var (
	Logger       *slog.Logger
	programLevel = new(slog.LevelVar)
)

func init() {
	programLevel.Set(slog.LevelInfo)
	Configure(LevelInfo, FormatJSON, os.Stdout)
}

// Configure installs a handler with the given level and format writing to w,
// and makes it both the package logger and the slog default. Call it once at
// startup after configuration is loaded; the init default (info, JSON,
// stdout) covers code that logs before that.
func Configure(level Level, format string, w io.Writer) {
	programLevel.Set(level)

	opts := &slog.HandlerOptions{
		Level: programLevel,
		// Rename the extended levels so output says TRACE/FATAL instead
		// of DEBUG-4 / ERROR+4.
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					switch {
					case lvl <= LevelTrace:
						a.Value = slog.StringValue("TRACE")
					case lvl >= LevelFatal:
						a.Value = slog.StringValue("FATAL")
					}
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatText {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// SetLevel sets the minimum log level for the logger
func SetLevel(level slog.Level) {
	programLevel.Set(level)
}

// GetLevel returns the current minimum log level
func GetLevel() slog.Level {
	return programLevel.Level()
}

// ParseLevel converts a string level name to slog.Level
func ParseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToUpper(levelStr) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarning, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s (defaulting to INFO)", levelStr)
	}
}

// ParseFormat validates a handler format name, defaulting to JSON.
func ParseFormat(formatStr string) (string, error) {
	switch strings.ToLower(formatStr) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return FormatJSON, fmt.Errorf("unknown log format: %s (defaulting to json)", formatStr)
	}
}

// With returns a logger carrying the given attributes on every record.
func With(args ...any) *slog.Logger {
	return Logger.With(args...)
}

// ============================================================================
// Logging Functions
// ============================================================================

// Trace logs a trace-level message
func Trace(msg string, args ...any) {
	Logger.Log(context.Background(), LevelTrace, msg, args...)
}

// Debug logs a debug-level message
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info-level message
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning-level message
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error-level message
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// Fatal logs a fatal-level message and exits
func Fatal(msg string, args ...any) {
	Logger.Log(context.Background(), LevelFatal, msg, args...)
	os.Exit(1)
}
