// Package logging provides leveled key/value logging on top of the standard
// log package. Components receive a *Logger; the package-level functions use
// a shared default that the CLI configures from the --log-level flag.
package logging

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
)

// Level represents a log level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// String returns the level name.
func (level Level) String() string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(level))
}

// ParseLevel converts a flag value into a Level.
func ParseLevel(value string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", value)
}

// Logger writes leveled messages with context fields.
type Logger struct {
	mu       sync.RWMutex
	minLevel Level
	fields   map[string]interface{}
	output   *log.Logger
}

var defaultLogger = New()

// New creates a Logger that writes info and above to stderr.
func New() *Logger {
	return &Logger{
		minLevel: LevelInfo,
		fields:   make(map[string]interface{}),
		output:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Default returns the shared package logger.
func Default() *Logger {
	return defaultLogger
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	logger := New()
	logger.SetLevel(LevelError + 1)
	return logger
}

// SetLevel sets the minimum log level.
func (logger *Logger) SetLevel(level Level) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.minLevel = level
}

// SetOutput replaces the underlying writer.
func (logger *Logger) SetOutput(output *log.Logger) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	logger.output = output
}

// With returns a child Logger carrying an extra field.
func (logger *Logger) With(key string, value interface{}) *Logger {
	logger.mu.RLock()
	defer logger.mu.RUnlock()

	fields := make(map[string]interface{}, len(logger.fields)+1)
	for k, v := range logger.fields {
		fields[k] = v
	}
	fields[key] = value

	return &Logger{
		minLevel: logger.minLevel,
		fields:   fields,
		output:   logger.output,
	}
}

func (logger *Logger) log(level Level, msg string, keyVals ...interface{}) {
	logger.mu.RLock()
	minLevel := logger.minLevel
	output := logger.output
	fields := logger.fields
	logger.mu.RUnlock()

	if level < minLevel {
		return
	}

	all := make(map[string]interface{}, len(fields)+len(keyVals)/2)
	for k, v := range fields {
		all[k] = v
	}
	for i := 0; i+1 < len(keyVals); i += 2 {
		if key, ok := keyVals[i].(string); ok {
			all[key] = keyVals[i+1]
		}
	}

	var sb strings.Builder
	sb.WriteString(level.String())
	sb.WriteString(": ")
	sb.WriteString(msg)

	if len(all) > 0 {
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString(" |")
		for _, k := range keys {
			sb.WriteString(" ")
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(formatValue(all[k]))
		}
	}

	output.Print(sb.String())
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t\n") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case error:
		return fmt.Sprintf("%q", val.Error())
	default:
		return fmt.Sprint(v)
	}
}

func (logger *Logger) Debug(msg string, keyVals ...interface{}) {
	logger.log(LevelDebug, msg, keyVals...)
}

func (logger *Logger) Info(msg string, keyVals ...interface{}) {
	logger.log(LevelInfo, msg, keyVals...)
}

func (logger *Logger) Warn(msg string, keyVals ...interface{}) {
	logger.log(LevelWarn, msg, keyVals...)
}

func (logger *Logger) Error(msg string, keyVals ...interface{}) {
	logger.log(LevelError, msg, keyVals...)
}

// SetLevel sets the minimum level of the default logger.
func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// With returns a child of the default logger.
func With(key string, value interface{}) *Logger {
	return defaultLogger.With(key, value)
}

func Info(msg string, keyVals ...interface{}) {
	defaultLogger.Info(msg, keyVals...)
}

func Warn(msg string, keyVals ...interface{}) {
	defaultLogger.Warn(msg, keyVals...)
}

func Error(msg string, keyVals ...interface{}) {
	defaultLogger.Error(msg, keyVals...)
}
