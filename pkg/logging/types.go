package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// LogLevel represents the severity of a log message
type LogLevel string

const (
	// LogLevelDebug is for debug messages
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is for informational messages
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn is for warning messages
	LogLevelWarn LogLevel = "warn"
	// LogLevelError is for error messages
	LogLevelError LogLevel = "error"
	// LogLevelPanic is for panic messages
	LogLevelPanic LogLevel = "panic"
)

var levelOrder = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
	LogLevelPanic: 4,
}

// ParseLevel converts a config string into a LogLevel
func ParseLevel(s string) (LogLevel, error) {
	if s == "" {
		return LogLevelInfo, nil
	}
	level := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levelOrder[level]; !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

var (
	// App is the global application logger
	App = NewAppLogger(io.Discard, LogLevelInfo)
	// Access records one line per authentication attempt
	Access AccessLogger = NewAccessLogger(io.Discard)
)

// Config holds logging configuration
type Config struct {
	AccessLogPath string   // Empty discards access lines
	AppLogPath    string   // Empty logs to stderr
	Level         LogLevel // Defaults to info
	MaxSize       int64    // Bytes before a log file is rotated, zero disables rotation
	Fs            afero.Fs // Defaults to the OS filesystem
}

// Initialize sets up the global loggers
func Initialize(config *Config) error {
	level := config.Level
	if level == "" {
		level = LogLevelInfo
	}
	fs := config.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	var appOut io.Writer = os.Stderr
	if config.AppLogPath != "" {
		f, err := NewRotatingFile(fs, config.AppLogPath, config.MaxSize)
		if err != nil {
			return fmt.Errorf("failed to initialize app logger: %w", err)
		}
		appOut = f
	}

	var accessOut io.Writer = io.Discard
	if config.AccessLogPath != "" {
		f, err := NewRotatingFile(fs, config.AccessLogPath, config.MaxSize)
		if err != nil {
			return fmt.Errorf("failed to initialize access logger: %w", err)
		}
		accessOut = f
	}

	App = NewAppLogger(appOut, level)
	Access = NewAccessLogger(accessOut)
	return nil
}

// formatValue formats a value for logfmt, quoting if necessary
func formatValue(v interface{}) string {
	s := fmt.Sprintf("%v", v)
	if strings.ContainsAny(s, " =\"") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}

// formatKeyvals renders alternating key/value pairs; a trailing odd key is dropped
func formatKeyvals(keyvals []interface{}) []string {
	var parts []string
	for i := 0; i+1 < len(keyvals); i += 2 {
		parts = append(parts, fmt.Sprintf("%s=%s", toString(keyvals[i]), formatValue(toString(keyvals[i+1]))))
	}
	return parts
}
