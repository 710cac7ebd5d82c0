package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// AccessLogger records authentication attempts and file operations
type AccessLogger interface {
	// LogAuth logs authentication operations
	LogAuth(operation string, user string, status string, details ...interface{})
	// LogAccess logs file operations performed by an authenticated user
	LogAccess(operation string, user string, path string, status string, details ...interface{})
}

type accessLogger struct {
	logger *log.Logger
}

// NewAccessLogger creates an access logger writing to w
func NewAccessLogger(w io.Writer) AccessLogger {
	return &accessLogger{
		logger: log.New(w, "", 0),
	}
}

func (l *accessLogger) write(parts []string, details []interface{}) {
	parts = append(parts, formatKeyvals(details)...)
	timestamp := time.Now().UTC().Format("2006-01-02 15:04:05 -0700")
	l.logger.Printf("%s %s", timestamp, strings.Join(parts, " "))
}

func (l *accessLogger) LogAuth(operation string, user string, status string, details ...interface{}) {
	parts := []string{fmt.Sprintf("op=%s", formatValue(operation))}
	if user != "" {
		parts = append(parts, fmt.Sprintf("user=%s", formatValue(user)))
	}
	parts = append(parts, fmt.Sprintf("status=%s", formatValue(status)))
	l.write(parts, details)
}

func (l *accessLogger) LogAccess(operation string, user string, path string, status string, details ...interface{}) {
	parts := []string{fmt.Sprintf("op=%s", formatValue(operation))}
	if user != "" {
		parts = append(parts, fmt.Sprintf("user=%s", formatValue(user)))
	}
	if path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", formatValue(path)))
	}
	parts = append(parts, fmt.Sprintf("status=%s", formatValue(status)))
	l.write(parts, details)
}
