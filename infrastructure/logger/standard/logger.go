// ABOUTME: Standard logger implementation backed by logrus
// ABOUTME: Provides structured, levelled console logging for the pipeline

package standard

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// StandardLogger implements the Logger interface using logrus
type StandardLogger struct {
	log *logrus.Logger
}

// NewStandardLogger creates a logger writing text records to out.
// An empty or unknown level falls back to info.
func NewStandardLogger(out io.Writer, level string) *StandardLogger {
	if out == nil {
		out = os.Stderr
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return &StandardLogger{log: l}
}

// Debug logs a debug message
func (l *StandardLogger) Debug(msg string, fields map[string]interface{}) {
	l.entry(fields).Debug(msg)
}

// Info logs an info message
func (l *StandardLogger) Info(msg string, fields map[string]interface{}) {
	l.entry(fields).Info(msg)
}

// Warn logs a warning message
func (l *StandardLogger) Warn(msg string, fields map[string]interface{}) {
	l.entry(fields).Warn(msg)
}

// Error logs an error message
func (l *StandardLogger) Error(msg string, fields map[string]interface{}) {
	l.entry(fields).Error(msg)
}

func (l *StandardLogger) entry(fields map[string]interface{}) *logrus.Entry {
	if len(fields) == 0 {
		return logrus.NewEntry(l.log)
	}
	return l.log.WithFields(logrus.Fields(fields))
}
