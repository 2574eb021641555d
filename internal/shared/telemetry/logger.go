package telemetry

import (
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var logger = newLogger(os.Stdout)

func newLogger(out io.Writer) *log.Logger {
	l := log.New()
	l.SetOutput(out)
	l.SetFormatter(&log.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "ts",
			log.FieldKeyMsg:  "msg",
		},
	})
	l.SetLevel(log.InfoLevel)
	return l
}

// SetOutput redirects log lines, mainly for tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetLevel sets the minimum level from a name such as "debug" or "warn".
// Unknown names fall back to info.
func SetLevel(name string) {
	lvl, err := log.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
}

// Debug writes a debug-level log line with the given fields.
func Debug(msg string, fields map[string]any) {
	logger.WithFields(log.Fields(fields)).Debug(msg)
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	logger.WithFields(log.Fields(fields)).Info(msg)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	logger.WithFields(log.Fields(fields)).Warn(msg)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	logger.WithFields(log.Fields(fields)).Error(msg)
}

// Fatal writes an error line and exits the process.
func Fatal(msg string, fields map[string]any) {
	logger.WithFields(log.Fields(fields)).Fatal(msg)
}
