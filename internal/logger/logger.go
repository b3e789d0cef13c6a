package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger so packages depend on one logging type
type Logger struct {
	*logrus.Logger
}

// New creates a new logger writing to stdout
func New() *Logger {
	return NewWriter(os.Stdout)
}

// NewWriter creates a new logger that writes to the provided writer
func NewWriter(w io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	return &Logger{Logger: l}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	l := NewWriter(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// SetOutput sets the output destination for the logger
func (l *Logger) SetOutput(w io.Writer) {
	l.Logger.SetOutput(w)
}

// SetLevelName sets the level from a name; verbose forces debug and unknown
// names fall back to info.
func (l *Logger) SetLevelName(name string, verbose bool) {
	if verbose {
		l.SetLevel(logrus.DebugLevel)
		return
	}
	switch strings.ToLower(name) {
	case "debug":
		l.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		l.SetLevel(logrus.WarnLevel)
	case "error":
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
}
