package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLevelName(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    logrus.Level
	}{
		{"debug", false, logrus.DebugLevel},
		{"WARN", false, logrus.WarnLevel},
		{"error", false, logrus.ErrorLevel},
		{"bogus", false, logrus.InfoLevel},
		{"error", true, logrus.DebugLevel},
	}
	for _, tt := range tests {
		l := New()
		l.SetLevelName(tt.name, tt.verbose)
		if got := l.GetLevel(); got != tt.want {
			t.Errorf("SetLevelName(%q, %v) level = %v, want %v", tt.name, tt.verbose, got, tt.want)
		}
	}
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)
	l.WithField("attempts", 42).Info("progress")
	out := buf.String()
	if !strings.Contains(out, "progress") || !strings.Contains(out, "attempts=42") {
		t.Errorf("unexpected log line %q", out)
	}

	buf.Reset()
	l.SetLevelName("error", false)
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged at error level: %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("discarded")
	if l.IsLevelEnabled(logrus.ErrorLevel) {
		t.Error("Nop logger should not enable error level")
	}
}
