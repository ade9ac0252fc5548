package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		result := test.level.String()
		if result != test.expected {
			t.Errorf("LogLevel(%d).String() = %s, expected %s", test.level, result, test.expected)
		}
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{LogLevel(999), slog.LevelInfo}, // Default for unknown
	}

	for _, test := range tests {
		result := test.level.SlogLevel()
		if result != test.expected {
			t.Errorf("LogLevel(%d).SlogLevel() = %v, expected %v", test.level, result, test.expected)
		}
	}
}

func TestInit_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf)

	Debug("Test", "this should be filtered")
	Info("Test", "this should appear")

	output := buf.String()
	if strings.Contains(output, "this should be filtered") {
		t.Error("debug message should have been filtered at info level")
	}
	if !strings.Contains(output, "this should appear") {
		t.Error("info message should have been logged")
	}
}

func TestInit_SubsystemAndError(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelDebug, &buf)

	Error("FileStore", errors.New("disk full"), "failed to write %s", "app.yaml")

	output := buf.String()
	if !strings.Contains(output, "subsystem=FileStore") {
		t.Errorf("expected subsystem attribute in output, got: %s", output)
	}
	if !strings.Contains(output, "disk full") {
		t.Errorf("expected error attribute in output, got: %s", output)
	}
	if !strings.Contains(output, "failed to write app.yaml") {
		t.Errorf("expected formatted message in output, got: %s", output)
	}
}
