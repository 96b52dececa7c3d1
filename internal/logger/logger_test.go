package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type logRecord struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Gateway string `json:"gateway"`
	Rows    int    `json:"rows"`
	Error   string `json:"error"`
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer

	original := Logger
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer func() { Logger = original }()

	tests := []struct {
		name  string
		fn    func(msg string, args ...any)
		level string
		msg   string
	}{
		{"Info", Info, "info", "info message"},
		{"Error", Error, "error", "error message"},
		{"Warn", Warn, "warn", "warn message"},
		{"Debug", Debug, "debug", "debug message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn(tt.msg, "gateway", "8813BF342F64", "rows", 3)

			var rec logRecord
			if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
				t.Fatalf("failed to unmarshal log output: %v", err)
			}

			if rec.Message != tt.msg {
				t.Errorf("expected msg %q, got %q", tt.msg, rec.Message)
			}
			if rec.Level != tt.level {
				t.Errorf("expected level %q, got %q", tt.level, rec.Level)
			}
			if rec.Gateway != "8813BF342F64" || rec.Rows != 3 {
				t.Errorf("unexpected fields: %+v", rec)
			}
		})
	}
}

func TestLoggerErrorField(t *testing.T) {
	var buf bytes.Buffer
	original := Logger
	Init(Config{Level: "info", Format: "json", Output: &buf})
	defer func() { Logger = original }()

	Error("fetch failed", "error", errors.New("boom"))

	var rec logRecord
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("failed to unmarshal log output: %v", err)
	}
	if rec.Error != "boom" {
		t.Errorf("expected error field %q, got %q", "boom", rec.Error)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	original := Logger
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	defer func() { Logger = original }()

	Info("hidden")
	Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}
	Warn("shown")
	if buf.Len() == 0 {
		t.Error("expected warn output")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOddArgs(t *testing.T) {
	var buf bytes.Buffer
	original := Logger
	Init(Config{Level: "info", Format: "json", Output: &buf})
	defer func() { Logger = original }()

	Info("odd", "dangling")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("failed to unmarshal log output: %v", err)
	}
	if rec["!BADKEY"] != "dangling" {
		t.Errorf("expected dangling key recorded, got %v", rec)
	}
}
