package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
	if err := InitWriter(nil); err == nil {
		t.Fatal("expected error for nil writer")
	}
}

func TestLoggerTextOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := SetFormat("text"); err != nil {
		t.Fatalf("set format: %v", err)
	}
	if err := InitWriter(&buf); err != nil {
		t.Fatalf("init: %v", err)
	}
	_ = SetLevelString("info")

	ctx := context.Background()
	Get().Info(ctx, "store connected", String("driver", "sqlite"), Bool("ok", true))
	Get().Debug(ctx, "hidden")

	out := buf.String()
	if !strings.Contains(out, "store connected") || !strings.Contains(out, "driver=sqlite") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "source=") {
		t.Fatalf("expected caller source in %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record should be filtered at info level: %q", out)
	}
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := SetFormat("JSON"); err != nil {
		t.Fatalf("set format: %v", err)
	}
	defer func() { _ = SetFormat("text") }()
	if err := InitWriter(&buf); err != nil {
		t.Fatalf("init: %v", err)
	}

	Get().With(String("component", "api")).Error(context.Background(), "store fault", Error(errors.New("boom")))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected a json record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "store fault" || rec["error"] != "boom" || rec["component"] != "api" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}
	namedLogger.Info(context.Background(), "test message")
	Discard().Error(context.Background(), "dropped")
}

func TestSetLevelAndFormatErrors(t *testing.T) {
	if err := SetLevelString("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if err := SetFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	for _, lvl := range []string{"debug", "INFO", "warning", "error", ""} {
		if err := SetLevelString(lvl); err != nil {
			t.Fatalf("level %q: %v", lvl, err)
		}
	}
}
