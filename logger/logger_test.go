package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWithComponent(t *testing.T) {
	log := Logger()
	entry := log.WithComponent("test")
	if v, ok := entry.Entry.Data["component"]; !ok || v != "test" {
		t.Fatalf("component field missing: %v", entry.Entry.Data)
	}
}

func TestConfigureInvalidLevel(t *testing.T) {
	// Ensure environment variables do not override the provided level
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	if err := log.Configure("invalid", "json", "stdout", 0); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestConfigureInvalidFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	if err := log.Configure("info", "xml", "stdout", 0); err == nil {
		t.Fatalf("expected error for invalid format")
	}
}

func TestConfigureReportLevelAndFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "macroflow.log")
	log := Logger()
	if err := log.Configure("report", "json", path, 0); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	log.WithComponent("test").Info("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var line map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(data), &line); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", data, err)
	}
	if line["message"] != "hello" || line["component"] != "test" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestLogMetricFields(t *testing.T) {
	var buf bytes.Buffer
	log := Logger()
	log.SetOutput(&buf)
	log.LogMetric("downloader", "series_failed", 3, "", Fields{"mode": "full"})

	var line map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if line["metric"] != "series_failed" || line["value"] != float64(3) || line["metric_type"] != "counter" {
		t.Fatalf("unexpected metric line: %v", line)
	}
	if line["component"] != "downloader" || line["mode"] != "full" {
		t.Fatalf("missing fields: %v", line)
	}
}

func TestEntryWarnCountsComponent(t *testing.T) {
	var buf bytes.Buffer
	log := Logger()
	log.SetOutput(&buf)
	before := componentFor("warn-test").warns
	log.WithComponent("warn-test").Warn("careful")
	log.WithComponent("warn-test").WithFields(Fields{"k": "v"}).Warn("again")
	if got := componentFor("warn-test").warns - before; got != 2 {
		t.Fatalf("expected 2 warnings, got %d", got)
	}
}

func TestRecordProviderRequest(t *testing.T) {
	before := ProviderRequests("test-provider")
	RecordProviderRequest("test-provider", 10)
	RecordProviderRequest("test-provider", 5)
	if got := ProviderRequests("test-provider") - before; got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}

	var buf bytes.Buffer
	log := Logger()
	log.SetOutput(&buf)
	LogReport(context.Background(), log)
	if !bytes.Contains(buf.Bytes(), []byte("test-provider")) {
		t.Fatalf("report does not mention provider: %s", buf.String())
	}
}

func TestCallerHookSkipsLoggerFrames(t *testing.T) {
	h := newCallerHook()
	for fn, internal := range map[string]bool{
		"macroflow/logger.(*Entry).Warn":          true,
		"github.com/sirupsen/logrus.(*Entry).Log": true,
		"macroflow/processor.(*Downloader).run":   false,
		"macroflow/loggerx.Helper":                false,
		"main.run":                                false,
	} {
		if got := h.internal(fn); got != internal {
			t.Errorf("internal(%q) = %v, want %v", fn, got, internal)
		}
	}
}
