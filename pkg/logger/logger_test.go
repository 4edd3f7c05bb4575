package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesCallerAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, "json", "")

	l.Warn("slow request", String("path", "/tool"), Duration("latency_ms", 2500*time.Millisecond), Floats("z", []float64{1.5}))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if entry["level"] != "warn" || entry["path"] != "/tool" || entry["latency_ms"] != float64(2500) {
		t.Fatalf("unexpected entry %v", entry)
	}
	if caller, _ := entry["caller"].(string); !strings.Contains(caller, "logger_test.go") {
		t.Fatalf("caller should point at the test, got %q", caller)
	}
}

func TestLoggerCollectsOnlyErrorsWithCaller(t *testing.T) {
	rec := &batchRecorder{}
	var buf bytes.Buffer
	l := newWithWriter(&buf, "json", "")
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, Publisher: rec})

	l.Warn("upstream slow")
	l.Error("poll error", Error(errors.New("refused")), Int("attempt", 2))
	l.RemoveCollector()

	batches := rec.snapshot()
	if len(batches) != 1 || len(batches[0]) != 1 {
		t.Fatalf("expected a single collected error, got %+v", batches)
	}
	got := batches[0][0]
	if got.Message != "poll error" || got.Fields["error"] != "refused" || got.Fields["attempt"] != 2 {
		t.Fatalf("unexpected entry %+v", got)
	}
	if !strings.Contains(got.Caller, "logger_test.go:") {
		t.Fatalf("caller should point at the test, got %q", got.Caller)
	}
}
