package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"BankBrain/internal/domain/models"
	"BankBrain/pkg/logger"
	"BankBrain/pkg/metrics"
)

func newMonitor(tools *fakeTools, gen *fakeGenerator, n *fakeNotifier, opts ...RiskMonitorOption) *RiskMonitor {
	return NewRiskMonitor(
		PollConfig{SubjectID: "user1", SinceDays: 1, Interval: 10 * time.Millisecond},
		tools, gen, n, metrics.Nop{}, logger.NewNop(), opts...,
	)
}

func TestRunCycleQuietWindow(t *testing.T) {
	tools := &fakeTools{resp: txResponse(t, 10, 12, 11, 9, 10, 11)}
	gen := &fakeGenerator{reply: "nothing"}
	n := &fakeNotifier{}

	report, err := newMonitor(tools, gen, n).RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if len(report.Amounts) != 6 {
		t.Fatalf("expected 6 amounts, got %v", report.Amounts)
	}
	if len(report.Suspicious) != 0 || len(n.sent) != 0 || len(gen.prompts) != 0 {
		t.Fatalf("quiet window must not notify: %+v sent=%d prompts=%d", report, len(n.sent), len(gen.prompts))
	}
	if tools.last.subject != "user1" || tools.last.days != 1 {
		t.Fatalf("unexpected query %+v", tools.last)
	}
}

func TestRunCycleNotifiesOncePerAnomalousCycle(t *testing.T) {
	tools := &fakeTools{resp: txResponse(t, 10, 10, 10, 10, 10, 10, 10, 10, 10, -1000)}
	gen := &fakeGenerator{reply: "Large outflow."}
	n := &fakeNotifier{}
	alerts := &fakeAlerts{}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	report, err := newMonitor(tools, gen, n, WithAlertPublisher(alerts), WithClock(func() time.Time { return fixed })).
		RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if len(report.Suspicious) != 1 || report.Suspicious[0] != 1000 {
		t.Fatalf("expected [1000] suspicious, got %v", report.Suspicious)
	}
	if len(n.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(n.sent))
	}
	if n.sent[0].userID != "user1" || n.sent[0].text != "Large outflow." {
		t.Fatalf("unexpected notification %+v", n.sent[0])
	}
	if !report.Notified {
		t.Fatalf("report should be marked notified")
	}
	if len(gen.prompts) != 1 || !strings.HasPrefix(gen.prompts[0], "Explain in 2 sentences why [1000] looks anomalous.") {
		t.Fatalf("unexpected prompt %q", gen.prompts)
	}
	if len(alerts.events) != 1 || !alerts.events[0].DetectedAt.Equal(fixed) {
		t.Fatalf("expected one published event, got %+v", alerts.events)
	}
}

func TestRunCycleModelFailureStillNotifies(t *testing.T) {
	tools := &fakeTools{resp: txResponse(t, 10, 10, 10, 10, 10, 10, 10, 10, 10, 1000)}
	gen := &fakeGenerator{err: errBoom}
	n := &fakeNotifier{}

	if _, err := newMonitor(tools, gen, n).RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if len(n.sent) != 1 || !strings.HasPrefix(n.sent[0].text, "[model error:") {
		t.Fatalf("expected model error marker, got %+v", n.sent)
	}
}

func TestRunCycleToolFailures(t *testing.T) {
	cases := []struct {
		name  string
		tools *fakeTools
	}{
		{"transport", &fakeTools{err: errBoom}},
		{"tool error", &fakeTools{resp: &models.ToolResponse{Name: models.ToolListTransactions, Error: "bank down"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := &fakeNotifier{}
			if _, err := newMonitor(tc.tools, &fakeGenerator{}, n).RunCycle(context.Background()); err == nil {
				t.Fatalf("expected error")
			}
			if len(n.sent) != 0 {
				t.Fatalf("no notification expected on failure")
			}
		})
	}
}

func TestRunCycleNotifyFailure(t *testing.T) {
	tools := &fakeTools{resp: txResponse(t, 10, 10, 10, 10, 10, 10, 10, 10, 10, 1000)}
	n := &fakeNotifier{err: errBoom}

	report, err := newMonitor(tools, &fakeGenerator{reply: "x"}, n).RunCycle(context.Background())
	if err == nil || !strings.Contains(err.Error(), "notify failed") {
		t.Fatalf("expected notify failure, got %v", err)
	}
	if report == nil || report.Notified {
		t.Fatalf("report should exist and not be notified: %+v", report)
	}
}

func TestRunCycleRejectedRoute(t *testing.T) {
	tools := &fakeTools{resp: txResponse(t, 10, 10, 10, 10, 10, 10, 10, 10, 10, 1000)}
	n := &fakeNotifier{res: &models.RouteResult{OK: false, Error: "unknown_target"}}

	report, err := newMonitor(tools, &fakeGenerator{reply: "x"}, n).RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if report.Notified {
		t.Fatalf("rejected route must not count as notified")
	}
}

func TestRunPollsUntilCancelled(t *testing.T) {
	tools := &fakeTools{err: errBoom}
	m := newMonitor(tools, &fakeGenerator{}, &fakeNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for tools.Calls() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("loop did not keep polling after errors, calls=%d", tools.Calls())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}

func TestRationalePrompt(t *testing.T) {
	got := RationalePrompt([]float64{1000}, []float64{10, 12.5, 1000})
	want := "Explain in 2 sentences why [1000] looks anomalous. History: [10, 12.5, 1000]"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
