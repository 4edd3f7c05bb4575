package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"BankBrain/internal/domain/models"
)

type fakeTools struct {
	mu    sync.Mutex
	resp  *models.ToolResponse
	err   error
	calls int
	last  struct {
		subject string
		days    int
	}
}

func (f *fakeTools) Call(ctx context.Context, call models.ToolCall) (*models.ToolResponse, error) {
	return f.resp, f.err
}

func (f *fakeTools) ListTransactions(ctx context.Context, subjectID string, sinceDays int) (*models.ToolResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last.subject = subjectID
	f.last.days = sinceDays
	return f.resp, f.err
}

func (f *fakeTools) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type sentNotification struct {
	userID string
	text   string
}

type fakeNotifier struct {
	res  *models.RouteResult
	err  error
	sent []sentNotification
}

func (f *fakeNotifier) Notify(ctx context.Context, userID, text string) (*models.RouteResult, error) {
	f.sent = append(f.sent, sentNotification{userID: userID, text: text})
	if f.err != nil {
		return nil, f.err
	}
	if f.res == nil {
		return &models.RouteResult{OK: true, RoutedTo: models.DestinationSupportAgent}, nil
	}
	return f.res, nil
}

type fakeAlerts struct {
	events []*models.AnomalyEvent
	err    error
}

func (f *fakeAlerts) PublishAnomaly(ctx context.Context, ev *models.AnomalyEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakeAlerts) Close() error { return nil }

type forwarded struct {
	url     string
	payload string
}

type fakeForwarder struct {
	err  error
	sent []forwarded
}

func (f *fakeForwarder) Forward(ctx context.Context, url string, payload json.RawMessage) error {
	f.sent = append(f.sent, forwarded{url: url, payload: string(payload)})
	return f.err
}

type fakeBank struct {
	txs      json.RawMessage
	balance  json.RawMessage
	err      error
	lastUser string
	lastDays int
}

func (f *fakeBank) Transactions(ctx context.Context, userID string, days int) (json.RawMessage, error) {
	f.lastUser, f.lastDays = userID, days
	return f.txs, f.err
}

func (f *fakeBank) Balance(ctx context.Context, userID string) (json.RawMessage, error) {
	f.lastUser = userID
	return f.balance, f.err
}

var errBoom = errors.New("boom")

func txResponse(t interface{ Fatalf(string, ...any) }, amounts ...float64) *models.ToolResponse {
	items := make([]map[string]any, 0, len(amounts))
	for i, a := range amounts {
		items = append(items, map[string]any{"id": i, "amount": a})
	}
	raw, err := json.Marshal(items)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return &models.ToolResponse{Name: models.ToolListTransactions, Result: raw}
}
