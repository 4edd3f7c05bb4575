package repository

import (
	"context"
	"encoding/json"

	"BankBrain/internal/domain/models"
)

// ToolClient talks to the bank tool server.
type ToolClient interface {
	Call(ctx context.Context, call models.ToolCall) (*models.ToolResponse, error)
	ListTransactions(ctx context.Context, subjectID string, sinceDays int) (*models.ToolResponse, error)
}

// Notifier hands a notification to the gateway.
type Notifier interface {
	Notify(ctx context.Context, userID, text string) (*models.RouteResult, error)
}

// Generator is the text-generation collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Forwarder delivers an opaque payload to a destination endpoint.
type Forwarder interface {
	Forward(ctx context.Context, url string, payload json.RawMessage) error
}

// BankAPI is the upstream bank REST API behind the tool server.
type BankAPI interface {
	Transactions(ctx context.Context, userID string, days int) (json.RawMessage, error)
	Balance(ctx context.Context, userID string) (json.RawMessage, error)
}

// AlertPublisher ships anomaly events to a broker.
type AlertPublisher interface {
	PublishAnomaly(ctx context.Context, ev *models.AnomalyEvent) error
	Close() error
}

// Metrics records service counters and latencies.
type Metrics interface {
	RecordPollCycle(result string)
	RecordFlagged(n int)
	RecordNotification(result string)
	RecordRouted(destination, result string)
	RecordToolCall(tool, result string)
	RecordCacheLookup(hit bool)
	RecordInboundNotification()
	RecordLatency(op string, seconds float64)
}
