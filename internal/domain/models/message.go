package models

import "encoding/json"

// Gateway destinations and capabilities.
const (
	DestinationSupportAgent = "support-agent"

	CapabilityNotifyUser     = "notify_user"
	CapabilityRequestConsent = "request_consent"

	ErrUnknownTarget = "unknown_target"
)

// Envelope is the body of POST /messages. Payload stays opaque to the gateway.
type Envelope struct {
	To         string          `json:"to" validate:"required"`
	Capability string          `json:"capability" validate:"required"`
	Payload    json.RawMessage `json:"payload" validate:"required"`
}

// RouteResult is the gateway answer to an Envelope.
type RouteResult struct {
	OK        bool   `json:"ok"`
	RoutedTo  string `json:"routed_to,omitempty"`
	Error     string `json:"error,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// NotificationPayload is what the risk agent asks the support agent to relay.
type NotificationPayload struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// Ack is the plain {ok: bool} answer.
type Ack struct {
	OK bool `json:"ok"`
}

// AgentCard advertises a service's capabilities.
type AgentCard struct {
	Name         string            `json:"name"`
	Capabilities []string          `json:"capabilities"`
	Endpoints    map[string]string `json:"endpoints"`
}
