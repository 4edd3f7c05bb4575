// Package gateway holds the HTTP clients on both sides of the A2A gateway.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"BankBrain/internal/domain/models"
	drepo "BankBrain/internal/domain/repository"
	xhttp "BankBrain/pkg/http"
)

// Notifier posts notification envelopes to <baseURL>/messages.
type Notifier struct {
	baseURL     string
	destination string
	capability  string
	client      *xhttp.Client
}

// NewNotifier builds a notifier addressing destination with capability.
func NewNotifier(baseURL, destination, capability string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Notifier{
		baseURL:     strings.TrimRight(baseURL, "/"),
		destination: destination,
		capability:  capability,
		client:      xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Notify makes a single delivery attempt and returns the gateway's verdict.
func (n *Notifier) Notify(ctx context.Context, userID, text string) (*models.RouteResult, error) {
	payload, err := json.Marshal(models.NotificationPayload{UserID: userID, Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	env := models.Envelope{
		To:         n.destination,
		Capability: n.capability,
		Payload:    payload,
	}

	var res models.RouteResult
	if err := n.client.PostJSON(ctx, n.baseURL+"/messages", env, &res); err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}
	return &res, nil
}

var _ drepo.Notifier = (*Notifier)(nil)
