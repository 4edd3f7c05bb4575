// Package toolserver is the HTTP client of the bank tool server.
package toolserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"BankBrain/internal/domain/models"
	drepo "BankBrain/internal/domain/repository"
	xhttp "BankBrain/pkg/http"
)

// Client calls POST <baseURL>/tool.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

// New builds a client bounded by timeout per call.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Call posts a tool invocation. A tool-level error comes back inside the
// response; only transport and decoding failures return an error.
func (c *Client) Call(ctx context.Context, call models.ToolCall) (*models.ToolResponse, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("tool server url not configured")
	}
	var resp models.ToolResponse
	if err := c.client.PostJSON(ctx, c.baseURL+"/tool", call, &resp); err != nil {
		return nil, fmt.Errorf("call %s: %w", call.Name, err)
	}
	return &resp, nil
}

// ListTransactions requests the subject's transactions of the last sinceDays days.
func (c *Client) ListTransactions(ctx context.Context, subjectID string, sinceDays int) (*models.ToolResponse, error) {
	call, err := models.NewToolCall(models.ToolListTransactions, models.ListTransactionsArgs{
		UserID:    subjectID,
		SinceDays: sinceDays,
	})
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, call)
}

var _ drepo.ToolClient = (*Client)(nil)
