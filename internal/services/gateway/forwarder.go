package gateway

import (
	"context"
	"encoding/json"
	"time"

	drepo "BankBrain/internal/domain/repository"
	xhttp "BankBrain/pkg/http"
)

// HTTPForwarder posts raw payload bytes to a destination endpoint.
type HTTPForwarder struct {
	client *xhttp.Client
}

func NewHTTPForwarder(timeout time.Duration) *HTTPForwarder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPForwarder{client: xhttp.NewClient(xhttp.WithTimeout(timeout))}
}

// Forward sends the payload unmodified. Any non-2xx answer is an error.
func (f *HTTPForwarder) Forward(ctx context.Context, url string, payload json.RawMessage) error {
	return f.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     url,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    []byte(payload),
	}, nil)
}

var _ drepo.Forwarder = (*HTTPForwarder)(nil)
