// Package bank is the client of the upstream bank REST API.
package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	drepo "BankBrain/internal/domain/repository"
	"BankBrain/pkg/cache"
	xhttp "BankBrain/pkg/http"

	"golang.org/x/time/rate"
)

// Option configures Client.
type Option func(*Client)

// WithCache serves repeated lookups from c for ttl. A zero ttl disables caching.
func WithCache(c cache.Service, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.ttl = ttl
	}
}

// WithRateLimit bounds outbound calls to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(cl *Client) {
		cl.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records cache hits and misses.
func WithMetrics(m drepo.Metrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

// Client fetches account data from <baseURL>/api/v1/accounts.
type Client struct {
	baseURL string
	client  *xhttp.Client
	limiter *rate.Limiter
	cache   cache.Service
	ttl     time.Duration
	metrics drepo.Metrics
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transactions returns the raw transaction list of the last days days.
func (c *Client) Transactions(ctx context.Context, userID string, days int) (json.RawMessage, error) {
	path := fmt.Sprintf("/api/v1/accounts/%s/transactions", url.PathEscape(userID))
	query := map[string][]string{"days": {strconv.Itoa(days)}}
	key := cache.GenerateKeyWithParams("bank", "tx", userID, days)
	return c.fetch(ctx, key, path, query)
}

// Balance returns the raw balance document.
func (c *Client) Balance(ctx context.Context, userID string) (json.RawMessage, error) {
	path := fmt.Sprintf("/api/v1/accounts/%s/balance", url.PathEscape(userID))
	key := cache.GenerateKeyWithParams("bank", "balance", userID)
	return c.fetch(ctx, key, path, nil)
}

func (c *Client) fetch(ctx context.Context, key, path string, query map[string][]string) (json.RawMessage, error) {
	if c.cachingEnabled() {
		var cached json.RawMessage
		err := c.cache.Get(ctx, key, &cached)
		if c.metrics != nil {
			c.metrics.RecordCacheLookup(err == nil)
		}
		if err == nil {
			return cached, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	var body []byte
	if err := c.client.GetJSON(ctx, c.baseURL+path, query, &body); err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if !json.Valid(body) {
		return nil, errors.New("bank returned invalid json")
	}

	if c.cachingEnabled() {
		_ = c.cache.Set(ctx, key, body, c.ttl)
	}
	return json.RawMessage(body), nil
}

func (c *Client) cachingEnabled() bool {
	return c.cache != nil && c.ttl > 0
}

var _ drepo.BankAPI = (*Client)(nil)
