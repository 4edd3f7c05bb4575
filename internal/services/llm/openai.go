package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	drepo "BankBrain/internal/domain/repository"
	xhttp "BankBrain/pkg/http"
)

// OpenAIConfig describes an OpenAI-compatible chat completions endpoint.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenAI generates text through POST <BaseURL>/chat/completions.
type OpenAI struct {
	baseURL string
	apiKey  string
	model   string
	client  *xhttp.Client
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("llm base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OpenAI{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   cfg.Model,
		client:  xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	headers := map[string]string{"Content-Type": "application/json"}
	if o.apiKey != "" {
		headers["Authorization"] = "Bearer " + o.apiKey
	}

	var resp chatCompletionResponse
	err := o.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     o.baseURL + "/chat/completions",
		Headers: headers,
		Body: chatCompletionRequest{
			Model:       o.model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: 0.2,
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("chat completion: empty content")
	}
	return content, nil
}

var _ drepo.Generator = (*OpenAI)(nil)
