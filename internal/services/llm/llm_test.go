package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMockTruncatesAndFlattens(t *testing.T) {
	prompt := "line one\nline two " + strings.Repeat("x", 500)
	got, err := NewMock().Generate(context.Background(), prompt)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(got, "[MOCK_RESPONSE] line one line two ") {
		t.Fatalf("unexpected reply %q", got)
	}
	if n := len([]rune(strings.TrimPrefix(got, mockPrefix))); n != mockPromptLimit {
		t.Fatalf("expected %d echoed chars, got %d", mockPromptLimit, n)
	}
}

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestCompleteFallsBack(t *testing.T) {
	got := Complete(context.Background(), failingGenerator{}, "p")
	if got != "[model error: quota exceeded]" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer token")
		}
		var req chatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "m1" || len(req.Messages) != 1 || req.Messages[0].Content != "why?" {
			t.Errorf("unexpected request %+v", req)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  because  "}}]}`))
	}))
	defer srv.Close()

	g, err := NewOpenAI(OpenAIConfig{BaseURL: srv.URL + "/v1/", APIKey: "secret", Model: "m1", Timeout: time.Second})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, err := g.Generate(context.Background(), "why?")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "because" {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestOpenAINoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	g, _ := NewOpenAI(OpenAIConfig{BaseURL: srv.URL})
	if _, err := g.Generate(context.Background(), "p"); err == nil {
		t.Fatalf("expected error")
	}
}
