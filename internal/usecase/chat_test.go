package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"BankBrain/internal/domain/models"
	"BankBrain/internal/services/llm"
	"BankBrain/pkg/logger"
	"BankBrain/pkg/metrics"
)

func TestChatReplyIncludesContext(t *testing.T) {
	tools := &fakeTools{resp: txResponse(t, 42)}
	gen := &fakeGenerator{reply: "You spent 42."}
	svc := NewChatService(tools, gen, metrics.Nop{}, logger.NewNop(), 0)

	resp := svc.Reply(context.Background(), models.ChatRequest{UserID: "user1", Message: "what did I spend?"})

	if resp.Reply != "You spent 42." {
		t.Fatalf("unexpected reply %q", resp.Reply)
	}
	if resp.Context == nil || resp.Context.Error != "" || len(resp.Context.Result) == 0 {
		t.Fatalf("expected transaction context, got %+v", resp.Context)
	}
	if tools.last.subject != "user1" || tools.last.days != 30 {
		t.Fatalf("unexpected lookup %+v", tools.last)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected one prompt")
	}
	p := gen.prompts[0]
	for _, want := range []string{"last 30 days transactions", "what did I spend?", "explicit confirmation"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q: %s", want, p)
		}
	}
}

func TestChatReplyToolServerDown(t *testing.T) {
	tools := &fakeTools{err: errBoom}
	svc := NewChatService(tools, llm.NewMock(), metrics.Nop{}, logger.NewNop(), 30)

	resp := svc.Reply(context.Background(), models.ChatRequest{UserID: "user1", Message: "hi"})

	if resp.Context == nil || resp.Context.Error == "" {
		t.Fatalf("expected error context, got %+v", resp.Context)
	}
	if !strings.HasPrefix(resp.Reply, "[MOCK_RESPONSE] ") {
		t.Fatalf("reply should still be produced, got %q", resp.Reply)
	}
}

func TestChatNotifyAcknowledges(t *testing.T) {
	svc := NewChatService(&fakeTools{}, llm.NewMock(), metrics.Nop{}, logger.NewNop(), 30)
	for _, payload := range []string{`{"user_id":"user1","text":"hi"}`, `{"anything":true}`} {
		if ack := svc.Notify(context.Background(), json.RawMessage(payload)); !ack.OK {
			t.Fatalf("expected ok for %s", payload)
		}
	}
}
