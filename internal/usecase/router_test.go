package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"BankBrain/internal/domain/models"
	"BankBrain/pkg/logger"
	"BankBrain/pkg/metrics"
)

func newRouter(fw *fakeForwarder) *Router {
	r := NewRouter(SupportRoutes("http://support:8080/"), fw, metrics.Nop{}, logger.NewNop())
	r.newID = func() string { return "msg-1" }
	return r
}

func TestRouteForwardsPayloadUnchanged(t *testing.T) {
	fw := &fakeForwarder{}
	payload := `{"user_id":"user1","text":"hi","extra":{"nested":[1,2]}}`

	res := newRouter(fw).Route(context.Background(), models.Envelope{
		To:         models.DestinationSupportAgent,
		Capability: models.CapabilityNotifyUser,
		Payload:    json.RawMessage(payload),
	})

	if !res.OK || res.RoutedTo != models.DestinationSupportAgent || res.MessageID != "msg-1" {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(fw.sent) != 1 {
		t.Fatalf("expected exactly one forward, got %d", len(fw.sent))
	}
	if fw.sent[0].url != "http://support:8080/internal_notify" {
		t.Fatalf("unexpected url %s", fw.sent[0].url)
	}
	if fw.sent[0].payload != payload {
		t.Fatalf("payload modified: %s", fw.sent[0].payload)
	}
}

func TestRouteUnknownTarget(t *testing.T) {
	fw := &fakeForwarder{}
	res := newRouter(fw).Route(context.Background(), models.Envelope{
		To:         "fraud-desk",
		Capability: models.CapabilityNotifyUser,
		Payload:    json.RawMessage(`{}`),
	})
	if res.OK || res.Error != models.ErrUnknownTarget {
		t.Fatalf("expected unknown_target, got %+v", res)
	}
	if len(fw.sent) != 0 {
		t.Fatalf("nothing should be forwarded")
	}
}

func TestRouteForwardFailure(t *testing.T) {
	fw := &fakeForwarder{err: errBoom}
	res := newRouter(fw).Route(context.Background(), models.Envelope{
		To:         models.DestinationSupportAgent,
		Capability: models.CapabilityNotifyUser,
		Payload:    json.RawMessage(`{}`),
	})
	if res.OK || res.Error != "boom" {
		t.Fatalf("expected failure result, got %+v", res)
	}
	if len(fw.sent) != 1 {
		t.Fatalf("forward must not be retried, got %d attempts", len(fw.sent))
	}
}

func TestRouterCard(t *testing.T) {
	card := newRouter(&fakeForwarder{}).Card()
	if card.Name != "a2a-gateway" || card.Endpoints["messages"] != "/messages" {
		t.Fatalf("unexpected card %+v", card)
	}
	if len(card.Capabilities) != 2 {
		t.Fatalf("unexpected capabilities %v", card.Capabilities)
	}
}
