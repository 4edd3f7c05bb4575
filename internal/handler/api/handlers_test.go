package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"BankBrain/internal/domain/models"
	"BankBrain/internal/service/ratelimit"
	"BankBrain/internal/services/gateway"
	"BankBrain/internal/services/llm"
	"BankBrain/internal/services/toolserver"
	"BankBrain/internal/usecase"
	"BankBrain/pkg/logger"
	"BankBrain/pkg/metrics"

	"github.com/labstack/echo/v4"
)

func newEcho(h interface{ RegisterRoutes(*echo.Echo) }) *echo.Echo {
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type stubBank struct {
	txs json.RawMessage
}

func (s *stubBank) Transactions(ctx context.Context, userID string, days int) (json.RawMessage, error) {
	return s.txs, nil
}

func (s *stubBank) Balance(ctx context.Context, userID string) (json.RawMessage, error) {
	return json.RawMessage(`{"balance":"10.00"}`), nil
}

func newToolServer(bank *stubBank) *echo.Echo {
	d := usecase.NewToolDispatcher(bank, metrics.Nop{}, logger.NewNop())
	return newEcho(NewToolServerEchoHandler(logger.NewNop(), d))
}

func TestToolServerEndpoints(t *testing.T) {
	e := newToolServer(&stubBank{txs: json.RawMessage(`[{"id":"1","amount":-12.5}]`)})

	if rec := do(t, e, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("healthz: %d %s", rec.Code, rec.Body.String())
	}

	rec := do(t, e, http.MethodGet, "/tools", "")
	var tools []models.ToolSchema
	if err := json.Unmarshal(rec.Body.Bytes(), &tools); err != nil || len(tools) != 5 {
		t.Fatalf("tools: %v %s", err, rec.Body.String())
	}

	rec = do(t, e, http.MethodPost, "/tool", `{"name":"list_transactions","args":{"user_id":"user1","since_days":1}}`)
	var resp models.ToolResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "" || string(resp.Result) != `[{"id":"1","amount":-12.5}]` {
		t.Fatalf("unexpected tool response %s", rec.Body.String())
	}

	rec = do(t, e, http.MethodPost, "/tool", `{"name":"wire_money"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"error":"unknown_tool"`) {
		t.Fatalf("unknown tool: %d %s", rec.Code, rec.Body.String())
	}

	if rec = do(t, e, http.MethodPost, "/tool", `{"args":{}}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing name should be 400, got %d", rec.Code)
	}
}

type notifySink struct {
	mu     sync.Mutex
	bodies []string
	status int
}

func (s *notifySink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.bodies = append(s.bodies, string(b))
	status := s.status
	s.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func newGateway(supportURL string) *echo.Echo {
	r := usecase.NewRouter(usecase.SupportRoutes(supportURL), gateway.NewHTTPForwarder(0), metrics.Nop{}, logger.NewNop())
	return newEcho(NewGatewayEchoHandler(logger.NewNop(), r))
}

func TestGatewayRoutesToSupport(t *testing.T) {
	sink := &notifySink{}
	support := httptest.NewServer(sink)
	defer support.Close()

	e := newGateway(support.URL)
	rec := do(t, e, http.MethodPost, "/messages",
		`{"to":"support-agent","capability":"notify_user","payload":{"user_id":"user1","text":"hi"}}`)

	var res models.RouteResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || !res.OK || res.RoutedTo != "support-agent" || res.MessageID == "" {
		t.Fatalf("unexpected result %d %s", rec.Code, rec.Body.String())
	}
	if len(sink.bodies) != 1 || sink.bodies[0] != `{"user_id":"user1","text":"hi"}` {
		t.Fatalf("payload not forwarded verbatim: %q", sink.bodies)
	}
}

func TestGatewayFailures(t *testing.T) {
	sink := &notifySink{status: http.StatusInternalServerError}
	support := httptest.NewServer(sink)
	defer support.Close()

	e := newGateway(support.URL)

	rec := do(t, e, http.MethodPost, "/messages", `{"to":"support-agent","capability":"notify_user","payload":{}}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":false`) {
		t.Fatalf("non-2xx destination should fail routing: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, e, http.MethodPost, "/messages", `{"to":"nobody","capability":"notify_user","payload":{}}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"error":"unknown_target"`) {
		t.Fatalf("unknown target: %d %s", rec.Code, rec.Body.String())
	}

	for _, body := range []string{
		`{"capability":"notify_user","payload":{}}`,
		`{"to":"support-agent","capability":"notify_user","payload":"text"}`,
		`not json`,
	} {
		if rec = do(t, e, http.MethodPost, "/messages", body); rec.Code != http.StatusBadRequest {
			t.Fatalf("malformed envelope %s should be 400, got %d", body, rec.Code)
		}
	}
}

func TestGatewayUnreachableSupport(t *testing.T) {
	support := httptest.NewServer(http.NotFoundHandler())
	url := support.URL
	support.Close()

	rec := do(t, newGateway(url), http.MethodPost, "/messages",
		`{"to":"support-agent","capability":"notify_user","payload":{"text":"x"}}`)
	var res models.RouteResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || res.OK || res.Error == "" {
		t.Fatalf("expected routing failure, got %d %+v", rec.Code, res)
	}
}

func TestGatewayAgentCard(t *testing.T) {
	rec := do(t, newGateway("http://support"), http.MethodGet, "/agent-card", "")
	var card models.AgentCard
	if err := json.Unmarshal(rec.Body.Bytes(), &card); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if card.Name != "a2a-gateway" || card.Endpoints["messages"] != "/messages" {
		t.Fatalf("unexpected card %+v", card)
	}
}

// newSupport wires a support agent to a real tool server over HTTP.
func newSupport(t *testing.T, toolURL string) *echo.Echo {
	t.Helper()
	return newSupportLimited(t, toolURL, nil)
}

func newSupportLimited(t *testing.T, toolURL string, lim *ratelimit.Limiter) *echo.Echo {
	t.Helper()
	chat := usecase.NewChatService(toolserver.New(toolURL, 0), llm.NewMock(), metrics.Nop{}, logger.NewNop(), 30)
	return newEcho(NewSupportEchoHandler(logger.NewNop(), chat, lim))
}

func TestSupportChatRoundTrip(t *testing.T) {
	tools := httptest.NewServer(newToolServer(&stubBank{txs: json.RawMessage(`[{"id":"1","amount":-42}]`)}))
	defer tools.Close()

	e := newSupport(t, tools.URL)
	rec := do(t, e, http.MethodPost, "/chat", `{"user_id":"user1","message":"what did I spend?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat: %d %s", rec.Code, rec.Body.String())
	}

	var resp models.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(resp.Reply, "[MOCK_RESPONSE] You are a banking copilot.") {
		t.Fatalf("unexpected reply %q", resp.Reply)
	}
	if resp.Context == nil || string(resp.Context.Result) != `[{"id":"1","amount":-42}]` {
		t.Fatalf("unexpected context %+v", resp.Context)
	}
}

func TestSupportChatToolServerDown(t *testing.T) {
	tools := httptest.NewServer(http.NotFoundHandler())
	url := tools.URL
	tools.Close()

	rec := do(t, newSupport(t, url), http.MethodPost, "/chat", `{"user_id":"user1","message":"hi"}`)
	var resp models.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || resp.Context == nil || resp.Context.Error == "" || resp.Reply == "" {
		t.Fatalf("expected reply with error context, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestSupportPagesAndNotify(t *testing.T) {
	e := newSupport(t, "http://127.0.0.1:1")

	if rec := do(t, e, http.MethodGet, "/", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<form") {
		t.Fatalf("index: %d", rec.Code)
	}
	rec := do(t, e, http.MethodPost, "/internal_notify", `{"user_id":"user1","text":"Large outflow."}`)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("internal_notify: %d %s", rec.Code, rec.Body.String())
	}
	if rec = do(t, e, http.MethodPost, "/chat", `{"user_id":"user1"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("chat without message should be 400, got %d", rec.Code)
	}
}

func TestSupportChatRateLimited(t *testing.T) {
	tools := httptest.NewServer(newToolServer(&stubBank{txs: json.RawMessage(`[]`)}))
	defer tools.Close()

	e := newSupportLimited(t, tools.URL, ratelimit.New(0.001, 1))
	body := `{"user_id":"user1","message":"hi"}`

	if rec := do(t, e, http.MethodPost, "/chat", body); rec.Code != http.StatusOK {
		t.Fatalf("first chat: %d", rec.Code)
	}
	rec := do(t, e, http.MethodPost, "/chat", body)
	if rec.Code != http.StatusTooManyRequests || !strings.Contains(rec.Body.String(), "ERR_RATE_LIMITED") {
		t.Fatalf("second chat should be limited: %d %s", rec.Code, rec.Body.String())
	}
	if rec = do(t, e, http.MethodPost, "/chat", `{"user_id":"user2","message":"hi"}`); rec.Code != http.StatusOK {
		t.Fatalf("other users are not limited: %d", rec.Code)
	}
}
