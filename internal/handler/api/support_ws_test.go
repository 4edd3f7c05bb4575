package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"BankBrain/internal/domain/models"

	"github.com/gorilla/websocket"
)

func TestChatSocketSession(t *testing.T) {
	tools := httptest.NewServer(newToolServer(&stubBank{txs: json.RawMessage(`[]`)}))
	defer tools.Close()

	srv := httptest.NewServer(newSupport(t, tools.URL))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{broken")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var bad models.ChatError
	if err := conn.ReadJSON(&bad); err != nil || bad.Error == "" {
		t.Fatalf("expected error frame, got %+v %v", bad, err)
	}

	if err := conn.WriteJSON(models.ChatRequest{UserID: "user1", Message: "balance?"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp models.ChatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(resp.Reply, "[MOCK_RESPONSE] ") || resp.Context == nil {
		t.Fatalf("unexpected response %+v", resp)
	}
}
