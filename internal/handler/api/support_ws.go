package api

import (
	"encoding/json"
	"errors"
	"time"

	"BankBrain/internal/domain/models"
	xhttp "BankBrain/pkg/http"
	xlogger "BankBrain/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	wsWriteWait  = 10 * time.Second
	wsMaxMessage = 64 << 10
)

// ChatSocket answers each ChatRequest frame with one ChatResponse frame.
// Bad frames get a ChatError and the session continues.
func (h *SupportEchoHandler) ChatSocket(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessage)

	ctx := c.Request().Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read ended", xlogger.Error(err))
			}
			return nil
		}

		var out interface{}
		req, perr := decodeChatFrame(data)
		switch {
		case perr != nil:
			out = models.ChatError{Error: perr.Error()}
		case !h.allow(req.UserID):
			out = models.ChatError{Error: errTooManyChats.Message}
		default:
			out = h.chat.Reply(ctx, req)
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(out); err != nil {
			h.logger.Warn("websocket write failed", xlogger.Error(err))
			return nil
		}
	}
}

func decodeChatFrame(data []byte) (models.ChatRequest, error) {
	var req models.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return req, errors.New("invalid json frame")
	}
	if err := xhttp.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}
