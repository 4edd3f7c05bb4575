package api

import (
	"io"
	"net/http"

	"BankBrain/internal/domain/models"
	"BankBrain/internal/service/ratelimit"
	"BankBrain/internal/usecase"
	xhttp "BankBrain/pkg/http"
	xlogger "BankBrain/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// maxNotifyBytes bounds /internal_notify bodies.
const maxNotifyBytes = 1 << 20

// SupportEchoHandler serves the customer-facing support agent.
type SupportEchoHandler struct {
	logger   *xlogger.Logger
	chat     *usecase.ChatService
	limiter  *ratelimit.Limiter
	upgrader websocket.Upgrader
}

// NewSupportEchoHandler serves chat; limiter bounds model calls per user and
// may be nil.
func NewSupportEchoHandler(logger *xlogger.Logger, chat *usecase.ChatService, limiter *ratelimit.Limiter) *SupportEchoHandler {
	return &SupportEchoHandler{
		logger:  logger,
		chat:    chat,
		limiter: limiter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *SupportEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", healthz)
	e.GET("/", h.Index)
	e.POST("/chat", h.Chat)
	e.GET("/ws", h.ChatSocket)
	e.POST("/internal_notify", h.InternalNotify)
}

func (h *SupportEchoHandler) Index(c echo.Context) error {
	return c.HTML(http.StatusOK, chatPage)
}

func (h *SupportEchoHandler) Chat(c echo.Context) error {
	req := &models.ChatRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(req.UserID) {
		return xhttp.AppErrorResponse(c, errTooManyChats)
	}
	return xhttp.JSONResponse(c, h.chat.Reply(c.Request().Context(), *req))
}

var errTooManyChats = xhttp.NewAppError("ERR_RATE_LIMITED", "user_id", "too many chat requests", http.StatusTooManyRequests)

func (h *SupportEchoHandler) allow(userID string) bool {
	return h.limiter == nil || h.limiter.Allow(userID)
}

// InternalNotify accepts whatever the gateway relays.
func (h *SupportEchoHandler) InternalNotify(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxNotifyBytes))
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("", "unreadable body").WithError(err))
	}
	return xhttp.JSONResponse(c, h.chat.Notify(c.Request().Context(), body))
}

const chatPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>BankBrain Support</title></head>
<body>
<h2>BankBrain Support</h2>
<form id="f">
  <input name="user_id" value="user1">
  <input name="message" placeholder="Ask about your account" size="60">
  <button>Send</button>
</form>
<pre id="out"></pre>
<script>
document.getElementById('f').onsubmit = async (e) => {
  e.preventDefault();
  const fd = new FormData(e.target);
  const r = await fetch('/chat', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({user_id: fd.get('user_id'), message: fd.get('message')})
  });
  document.getElementById('out').textContent = JSON.stringify(await r.json(), null, 2);
};
</script>
</body>
</html>`
