package api

import (
	"bytes"

	"BankBrain/internal/domain/models"
	"BankBrain/internal/usecase"
	xhttp "BankBrain/pkg/http"
	xlogger "BankBrain/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GatewayEchoHandler serves the message gateway.
type GatewayEchoHandler struct {
	logger *xlogger.Logger
	router *usecase.Router
}

func NewGatewayEchoHandler(logger *xlogger.Logger, router *usecase.Router) *GatewayEchoHandler {
	return &GatewayEchoHandler{logger: logger, router: router}
}

func (h *GatewayEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", healthz)
	e.GET("/agent-card", h.AgentCard)
	e.POST("/messages", h.Messages)
}

// Messages routes one envelope. Routing outcomes are always 200; only a
// malformed envelope is rejected.
func (h *GatewayEchoHandler) Messages(c echo.Context) error {
	env := &models.Envelope{}
	if verr := xhttp.ReadAndValidateRequest(c, env); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if p := bytes.TrimSpace(env.Payload); len(p) == 0 || p[0] != '{' {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("payload", "payload must be a JSON object"))
	}

	res := h.router.Route(c.Request().Context(), *env)
	return xhttp.JSONResponse(c, res)
}

func (h *GatewayEchoHandler) AgentCard(c echo.Context) error {
	return xhttp.JSONResponse(c, h.router.Card())
}
