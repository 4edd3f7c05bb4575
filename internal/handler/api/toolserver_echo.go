package api

import (
	"BankBrain/internal/domain/models"
	"BankBrain/internal/usecase"
	xhttp "BankBrain/pkg/http"
	xlogger "BankBrain/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ToolServerEchoHandler exposes bank tools over HTTP.
type ToolServerEchoHandler struct {
	logger     *xlogger.Logger
	dispatcher *usecase.ToolDispatcher
}

func NewToolServerEchoHandler(logger *xlogger.Logger, dispatcher *usecase.ToolDispatcher) *ToolServerEchoHandler {
	return &ToolServerEchoHandler{logger: logger, dispatcher: dispatcher}
}

func (h *ToolServerEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", healthz)
	e.GET("/tools", h.Tools)
	e.POST("/tool", h.Tool)
}

func (h *ToolServerEchoHandler) Tools(c echo.Context) error {
	return xhttp.JSONResponse(c, h.dispatcher.Catalog())
}

func (h *ToolServerEchoHandler) Tool(c echo.Context) error {
	call := &models.ToolCall{}
	if verr := xhttp.ReadAndValidateRequest(c, call); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.JSONResponse(c, h.dispatcher.Dispatch(c.Request().Context(), *call))
}
