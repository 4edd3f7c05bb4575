package api

import (
	"net/http"

	"BankBrain/internal/domain/models"

	"github.com/labstack/echo/v4"
)

func healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, models.Ack{OK: true})
}

// HealthHandler serves only /healthz, for services without an API.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", healthz)
}
