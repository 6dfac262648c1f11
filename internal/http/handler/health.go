package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	healthPingTimeout      = 2 * time.Second
	msgDatabaseUnavailable = "database unavailable"
	statusOK               = "ok"
)

type HealthHandler struct {
	db     Pinger
	logger *zap.Logger
}

func NewHealthHandler(db Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		return respondError(c, http.StatusServiceUnavailable, msgDatabaseUnavailable)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": statusOK})
}
