package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type HealthResponse struct {
	Status     string `json:"status"`
	Sessions   int    `json:"sessions"`
	RenderMode string `json:"render_mode"`
}

type sessionCounter interface {
	Len() int
}

type HealthHandler struct {
	sessions   sessionCounter
	renderMode string
}

func NewHealthHandler(sessions sessionCounter, renderMode string) *HealthHandler {
	return &HealthHandler{sessions: sessions, renderMode: renderMode}
}

// Health возвращает статус консоли и число активных сессий.
func (h *HealthHandler) Health(c echo.Context) error {
	count := 0
	if h.sessions != nil {
		count = h.sessions.Len()
	}

	return c.JSON(http.StatusOK, HealthResponse{
		Status:     "ok",
		Sessions:   count,
		RenderMode: h.renderMode,
	})
}
