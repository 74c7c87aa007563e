package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/capacity-planner/console/internal/auth"
	"example.com/capacity-planner/console/internal/session"
)

type SessionHandler struct {
	Store      *session.Store
	CookieName string
	Secure     bool
}

// NewSessionHandler создает обработчик завершения сессии.
func NewSessionHandler(store *session.Store, cookieName string, secure bool) *SessionHandler {
	return &SessionHandler{Store: store, CookieName: cookieName, Secure: secure}
}

// End завершает контекст приложения текущего браузера.
func (h *SessionHandler) End(c echo.Context) error {
	h.end(c)
	return c.NoContent(http.StatusNoContent)
}

// EndAndRedirect завершает сессию из HTML-формы и открывает новую страницу.
func (h *SessionHandler) EndAndRedirect(c echo.Context) error {
	h.end(c)
	return seeOther(c, plannerPath)
}

func (h *SessionHandler) end(c echo.Context) {
	if sess, ok := auth.SessionFromContext(c); ok {
		h.Store.End(sess.ID)
	}
	auth.ClearSessionCookie(c, h.CookieName, h.Secure)
}
