package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/capacity-planner/console/internal/session"
)

const ContextSessionKey = "session"

// SessionMiddleware находит сессию по подписанной cookie или создает новую
// и сохраняет ее в контексте запроса.
func SessionMiddleware(manager *TokenManager, store *session.Store, cookieName string, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sess *session.Context
			var expiresAt time.Time

			if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
				sessionID, claims, err := manager.ParseSessionToken(cookie.Value)
				if err == nil {
					if existing, ok := store.Get(sessionID); ok {
						sess = existing
						expiresAt = claims.ExpiresAt.Time
					}
				}
			}

			// Токен перевыпускается, когда прошла половина срока жизни.
			if sess == nil || time.Until(expiresAt) < manager.TTL()/2 {
				if sess == nil {
					sess = store.Create()
				}

				token, exp, err := manager.NewSessionToken(sess.ID)
				if err != nil {
					slog.Error("failed to issue session token", slog.String("error", err.Error()))
					return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
				}
				c.SetCookie(newCookie(cookieName, token, exp, secure))
			}

			c.Set(ContextSessionKey, sess)
			return next(c)
		}
	}
}

// SessionFromContext извлекает сессию из контекста.
func SessionFromContext(c echo.Context) (*session.Context, bool) {
	value := c.Get(ContextSessionKey)
	sess, ok := value.(*session.Context)
	return sess, ok
}

// ClearSessionCookie удаляет cookie сессии в браузере.
func ClearSessionCookie(c echo.Context, cookieName string, secure bool) {
	cookie := newCookie(cookieName, "", time.Unix(0, 0), secure)
	cookie.MaxAge = -1
	c.SetCookie(cookie)
}

func newCookie(name, value string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
