package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/capacity-planner/console/internal/auth"
	"example.com/capacity-planner/console/internal/config"
	"example.com/capacity-planner/console/internal/handlers"
	"example.com/capacity-planner/console/internal/notifications"
	"example.com/capacity-planner/console/internal/planning"
	"example.com/capacity-planner/console/internal/render"
	"example.com/capacity-planner/console/internal/repository"
	"example.com/capacity-planner/console/internal/session"
	"example.com/capacity-planner/console/internal/todo"
)

// Backend объединяет операции бэкенда планирования и списка задач.
type Backend interface {
	planning.API
	todo.API
}

// Deps - внешние зависимости веб-консоли.
type Deps struct {
	Backend  Backend
	Reports  repository.ReportStore
	Sessions *session.Store
	Hub      *notifications.Hub
}

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, deps Deps) (*echo.Echo, error) {
	if logger == nil {
		logger = slog.Default()
	}

	catalog, err := render.LoadCatalog()
	if err != nil {
		return nil, err
	}

	money := render.NewMoney(cfg.Render.CurrencySymbol, cfg.Render.Locale)
	renderer, err := render.New(cfg.Render.Mode, money, catalog)
	if err != nil {
		return nil, err
	}

	pages, err := render.NewPages(money, catalog)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.Renderer = pages

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", cfg.Upload.MaxBytes)))

	secure := cfg.Env != "local"
	tokenManager := auth.NewTokenManager(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL)
	// Без хранилища отчеты не архивируются.
	var archive planning.Archiver
	if deps.Reports != nil {
		archive = repository.NewArchiver(deps.Reports)
	}
	coordinator := planning.NewCoordinator(deps.Backend, archive, cfg.Upload.AllowedExtensions, logger)

	plannerHandler := handlers.NewPlannerHandler(coordinator, renderer, deps.Reports, catalog, deps.Hub, cfg.Upload.AllowedExtensions)
	todoHandler := handlers.NewTodoHandler(catalog, deps.Hub)
	notificationHandler := handlers.NewNotificationHandler(deps.Hub)
	sessionHandler := handlers.NewSessionHandler(deps.Sessions, cfg.Session.CookieName, secure)

	registerRoutes(
		e,
		handlers.NewHealthHandler(deps.Sessions, renderer.Mode()),
		plannerHandler,
		todoHandler,
		notificationHandler,
		sessionHandler,
		auth.SessionMiddleware(tokenManager, deps.Sessions, cfg.Session.CookieName, secure),
		plannerRateLimiter(cfg.Server),
	)

	return e, nil
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("request_id", v.RequestID),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func plannerRateLimiter(cfg config.ServerConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
