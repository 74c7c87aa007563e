package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/capacity-planner/console/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	plannerHandler *handlers.PlannerHandler,
	todoHandler *handlers.TodoHandler,
	notificationHandler *handlers.NotificationHandler,
	sessionHandler *handlers.SessionHandler,
	sessionMiddleware echo.MiddlewareFunc,
	plannerRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", healthHandler.Health)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/planner")
	})

	planner := e.Group("/planner", sessionMiddleware)
	planner.GET("", plannerHandler.Page)
	planner.GET("/statistics", plannerHandler.Statistics)
	planner.GET("/reports", plannerHandler.ListReports)
	planner.GET("/reports/:id/export/json", plannerHandler.ExportJSON)
	planner.GET("/reports/:id/export/csv", plannerHandler.ExportCSV)
	planner.POST("/upload", plannerHandler.Upload, plannerRateLimiter)
	planner.POST("/analyze", plannerHandler.Analyze, plannerRateLimiter)
	planner.POST("/manual", plannerHandler.Manual, plannerRateLimiter)
	planner.POST("/recognize", plannerHandler.Recognize, plannerRateLimiter)
	planner.POST("/cases", plannerHandler.SubmitCase, plannerRateLimiter)
	planner.POST("/train", plannerHandler.Train, plannerRateLimiter)
	planner.POST("/feedback", plannerHandler.Feedback, plannerRateLimiter)

	todos := e.Group("/todos", sessionMiddleware)
	todos.GET("", todoHandler.Page)
	todos.POST("", todoHandler.Create)
	todos.POST("/:id/toggle", todoHandler.Toggle)
	todos.POST("/:id/delete", todoHandler.Delete)

	e.GET("/events", notificationHandler.Stream, sessionMiddleware)
	e.DELETE("/session", sessionHandler.End, sessionMiddleware)
	e.POST("/session/end", sessionHandler.EndAndRedirect, sessionMiddleware)
}
