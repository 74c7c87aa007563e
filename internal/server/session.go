package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"example.com/capacity-planner/console/internal/config"
	"example.com/capacity-planner/console/internal/notifications"
	"example.com/capacity-planner/console/internal/planning"
	"example.com/capacity-planner/console/internal/repository"
	"example.com/capacity-planner/console/internal/session"
	"example.com/capacity-planner/console/internal/todo"
)

const archiveCleanupTimeout = 5 * time.Second

// NewSessionStore собирает хранилище сессий: каждая сессия получает свое
// состояние планировщика и список задач, а при завершении теряет архив.
func NewSessionStore(cfg config.SessionConfig, hub *notifications.Hub, todos todo.API, reports repository.ReportStore, logger *slog.Logger) *session.Store {
	if logger == nil {
		logger = slog.Default()
	}

	store := session.NewStore(cfg.TTL, func(id uuid.UUID, now time.Time) *session.Context {
		state := planning.NewState(id, notifications.NewIndicator(hub, id))
		return session.NewContext(id, state, todo.NewApp(todos, logger), now)
	}, logger)

	store.OnEnd(func(sess *session.Context) {
		if hub != nil {
			hub.Publish(sess.ID, notifications.Event{Type: notifications.EventSessionEnded})
		}

		if reports == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), archiveCleanupTimeout)
		defer cancel()

		deleted, err := reports.DeleteBySession(ctx, sess.ID)
		if err != nil {
			logger.Warn("failed to delete session reports", slog.String("session_id", sess.ID.String()), slog.String("error", err.Error()))
			return
		}
		if deleted > 0 {
			logger.Info("session reports deleted", slog.String("session_id", sess.ID.String()), slog.Int64("count", deleted))
		}
	})

	return store
}
