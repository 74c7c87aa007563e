package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/capacity-planner/console/internal/planning"
	"example.com/capacity-planner/console/internal/todo"
)

const (
	AlertError   = "error"
	AlertWarning = "warning"
	AlertSuccess = "success"
)

// Alert - одноразовое сообщение, которое страница показывает после редиректа.
type Alert struct {
	Kind    string
	Message string
}

// Context - состояние одного браузера: планировщик, список задач, баннер.
type Context struct {
	ID       uuid.UUID
	Planning *planning.State
	Todos    *todo.App

	mu          sync.Mutex
	alert       *Alert
	todosLoaded bool
	createdAt   time.Time
	lastSeen    time.Time
}

// NewContext создает контекст сессии.
func NewContext(id uuid.UUID, state *planning.State, todos *todo.App, now time.Time) *Context {
	return &Context{
		ID:        id,
		Planning:  state,
		Todos:     todos,
		createdAt: now,
		lastSeen:  now,
	}
}

// Flash сохраняет сообщение до следующей отрисовки страницы.
func (c *Context) Flash(kind, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.alert = &Alert{Kind: kind, Message: message}
}

// TakeAlert возвращает и очищает сохраненное сообщение.
func (c *Context) TakeAlert() (Alert, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.alert == nil {
		return Alert{}, false
	}
	alert := *c.alert
	c.alert = nil
	return alert, true
}

// EnsureTodos загружает список задач при первом обращении.
func (c *Context) EnsureTodos(ctx context.Context) error {
	c.mu.Lock()
	loaded := c.todosLoaded
	c.mu.Unlock()

	if loaded {
		return nil
	}

	if err := c.Todos.Load(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.todosLoaded = true
	c.mu.Unlock()
	return nil
}

func (c *Context) touch(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastSeen = now
}

// LastSeen возвращает время последнего обращения.
func (c *Context) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastSeen
}

// CreatedAt возвращает время создания сессии.
func (c *Context) CreatedAt() time.Time {
	return c.createdAt
}
