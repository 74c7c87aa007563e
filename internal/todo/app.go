package todo

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"example.com/capacity-planner/console/internal/models"
)

var (
	ErrEmptyText = errors.New("todo text cannot be empty")
	ErrNotFound  = errors.New("todo not found")
)

// API - операции бэкенда со списком задач.
type API interface {
	ListTodos(ctx context.Context) ([]models.Todo, error)
	CreateTodo(ctx context.Context, text string) (models.Todo, error)
	UpdateTodo(ctx context.Context, id int64, completed bool) error
	RenameTodo(ctx context.Context, id int64, text string) error
	DeleteTodo(ctx context.Context, id int64) error
}

// View - отфильтрованный список вместе со счетчиками.
type View struct {
	Filter models.TodoFilter
	Todos  []models.Todo
	Stats  models.TodoStats
}

// App хранит локальную копию списка задач. Локальный список меняется только
// после успешного ответа бэкенда. Запросы к бэкенду выполняются по одному под
// op; mu защищает только локальное состояние и не держится во время запроса.
type App struct {
	op     sync.Mutex
	mu     sync.Mutex
	api    API
	todos  []models.Todo
	filter models.TodoFilter
	logger *slog.Logger
}

// NewApp создает пустой список задач.
func NewApp(api API, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		api:    api,
		todos:  make([]models.Todo, 0),
		filter: models.TodoFilterAll,
		logger: logger,
	}
}

// Load заменяет локальный список данными бэкенда.
func (a *App) Load(ctx context.Context) error {
	a.op.Lock()
	defer a.op.Unlock()

	todos, err := a.api.ListTodos(ctx)
	if err != nil {
		a.logger.Error("failed to load todos", slog.String("error", err.Error()))
		return err
	}

	a.mu.Lock()
	a.todos = todos
	a.mu.Unlock()
	return nil
}

// Add создает задачу и добавляет ее в начало списка.
func (a *App) Add(ctx context.Context, text string) (models.Todo, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.Todo{}, ErrEmptyText
	}

	a.op.Lock()
	defer a.op.Unlock()

	created, err := a.api.CreateTodo(ctx, trimmed)
	if err != nil {
		a.logger.Error("failed to add todo", slog.String("error", err.Error()))
		return models.Todo{}, err
	}

	a.mu.Lock()
	a.todos = append([]models.Todo{created}, a.todos...)
	a.mu.Unlock()
	return created, nil
}

// Toggle переключает отметку о выполнении.
func (a *App) Toggle(ctx context.Context, id int64) (models.Todo, error) {
	a.op.Lock()
	defer a.op.Unlock()

	current, ok := a.find(id)
	if !ok {
		return models.Todo{}, ErrNotFound
	}

	completed := !current.Completed
	if err := a.api.UpdateTodo(ctx, id, completed); err != nil {
		a.logger.Error("failed to update todo", slog.Int64("todo_id", id), slog.String("error", err.Error()))
		return models.Todo{}, err
	}

	return a.apply(id, func(todo *models.Todo) { todo.Completed = completed })
}

// Rename меняет текст задачи.
func (a *App) Rename(ctx context.Context, id int64, text string) (models.Todo, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.Todo{}, ErrEmptyText
	}

	a.op.Lock()
	defer a.op.Unlock()

	if _, ok := a.find(id); !ok {
		return models.Todo{}, ErrNotFound
	}

	if err := a.api.RenameTodo(ctx, id, trimmed); err != nil {
		a.logger.Error("failed to rename todo", slog.Int64("todo_id", id), slog.String("error", err.Error()))
		return models.Todo{}, err
	}

	return a.apply(id, func(todo *models.Todo) { todo.Text = trimmed })
}

// Delete удаляет задачу; при ошибке бэкенда задача остается в списке.
func (a *App) Delete(ctx context.Context, id int64) error {
	a.op.Lock()
	defer a.op.Unlock()

	if _, ok := a.find(id); !ok {
		return ErrNotFound
	}

	if err := a.api.DeleteTodo(ctx, id); err != nil {
		a.logger.Error("failed to delete todo", slog.Int64("todo_id", id), slog.String("error", err.Error()))
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if idx := a.indexOf(id); idx >= 0 {
		a.todos = append(a.todos[:idx], a.todos[idx+1:]...)
	}
	return nil
}

// SetFilter меняет текущий фильтр отображения.
func (a *App) SetFilter(filter models.TodoFilter) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.filter = filter
}

// Filter возвращает текущий фильтр.
func (a *App) Filter() models.TodoFilter {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.filter
}

// View возвращает проекцию списка по текущему фильтру и счетчики.
func (a *App) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()

	return View{
		Filter: a.filter,
		Todos:  Filtered(a.todos, a.filter),
		Stats:  Stats(a.todos),
	}
}

// Todos возвращает копию всего списка.
func (a *App) Todos() []models.Todo {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]models.Todo, len(a.todos))
	copy(out, a.todos)
	return out
}

func (a *App) find(id int64) (models.Todo, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.indexOf(id)
	if idx < 0 {
		return models.Todo{}, false
	}
	return a.todos[idx], true
}

// apply меняет задачу после подтверждения бэкендом.
func (a *App) apply(id int64, change func(*models.Todo)) (models.Todo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := a.indexOf(id)
	if idx < 0 {
		return models.Todo{}, ErrNotFound
	}
	change(&a.todos[idx])
	return a.todos[idx], nil
}

// indexOf вызывается под a.mu.
func (a *App) indexOf(id int64) int {
	for i, todo := range a.todos {
		if todo.ID == id {
			return i
		}
	}
	return -1
}

// Filtered возвращает задачи, подходящие под фильтр.
func Filtered(todos []models.Todo, filter models.TodoFilter) []models.Todo {
	out := make([]models.Todo, 0, len(todos))
	for _, todo := range todos {
		switch filter {
		case models.TodoFilterActive:
			if todo.Completed {
				continue
			}
		case models.TodoFilterCompleted:
			if !todo.Completed {
				continue
			}
		}
		out = append(out, todo)
	}
	return out
}

// Stats считает общее, активное и выполненное количество задач.
func Stats(todos []models.Todo) models.TodoStats {
	stats := models.TodoStats{Total: len(todos)}
	for _, todo := range todos {
		if todo.Completed {
			stats.Completed++
		}
	}
	stats.Active = stats.Total - stats.Completed
	return stats
}
