package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"example.com/capacity-planner/console/internal/models"
)

// ErrMissingTodo - ответ на создание задачи без записи сервера.
var ErrMissingTodo = errors.New("backend returned no todo")

type createTodoRequest struct {
	Text string `json:"text"`
}

type updateTodoRequest struct {
	Completed *bool   `json:"completed,omitempty"`
	Text      *string `json:"text,omitempty"`
}

// ListTodos возвращает все задачи.
func (c *Client) ListTodos(ctx context.Context) ([]models.Todo, error) {
	todos := make([]models.Todo, 0)
	if err := c.getJSON(ctx, "/api/todos", &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// CreateTodo создает задачу и возвращает запись сервера. Ответ без id
// считается ошибкой: id назначает только сервер.
func (c *Client) CreateTodo(ctx context.Context, text string) (models.Todo, error) {
	var todo models.Todo
	if err := c.sendJSON(ctx, c.httpClient, http.MethodPost, "/api/todos", createTodoRequest{Text: text}, &todo); err != nil {
		return models.Todo{}, err
	}
	if todo.ID == 0 {
		return models.Todo{}, ErrMissingTodo
	}
	return todo, nil
}

// UpdateTodo меняет отметку о выполнении.
func (c *Client) UpdateTodo(ctx context.Context, id int64, completed bool) error {
	return c.sendJSON(ctx, c.httpClient, http.MethodPut, todoPath(id), updateTodoRequest{Completed: &completed}, nil)
}

// RenameTodo меняет текст задачи.
func (c *Client) RenameTodo(ctx context.Context, id int64, text string) error {
	return c.sendJSON(ctx, c.httpClient, http.MethodPut, todoPath(id), updateTodoRequest{Text: &text}, nil)
}

// DeleteTodo удаляет задачу.
func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	return c.do(ctx, c.httpClient, http.MethodDelete, todoPath(id), nil, "", nil)
}

func todoPath(id int64) string {
	return fmt.Sprintf("/api/todos/%d", id)
}
