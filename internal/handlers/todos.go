package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"example.com/capacity-planner/console/internal/models"
	"example.com/capacity-planner/console/internal/notifications"
	"example.com/capacity-planner/console/internal/render"
	"example.com/capacity-planner/console/internal/session"
)

const todosPath = "/todos"

var todoFilterLabels = []struct {
	filter models.TodoFilter
	label  string
}{
	{models.TodoFilterAll, "全部"},
	{models.TodoFilterActive, "进行中"},
	{models.TodoFilterCompleted, "已完成"},
}

type TodoRequest struct {
	Text string `form:"text" json:"text" validate:"max=500"`
}

type TodoHandler struct {
	Catalog  *render.Catalog
	Notifier *notifications.Hub
}

// NewTodoHandler создает обработчик списка задач.
func NewTodoHandler(catalog *render.Catalog, notifier *notifications.Hub) *TodoHandler {
	return &TodoHandler{Catalog: catalog, Notifier: notifier}
}

// Page отображает список задач с выбранным фильтром.
func (h *TodoHandler) Page(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	if filter := c.QueryParam("filter"); filter != "" {
		sess.Todos.SetFilter(models.ParseTodoFilter(filter))
	}

	banner := takeBanner(sess)
	if err := sess.EnsureTodos(c.Request().Context()); err != nil {
		kind, message := alertFor(h.Catalog, err, "todo_failed")
		banner = &render.Banner{Kind: kind, Message: message}
	}

	view := sess.Todos.View()
	filters := make([]render.TodoFilterLink, 0, len(todoFilterLabels))
	for _, item := range todoFilterLabels {
		filters = append(filters, render.TodoFilterLink{
			Value:  item.filter,
			Label:  item.label,
			Active: item.filter == view.Filter,
		})
	}

	return c.Render(http.StatusOK, render.PageTodos, render.TodosPage{
		Banner:  banner,
		Filters: filters,
		Todos:   view.Todos,
		Stats:   view.Stats,
	})
}

// Create добавляет задачу.
func (h *TodoHandler) Create(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	var req TodoRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid form")
	}

	if err := c.Validate(&req); err != nil {
		flashError(sess, h.Catalog, err, "todo_failed")
		return h.back(c, sess)
	}

	if _, err := sess.Todos.Add(c.Request().Context(), req.Text); err != nil {
		flashError(sess, h.Catalog, err, "todo_failed")
		return h.back(c, sess)
	}

	h.changed(sess)
	return h.back(c, sess)
}

// Toggle переключает состояние задачи.
func (h *TodoHandler) Toggle(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid todo id")
	}

	if _, err := sess.Todos.Toggle(c.Request().Context(), id); err != nil {
		flashError(sess, h.Catalog, err, "todo_failed")
		return h.back(c, sess)
	}

	h.changed(sess)
	return h.back(c, sess)
}

// Delete удаляет задачу.
func (h *TodoHandler) Delete(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid todo id")
	}

	if err := sess.Todos.Delete(c.Request().Context(), id); err != nil {
		flashError(sess, h.Catalog, err, "todo_failed")
		return h.back(c, sess)
	}

	h.changed(sess)
	return h.back(c, sess)
}

func (h *TodoHandler) back(c echo.Context, sess *session.Context) error {
	return seeOther(c, todosPath+"?filter="+string(sess.Todos.Filter()))
}

func (h *TodoHandler) changed(sess *session.Context) {
	if h.Notifier == nil {
		return
	}

	stats := sess.Todos.View().Stats
	h.Notifier.Publish(sess.ID, notifications.Event{
		Type: notifications.EventTodosChanged,
		Data: stats,
	})
}
