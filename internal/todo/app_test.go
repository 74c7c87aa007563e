package todo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"example.com/capacity-planner/console/internal/models"
)

type fakeAPI struct {
	todos     []models.Todo
	nextID    int64
	calls     int
	failWith  error
	completed map[int64]bool
}

func newFakeAPI(todos ...models.Todo) *fakeAPI {
	return &fakeAPI{todos: todos, nextID: 100, completed: make(map[int64]bool)}
}

func (f *fakeAPI) ListTodos(context.Context) ([]models.Todo, error) {
	f.calls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]models.Todo, len(f.todos))
	copy(out, f.todos)
	return out, nil
}

func (f *fakeAPI) CreateTodo(_ context.Context, text string) (models.Todo, error) {
	f.calls++
	if f.failWith != nil {
		return models.Todo{}, f.failWith
	}
	f.nextID++
	return models.Todo{ID: f.nextID, Text: text}, nil
}

func (f *fakeAPI) UpdateTodo(_ context.Context, id int64, completed bool) error {
	f.calls++
	if f.failWith != nil {
		return f.failWith
	}
	f.completed[id] = completed
	return nil
}

func (f *fakeAPI) RenameTodo(context.Context, int64, string) error {
	f.calls++
	return f.failWith
}

func (f *fakeAPI) DeleteTodo(context.Context, int64) error {
	f.calls++
	return f.failWith
}

func loadedApp(t *testing.T, api *fakeAPI) *App {
	t.Helper()

	app := NewApp(api, nil)
	if err := app.Load(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	api.calls = 0
	return app
}

// TestAddEmptyTextSkipsRequest проверяет, что пустой текст не уходит в бэкенд.
func TestAddEmptyTextSkipsRequest(t *testing.T) {
	api := newFakeAPI()
	app := NewApp(api, nil)

	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := app.Add(context.Background(), text); !errors.Is(err, ErrEmptyText) {
			t.Fatalf("expected ErrEmptyText for %q, got %v", text, err)
		}
	}
	if api.calls != 0 {
		t.Fatalf("expected no backend calls, got %d", api.calls)
	}
}

// TestAddInsertsAtHead проверяет вставку созданной задачи в начало списка.
func TestAddInsertsAtHead(t *testing.T) {
	api := newFakeAPI(models.Todo{ID: 1, Text: "old"})
	app := loadedApp(t, api)

	created, err := app.Add(context.Background(), "  new  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Text != "new" {
		t.Fatalf("expected trimmed text, got %q", created.Text)
	}

	todos := app.Todos()
	if len(todos) != 2 || todos[0].ID != created.ID {
		t.Fatalf("expected created todo at head, got %+v", todos)
	}
}

// TestAddFailureKeepsList проверяет, что ошибка создания не меняет список.
func TestAddFailureKeepsList(t *testing.T) {
	api := newFakeAPI(models.Todo{ID: 1, Text: "old"})
	app := loadedApp(t, api)
	api.failWith = errors.New("boom")

	if _, err := app.Add(context.Background(), "new"); err == nil {
		t.Fatal("expected error")
	}
	if len(app.Todos()) != 1 {
		t.Fatalf("expected list to stay unchanged, got %+v", app.Todos())
	}
}

// TestToggleUpdatesCountsAndFilters проверяет счетчики и фильтры после переключения.
func TestToggleUpdatesCountsAndFilters(t *testing.T) {
	api := newFakeAPI(
		models.Todo{ID: 1, Text: "a"},
		models.Todo{ID: 2, Text: "b"},
		models.Todo{ID: 3, Text: "c", Completed: true},
	)
	app := loadedApp(t, api)

	toggled, err := app.Toggle(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !toggled.Completed || !api.completed[1] {
		t.Fatalf("expected todo 1 completed, got %+v", toggled)
	}

	view := app.View()
	if view.Stats.Active+view.Stats.Completed != view.Stats.Total {
		t.Fatalf("counters do not add up: %+v", view.Stats)
	}
	if diff := cmp.Diff(models.TodoStats{Total: 3, Active: 1, Completed: 2}, view.Stats); diff != "" {
		t.Fatalf("unexpected stats (-want +got):\n%s", diff)
	}

	app.SetFilter(models.TodoFilterActive)
	for _, todo := range app.View().Todos {
		if todo.ID == 1 {
			t.Fatal("expected completed todo to be excluded from active view")
		}
	}

	app.SetFilter(models.TodoFilterCompleted)
	if got := len(app.View().Todos); got != 2 {
		t.Fatalf("expected 2 completed todos, got %d", got)
	}
}

// TestToggleFailureKeepsState проверяет, что отметка меняется только после успеха.
func TestToggleFailureKeepsState(t *testing.T) {
	api := newFakeAPI(models.Todo{ID: 1, Text: "a"})
	app := loadedApp(t, api)
	api.failWith = errors.New("boom")

	if _, err := app.Toggle(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
	if app.Todos()[0].Completed {
		t.Fatal("expected todo to stay active")
	}
}

// TestToggleUnknownID проверяет поиск задачи по id.
func TestToggleUnknownID(t *testing.T) {
	api := newFakeAPI()
	app := loadedApp(t, api)

	if _, err := app.Toggle(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if api.calls != 0 {
		t.Fatalf("expected no backend calls, got %d", api.calls)
	}
}

// TestDeleteFailureKeepsTodo проверяет, что при ошибке удаления задача остается.
func TestDeleteFailureKeepsTodo(t *testing.T) {
	api := newFakeAPI(models.Todo{ID: 1, Text: "a"}, models.Todo{ID: 2, Text: "b"})
	app := loadedApp(t, api)
	api.failWith = errors.New("500")

	if err := app.Delete(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
	if len(app.Todos()) != 2 {
		t.Fatalf("expected todo to remain, got %+v", app.Todos())
	}

	api.failWith = nil
	if err := app.Delete(context.Background(), 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	todos := app.Todos()
	if len(todos) != 1 || todos[0].ID != 2 {
		t.Fatalf("unexpected todos after delete %+v", todos)
	}
}

// TestRename проверяет переименование задачи.
func TestRename(t *testing.T) {
	api := newFakeAPI(models.Todo{ID: 1, Text: "a"})
	app := loadedApp(t, api)

	if _, err := app.Rename(context.Background(), 1, " "); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}

	renamed, err := app.Rename(context.Background(), 1, "buy racks")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if renamed.Text != "buy racks" {
		t.Fatalf("unexpected text %q", renamed.Text)
	}
}

// blockingAPI задерживает PUT до закрытия release.
type blockingAPI struct {
	*fakeAPI
	started chan struct{}
	release chan struct{}
}

func (b *blockingAPI) UpdateTodo(ctx context.Context, id int64, completed bool) error {
	close(b.started)
	<-b.release
	return b.fakeAPI.UpdateTodo(ctx, id, completed)
}

// TestViewDuringPendingUpdate проверяет, что чтение списка не ждет запроса к бэкенду.
func TestViewDuringPendingUpdate(t *testing.T) {
	api := &blockingAPI{
		fakeAPI: newFakeAPI(models.Todo{ID: 1, Text: "a"}),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	app := NewApp(api, nil)
	if err := app.Load(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	toggled := make(chan error, 1)
	go func() {
		_, err := app.Toggle(context.Background(), 1)
		toggled <- err
	}()
	<-api.started

	viewed := make(chan View, 1)
	go func() {
		app.SetFilter(models.TodoFilterActive)
		viewed <- app.View()
	}()

	select {
	case view := <-viewed:
		if view.Stats.Completed != 0 {
			t.Fatalf("expected unconfirmed toggle to stay invisible, got %+v", view.Stats)
		}
	case <-time.After(time.Second):
		t.Fatal("expected View to return while update is pending")
	}

	close(api.release)
	if err := <-toggled; err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := app.View().Stats.Completed; got != 1 {
		t.Fatalf("expected 1 completed todo after confirmation, got %d", got)
	}
}
