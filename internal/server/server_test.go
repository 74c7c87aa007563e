package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/capacity-planner/console/internal/config"
	"example.com/capacity-planner/console/internal/models"
	"example.com/capacity-planner/console/internal/notifications"
	"example.com/capacity-planner/console/internal/planning"
	"example.com/capacity-planner/console/internal/repository"
)

type fakeBackend struct{}

func (fakeBackend) Analyze(context.Context, string, []byte) (planning.Result, error) {
	return planning.Result{}, nil
}

func (fakeBackend) AnalyzeManual(context.Context, planning.ManualInput) (planning.Result, error) {
	return planning.Result{}, nil
}

func (fakeBackend) Recognize(context.Context, string, []byte, planning.RecognitionMode) (planning.Recognition, error) {
	return planning.Recognition{Success: true}, nil
}

func (fakeBackend) Statistics(context.Context) (planning.Statistics, error) {
	return planning.Statistics{}, nil
}

func (fakeBackend) SubmitCase(context.Context, planning.CaseSubmission) (planning.CaseReceipt, error) {
	return planning.CaseReceipt{Success: true}, nil
}

func (fakeBackend) Train(context.Context, int) (planning.TrainResult, error) {
	return planning.TrainResult{Success: true}, nil
}

func (fakeBackend) SubmitFeedback(context.Context, planning.Feedback) (planning.Ack, error) {
	return planning.Ack{Success: true}, nil
}

func (fakeBackend) ListTodos(context.Context) ([]models.Todo, error) {
	return []models.Todo{}, nil
}

func (fakeBackend) CreateTodo(_ context.Context, text string) (models.Todo, error) {
	return models.Todo{ID: 1, Text: text}, nil
}

func (fakeBackend) UpdateTodo(context.Context, int64, bool) error {
	return nil
}

func (fakeBackend) RenameTodo(context.Context, int64, string) error {
	return nil
}

func (fakeBackend) DeleteTodo(context.Context, int64) error {
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Env: "local",
		Server: config.ServerConfig{
			RateLimitPerMinute: 1,
			RateLimitBurst:     1,
		},
		Upload: config.UploadConfig{
			MaxBytes:          1 << 20,
			AllowedExtensions: []string{"png", "xlsx"},
		},
		Session: config.SessionConfig{
			Secret:     "secret",
			Issuer:     "capacity-console",
			TTL:        time.Hour,
			CookieName: "console_session",
		},
		Render: config.RenderConfig{
			Mode:           config.RenderModeDetailed,
			CurrencySymbol: "¥",
			Locale:         "zh-CN",
		},
	}
}

func newTestServer(t *testing.T) (*echo.Echo, *repository.MemoryReportStore) {
	t.Helper()

	cfg := testConfig()
	hub := notifications.NewHub()
	reports := repository.NewMemoryReportStore()
	backend := fakeBackend{}

	e, err := New(cfg, nil, Deps{
		Backend:  backend,
		Reports:  reports,
		Sessions: NewSessionStore(cfg.Session, hub, backend, reports, nil),
		Hub:      hub,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return e, reports
}

// TestRoutesHealthAndRedirect проверяет служебные маршруты.
func TestRoutesHealthAndRedirect(t *testing.T) {
	e, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/planner" {
		t.Fatalf("expected redirect to /planner, got %d", rec.Code)
	}
}

// TestPlannerPageIssuesSessionCookie проверяет выдачу cookie сессии.
func TestPlannerPageIssuesSessionCookie(t *testing.T) {
	e, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/planner", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderSetCookie), "console_session=") {
		t.Fatalf("expected session cookie, got %q", rec.Header().Get(echo.HeaderSetCookie))
	}
	if !strings.Contains(rec.Body.String(), `action="/planner/manual"`) {
		t.Fatal("expected manual input form")
	}
}

// TestPlannerMutationsAreRateLimited проверяет ограничение частоты запросов.
func TestPlannerMutationsAreRateLimited(t *testing.T) {
	e, _ := newTestServer(t)

	post := func() int {
		form := url.Values{"data_size": {"100"}}
		req := httptest.NewRequest(http.MethodPost, "/planner/manual", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := post(); code != http.StatusSeeOther {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
}

// TestSessionStoreEndDeletesReports проверяет очистку архива при завершении сессии.
func TestSessionStoreEndDeletesReports(t *testing.T) {
	hub := notifications.NewHub()
	reports := repository.NewMemoryReportStore()
	store := NewSessionStore(testConfig().Session, hub, fakeBackend{}, reports, nil)

	sess := store.Create()
	_, _ = reports.Save(context.Background(), models.ArchivedReport{SessionID: sess.ID, Result: []byte(`{}`)})
	other, _ := reports.Save(context.Background(), models.ArchivedReport{SessionID: uuid.New(), Result: []byte(`{}`)})

	events, unsubscribe := hub.Subscribe(sess.ID)
	defer unsubscribe()

	store.End(sess.ID)

	left, _ := reports.ListBySession(context.Background(), sess.ID, 10)
	if len(left) != 0 {
		t.Fatalf("expected reports to be deleted, got %d", len(left))
	}
	if _, err := reports.Get(context.Background(), other.SessionID, other.ID); err != nil {
		t.Fatalf("expected other session report to stay, got %v", err)
	}

	select {
	case event := <-events:
		if event.Type != notifications.EventSessionEnded {
			t.Fatalf("expected session_ended, got %s", event.Type)
		}
	default:
		t.Fatal("expected session_ended event")
	}
}

// TestValidatorUsesFormNames проверяет, что ошибки называют поля по тегу form.
func TestValidatorUsesFormNames(t *testing.T) {
	type form struct {
		Text string `form:"text" validate:"required"`
	}

	err := NewValidator().Validate(&form{})

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) != 1 {
		t.Fatalf("expected one validation error, got %v", err)
	}
	if verrs[0].Field() != "text" {
		t.Fatalf("expected field text, got %s", verrs[0].Field())
	}
}

// TestServerWithoutReportStore проверяет работу консоли без архива отчетов.
func TestServerWithoutReportStore(t *testing.T) {
	cfg := testConfig()
	hub := notifications.NewHub()
	backend := fakeBackend{}

	e, err := New(cfg, nil, Deps{
		Backend:  backend,
		Sessions: NewSessionStore(cfg.Session, hub, backend, nil, nil),
		Hub:      hub,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	form := url.Values{"data_size": {"100"}}
	req := httptest.NewRequest(http.MethodPost, "/planner/manual", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected analysis to succeed without archive, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/planner/reports", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty report list, got %d %s", rec.Code, rec.Body.String())
	}
}
