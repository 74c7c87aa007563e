package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"example.com/capacity-planner/console/internal/models"
	"example.com/capacity-planner/console/internal/notifications"
	"example.com/capacity-planner/console/internal/planning"
	"example.com/capacity-planner/console/internal/render"
	"example.com/capacity-planner/console/internal/repository"
	"example.com/capacity-planner/console/internal/session"
)

const (
	plannerPath  = "/planner"
	reportsLimit = 10
)

type PlannerHandler struct {
	Coordinator       *planning.Coordinator
	Renderer          render.Renderer
	Reports           repository.ReportStore
	Catalog           *render.Catalog
	Notifier          *notifications.Hub
	AllowedExtensions []string
}

// NewPlannerHandler создает обработчик страницы планировщика.
func NewPlannerHandler(coordinator *planning.Coordinator, renderer render.Renderer, reports repository.ReportStore, catalog *render.Catalog, notifier *notifications.Hub, allowedExt []string) *PlannerHandler {
	return &PlannerHandler{
		Coordinator:       coordinator,
		Renderer:          renderer,
		Reports:           reports,
		Catalog:           catalog,
		Notifier:          notifier,
		AllowedExtensions: allowedExt,
	}
}

// Page отображает формы ввода, последний отчет и архив сессии.
func (h *PlannerHandler) Page(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	state := sess.Planning
	page := render.PlannerPage{
		Banner:            takeBanner(sess),
		Form:              state.Form(),
		CaseForm:          state.CaseForm(),
		AllowedExtensions: h.AllowedExtensions,
	}

	if file, ok := state.SelectedFile(); ok {
		page.File = &file
	}

	if _, prediction := state.Current(); prediction != nil {
		sections, err := h.Renderer.Render(*prediction)
		if err != nil {
			slog.Error("failed to render report", slog.String("session_id", sess.ID.String()), slog.String("error", err.Error()))
			return serverError(c)
		}
		page.Sections = sections
		page.HasPrediction = true
	}

	group, ctx := errgroup.WithContext(c.Request().Context())

	group.Go(func() error {
		stats, err := h.Coordinator.Statistics(ctx)
		if err != nil {
			// Статистика необязательна для страницы.
			slog.Warn("failed to load statistics", slog.String("error", err.Error()))
			return nil
		}
		page.Statistics = &stats
		return nil
	})

	group.Go(func() error {
		if h.Reports == nil {
			return nil
		}
		reports, err := h.Reports.ListBySession(ctx, sess.ID, reportsLimit)
		if err != nil {
			return err
		}
		page.Reports = reportRows(reports)
		return nil
	})

	if err := group.Wait(); err != nil {
		slog.Error("failed to load report archive", slog.String("session_id", sess.ID.String()), slog.String("error", err.Error()))
		return serverError(c)
	}

	return c.Render(http.StatusOK, render.PagePlanner, page)
}

// Upload выбирает изображение для анализа.
func (h *PlannerHandler) Upload(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	name, data, err := readUpload(c, "image")
	if err != nil {
		return badRequest(c, "invalid upload")
	}

	file, err := h.Coordinator.SelectFile(sess.Planning, name, data)
	if err != nil {
		flashError(sess, h.Catalog, err, "request_failed")
		return seeOther(c, plannerPath)
	}

	sess.Flash(session.AlertSuccess, h.Catalog.Alert("file_selected")+": "+file.Name)
	return seeOther(c, plannerPath)
}

// Analyze отправляет выбранное изображение на анализ.
func (h *PlannerHandler) Analyze(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	result, err := h.Coordinator.AnalyzeImage(c.Request().Context(), sess.Planning)
	if err != nil {
		flashError(sess, h.Catalog, err, "analyze_failed")
		return seeOther(c, plannerPath)
	}

	h.reportReady(sess, result)
	return seeOther(c, plannerPath)
}

// Manual анализирует данные формы ручного ввода.
func (h *PlannerHandler) Manual(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	var fields planning.FormFields
	if err := c.Bind(&fields); err != nil {
		return badRequest(c, "invalid form")
	}

	result, err := h.Coordinator.AnalyzeManualInput(c.Request().Context(), sess.Planning, fields)
	if err != nil {
		flashError(sess, h.Catalog, err, "analyze_failed")
		return seeOther(c, plannerPath)
	}

	h.reportReady(sess, result)
	return seeOther(c, plannerPath)
}

// Recognize распознает файл и заполняет форму прогноза или кейса.
func (h *PlannerHandler) Recognize(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	mode, err := planning.ParseRecognitionMode(c.FormValue("mode"))
	if err != nil {
		flashError(sess, h.Catalog, err, "recognize_failed")
		return seeOther(c, plannerPath)
	}

	name, data, err := readUpload(c, "file")
	if err != nil {
		return badRequest(c, "invalid upload")
	}

	rec, err := h.Coordinator.Recognize(c.Request().Context(), sess.Planning, name, data, mode)
	if err != nil {
		flashError(sess, h.Catalog, err, "recognize_failed")
		return seeOther(c, plannerPath)
	}

	key := "recognized_predict"
	if mode == planning.RecognitionCase {
		key = "recognized_case"
	}
	message := h.Catalog.Alert(key)
	if rec.IsMock {
		message += " " + h.Catalog.Alert("recognized_mock")
	}

	sess.Flash(session.AlertSuccess, message)
	return seeOther(c, plannerPath)
}

// Statistics возвращает статистику обучающей выборки.
func (h *PlannerHandler) Statistics(c echo.Context) error {
	stats, err := h.Coordinator.Statistics(c.Request().Context())
	if err != nil {
		return badGateway(c, err.Error())
	}

	return c.JSON(http.StatusOK, stats)
}

// SubmitCase отправляет реальный кейс в обучающую выборку.
func (h *PlannerHandler) SubmitCase(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	var fields planning.CaseFields
	if err := c.Bind(&fields); err != nil {
		return badRequest(c, "invalid form")
	}

	receipt, err := h.Coordinator.SubmitCase(c.Request().Context(), sess.Planning, fields)
	if err != nil {
		flashError(sess, h.Catalog, err, "case_failed")
		return seeOther(c, plannerPath)
	}

	if !receipt.Success {
		sess.Flash(session.AlertError, h.Catalog.Alert("case_failed")+": "+receipt.Message)
		return seeOther(c, plannerPath)
	}

	message := h.Catalog.Alert("case_submitted")
	if receipt.CaseID != "" {
		message += " #" + receipt.CaseID
	}
	sess.Flash(session.AlertSuccess, message)
	return seeOther(c, plannerPath)
}

// Train запускает обучение модели.
func (h *PlannerHandler) Train(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	// Нечисловое значение означает число эпох по умолчанию.
	epochs, _ := strconv.Atoi(strings.TrimSpace(c.FormValue("epochs")))

	result, err := h.Coordinator.Train(c.Request().Context(), sess.Planning, epochs)
	if err != nil {
		flashError(sess, h.Catalog, err, "train_failed")
		return seeOther(c, plannerPath)
	}

	if !result.Success {
		sess.Flash(session.AlertError, h.Catalog.Alert("train_failed")+": "+result.Message)
		return seeOther(c, plannerPath)
	}

	message := h.Catalog.Alert("train_done")
	if result.Message != "" {
		message = "✅ " + result.Message
	}
	sess.Flash(session.AlertSuccess, message)
	return seeOther(c, plannerPath)
}

// Feedback отправляет отзыв о текущем прогнозе.
func (h *PlannerHandler) Feedback(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	var fields planning.FeedbackFields
	if err := c.Bind(&fields); err != nil {
		return badRequest(c, "invalid form")
	}

	if _, err := h.Coordinator.SubmitFeedback(c.Request().Context(), sess.Planning, fields); err != nil {
		flashError(sess, h.Catalog, err, "feedback_failed")
		return seeOther(c, plannerPath)
	}

	sess.Flash(session.AlertSuccess, h.Catalog.Alert("feedback_submitted"))
	return seeOther(c, plannerPath)
}

// ListReports возвращает архив отчетов сессии.
func (h *PlannerHandler) ListReports(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	if h.Reports == nil {
		return c.JSON(http.StatusOK, []models.ArchivedReport{})
	}

	reports, err := h.Reports.ListBySession(c.Request().Context(), sess.ID, reportsLimit)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, reports)
}

func (h *PlannerHandler) reportReady(sess *session.Context, result planning.Result) {
	sess.Flash(session.AlertSuccess, h.Catalog.Alert("analyze_done"))

	if h.Notifier == nil {
		return
	}

	h.Notifier.Publish(sess.ID, notifications.Event{
		Type: notifications.EventReportReady,
		Data: map[string]interface{}{
			"architecture_type": result.Architecture.ArchitectureType,
			"total_first_year":  result.Resources.Cost.FirstYear(),
		},
	})
}

func reportRows(reports []models.ArchivedReport) []render.ReportRow {
	rows := make([]render.ReportRow, 0, len(reports))
	for _, report := range reports {
		rows = append(rows, render.ReportRow{
			ID:             report.ID.String(),
			Source:         report.Source,
			TotalFirstYear: report.TotalFirstYear,
			CreatedAt:      report.CreatedAt,
		})
	}
	return rows
}
