package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"example.com/capacity-planner/console/internal/auth"
	"example.com/capacity-planner/console/internal/backend"
	"example.com/capacity-planner/console/internal/planning"
	"example.com/capacity-planner/console/internal/render"
	"example.com/capacity-planner/console/internal/session"
	"example.com/capacity-planner/console/internal/todo"
)

// validationAlerts сопоставляет ошибки проверки ввода ключам каталога.
var validationAlerts = []struct {
	err error
	key string
}{
	{planning.ErrNoFile, "no_file"},
	{planning.ErrNotImage, "not_image"},
	{planning.ErrUnsupportedFile, "unsupported_file"},
	{planning.ErrNoDataSize, "no_data_size"},
	{planning.ErrEmptyComment, "empty_comment"},
	{planning.ErrInvalidInput, "invalid_input"},
	{todo.ErrEmptyText, "empty_todo"},
	{todo.ErrNotFound, "todo_not_found"},
}

// alertFor возвращает текст сообщения для ошибки. Ошибки проверки ввода
// получают собственный текст, ответы бэкенда выводятся как есть с
// префиксом операции, сетевые ошибки помечаются как сбой запроса.
func alertFor(catalog *render.Catalog, err error, failedKey string) (string, string) {
	for _, known := range validationAlerts {
		if errors.Is(err, known.err) {
			return session.AlertWarning, catalog.Alert(known.key)
		}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return session.AlertWarning, catalog.Alert("invalid_input")
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return session.AlertError, catalog.Alert(failedKey) + ": " + apiErr.Error()
	}

	return session.AlertError, catalog.Alert("request_failed") + ": " + err.Error()
}

// flashError сохраняет сообщение об ошибке до следующей отрисовки страницы.
func flashError(sess *session.Context, catalog *render.Catalog, err error, failedKey string) {
	kind, message := alertFor(catalog, err, failedKey)
	sess.Flash(kind, message)
}

func currentSession(c echo.Context) (*session.Context, error) {
	sess, ok := auth.SessionFromContext(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return sess, nil
}

func takeBanner(sess *session.Context) *render.Banner {
	alert, ok := sess.TakeAlert()
	if !ok {
		return nil
	}
	return &render.Banner{Kind: alert.Kind, Message: alert.Message}
}

// readUpload читает файл формы; отсутствие файла возвращает пустое имя без ошибки.
func readUpload(c echo.Context, field string) (string, []byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil, nil
		}
		return "", nil, err
	}

	return readFileHeader(header)
}

func readFileHeader(header *multipart.FileHeader) (string, []byte, error) {
	file, err := header.Open()
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}

	return header.Filename, data, nil
}

func seeOther(c echo.Context, path string) error {
	return c.Redirect(http.StatusSeeOther, path)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": message})
}

func badGateway(c echo.Context, message string) error {
	return c.JSON(http.StatusBadGateway, map[string]string{"error": message})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
