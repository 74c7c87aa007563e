package render

import (
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/capacity-planner/console/internal/models"
	"example.com/capacity-planner/console/internal/planning"
)

const (
	PagePlanner = "planner"
	PageTodos   = "todos"
)

// Banner - сообщение в верхней части страницы.
type Banner struct {
	Kind    string
	Message string
}

// ReportRow - строка списка архивных отчетов.
type ReportRow struct {
	ID             string
	Source         models.ReportSource
	TotalFirstYear float64
	CreatedAt      time.Time
}

// PlannerPage - данные страницы планировщика.
type PlannerPage struct {
	Banner            *Banner
	File              *planning.SelectedFile
	Form              planning.FormFields
	CaseForm          planning.CaseFields
	Statistics        *planning.Statistics
	Sections          []Section
	HasPrediction     bool
	Reports           []ReportRow
	AllowedExtensions []string
}

// TodoFilterLink - ссылка переключения фильтра.
type TodoFilterLink struct {
	Value  models.TodoFilter
	Label  string
	Active bool
}

// TodosPage - данные страницы списка задач.
type TodosPage struct {
	Banner  *Banner
	Filters []TodoFilterLink
	Todos   []models.Todo
	Stats   models.TodoStats
}

// Pages рендерит HTML-страницы консоли через echo.Renderer.
type Pages struct {
	pages map[string]*htmltemplate.Template
}

// NewPages разбирает шаблоны страниц; каждая страница получает свою копию макета.
func NewPages(money Money, catalog *Catalog) (*Pages, error) {
	funcs := templateFuncs(money, catalog)
	funcs["preview"] = previewURL
	funcs["accept"] = acceptList
	funcs["stamp"] = func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04:05")
	}

	layout, err := htmltemplate.New("layout").Funcs(htmltemplate.FuncMap(funcs)).ParseFS(templateFS, "templates/pages/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*htmltemplate.Template)
	for _, name := range []string{PagePlanner, PageTodos} {
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}

		page, err := clone.ParseFS(templateFS, "templates/pages/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = page
	}

	return &Pages{pages: pages}, nil
}

// Render реализует echo.Renderer.
func (p *Pages) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	page, ok := p.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return page.ExecuteTemplate(w, "layout", data)
}

// previewURL пропускает в атрибут src только data URL изображения.
func previewURL(dataURL string) htmltemplate.URL {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return ""
	}
	return htmltemplate.URL(dataURL)
}

func acceptList(extensions []string) string {
	out := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		out = append(out, "."+ext)
	}
	return strings.Join(out, ",")
}
