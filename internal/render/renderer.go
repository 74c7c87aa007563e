package render

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"

	"example.com/capacity-planner/console/internal/planning"
)

const (
	ModeBasic    = "basic"
	ModeDetailed = "detailed"
	ModeMarkdown = "markdown"
)

// Контейнеры отчета в порядке вывода.
const (
	ContainerArchitecture    = "architecture"
	ContainerServers         = "servers"
	ContainerNetwork         = "network"
	ContainerStorage         = "storage"
	ContainerInfrastructure  = "infrastructure"
	ContainerCost            = "cost"
	ContainerRecommendations = "recommendations"
)

//go:embed templates
var templateFS embed.FS

// Section - готовая разметка одного контейнера отчета.
type Section struct {
	Container string
	Title     string
	Content   string
}

// HTML возвращает содержимое секции HTML-стратегии для вставки в страницу.
// Содержимое уже экранировано html/template.
func (s Section) HTML() htmltemplate.HTML {
	return htmltemplate.HTML(s.Content)
}

// Renderer превращает результат планирования в секции отчета.
type Renderer interface {
	Mode() string
	Render(result planning.Result) ([]Section, error)
}

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

type step struct {
	container string
	template  string
	data      func(planning.Result) (any, bool)
}

type strategy struct {
	mode     string
	exec     executor
	catalog  *Catalog
	pipeline []step
}

// New возвращает стратегию отображения по имени режима.
func New(mode string, money Money, catalog *Catalog) (Renderer, error) {
	if catalog == nil {
		return nil, fmt.Errorf("render catalog is required")
	}

	funcs := templateFuncs(money, catalog)

	switch strings.ToLower(mode) {
	case ModeBasic:
		tmpl, err := htmltemplate.New("report").Funcs(htmltemplate.FuncMap(funcs)).ParseFS(templateFS, "templates/report.html")
		if err != nil {
			return nil, fmt.Errorf("parse report templates: %w", err)
		}
		return &strategy{mode: ModeBasic, exec: tmpl, catalog: catalog, pipeline: basicPipeline()}, nil
	case ModeDetailed:
		tmpl, err := htmltemplate.New("report").Funcs(htmltemplate.FuncMap(funcs)).ParseFS(templateFS, "templates/report.html")
		if err != nil {
			return nil, fmt.Errorf("parse report templates: %w", err)
		}
		return &strategy{mode: ModeDetailed, exec: tmpl, catalog: catalog, pipeline: detailedPipeline("detailed/", catalog)}, nil
	case ModeMarkdown:
		tmpl, err := texttemplate.New("report").Funcs(texttemplate.FuncMap(funcs)).ParseFS(templateFS, "templates/report.md")
		if err != nil {
			return nil, fmt.Errorf("parse markdown templates: %w", err)
		}
		return &strategy{mode: ModeMarkdown, exec: tmpl, catalog: catalog, pipeline: detailedPipeline("md/", catalog)}, nil
	default:
		return nil, fmt.Errorf("unknown render mode %q", mode)
	}
}

func (s *strategy) Mode() string {
	return s.mode
}

// Render выполняет шаги конвейера; секции без данных пропускаются.
func (s *strategy) Render(result planning.Result) ([]Section, error) {
	sections := make([]Section, 0, len(s.pipeline))
	for _, st := range s.pipeline {
		data, ok := st.data(result)
		if !ok {
			continue
		}

		var buf bytes.Buffer
		if err := s.exec.ExecuteTemplate(&buf, st.template, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", st.container, err)
		}

		sections = append(sections, Section{
			Container: st.container,
			Title:     s.catalog.SectionTitle(st.container),
			Content:   strings.TrimSpace(buf.String()),
		})
	}
	return sections, nil
}

// Document склеивает секции markdown-отчета в один документ.
func Document(sections []Section) string {
	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("## ")
		b.WriteString(section.Title)
		b.WriteString("\n\n")
		b.WriteString(section.Content)
	}
	b.WriteString("\n")
	return b.String()
}

type networkView struct {
	Switches planning.Ordered[planning.Switch]
	Network  planning.Network
}

type costView struct {
	Cost    planning.Cost
	Summary planning.Summary
}

type serversView struct {
	Servers planning.Ordered[planning.Server]
	Totals  planning.ServerTotals
}

type devicesView struct {
	Devices planning.Ordered[planning.NetworkDevice]
	Totals  planning.NetworkTotals
}

type storageView struct {
	Items  []planning.Entry[*planning.StorageItem]
	Totals planning.StorageTotals
}

type infraView struct {
	Items []planning.Entry[*planning.InfraItem]
	Total float64
}

type costLine struct {
	Label string
	Value float64
}

type costSectionView struct {
	Title         string
	Lines         []costLine
	SubtotalLabel string
	Subtotal      float64
}

type costDetailView struct {
	Sections []costSectionView
	Total    planning.CostTotal
}

func always(fn func(planning.Result) any) func(planning.Result) (any, bool) {
	return func(r planning.Result) (any, bool) {
		return fn(r), true
	}
}

func basicPipeline() []step {
	return []step{
		{ContainerArchitecture, "architecture", always(func(r planning.Result) any { return r.Architecture })},
		{ContainerServers, "basic/servers", always(func(r planning.Result) any { return r.Resources.Servers })},
		{ContainerNetwork, "basic/network", always(func(r planning.Result) any {
			return networkView{Switches: r.Resources.Switches, Network: r.Resources.Network}
		})},
		{ContainerStorage, "basic/storage", always(func(r planning.Result) any { return r.Resources.Storage })},
		{ContainerCost, "basic/cost", always(func(r planning.Result) any {
			return costView{Cost: r.Resources.Cost, Summary: r.Resources.Summary}
		})},
		{ContainerRecommendations, "recommendations", always(func(r planning.Result) any { return r.Recommendations })},
	}
}

// detailedPipeline описывает подробный отчет; prefix выбирает набор шаблонов.
func detailedPipeline(prefix string, catalog *Catalog) []step {
	shared := func(name string) string {
		if prefix == "md/" {
			return prefix + name
		}
		return name
	}

	return []step{
		{ContainerArchitecture, shared("architecture"), always(func(r planning.Result) any { return r.Architecture })},
		{ContainerServers, prefix + "servers", func(r planning.Result) (any, bool) {
			servers := r.Resources.Servers
			return serversView{Servers: servers, Totals: planning.SumServers(servers)}, len(servers) > 0
		}},
		{ContainerNetwork, prefix + "network", func(r planning.Result) (any, bool) {
			devices := planning.ActiveDevices(r.Resources.Network.Devices)
			return devicesView{Devices: devices, Totals: planning.SumNetwork(devices)}, len(devices) > 0
		}},
		{ContainerStorage, prefix + "storage", func(r planning.Result) (any, bool) {
			items := r.Resources.Storage.Items()
			return storageView{Items: items, Totals: planning.SumStorage(r.Resources.Storage)}, len(items) > 0
		}},
		{ContainerInfrastructure, prefix + "infrastructure", func(r planning.Result) (any, bool) {
			items := r.Resources.Infrastructure.Items()
			return infraView{Items: items, Total: planning.SumInfrastructure(r.Resources.Infrastructure)}, len(items) > 0
		}},
		{ContainerCost, prefix + "cost", always(func(r planning.Result) any {
			return buildCostDetail(r.Resources.Cost, catalog)
		})},
		{ContainerRecommendations, shared("recommendations"), func(r planning.Result) (any, bool) {
			return r.Recommendations, len(r.Recommendations) > 0
		}},
	}
}

func buildCostDetail(cost planning.Cost, catalog *Catalog) costDetailView {
	view := costDetailView{Total: cost.Total}
	for _, labels := range catalog.CostSections {
		section := cost.Section(labels.Key)

		lines := make([]costLine, 0, len(labels.Items))
		for _, item := range labels.Items {
			lines = append(lines, costLine{Label: item.Label, Value: section.Get(item.Key)})
		}

		view.Sections = append(view.Sections, costSectionView{
			Title:         labels.Title,
			Lines:         lines,
			SubtotalLabel: labels.Subtotal,
			Subtotal:      section.Get("subtotal"),
		})
	}
	return view
}

func templateFuncs(money Money, catalog *Catalog) map[string]any {
	return map[string]any{
		"money":   money.Format,
		"grouped": money.Grouped,
		"num":     plain,
		"pct": func(confidence float64) string {
			return fmt.Sprintf("%.1f", confidence*100)
		},
		"upper": strings.ToUpper,
		"arch":  catalog.ArchitectureName,
		"infra": catalog.InfrastructureName,
		"dash": func(value any) string {
			s := fmt.Sprint(value)
			if s == "" {
				return "-"
			}
			return s
		},
		"deviceSpec": func(cfg planning.DeviceConfig) string {
			if cfg.Speed != "" {
				return string(cfg.Speed)
			}
			if cfg.Ports != 0 {
				return fmt.Sprint(cfg.Ports)
			}
			return "-"
		},
		"quantity": func(item *planning.InfraItem) string {
			if item.Count != 0 {
				return plain(item.Count)
			}
			if item.CapacityKW != 0 {
				return plain(item.CapacityKW)
			}
			return "-"
		},
		"cell": func(value string) string {
			value = strings.ReplaceAll(value, "|", `\|`)
			return strings.Join(strings.Fields(value), " ")
		},
	}
}
