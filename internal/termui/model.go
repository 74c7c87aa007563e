package termui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"example.com/capacity-planner/console/internal/models"
	"example.com/capacity-planner/console/internal/todo"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Add    key.Binding
	Toggle key.Binding
	Delete key.Binding
	Filter key.Binding
	Reload key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Filter: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "filter")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var filterCycle = []models.TodoFilter{
	models.TodoFilterAll,
	models.TodoFilterActive,
	models.TodoFilterCompleted,
}

// doneMsg приходит после завершения запроса к бэкенду.
type doneMsg struct {
	err error
}

// Model - интерактивный список задач поверх todo.App.
type Model struct {
	ctx    context.Context
	app    *todo.App
	input  textinput.Model
	cursor int
	adding bool
	busy   bool
	err    string
}

// NewModel создает модель интерфейса списка задач.
func NewModel(ctx context.Context, app *todo.App) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "What needs to be done?"
	input.CharLimit = 500

	return Model{ctx: ctx, app: app, input: input}
}

func (m Model) Init() tea.Cmd {
	return m.run(func(ctx context.Context) error {
		return m.app.Load(ctx)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.busy = false
		m.err = ""
		if msg.err != nil {
			m.err = msg.err.Error()
		}
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			m.err = todo.ErrEmptyText.Error()
			return m, nil
		}
		m.adding = false
		m.input.SetValue("")
		m.input.Blur()
		m.cursor = 0
		return m.start(func(ctx context.Context) error {
			_, err := m.app.Add(ctx, text)
			return err
		})
	case tea.KeyEsc:
		m.adding = false
		m.err = ""
		m.input.SetValue("")
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Add):
		m.adding = true
		m.err = ""
		return m, m.input.Focus()
	case key.Matches(msg, keys.Filter):
		m.app.SetFilter(nextFilter(m.app.Filter()))
		m.cursor = 0
	case key.Matches(msg, keys.Reload):
		return m.start(func(ctx context.Context) error {
			return m.app.Load(ctx)
		})
	case key.Matches(msg, keys.Toggle):
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.start(func(ctx context.Context) error {
			_, err := m.app.Toggle(ctx, id)
			return err
		})
	case key.Matches(msg, keys.Delete):
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m.start(func(ctx context.Context) error {
			return m.app.Delete(ctx, id)
		})
	}
	return m, nil
}

func (m Model) View() string {
	view := m.app.View()

	lines := []string{Header(view), ""}
	if len(view.Todos) == 0 {
		lines = append(lines, mutedStyle.Render("nothing here"))
	}
	for i, item := range view.Todos {
		prefix := "  "
		if i == m.cursor && !m.adding {
			prefix = selectedStyle.Render("> ")
		}
		lines = append(lines, prefix+TodoLine(item.ID, item.Text, item.Completed))
	}

	lines = append(lines, "", ProgressBar(view.Stats.Completed, view.Stats.Total, 28))

	if m.adding {
		lines = append(lines, "", m.input.View())
	}
	if m.busy {
		lines = append(lines, mutedStyle.Render("…"))
	}
	if m.err != "" {
		lines = append(lines, Failure(m.err))
	}

	lines = append(lines, helpStyle.Render("a add · space toggle · d delete · tab filter · r reload · q quit"))
	return Panel(lines)
}

// start помечает модель занятой и возвращает команду запроса.
func (m Model) start(call func(ctx context.Context) error) (tea.Model, tea.Cmd) {
	m.busy = true
	m.err = ""
	return m, m.run(call)
}

func (m Model) run(call func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{err: call(ctx)}
	}
}

func (m Model) visible() []models.Todo {
	return m.app.View().Todos
}

func (m Model) selected() (int64, bool) {
	todos := m.visible()
	if m.cursor < 0 || m.cursor >= len(todos) {
		return 0, false
	}
	return todos[m.cursor].ID, true
}

func (m *Model) clampCursor() {
	count := len(m.visible())
	if m.cursor >= count {
		m.cursor = count - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func nextFilter(current models.TodoFilter) models.TodoFilter {
	for i, filter := range filterCycle {
		if filter == current {
			return filterCycle[(i+1)%len(filterCycle)]
		}
	}
	return models.TodoFilterAll
}

// Run запускает интерактивный список задач в терминале.
func Run(ctx context.Context, app *todo.App) error {
	program := tea.NewProgram(NewModel(ctx, app), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
