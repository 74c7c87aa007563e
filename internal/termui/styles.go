package termui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"example.com/capacity-planner/console/internal/todo"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

const (
	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// Success оформляет сообщение об успешной операции.
func Success(msg string) string {
	return successStyle.Render("✔ " + msg)
}

// Failure оформляет сообщение об ошибке.
func Failure(msg string) string {
	return errorStyle.Render("✖ " + msg)
}

// Panel рисует рамку вокруг строк.
func Panel(lines []string) string {
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// ProgressBar рисует долю выполненных задач.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Header возвращает строку со счетчиками списка.
func Header(view todo.View) string {
	return fmt.Sprintf("%s [%s]   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		view.Filter,
		successStyle.Render("✔"), view.Stats.Completed,
		pendingStyle.Render("•"), view.Stats.Active,
		accentStyle.Render("Total"), view.Stats.Total,
	)
}

// TodoLine оформляет одну задачу.
func TodoLine(id int64, text string, completed bool) string {
	box := mutedStyle.Render(boxUnchecked)
	if completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	return fmt.Sprintf("%s %s %s", box, mutedStyle.Render(fmt.Sprintf("#%d", id)), text)
}

// RenderTodos выводит список задач в рамке вместе со счетчиками.
func RenderTodos(view todo.View) string {
	lines := []string{Header(view), ""}
	if len(view.Todos) == 0 {
		lines = append(lines, mutedStyle.Render("nothing here"))
	}
	for _, item := range view.Todos {
		lines = append(lines, TodoLine(item.ID, item.Text, item.Completed))
	}
	lines = append(lines, "", ProgressBar(view.Stats.Completed, view.Stats.Total, 28))
	return Panel(lines)
}

// Pending оформляет строку о выполняющемся запросе.
func Pending(msg string) string {
	return pendingStyle.Render("… " + msg)
}

// Field - строка «подпись: значение» для панели.
type Field struct {
	Label string
	Value string
}

// Fields рисует панель с заголовком и выровненными подписями.
func Fields(title string, fields []Field) string {
	width := 0
	for _, f := range fields {
		if w := lipgloss.Width(f.Label); w > width {
			width = w
		}
	}

	label := lipgloss.NewStyle().Width(width + 2).Inherit(mutedStyle)
	lines := []string{titleStyle.Render(title), ""}
	for _, f := range fields {
		lines = append(lines, label.Render(f.Label+":")+f.Value)
	}
	return Panel(lines)
}
