package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rogersnm/todos/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	openStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const (
	statusOpen = "open"
	statusDone = "done"
)

func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// StatusText is the plain label for a completion flag.
func StatusText(completed bool) string {
	if completed {
		return statusDone
	}
	return statusOpen
}

func RenderStatus(completed bool) string {
	if completed {
		return doneStyle.Render(statusDone)
	}
	return openStyle.Render(statusOpen)
}

func RenderField(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}

func RenderEntityHeader(title string, fields []string) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n")
	for _, f := range fields {
		sb.WriteString("  " + f + "\n")
	}
	return sb.String()
}

// RenderTodo renders the detail view used by `show --pretty`. The task text
// is treated as markdown.
func RenderTodo(t *model.Todo) (string, error) {
	header := RenderEntityHeader("Todo "+t.ID.String(), []string{
		RenderField("ID", t.ID.String()),
		RenderField("Status", RenderStatus(t.Completed)),
	})
	body, err := RenderMarkdown(t.Task)
	if err != nil {
		return "", err
	}
	return header + body, nil
}
