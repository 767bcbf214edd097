package markdown

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rogersnm/todos/internal/model"
)

var (
	headerRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle      = lipgloss.NewStyle()
)

// RenderTodoTable lists todos in the order given.
func RenderTodoTable(todos []model.Todo) string {
	if len(todos) == 0 {
		return "No todos found."
	}
	rows := make([][]string, len(todos))
	for i, t := range todos {
		rows[i] = []string{t.ID.String(), t.Task, RenderStatus(t.Completed)}
	}
	return renderTable([]string{"ID", "Task", "Status"}, rows)
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerRowStyle
			}
			return cellStyle
		})
	return t.Render()
}
