package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todo-go/internal/todo"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	doneStyle    = lipgloss.NewStyle().Faint(true)
	dueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	priorityStyles = map[string]lipgloss.Style{
		todo.PriorityHigh: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		todo.PriorityMid:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		todo.PriorityLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
	}
)

// priorityStyle returns the style for a priority; unknown priorities are
// left unstyled.
func priorityStyle(p string) lipgloss.Style {
	if s, ok := priorityStyles[todo.NormalizePriority(p)]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
