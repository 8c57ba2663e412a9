// Package ui provides the optional full-screen terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todo-go/internal/todo"
)

// Filter selects which tasks the view shows. It never changes the store.
type Filter int

const (
	FilterAll Filter = iota
	FilterPending
	FilterCompleted
)

func (f Filter) String() string {
	switch f {
	case FilterPending:
		return "pending"
	case FilterCompleted:
		return "completed"
	}
	return "all"
}

// Match reports whether t passes the filter.
func (f Filter) Match(t todo.Task) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	}
	return true
}

// next cycles all -> pending -> completed -> all.
func (f Filter) next() Filter {
	return (f + 1) % 3
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
)

// RunTUI starts the TUI over store.
func RunTUI(ctx context.Context, store *todo.Store) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(store, time.Now)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*tuiModel); ok && m.err != nil {
		return m.err
	}
	return nil
}

type tuiModel struct {
	store    *todo.Store
	now      func() time.Time
	tasks    []todo.Task
	visible  []int // store indices shown under the current filter
	cursor   int   // position within visible
	filter   Filter
	mode     inputMode
	input    []rune
	showHelp bool
	err      error
}

func newTUIModel(store *todo.Store, now func() time.Time) *tuiModel {
	m := &tuiModel{
		store: store,
		now:   now,
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.mode == modeAdd {
		return m.updateAdd(key)
	}

	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "c", " ", "space", "enter":
		return m.mutate(m.store.Complete)
	case "d", "x", "delete":
		return m.mutate(m.store.Remove)
	case "a":
		m.mode = modeAdd
		m.input = m.input[:0]
	case "f":
		m.filter = m.filter.next()
		m.cursor = 0
		m.refresh()
	case "r", "f5":
		if err := m.store.Load(); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.refresh()
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *tuiModel) updateAdd(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input = m.input[:0]
	case tea.KeyEnter:
		m.mode = modeBrowse
		description := strings.TrimSpace(string(m.input))
		m.input = m.input[:0]
		if description == "" {
			return m, nil
		}
		if err := m.store.Add(description, todo.DefaultPriority, ""); err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.refresh()
		if n := len(m.visible); n > 0 && m.visible[n-1] == m.store.Len()-1 {
			m.cursor = n - 1
		}
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, key.Runes...)
	}
	return m, nil
}

// mutate applies op to the task under the cursor.
func (m *tuiModel) mutate(op func(int) (bool, error)) (tea.Model, tea.Cmd) {
	if len(m.visible) == 0 {
		return m, nil
	}
	if _, err := op(m.visible[m.cursor]); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.refresh()
	return m, nil
}

// refresh rebuilds the visible rows from the store and clamps the cursor.
func (m *tuiModel) refresh() {
	m.tasks = m.store.List()
	m.visible = m.visible[:0]
	for i, t := range m.tasks {
		if m.filter.Match(t) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}

	writeOverview(&b, m.tasks, m.filter)
	m.writeTasks(&b)

	if m.mode == modeAdd {
		b.WriteString("New task: " + string(m.input) + "_\n")
		b.WriteString(helpStyle.Render("enter to save, esc to cancel") + "\n")
		return b.String()
	}

	writeFooter(&b)
	return b.String()
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	if len(m.visible) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	today := todo.DateOf(m.now())
	for row, index := range m.visible {
		line := formatRow(m.tasks[index], index, today)
		if row == m.cursor {
			b.WriteString(cursorStyle.Render(">") + " " + line + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
}

func writeTitle(b *strings.Builder) {
	title := "To-Do List"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, tasks []todo.Task, filter Filter) {
	pending, completed := todo.Summary(tasks)
	b.WriteString(fmt.Sprintf("Pending: %d  Completed: %d  Filter: %s\n\n", pending, completed, filter))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c        Quit\n")
	b.WriteString("  up/k, down/j     Move cursor\n")
	b.WriteString("  c, space, enter  Mark task as completed\n")
	b.WriteString("  d, x             Remove task\n")
	b.WriteString("  a                Add task\n")
	b.WriteString("  f                Cycle filter (all, pending, completed)\n")
	b.WriteString("  r, F5            Reload task file\n")
	b.WriteString("  h, ?             Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(helpStyle.Render("Press h for help | q to quit") + "\n")
}

// formatRow renders one task row. index is the store position, the same
// number the CLI accepts for rm and done.
func formatRow(t todo.Task, index int, today todo.Date) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	priority := priorityStyle(t.Priority).Render(strings.ToUpper(t.Priority))
	line := fmt.Sprintf("%d. %s %s %s", index, check, priority, t.Description)
	if t.DueDate != nil {
		due := "due " + t.DueDate.String()
		if !t.Completed && t.DueDate.Before(today) {
			line += " " + overdueStyle.Render(due+" (overdue)")
		} else {
			line += " " + dueStyle.Render(due)
		}
	}
	if t.Completed {
		return doneStyle.Render(line)
	}
	return line
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
