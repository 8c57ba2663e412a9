package todo

import (
	"fmt"
	"strings"
)

// FormatTask renders one task line as shown to the user. index is the
// position accepted by Remove and Complete.
func FormatTask(t Task, index int) string {
	due := "None"
	if t.DueDate != nil {
		due = t.DueDate.String()
	}
	return fmt.Sprintf("%d. [%s] %s - Due: %s - %s",
		index, strings.ToUpper(t.Priority), t.Description, due, t.Status())
}

// FormatList renders a "Tasks:" header followed by one line per task.
func FormatList(tasks []Task) string {
	var b strings.Builder
	b.WriteString("Tasks:\n")
	for i, t := range tasks {
		b.WriteString(FormatTask(t, i))
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary counts pending and completed tasks.
func Summary(tasks []Task) (pending, completed int) {
	for _, t := range tasks {
		if t.Completed {
			completed++
		} else {
			pending++
		}
	}
	return pending, completed
}
