package todo

import (
	"fmt"
	"strings"
)

// Conventional priorities. Any other text is accepted as-is.
const (
	PriorityLow  = "low"
	PriorityMid  = "mid"
	PriorityHigh = "high"
)

// DefaultPriority is used when a task is created without a priority.
const DefaultPriority = PriorityLow

// Warner receives the diagnostic emitted for an unparseable due date.
// *log.Logger from charmbracelet/log satisfies it.
type Warner interface {
	Warn(msg interface{}, keyvals ...interface{})
}

// Task is a single to-do item.
type Task struct {
	Description string
	Priority    string
	DueDate     *Date
	Completed   bool
}

// NewTask builds a pending task from a due date given as ISO-8601 text.
// Empty text means no due date. Text that does not parse is reported to
// warn and the task is created without a due date.
func NewTask(description, priority, dueText string, warn Warner) Task {
	return NewTaskWithDate(description, priority, parseDueDate(dueText, warn))
}

// NewTaskWithDate builds a pending task from an already parsed due date.
func NewTaskWithDate(description, priority string, due *Date) Task {
	return Task{
		Description: description,
		Priority:    priority,
		DueDate:     due,
	}
}

func parseDueDate(text string, warn Warner) *Date {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	d, err := ParseDate(text)
	if err != nil {
		if warn != nil {
			warn.Warn(fmt.Sprintf("Invalid date format: %s. Should be YYYY-MM-DD.", text))
		}
		return nil
	}
	return &d
}

// HasDueDate reports whether the task has a due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil
}

// Status returns "Completed" or "Pending".
func (t Task) Status() string {
	if t.Completed {
		return "Completed"
	}
	return "Pending"
}

// Record returns the serializable form of t.
func (t Task) Record() Record {
	r := Record{
		Description: t.Description,
		Priority:    t.Priority,
		Completed:   t.Completed,
	}
	if t.DueDate != nil {
		s := t.DueDate.String()
		r.DueDate = &s
	}
	return r
}

// TaskFromRecord rebuilds a task from its record. A due date that is not a
// valid calendar date is an error.
func TaskFromRecord(r Record) (Task, error) {
	t := Task{
		Description: r.Description,
		Priority:    r.Priority,
		Completed:   r.Completed,
	}
	if r.DueDate != nil {
		d, err := ParseDate(*r.DueDate)
		if err != nil {
			return Task{}, &FieldError{Field: "due_date", Err: err}
		}
		t.DueDate = &d
	}
	return t, nil
}

// NormalizePriority trims and lower-cases a priority.
func NormalizePriority(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}

// KnownPriority reports whether p is one of low, mid or high, ignoring case.
func KnownPriority(p string) bool {
	switch NormalizePriority(p) {
	case PriorityLow, PriorityMid, PriorityHigh:
		return true
	}
	return false
}
