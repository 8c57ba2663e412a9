package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/logging"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for diagnostics and debug traces.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWarner sets where the unparseable due date diagnostic from Add goes.
// By default it is logged at warn level.
func WithWarner(w Warner) Option {
	return func(s *Store) {
		s.warner = w
	}
}

// WithSchemaValidation enables JSON Schema validation of the backing file
// on load.
func WithSchemaValidation(enabled bool) Option {
	return func(s *Store) {
		s.validate = enabled
	}
}

// Store is an ordered list of tasks backed by a JSON file. Every mutation
// rewrites the whole file. A Store is not safe for concurrent use, and two
// processes sharing one file overwrite each other's changes.
type Store struct {
	path     string
	tasks    []Task
	logger   *log.Logger
	warner   Warner
	validate bool
}

// Open creates a store backed by path and loads it. A missing file yields
// an empty store; the file is not created until the first mutation.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("task file path is empty")
	}

	s := &Store{
		path:   path,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.warner == nil {
		s.warner = s.logger
	}

	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// List returns all tasks in insertion order. The slice and the due dates
// it points to are copies.
func (s *Store) List() []Task {
	tasks := slices.Clone(s.tasks)
	for i := range tasks {
		tasks[i].DueDate = cloneDate(tasks[i].DueDate)
	}
	return tasks
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// Add appends a pending task whose due date is given as text, then saves.
// An unparseable date is reported to the store's Warner and dropped.
func (s *Store) Add(description, priority, dueText string) error {
	return s.append(NewTask(description, priority, dueText, s.warner))
}

// AddWithDate appends a pending task with an already parsed due date, then
// saves. A due date that is not a valid calendar date is rejected and
// nothing is added.
func (s *Store) AddWithDate(description, priority string, due *Date) error {
	if due != nil && !due.Valid() {
		return &FieldError{Field: "due_date", Err: fmt.Errorf("%w: invalid date %d-%02d-%02d",
			ErrInvalidDate, due.Year, int(due.Month), due.Day)}
	}
	return s.append(NewTaskWithDate(description, priority, cloneDate(due)))
}

func (s *Store) append(t Task) error {
	s.tasks = append(s.tasks, t)
	s.logger.Debug("task added", "index", len(s.tasks)-1, "description", t.Description)
	return s.Save()
}

// Remove deletes the task at index and saves. It reports false, without
// touching the file, when index is out of range.
func (s *Store) Remove(index int) (bool, error) {
	if !s.inRange(index) {
		s.logger.Debug("remove ignored", "index", index, "len", len(s.tasks))
		return false, nil
	}
	s.tasks = slices.Delete(s.tasks, index, index+1)
	s.logger.Debug("task removed", "index", index)
	return true, s.Save()
}

// Complete marks the task at index as completed and saves. It reports
// false, without touching the file, when index is out of range.
func (s *Store) Complete(index int) (bool, error) {
	if !s.inRange(index) {
		s.logger.Debug("complete ignored", "index", index, "len", len(s.tasks))
		return false, nil
	}
	s.tasks[index].Completed = true
	s.logger.Debug("task completed", "index", index)
	return true, s.Save()
}

func (s *Store) inRange(index int) bool {
	return index >= 0 && index < len(s.tasks)
}

// Save writes every task to the backing file with 2-space indentation.
func (s *Store) Save() error {
	records := make([]Record, 0, len(s.tasks))
	for _, t := range s.tasks {
		records = append(records, t.Record())
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create task file dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}

	s.logger.Debug("task file saved", "path", s.path, "tasks", len(records))
	return nil
}

// Load replaces the in-memory tasks with the backing file's contents. A
// missing file leaves the store empty; malformed content is an error.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.tasks = nil
			s.logger.Debug("task file not found, starting empty", "path", s.path)
			return nil
		}
		return fmt.Errorf("read task file: %w", err)
	}

	if s.validate {
		if err := ValidateDocument(data); err != nil {
			return fmt.Errorf("validate task file %s: %w", s.path, err)
		}
	}

	tasks, err := decodeTasks(data)
	if err != nil {
		return fmt.Errorf("parse task file %s: %w", s.path, err)
	}

	s.tasks = tasks
	s.logger.Debug("task file loaded", "path", s.path, "tasks", len(tasks))
	return nil
}

func decodeTasks(data []byte) ([]Task, error) {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return nil, fmt.Errorf("expected a JSON array, got null")
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(raws))
	for i, raw := range raws {
		var r Record
		if err := r.UnmarshalJSON(raw); err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		t, err := TaskFromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
