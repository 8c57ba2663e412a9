// Package shell runs the numbered interactive menu over a task store.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/todo"
)

// Menu choices.
const (
	choiceAdd      = "1"
	choiceRemove   = "2"
	choiceComplete = "3"
	choiceList     = "4"
	choiceExit     = "5"
)

// errEOF ends the loop when input runs out.
var errEOF = errors.New("end of input")

// Shell reads menu choices from in and writes prompts and task lines to out.
type Shell struct {
	store  *todo.Store
	in     *bufio.Scanner
	out    io.Writer
	logger *log.Logger
}

// New creates a shell over store.
func New(store *todo.Store, in io.Reader, out io.Writer, logger *log.Logger) *Shell {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Shell{
		store:  store,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger,
	}
}

// Run loops until the user exits, input ends or ctx is cancelled.
// Persistence failures and non-numeric task indices end the loop with an
// error.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.printMenu()
		choice, err := s.prompt("Enter your choice: ")
		if err != nil {
			return s.finish(err)
		}

		switch strings.TrimSpace(choice) {
		case choiceAdd:
			err = s.add()
		case choiceRemove:
			err = s.withIndex("Enter task ID to remove: ", s.store.Remove)
		case choiceComplete:
			err = s.withIndex("Enter task ID to mark as completed: ", s.store.Complete)
		case choiceList:
			fmt.Fprint(s.out, todo.FormatList(s.store.List()))
		case choiceExit:
			fmt.Fprintln(s.out, "Exiting the to-do list application.")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please try again.")
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

func (s *Shell) finish(err error) error {
	if errors.Is(err, errEOF) {
		fmt.Fprintln(s.out)
		return nil
	}
	return err
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "To-Do List Application")
	fmt.Fprintln(s.out, "1. Add Task")
	fmt.Fprintln(s.out, "2. Remove Task")
	fmt.Fprintln(s.out, "3. Mark Task as Completed")
	fmt.Fprintln(s.out, "4. List Tasks")
	fmt.Fprintln(s.out, "5. Exit")
}

func (s *Shell) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errEOF
	}
	return s.in.Text(), nil
}

func (s *Shell) add() error {
	description, err := s.prompt("Enter task description: ")
	if err != nil {
		return err
	}
	priority, err := s.prompt("Enter task priority (low, mid, high): ")
	if err != nil {
		return err
	}
	due, err := s.readDueDate()
	if err != nil {
		return err
	}
	return s.store.AddWithDate(description, strings.ToLower(priority), due)
}

// readDueDate prompts for an optional due date. Input that does not parse
// is reported and treated as no due date.
func (s *Shell) readDueDate() (*todo.Date, error) {
	text, err := s.prompt("Enter due date (YYYY-MM-DD) or leave blank: ")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	d, err := todo.ParseDateStrict(text)
	if err != nil {
		s.logger.Debug("rejected due date", "input", text, "err", err)
		fmt.Fprintln(s.out, "Invalid date format. Please use YYYY-MM-DD.")
		return nil, nil
	}
	return &d, nil
}

func (s *Shell) withIndex(label string, op func(int) (bool, error)) error {
	text, err := s.prompt(label)
	if err != nil {
		return err
	}
	index, err := parseIndex(text)
	if err != nil {
		return err
	}
	ok, err := op(index)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Debug("no task at index", "index", index)
	}
	return nil
}

// parseIndex parses a task index typed by the user.
func parseIndex(text string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid task index %q: %w", text, err)
	}
	return index, nil
}
