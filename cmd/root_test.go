package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nibzard/todo-go/internal/todo"
)

// isolate keeps user and project config files and TODO_* variables from
// leaking into a test run.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		"TODO_FILE", "TODO_VALIDATE_SCHEMA", "TODO_LOG_LEVEL",
		"TODO_LOG_FORMAT", "TODO_LOG_TIMESTAMPS", "TODO_LOG_CALLER",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	wd := t.TempDir()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(wd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(prev) })
	return wd
}

type result struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, streams{
		in:  strings.NewReader(stdin),
		out: &stdout,
		err: &stderr,
	})
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func loadTasks(t *testing.T, path string) []todo.Task {
	t.Helper()
	s, err := todo.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s.List()
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	Version = "1.2.3"
	t.Cleanup(func() { Version = "dev" })

	for _, args := range [][]string{{"version"}, {"-version"}} {
		r := runCLI(t, "", args...)
		if r.err != nil {
			t.Fatalf("%v: unexpected error: %v", args, r.err)
		}
		if r.stdout != "todo version 1.2.3\n" {
			t.Errorf("%v: got %q", args, r.stdout)
		}
	}
}

func TestHelpCommand(t *testing.T) {
	isolate(t)
	for _, args := range [][]string{{"help"}, {"-h"}, {"-help"}} {
		r := runCLI(t, "", args...)
		if r.err != nil {
			t.Fatalf("%v: unexpected error: %v", args, r.err)
		}
		for _, want := range []string{"Usage:", "Commands:", "Global Options:", "-file"} {
			if !strings.Contains(r.stdout, want) {
				t.Errorf("%v: usage missing %q", args, want)
			}
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	isolate(t)
	r := runCLI(t, "", "frobnicate")
	if r.err == nil || !strings.Contains(r.err.Error(), "unknown command: frobnicate") {
		t.Fatalf("got %v, want unknown command error", r.err)
	}
	if !strings.Contains(r.stderr, "Usage:") {
		t.Error("expected usage on stderr")
	}
}

func TestAddListDoneRemove(t *testing.T) {
	wd := isolate(t)
	file := filepath.Join(wd, "tasks.json")

	r := runCLI(t, "", "add", "-p", "HIGH", "-due", "2024-04-15", "File", "taxes")
	if r.err != nil {
		t.Fatalf("add failed: %v", r.err)
	}
	if want := "0. [HIGH] File taxes - Due: 2024-04-15 - Pending\n"; r.stdout != want {
		t.Errorf("add output: got %q, want %q", r.stdout, want)
	}

	if r := runCLI(t, "", "add", "Buy", "milk"); r.err != nil {
		t.Fatalf("add failed: %v", r.err)
	}
	if r := runCLI(t, "", "done", "1"); r.err != nil {
		t.Fatalf("done failed: %v", r.err)
	}

	r = runCLI(t, "", "ls")
	if r.err != nil {
		t.Fatalf("ls failed: %v", r.err)
	}
	want := "Tasks:\n" +
		"0. [HIGH] File taxes - Due: 2024-04-15 - Pending\n" +
		"1. [LOW] Buy milk - Due: None - Completed\n"
	if diff := cmp.Diff(want, r.stdout); diff != "" {
		t.Errorf("ls output mismatch (-want +got):\n%s", diff)
	}

	r = runCLI(t, "", "ls", "-completed")
	if r.err != nil {
		t.Fatalf("ls -completed failed: %v", r.err)
	}
	if want := "Tasks:\n1. [LOW] Buy milk - Due: None - Completed\n"; r.stdout != want {
		t.Errorf("ls -completed: got %q, want %q", r.stdout, want)
	}

	if r := runCLI(t, "", "rm", "0"); r.err != nil {
		t.Fatalf("rm failed: %v", r.err)
	}
	tasks := loadTasks(t, file)
	if len(tasks) != 1 || tasks[0].Description != "Buy milk" {
		t.Fatalf("after rm: got %+v", tasks)
	}
}

func TestAddRequiresDescription(t *testing.T) {
	isolate(t)
	r := runCLI(t, "", "add", "-p", "mid")
	if r.err == nil {
		t.Fatal("expected error for missing description")
	}
	if _, err := os.Stat("tasks.json"); !os.IsNotExist(err) {
		t.Errorf("task file should not be created, stat err = %v", err)
	}
}

func TestAddInvalidDueDateWarns(t *testing.T) {
	for _, level := range []string{"warn", "error"} {
		t.Run(level, func(t *testing.T) {
			wd := isolate(t)
			r := runCLI(t, "", "-log-level", level, "add", "-due", "15/04/2024", "Pay", "rent")
			if r.err != nil {
				t.Fatalf("add failed: %v", r.err)
			}
			want := "Invalid date format: 15/04/2024. Should be YYYY-MM-DD.\n"
			if r.stderr != want {
				t.Errorf("stderr: got %q, want %q", r.stderr, want)
			}
			tasks := loadTasks(t, filepath.Join(wd, "tasks.json"))
			if len(tasks) != 1 || tasks[0].DueDate != nil {
				t.Fatalf("got %+v, want one task without due date", tasks)
			}
		})
	}
}

func TestIndexCommandOutOfRange(t *testing.T) {
	wd := isolate(t)
	if r := runCLI(t, "", "add", "Only"); r.err != nil {
		t.Fatalf("add failed: %v", r.err)
	}

	tests := []struct {
		name        string
		args        []string
		wantWarning bool
	}{
		{name: "rm silent", args: []string{"rm", "5"}},
		{name: "done silent", args: []string{"done", "-1"}},
		{name: "rm verbose", args: []string{"rm", "-v", "5"}, wantWarning: true},
		{name: "complete verbose", args: []string{"complete", "-v", "3"}, wantWarning: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runCLI(t, "", tt.args...)
			if r.err != nil {
				t.Fatalf("unexpected error: %v", r.err)
			}
			gotWarning := strings.Contains(r.stderr, "No task at index")
			if gotWarning != tt.wantWarning {
				t.Errorf("warning: got %v, want %v (stderr %q)", gotWarning, tt.wantWarning, r.stderr)
			}
		})
	}

	tasks := loadTasks(t, filepath.Join(wd, "tasks.json"))
	if len(tasks) != 1 || tasks[0].Completed {
		t.Errorf("out-of-range commands changed tasks: %+v", tasks)
	}
}

func TestIndexCommandInvalidIndex(t *testing.T) {
	isolate(t)
	for _, args := range [][]string{{"rm", "abc"}, {"done"}, {"done", "1", "2"}} {
		if r := runCLI(t, "", args...); r.err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestListFlagsExclusive(t *testing.T) {
	isolate(t)
	r := runCLI(t, "", "ls", "-pending", "-completed")
	if r.err == nil {
		t.Fatal("expected error for -pending with -completed")
	}
}

func TestFileFlag(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "nested", "work.json")

	if r := runCLI(t, "", "-file", file, "add", "Ship", "release"); r.err != nil {
		t.Fatalf("add failed: %v", r.err)
	}
	tasks := loadTasks(t, file)
	if len(tasks) != 1 || tasks[0].Description != "Ship release" {
		t.Fatalf("got %+v", tasks)
	}
}

func TestMenuCommand(t *testing.T) {
	wd := isolate(t)
	input := strings.Join([]string{"1", "Buy milk", "mid", "", "4", "5"}, "\n") + "\n"

	r := runCLI(t, input)
	if r.err != nil {
		t.Fatalf("menu failed: %v", r.err)
	}
	if !strings.Contains(r.stdout, "0. [MID] Buy milk - Due: None - Pending") {
		t.Errorf("menu output missing task line:\n%s", r.stdout)
	}
	tasks := loadTasks(t, filepath.Join(wd, "tasks.json"))
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
}

func TestMalformedFileFails(t *testing.T) {
	wd := isolate(t)
	if err := os.WriteFile(filepath.Join(wd, "tasks.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	r := runCLI(t, "", "ls")
	if r.err == nil {
		t.Fatal("expected error for malformed task file")
	}
}

func TestCheckCommand(t *testing.T) {
	wd := isolate(t)
	file := filepath.Join(wd, "tasks.json")

	r := runCLI(t, "", "check")
	if r.err != nil || !strings.Contains(r.stdout, "no task file yet") {
		t.Fatalf("missing file: got %q, %v", r.stdout, r.err)
	}

	if r := runCLI(t, "", "add", "A"); r.err != nil {
		t.Fatal(r.err)
	}
	r = runCLI(t, "", "check")
	if r.err != nil {
		t.Fatalf("check failed: %v", r.err)
	}
	if !strings.Contains(r.stdout, "ok (1 tasks, 1 pending, 0 completed)") {
		t.Errorf("got %q", r.stdout)
	}

	bad := `[{"description":"A","priority":"low","due_date":null,"completed":"yes"}]`
	if err := os.WriteFile(file, []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}
	r = runCLI(t, "", "check")
	if r.err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(r.stdout, "[0].completed") {
		t.Errorf("expected field path in report, got %q", r.stdout)
	}
}

func TestCheckDateTimeFile(t *testing.T) {
	wd := isolate(t)
	data := `[
  {"description": "A", "priority": "low", "due_date": "2024-03-15T00:00:00", "completed": false},
  {"description": "B", "priority": "urgent", "due_date": null, "completed": true}
]`
	if err := os.WriteFile(filepath.Join(wd, "tasks.json"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	r := runCLI(t, "", "check")
	if r.err != nil {
		t.Fatalf("check failed: %v\n%s", r.err, r.stdout)
	}
	for _, want := range []string{
		"ok (2 tasks, 1 pending, 1 completed)",
		"1 tasks have a priority other than low, mid or high",
	} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("check output missing %q:\n%s", want, r.stdout)
		}
	}

	r = runCLI(t, "", "-validate-schema", "ls")
	if r.err != nil {
		t.Fatalf("ls -validate-schema failed: %v", r.err)
	}
	if !strings.Contains(r.stdout, "0. [LOW] A - Due: 2024-03-15 - Pending") {
		t.Errorf("got %q", r.stdout)
	}
}

func TestCheckImpossibleDate(t *testing.T) {
	wd := isolate(t)
	data := `[{"description": "A", "priority": "low", "due_date": "2024-02-30", "completed": false}]`
	if err := os.WriteFile(filepath.Join(wd, "tasks.json"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	r := runCLI(t, "", "check")
	if r.err == nil {
		t.Fatal("expected check to fail")
	}
	if !strings.Contains(r.stdout, "due_date") {
		t.Errorf("expected due_date in report, got %q", r.stdout)
	}
}

func TestConfigCommand(t *testing.T) {
	isolate(t)
	t.Setenv("TODO_LOG_LEVEL", "debug")

	r := runCLI(t, "", "config")
	if r.err != nil {
		t.Fatalf("config failed: %v", r.err)
	}
	for _, want := range []string{
		"# config file: none",
		"log_level = debug (environment)",
		"log_format = text (default)",
	} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("config output missing %q:\n%s", want, r.stdout)
		}
	}

	r = runCLI(t, "", "config", "-example")
	if r.err != nil {
		t.Fatalf("config -example failed: %v", r.err)
	}
	if !strings.Contains(r.stdout, "data_file") {
		t.Errorf("example config missing data_file:\n%s", r.stdout)
	}
}

func TestSchemaCommand(t *testing.T) {
	isolate(t)
	r := runCLI(t, "", "schema")
	if r.err != nil {
		t.Fatalf("schema failed: %v", r.err)
	}
	if r.stdout != todo.Schema() {
		t.Error("schema output does not match embedded schema")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	isolate(t)
	r := runCLI(t, "", "-log-level", "loud", "ls")
	if r.err == nil {
		t.Fatal("expected error for invalid log level")
	}
}
