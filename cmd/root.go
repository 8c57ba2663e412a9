// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/shell"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams bundles the process I/O so commands can be driven from tests.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// app carries what every subcommand needs.
type app struct {
	streams
	cws    *config.ConfigWithSources
	cfg    *config.Config
	logger *log.Logger
}

// Run executes the todo CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, s streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(s.err)
	fs.Usage = func() {
		printUsage(fs, s.err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, s.out)
		return nil
	}
	if *showVersion {
		return versionCommand(s.out)
	}

	cfg := cws.Config
	opts, err := logging.OptionsFrom(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	a := &app{
		streams: s,
		cws:     cws,
		cfg:     cfg,
		logger:  logging.New(s.err, opts),
	}

	// Determine the subcommand; the interactive menu is the default
	subcommand := "menu"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "menu":
		return a.menuCommand(ctx, remainingArgs)
	case "add":
		return a.addCommand(remainingArgs)
	case "rm", "remove":
		return a.indexCommand("remove", remainingArgs, func(st *todo.Store, i int) (bool, error) {
			return st.Remove(i)
		})
	case "done", "complete":
		return a.indexCommand("complete", remainingArgs, func(st *todo.Store, i int) (bool, error) {
			return st.Complete(i)
		})
	case "ls", "list":
		return a.listCommand(remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "check":
		return a.checkCommand(remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "schema":
		fmt.Fprint(s.out, todo.Schema())
		return nil
	case "version":
		return versionCommand(s.out)
	case "help":
		printUsage(fs, s.out)
		return nil
	default:
		fmt.Fprintf(s.err, "Unknown command: %s\n", subcommand)
		printUsage(fs, s.err)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// openStore opens the configured task file.
func (a *app) openStore() (*todo.Store, error) {
	store, err := todo.Open(a.cfg.DataFile,
		todo.WithLogger(a.logger),
		todo.WithWarner(userWarner{w: a.err}),
		todo.WithSchemaValidation(a.cfg.ValidateSchema),
	)
	if err != nil {
		return nil, fmt.Errorf("opening task file: %w", err)
	}
	return store, nil
}

// userWarner prints diagnostics meant for the user regardless of log level.
type userWarner struct {
	w io.Writer
}

func (u userWarner) Warn(msg interface{}, _ ...interface{}) {
	fmt.Fprintln(u.w, msg)
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("todo "+name, flag.ContinueOnError)
	fs.SetOutput(a.err)
	return fs
}

// menuCommand runs the interactive numbered menu.
func (a *app) menuCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	return shell.New(store, a.in, a.out, a.logger).Run(ctx)
}

// addCommand appends one task.
func (a *app) addCommand(args []string) error {
	fs := a.newFlagSet("add")
	priority := fs.String("priority", todo.DefaultPriority, "Task priority (low, mid, high)")
	fs.StringVar(priority, "p", todo.DefaultPriority, "Task priority (shorthand)")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	description := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if description == "" {
		return fmt.Errorf("add: task description is required")
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	if err := store.Add(description, strings.ToLower(*priority), *due); err != nil {
		return err
	}

	tasks := store.List()
	fmt.Fprintln(a.out, todo.FormatTask(tasks[len(tasks)-1], len(tasks)-1))
	return nil
}

// indexCommand runs op against the task index given as the only argument.
// An out-of-range index is silently ignored unless -v is set.
func (a *app) indexCommand(name string, args []string, op func(*todo.Store, int) (bool, error)) error {
	fs := a.newFlagSet(name)
	verbose := fs.Bool("v", false, "Report when no task exists at the index")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%s: expected exactly one task index", name)
	}

	index, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("%s: invalid task index %q: %w", name, fs.Arg(0), err)
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	ok, err := op(store, index)
	if err != nil {
		return err
	}
	if !ok && *verbose {
		fmt.Fprintf(a.err, "No task at index %d\n", index)
	}
	return nil
}

// listCommand prints tasks with the indices accepted by rm and done.
func (a *app) listCommand(args []string) error {
	fs := a.newFlagSet("list")
	pending := fs.Bool("pending", false, "Show only pending tasks")
	completed := fs.Bool("completed", false, "Show only completed tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *pending && *completed {
		return fmt.Errorf("list: -pending and -completed are mutually exclusive")
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}

	filter := ui.FilterAll
	switch {
	case *pending:
		filter = ui.FilterPending
	case *completed:
		filter = ui.FilterCompleted
	}

	fmt.Fprintln(a.out, "Tasks:")
	for i, t := range store.List() {
		if filter.Match(t) {
			fmt.Fprintln(a.out, todo.FormatTask(t, i))
		}
	}
	return nil
}

// tuiCommand launches the TUI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, store)
}

// checkCommand validates the task file against the schema and the strict
// record decoder.
func (a *app) checkCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	path := a.cfg.DataFile
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(a.out, "%s: no task file yet\n", path)
			return nil
		}
		return fmt.Errorf("read task file: %w", err)
	}

	if err := todo.ValidateDocument(data); err != nil {
		fmt.Fprintf(a.out, "%s: invalid\n", path)
		for _, e := range unjoin(err) {
			fmt.Fprintf(a.out, "  %v\n", e)
		}
		return fmt.Errorf("task file failed validation")
	}

	store, err := a.openStore()
	if err != nil {
		fmt.Fprintf(a.out, "%s: invalid\n  %v\n", path, errors.Unwrap(err))
		return fmt.Errorf("task file failed validation")
	}
	pending, completed := todo.Summary(store.List())
	fmt.Fprintf(a.out, "%s: ok (%d tasks, %d pending, %d completed)\n",
		store.Path(), store.Len(), pending, completed)

	unconventional := 0
	for _, t := range store.List() {
		if !todo.KnownPriority(t.Priority) {
			unconventional++
		}
	}
	if unconventional > 0 {
		fmt.Fprintf(a.out, "  %d tasks have a priority other than low, mid or high\n", unconventional)
	}
	return nil
}

// unjoin splits an errors.Join result back into its parts.
func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

// configCommand prints the effective configuration or an example file.
func (a *app) configCommand(args []string) error {
	fs := a.newFlagSet("config")
	example := fs.Bool("example", false, "Print an example configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(a.out, config.ExampleConfig())
		return nil
	}

	if file := a.cws.GetConfigFile(); file != "" {
		fmt.Fprintf(a.out, "# config file: %s\n", file)
	} else {
		fmt.Fprintln(a.out, "# config file: none")
	}
	for _, field := range config.Fields() {
		fmt.Fprintf(a.out, "%s = %s (%s)\n", field, a.cfg.Value(field), a.cws.Sources[field])
	}
	return nil
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "todo version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todo - a local to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  menu                  Interactive numbered menu (default command)")
	fmt.Fprintln(w, "  add [-p prio] [-due YYYY-MM-DD] <description>")
	fmt.Fprintln(w, "                        Add a task")
	fmt.Fprintln(w, "  rm [-v] <index>       Remove the task at index")
	fmt.Fprintln(w, "  done [-v] <index>     Mark the task at index as completed")
	fmt.Fprintln(w, "  ls [-pending|-completed]")
	fmt.Fprintln(w, "                        List tasks")
	fmt.Fprintln(w, "  tui                   Launch terminal UI")
	fmt.Fprintln(w, "  check                 Validate the task file")
	fmt.Fprintln(w, "  config [-example]     Show effective configuration")
	fmt.Fprintln(w, "  schema                Print the task file JSON Schema")
	fmt.Fprintln(w, "  version               Show version information")
	fmt.Fprintln(w, "  help                  Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
