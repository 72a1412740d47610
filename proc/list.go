package proc

import (
	"context"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/pkg"
)

// Lister enumerates the process table.
type Lister interface {
	List(ctx context.Context) ([]Row, error)
}

// Runner runs a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Exec is the [Runner] backed by os/exec.
func Exec(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Strategy is one way of listing processes: a command and its parser.
type Strategy struct {
	Parse   func(text string) []Row
	Name    string
	Command []string
}

var (
	StrategyPS = Strategy{
		Name:    "ps",
		Command: []string{"ps", "-eo", "pid,args"},
		Parse:   ParsePS,
	}
	StrategyWMIC = Strategy{
		Name: "wmic",
		Command: []string{
			"wmic.exe", "process", "get", "ProcessId,CommandLine", "/FORMAT:CSV",
		},
		Parse: ParseWMIC,
	}
	StrategyTasklist = Strategy{
		Name:    "tasklist",
		Command: []string{"tasklist.exe", "/v", "/fo", "csv"},
		Parse:   ParseTasklist,
	}
)

// SelectStrategy picks the strategy for goos. On windows, WMIC is preferred
// when probe reports it usable; it is deprecated and missing from recent
// releases, in which case tasklist is used.
func SelectStrategy(goos string, probe func() bool) Strategy {
	if goos != "windows" {
		return StrategyPS
	}

	if probe != nil && probe() {
		return StrategyWMIC
	}

	return StrategyTasklist
}

// CommandLister lists processes by running a [Strategy] command.
type CommandLister struct {
	Run      Runner
	Logger   log.Logger
	Strategy Strategy
}

// NewLister returns the lister for the running platform.
func NewLister(ctx context.Context, logger log.Logger) CommandLister {
	probe := func() bool {
		_, err := Exec(ctx, "wmic.exe", "-?")

		return err == nil
	}

	return CommandLister{
		Run:      Exec,
		Logger:   logger,
		Strategy: SelectStrategy(runtime.GOOS, probe),
	}
}

// List runs the strategy command and parses its output. A command that exits
// with an error but still printed rows is not treated as a failure.
func (l CommandLister) List(ctx context.Context) ([]Row, error) {
	run := l.Run
	if run == nil {
		run = Exec
	}

	cmd := l.Strategy.Command
	if len(cmd) == 0 {
		return nil, pkg.ErrListProcesses.Wrapf("strategy %q has no command", l.Strategy.Name)
	}

	out, err := run(ctx, cmd[0], cmd[1:]...)
	rows := l.Strategy.Parse(string(out))

	l.Logger.DebugContext(ctx, "listed processes",
		slog.String("strategy", l.Strategy.Name),
		slog.Int("rows", len(rows)),
	)

	if err != nil && len(rows) == 0 {
		return nil, pkg.ErrListProcesses.Wrap(err)
	}

	return rows, nil
}

// Candidates lists processes with l and filters them with f.
func Candidates(ctx context.Context, l Lister, f Filter) ([]Candidate, error) {
	rows, err := l.List(ctx)
	if err != nil {
		return nil, err
	}

	return f.Apply(rows), nil
}
