package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/spyview/cli/cmd"
	"github.com/ardnew/spyview/pkg"
)

// ConfigFile is the name of the configuration file in [pkg.ConfigDir].
const ConfigFile = "config.yaml"

// CLI is the top-level command-line interface for spyview.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	cmd.Options `embed:"" group:"session"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	View    cmd.View    `cmd:"" default:"withargs" help:"Browse the stacks of a Python process (default)"`
	Ps      cmd.Ps      `cmd:""                    help:"List Python processes that can be dumped"`
	Dump    cmd.Dump    `cmd:""                    help:"Print the stacks of a Python process once"`
	Serve   cmd.Serve   `cmd:""                    help:"Serve a stack viewing session over HTTP"`
	History cmd.History `cmd:""                    help:"Inspect recorded dumps"`
	Install cmd.Install `cmd:""                    help:"Install py-spy into the private cache"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
}

// terminalOwner is implemented by commands that draw on the terminal, whose
// log output must not go to standard error.
type terminalOwner interface {
	OwnsTerminal() bool
}

// Run executes the spyview CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := pkg.MkdirAll()
	if err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(ConfigFile)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Name + " " + strings.TrimSpace(pkg.Version),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Catch boolean logger flags, which never reach UnmarshalText.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{
			cli.Log.group(),
			cli.Pprof.group(),
			{Key: "session", Title: "Session options"},
		}),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx, cli.Options)

	logFile := cli.Log.File
	if logFile == "" && ownsTerminal(ktx) {
		logFile = terminalLog()
	}

	defer cli.Log.start(ctx, logFile)()

	// No-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli)
}

func ownsTerminal(ktx *kong.Context) bool {
	node := ktx.Selected()
	if node == nil || !node.Target.CanAddr() {
		return false
	}

	t, ok := node.Target.Addr().Interface().(terminalOwner)

	return ok && t.OwnsTerminal()
}
