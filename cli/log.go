package cli

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/pkg"
)

// logFormat configures the default logger while kong parses --log-format,
// so errors reported during parsing already use it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the default logger while kong parses --log-level.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format."`
	File       string    `                                          help:"Append log output to this file instead of standard error." placeholder:"PATH" type:"path"`
	Caller     bool      `default:"false"                           help:"Include caller information."                              negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing."                        negatable:""`
}

// terminalLog is the log file used when a command draws on the terminal and
// no --log-file was given.
func terminalLog() string { return pkg.CachePath(pkg.Name + ".log") }

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start applies the parsed flags to the default logger. When file is
// non-empty, output goes there and stop closes it. A file that cannot be
// opened leaves output on standard error.
func (f *logConfig) start(ctx context.Context, file string) (stop func()) {
	opts := []log.Option{
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	}

	stop = func() {}

	if file != "" {
		out, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			log.WarnContext(ctx, "cannot open log file",
				slog.String("file", file),
				slog.String("error", err.Error()),
			)
		} else {
			opts = append(opts, log.WithOutput(out), log.WithPretty(false))
			stop = func() {
				log.Config(log.WithOutput(os.Stderr))
				_ = out.Close()
			}
		}
	}

	log.Config(opts...)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.String("file", file),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)

	return stop
}

// scan applies --log-* flags found anywhere in args before kong parses
// them. Boolean flags never reach UnmarshalText, so this is the only way
// they can affect messages printed while parsing.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, value, assigned := strings.Cut(args[i], "=")

		switch name {
		case "--log-level", "--log-format":
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				value = args[i]
			}

			if name == "--log-level" {
				_ = f.Level.UnmarshalText([]byte(value))
			} else {
				_ = f.Format.UnmarshalText([]byte(value))
			}

		case "--log-pretty", "--no-log-pretty", "--log-caller", "--no-log-caller":
			on := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				on = v
			}

			if strings.HasPrefix(name, "--no-") {
				on = !on
			}

			if strings.HasSuffix(name, "pretty") {
				f.Pretty = on
				log.Config(log.WithPretty(on))
			} else {
				f.Caller = on
				log.Config(log.WithCaller(on))
			}
		}
	}
}
