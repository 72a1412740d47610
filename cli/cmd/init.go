package cmd

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/pkg"
	"github.com/ardnew/spyview/profile"
)

// configMode is the permission mode of a written configuration file.
const configMode os.FileMode = 0o600

// Init writes a configuration file holding the current global flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalContext(ctx, i.values(ctx), yaml.Indent(indent))
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrYAMLMarshal.Wrap(err))
	}

	header := "# " + pkg.Name + " configuration. Keys are long flag names.\n"

	err = os.WriteFile(confPath, append([]byte(header), data...), configMode)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// values returns the application-level flags in declaration order, without
// help, version, profiling, hidden, and empty flags.
func (i *Init) values(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)

	skip := []string{"help", "version", profile.Tag}

	var out yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(skip, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := ktx.FlagValue(flag)
		if val == nil {
			continue
		}

		rv := reflect.ValueOf(val)

		switch rv.Kind() {
		case reflect.String:
			if rv.Len() == 0 {
				continue
			}

			val = rv.String()

		case reflect.Slice, reflect.Map:
			if rv.Len() == 0 {
				continue
			}
		}

		out = append(out, yaml.MapItem{Key: flag.Name, Value: val})
	}

	return out
}
