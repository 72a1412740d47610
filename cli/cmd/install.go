package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/spyview/log"
)

// Install puts py-spy into the private cache directory.
type Install struct {
	Force bool `help:"Reinstall even if py-spy is already available." short:"f"`
}

// Run executes the install command.
func (i *Install) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()

	loc := optionsFrom(ctx).locator(logger)
	loc.NoInstall = false

	var path string

	if i.Force {
		path, err = loc.Install(ctx)
	} else {
		path, err = loc.Locate(ctx)
	}

	if err != nil {
		return ErrSetup.Wrap(err)
	}

	logger.InfoContext(ctx, "sampler ready", slog.String("path", path))

	_, err = fmt.Fprintln(stdout(ctx), path)

	return err
}
