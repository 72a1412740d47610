package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/spyview/editor"
	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/session"
	"github.com/ardnew/spyview/tui"
)

// View browses the stacks of a process in the terminal.
type View struct {
	PID string `help:"Attach to this process instead of choosing one." short:"p"`
}

// OwnsTerminal implements the CLI's log redirection hook.
func (*View) OwnsTerminal() bool { return true }

// Run executes the view command.
func (v *View) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := optionsFrom(ctx)
	logger := log.Default()
	host := tui.NewHost(editor.New(opts.Editor, logger))

	sess, done, err := opts.session(ctx, logger,
		session.WithNotifier(host.Notifier()),
		session.WithNavigator(host.Navigator()),
	)
	if err != nil {
		return err
	}
	defer done()

	if v.PID != "" {
		// Failures were already queued as notes for the viewer.
		if err := attach(ctx, sess, v.PID); err != nil {
			logger.DebugContext(ctx, "initial attach failed",
				slog.String("pid", v.PID),
				slog.String("error", err.Error()),
			)
		}
	}

	return host.Run(ctx, sess, logger)
}
