package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardnew/spyview/editor"
	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/session"
	"github.com/ardnew/spyview/web"
)

// Serve exposes one session over HTTP until interrupted.
type Serve struct {
	Addr     string `default:"127.0.0.1:8642" help:"Listen address."                        short:"a"`
	PID      string `help:"Attach to this process before serving."                       short:"p"`
	Messages int    `default:"100" help:"Number of user messages kept for /api/messages."`
}

// Run executes the serve command.
func (s *Serve) Run(ctx context.Context) (err error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := optionsFrom(ctx)
	logger := log.Default()
	msgs := web.NewMessages(s.Messages)

	sess, done, err := opts.session(ctx, logger,
		session.WithNotifier(msgs),
		session.WithNavigator(editor.New(opts.Editor, logger)),
	)
	if err != nil {
		return err
	}
	defer done()

	if s.PID != "" {
		if err := attach(ctx, sess, s.PID); err != nil {
			logger.WarnContext(ctx, "initial attach failed",
				slog.String("pid", s.PID),
				slog.String("error", err.Error()),
			)
		}
	}

	out := stdout(ctx)
	handler := web.NewHandler(sess, msgs, logger)

	return web.Serve(ctx, s.Addr, handler.Router(), logger, func(addr net.Addr) {
		fmt.Fprintf(out, "listening on http://%s\n", addr)
	})
}
