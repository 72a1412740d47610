package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/session"
	"github.com/ardnew/spyview/stack"
	"github.com/ardnew/spyview/tree"
	"github.com/ardnew/spyview/tui"
)

// stdinInput names standard input for --input.
const stdinInput = "-"

// Dump prints the stacks of one process, or of a saved dump.
type Dump struct {
	PID     string `help:"Process to dump; choose interactively when omitted."         short:"p" xor:"source"`
	Input   string `help:"Render saved dump text from a file or '-' for standard input." short:"i" xor:"source"`
	Format  Format `default:"text" enum:"text,json,yaml" help:"Output format."           short:"o"`
	Reverse bool   `help:"Reverse the frame order."                                     short:"r"`
}

// OwnsTerminal reports whether the process picker will run.
func (d *Dump) OwnsTerminal() bool { return d.PID == "" && d.Input == "" }

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var model *tree.Model

	if d.Input != "" {
		model, err = d.read()
	} else {
		model, err = d.sample(ctx)
	}

	if err != nil || model == nil {
		return err
	}

	if d.Reverse {
		model.ToggleOrder()
	}

	snap := model.Snapshot()

	return write(ctx, stdout(ctx), d.Format, snap, func(w io.Writer) error {
		return renderSnapshot(w, snap)
	})
}

func (d *Dump) read() (*tree.Model, error) {
	var (
		data []byte
		err  error
	)

	if d.Input == stdinInput {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(d.Input)
	}

	if err != nil {
		return nil, ErrReadDump.
			With(slog.String("input", d.Input)).
			Wrap(err)
	}

	model := tree.New()
	model.SetFrames(stack.Parse(string(data)))

	return model, nil
}

// sample dumps the chosen process through a session so the result is
// recorded like any other. A cancelled pick returns a nil model.
func (d *Dump) sample(ctx context.Context) (*tree.Model, error) {
	logger := log.Default()

	sess, done, err := optionsFrom(ctx).session(ctx, logger,
		session.WithNotifier(session.LogNotifier{Logger: logger}),
	)
	if err != nil {
		return nil, err
	}
	defer done()

	if d.PID != "" {
		err = attach(ctx, sess, d.PID)
	} else {
		err = sess.Pick(ctx, session.PickerFunc(tui.Pick))
	}

	if err != nil {
		return nil, err
	}

	if sess.PID() == "" {
		return nil, nil
	}

	return sess.Model(), nil
}
