package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/ardnew/spyview/history"
	"github.com/ardnew/spyview/stack"
	"github.com/ardnew/spyview/tree"
)

// History inspects recorded dumps.
type History struct {
	List HistoryList `cmd:"" default:"1" help:"List recorded dumps, newest first"`
	Show HistoryShow `cmd:""             help:"Print one recorded dump"`
}

// HistoryList lists recorded dumps.
type HistoryList struct {
	PID    string `help:"Only dumps of this process."              short:"p"`
	Format Format `default:"text" enum:"text,json,yaml" help:"Output format." short:"o"`
	Limit  int    `default:"20" help:"Maximum number of entries."  short:"n"`
}

// Run executes the history list command.
func (h *HistoryList) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	store, err := history.Open(historyPath())
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx, h.PID, h.Limit)
	if err != nil {
		return err
	}

	if entries == nil {
		entries = []history.Entry{}
	}

	return write(ctx, stdout(ctx), h.Format, entries, func(w io.Writer) error {
		return renderEntries(w, entries)
	})
}

// HistoryShow prints one recorded dump.
type HistoryShow struct {
	Format  Format `default:"text" enum:"text,json,yaml" help:"Output format." short:"o"`
	ID      int64  `arg:"" help:"Entry ID from 'history list'."`
	Raw     bool   `help:"Print the dump text as captured."`
	Reverse bool   `help:"Reverse the frame order."          short:"r"`
}

// shownEntry is an entry with its parsed frames in display order.
type shownEntry struct {
	history.Entry `yaml:",inline"`

	Stack []stack.Frame `json:"stack" yaml:"stack"`
}

// Run executes the history show command.
func (h *HistoryShow) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	store, err := history.Open(historyPath())
	if err != nil {
		return err
	}
	defer store.Close()

	return h.show(ctx, store, stdout(ctx))
}

func (h *HistoryShow) show(ctx context.Context, store *history.Store, w io.Writer) error {
	e, err := store.Get(ctx, h.ID)
	if err != nil {
		if notFound(err) {
			return ErrNotFound.With(slog.Int64("id", h.ID)).Wrap(err)
		}

		return err
	}

	if h.Raw {
		_, err := io.WriteString(w, e.Dump)

		return err
	}

	model := tree.New()
	model.SetHeader(&tree.Header{PID: e.PID, CmdLine: e.CmdLine})
	model.SetFrames(e.Frames())

	if h.Reverse {
		model.ToggleOrder()
	}

	snap := model.Snapshot()

	frames := slices.Clone(snap.Frames)
	if snap.Reverse {
		slices.Reverse(frames)
	}

	shown := shownEntry{Entry: e, Stack: frames}

	return write(ctx, w, h.Format, shown, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s  %s\n",
			headerStyle.Render(fmt.Sprintf("#%d", e.ID)),
			detailStyle.Render(e.Taken.Local().Format(time.DateTime)+" session "+e.SessionID),
		)
		if err != nil {
			return err
		}

		return renderSnapshot(w, snap)
	})
}
