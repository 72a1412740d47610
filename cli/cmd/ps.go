package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/proc"
)

// Ps lists the processes that can be dumped.
type Ps struct {
	Format Format `default:"text" enum:"text,json,yaml" help:"Output format." short:"o"`
}

// Run executes the ps command.
func (p *Ps) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	filter, err := optionsFrom(ctx).filter()
	if err != nil {
		return err
	}

	logger := log.Default()

	cands, err := proc.Candidates(ctx, proc.NewLister(ctx, logger), filter)
	if err != nil {
		return err
	}

	if cands == nil {
		cands = []proc.Candidate{}
	}

	logger.DebugContext(ctx, "listed candidates", slog.Int("count", len(cands)))

	return write(ctx, stdout(ctx), p.Format, cands, func(w io.Writer) error {
		return renderCandidates(w, cands)
	})
}
