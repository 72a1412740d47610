package cmd

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/spyview/history"
	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/pkg"
	"github.com/ardnew/spyview/proc"
	"github.com/ardnew/spyview/sampler"
	"github.com/ardnew/spyview/session"
	"github.com/ardnew/spyview/tree"
)

// DefaultHistoryKeep is the number of dumps kept by default.
const DefaultHistoryKeep = 500

// SamplerDir is the private install directory under the cache directory.
const SamplerDir = "py-spy"

// Options are the global flags shared by the commands that read stacks.
type Options struct {
	Sampler     string `help:"Path to the py-spy executable."                                  placeholder:"PATH" type:"path"`
	Python      string `help:"Python 3 interpreter used to install py-spy, e.g. \"py -3\"."    placeholder:"CMD"`
	Editor      string `help:"Editor used to open frames (default $VISUAL, $EDITOR, vi)."      placeholder:"CMD"`
	Where       string `help:"Expression over Candidate fields selecting processes to offer." placeholder:"EXPR"`
	HistoryKeep int    `default:"500" help:"Number of dumps kept in the history database."`
	NoInstall   bool   `help:"Never install py-spy automatically."`
	NoHistory   bool   `help:"Do not record dumps in the history database."`
}

func (o Options) locator(logger log.Logger) sampler.Locator {
	return sampler.Locator{
		Logger:    logger,
		Path:      o.Sampler,
		Dir:       pkg.CachePath(SamplerDir),
		Python:    strings.Fields(o.Python),
		NoInstall: o.NoInstall,
	}
}

// sampler finds or installs py-spy.
func (o Options) sampler(ctx context.Context, logger log.Logger) (*sampler.Sampler, error) {
	loc := o.locator(logger)

	path, err := loc.Locate(ctx)
	if err != nil {
		return nil, ErrSetup.Wrap(err)
	}

	logger.DebugContext(ctx, "using sampler", slog.String("path", path))

	return sampler.New(path, sampler.Environ(os.Environ(), loc.BinDir()), logger), nil
}

func (o Options) filter() (proc.Filter, error) {
	where, err := proc.CompileWhere(o.Where)
	if err != nil {
		return proc.Filter{}, ErrWhere.
			With(slog.String("where", o.Where)).
			Wrap(err)
	}

	return proc.DefaultFilter(where), nil
}

// historyPath is the snapshot database location.
func historyPath() string { return pkg.CachePath(history.DefaultFile) }

// recorder opens the history store for writing and trims it to
// HistoryKeep entries. It returns nil when recording is disabled.
func (o Options) recorder(ctx context.Context, logger log.Logger) *history.Store {
	if o.NoHistory {
		return nil
	}

	store, err := history.Open(historyPath())
	if err != nil {
		logger.WarnContext(ctx, "history disabled", slog.String("error", err.Error()))

		return nil
	}

	if o.HistoryKeep > 0 {
		n, err := store.Prune(ctx, o.HistoryKeep)
		if err != nil {
			logger.WarnContext(ctx, "prune history", slog.String("error", err.Error()))
		} else if n > 0 {
			logger.DebugContext(ctx, "pruned history", slog.Int64("removed", n))
		}
	}

	return store
}

// session builds a session over a new model. The returned close function
// releases the history store.
func (o Options) session(
	ctx context.Context,
	logger log.Logger,
	opts ...session.Option,
) (*session.Session, func(), error) {
	filter, err := o.filter()
	if err != nil {
		return nil, nil, err
	}

	dumper, err := o.sampler(ctx, logger)
	if err != nil {
		return nil, nil, err
	}

	base := []session.Option{
		session.WithLister(proc.NewLister(ctx, logger)),
		session.WithFilter(filter),
		session.WithLogger(logger),
	}

	done := func() {}

	if store := o.recorder(ctx, logger); store != nil {
		base = append(base, session.WithRecorder(store))
		done = func() {
			if err := store.Close(); err != nil {
				logger.Warn("close history", slog.String("error", err.Error()))
			}
		}
	}

	return session.New(tree.New(), dumper, append(base, opts...)...), done, nil
}

// attach attaches sess to pid, using the listed command line when pid is a
// candidate.
func attach(ctx context.Context, sess *session.Session, pid string) error {
	c := proc.Candidate{PID: pid}

	if cands, err := sess.Candidates(ctx); err == nil {
		for _, cand := range cands {
			if cand.PID == pid {
				c = cand

				break
			}
		}
	}

	return sess.Attach(ctx, c)
}

// notFound reports whether err is a missing history entry.
func notFound(err error) bool { return errors.Is(err, sql.ErrNoRows) }
