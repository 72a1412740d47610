package sampler

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/pkg"
)

// Sampler runs `py-spy dump` against a process.
type Sampler struct {
	Run    Runner
	Alive  func(pid int) bool
	Logger log.Logger
	// Path is the py-spy executable.
	Path string
	// Env is the child environment; see [Environ].
	Env []string
}

// New returns a Sampler running the executable at path with env.
func New(path string, env []string, logger log.Logger) *Sampler {
	return &Sampler{Run: Exec, Alive: alive, Logger: logger, Path: path, Env: env}
}

// Args returns the sampler arguments for pid.
func Args(pid string) []string {
	return []string{"dump", "--pid", pid, "--full-filenames"}
}

// Dump returns the sampler's text dump of pid's threads.
//
// A numeric pid that no longer exists fails with [ErrProcessEnded] without
// running the sampler. Otherwise a failed run wraps [pkg.ErrDump] around the
// sampler's standard error, or the exec error when it printed nothing.
func (s *Sampler) Dump(ctx context.Context, pid string) (string, error) {
	if n, err := strconv.Atoi(pid); err == nil && s.Alive != nil && !s.Alive(n) {
		return "", ErrProcessEnded.Wrapf("pid %s", pid)
	}

	run := s.Run
	if run == nil {
		run = Exec
	}

	start := time.Now()
	stdout, stderr, err := run(ctx, s.Env, s.Path, Args(pid)...)

	s.Logger.DebugContext(ctx, "sampler finished",
		slog.String("pid", pid),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("stdout", len(stdout)),
		slog.Int("stderr", len(stderr)),
		slog.Any("error", err),
	)

	if err != nil {
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			msg = err.Error()
		}

		return "", pkg.ErrDump.Wrap(errors.New(msg))
	}

	return string(stdout), nil
}
