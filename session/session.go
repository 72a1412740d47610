// Package session ties process selection, the sampler, and the displayed
// stack together. A [Session] is attached to at most one process at a time;
// every refresh dumps that process's threads into a [tree.Model].
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ardnew/spyview/history"
	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/pkg"
	"github.com/ardnew/spyview/proc"
	"github.com/ardnew/spyview/sampler"
	"github.com/ardnew/spyview/stack"
	"github.com/ardnew/spyview/tree"
)

// Dumper reads the thread stacks of a process as text.
type Dumper interface {
	Dump(ctx context.Context, pid string) (string, error)
}

// Navigator opens a source file at a line.
type Navigator interface {
	Navigate(ctx context.Context, file string, line int) error
}

// Recorder stores successful dumps.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (int64, error)
}

// Picker asks the user to choose one of candidates. ok is false when the
// user cancelled.
type Picker interface {
	Pick(ctx context.Context, candidates []proc.Candidate) (c proc.Candidate, ok bool, err error)
}

// PickerFunc adapts a function to [Picker].
type PickerFunc func(context.Context, []proc.Candidate) (proc.Candidate, bool, error)

// Pick calls f.
func (f PickerFunc) Pick(
	ctx context.Context, candidates []proc.Candidate,
) (proc.Candidate, bool, error) {
	return f(ctx, candidates)
}

// Session is safe for concurrent use.
type Session struct {
	dumper Dumper
	lister proc.Lister
	notify Notifier
	nav    Navigator
	rec    Recorder
	model  *tree.Model
	log    log.Logger
	filter proc.Filter

	mu      sync.Mutex
	pid     string
	cmdLine string
	id      string
	gen     uint64
	state   State
}

// New returns an idle session rendering into model.
func New(model *tree.Model, dumper Dumper, opts ...Option) *Session {
	if model == nil {
		model = tree.New()
	}

	s := &Session{
		dumper: dumper,
		notify: discardNotifier{},
		model:  model,
		log:    log.Discard(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Model returns the model the session renders into.
func (s *Session) Model() *tree.Model { return s.model }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// PID returns the attached pid, or "" when idle.
func (s *Session) PID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pid
}

// ID returns the identifier of the current attachment, or "" when idle.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.id
}

// Candidates lists and filters the processes the user may attach to.
func (s *Session) Candidates(ctx context.Context) ([]proc.Candidate, error) {
	if s.lister == nil {
		return nil, pkg.ErrListProcesses.Wrapf("no lister configured")
	}

	cands, err := proc.Candidates(ctx, s.lister, s.filter)
	if err != nil {
		s.notify.Error(truncate(sampler.Message(err), MaxMessage))

		return nil, err
	}

	s.log.DebugContext(ctx, "found candidates", slog.Int("count", len(cands)))

	return cands, nil
}

// Pick lets picker choose among the current candidates and attaches to the
// choice. Cancelling leaves the session unchanged.
func (s *Session) Pick(ctx context.Context, picker Picker) error {
	cands, err := s.Candidates(ctx)
	if err != nil {
		return err
	}

	c, ok, err := picker.Pick(ctx, cands)
	if err != nil {
		return err
	}

	if !ok {
		s.log.DebugContext(ctx, "pick cancelled")

		return nil
	}

	return s.Attach(ctx, c)
}

// Attach makes c the attached process and refreshes its stack.
func (s *Session) Attach(ctx context.Context, c proc.Candidate) error {
	s.mu.Lock()
	s.pid = c.PID
	s.cmdLine = c.CmdLine
	s.id = history.NewSessionID()
	s.state = StateAttached
	s.gen++
	id, gen := s.id, s.gen
	s.mu.Unlock()

	s.log.InfoContext(ctx, "attached",
		slog.String("session", id),
		slog.Any("process", c),
	)

	s.model.Reset(gen, &tree.Header{PID: c.PID, CmdLine: c.CmdLine, Session: id})

	return s.Refresh(ctx)
}

// Refresh dumps the attached process and replaces the displayed frames.
//
// Without an attached process it only warns. A failed dump detaches: the
// frames and header are cleared and the pid is forgotten.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.pid == "" {
		s.mu.Unlock()
		s.notify.Warn(MsgNoProcess)

		return nil
	}

	pid, cmdLine, id, gen := s.pid, s.cmdLine, s.id, s.gen
	s.state = StateDumping
	s.mu.Unlock()

	text, err := s.dumper.Dump(ctx, pid)

	s.mu.Lock()
	if s.id != id {
		// Detached or attached elsewhere while dumping.
		s.mu.Unlock()
		s.log.DebugContext(ctx, "discarding stale dump", slog.String("pid", pid))

		return nil
	}

	if err != nil {
		s.pid, s.cmdLine, s.id = "", "", ""
		s.state = StateIdle
		s.mu.Unlock()

		s.model.ClearFor(gen)

		if sampler.IsEnded(err) {
			s.log.InfoContext(ctx, "process ended", slog.String("pid", pid))
			s.notify.Info(MsgProcessEnded)
		} else {
			s.log.WarnContext(ctx, "dump failed",
				slog.String("pid", pid), slog.Any("error", err))
			s.notify.Error(truncate(sampler.Message(err), MaxMessage))
		}

		return err
	}

	s.state = StateAttached
	s.mu.Unlock()

	frames := stack.Parse(text)
	if !s.model.SetFramesFor(gen, frames) {
		// Another attachment took over the display after the check above.
		s.log.DebugContext(ctx, "discarding superseded dump", slog.String("pid", pid))

		return nil
	}

	s.log.DebugContext(ctx, "refreshed",
		slog.String("pid", pid), slog.Int("frames", len(frames)))

	if !stack.HasThreadMarker(text) {
		s.notify.Warn(MsgReadFailed)
	}

	if len(frames) == 0 {
		s.notify.Info(MsgNoFrames)
	}

	if s.rec != nil {
		if _, err := s.rec.Record(ctx, history.Entry{
			SessionID:  id,
			PID:        pid,
			CmdLine:    cmdLine,
			FrameCount: len(frames),
			Dump:       text,
		}); err != nil {
			s.log.WarnContext(ctx, "history record failed", slog.Any("error", err))
		}
	}

	return nil
}

// ToggleOrder flips the frame order, or tells the user there is nothing to
// flip.
func (s *Session) ToggleOrder() {
	if s.model.FrameCount() == 0 {
		s.notify.Info(MsgNothingToFlip)

		return
	}

	s.model.ToggleOrder()
}

// OpenFrame selects f and opens its source location.
func (s *Session) OpenFrame(ctx context.Context, f stack.Frame) error {
	s.model.SetSelected(f.UID)

	if s.nav == nil {
		return nil
	}

	if err := s.nav.Navigate(ctx, f.File, f.Line); err != nil {
		s.log.WarnContext(ctx, "open frame failed",
			slog.Any("frame", f), slog.Any("error", err))
		s.notify.Error(truncate(err.Error(), MaxMessage))

		return err
	}

	return nil
}

// Detach forgets the attached process and clears the display.
func (s *Session) Detach() {
	s.mu.Lock()
	s.pid, s.cmdLine, s.id = "", "", ""
	s.state = StateIdle
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.model.Reset(gen, nil)
}
