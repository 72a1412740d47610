package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/spyview/history"
	"github.com/ardnew/spyview/pkg"
	"github.com/ardnew/spyview/proc"
	"github.com/ardnew/spyview/stack"
	"github.com/ardnew/spyview/tree"
)

const sample = `Thread 0x7f (active): "MainThread"
    work (/app/worker.py:40)
    main (/app/main.py:12)
`

type note struct{ level, msg string }

type notes struct {
	mu  sync.Mutex
	all []note
}

func (n *notes) add(level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.all = append(n.all, note{level, msg})
}

func (n *notes) Info(msg string)  { n.add("info", msg) }
func (n *notes) Warn(msg string)  { n.add("warn", msg) }
func (n *notes) Error(msg string) { n.add("error", msg) }

func (n *notes) list() []note {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]note(nil), n.all...)
}

type dumpFunc func(ctx context.Context, pid string) (string, error)

func (f dumpFunc) Dump(ctx context.Context, pid string) (string, error) { return f(ctx, pid) }

func text(s string) dumpFunc {
	return func(context.Context, string) (string, error) { return s, nil }
}

func fail(err error) dumpFunc {
	return func(context.Context, string) (string, error) { return "", err }
}

type listFunc func() []proc.Row

func (f listFunc) List(context.Context) ([]proc.Row, error) { return f(), nil }

type recorder struct{ entries []history.Entry }

func (r *recorder) Record(_ context.Context, e history.Entry) (int64, error) {
	r.entries = append(r.entries, e)

	return int64(len(r.entries)), nil
}

type navigator struct {
	file string
	line int
	err  error
}

func (n *navigator) Navigate(_ context.Context, file string, line int) error {
	n.file, n.line = file, line

	return n.err
}

var app = proc.Candidate{PID: "4242", CmdLine: "python3 app.py", Label: "app.py"}

func TestAttach_Success(t *testing.T) {
	n := &notes{}
	rec := &recorder{}
	s := New(nil, text(sample), WithNotifier(n), WithRecorder(rec))

	if err := s.Attach(context.Background(), app); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	if got := n.list(); len(got) != 0 {
		t.Errorf("notifications = %v, want none", got)
	}

	snap := s.Model().Snapshot()
	if snap.Header == nil || snap.Header.PID != "4242" || len(snap.Frames) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}

	if snap.Frames[0].Func != "work" || snap.Frames[1].UID != 1 {
		t.Errorf("frames = %v", snap.Frames)
	}

	if s.State() != StateAttached || s.PID() != "4242" || s.ID() == "" {
		t.Errorf("state = %v pid = %q id = %q", s.State(), s.PID(), s.ID())
	}

	if len(rec.entries) != 1 || rec.entries[0].SessionID != s.ID() ||
		rec.entries[0].FrameCount != 2 || rec.entries[0].Dump != sample {
		t.Errorf("recorded = %+v", rec.entries)
	}
}

func TestRefresh_NoProcess(t *testing.T) {
	n := &notes{}
	called := false
	s := New(nil, dumpFunc(func(context.Context, string) (string, error) {
		called = true

		return "", nil
	}), WithNotifier(n))

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if called {
		t.Error("dumper ran without a pid")
	}

	if got := n.list(); len(got) != 1 || got[0] != (note{"warn", MsgNoProcess}) {
		t.Errorf("notifications = %v", got)
	}
}

func TestRefresh_QualityWarnings(t *testing.T) {
	tests := []struct {
		name string
		dump string
		want []note
	}{
		{"no thread marker", "main (/a.py:1)\n", []note{{"warn", MsgReadFailed}}},
		{"no frames", "Thread 1 (idle)\n", []note{{"info", MsgNoFrames}}},
		{"empty", "", []note{{"warn", MsgReadFailed}, {"info", MsgNoFrames}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &notes{}
			s := New(nil, text(tt.dump), WithNotifier(n))

			if err := s.Attach(context.Background(), app); err != nil {
				t.Fatal(err)
			}

			got := n.list()
			if len(got) != len(tt.want) {
				t.Fatalf("notifications = %v, want %v", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("notification %d = %v, want %v", i, got[i], tt.want[i])
				}
			}

			if s.State() != StateAttached {
				t.Errorf("state = %v, want Attached", s.State())
			}
		})
	}
}

func TestRefresh_ProcessEnded(t *testing.T) {
	n := &notes{}
	ok := true
	s := New(nil, dumpFunc(func(context.Context, string) (string, error) {
		if ok {
			return sample, nil
		}

		return "", pkg.ErrDump.Wrap(errors.New("Error: No such process (os error 3)"))
	}), WithNotifier(n))

	if err := s.Attach(context.Background(), app); err != nil {
		t.Fatal(err)
	}

	s.Model().SetSelected(1)
	ok = false

	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() error = nil, want dump error")
	}

	snap := s.Model().Snapshot()
	if snap.Header != nil || len(snap.Frames) != 0 || snap.Selected != nil {
		t.Errorf("snapshot not cleared: %+v", snap)
	}

	if s.PID() != "" || s.State() != StateIdle {
		t.Errorf("pid = %q state = %v", s.PID(), s.State())
	}

	if got := n.list(); len(got) != 1 || got[0] != (note{"info", MsgProcessEnded}) {
		t.Errorf("notifications = %v, want one info", got)
	}
}

func TestRefresh_FailureTruncated(t *testing.T) {
	n := &notes{}
	long := strings.Repeat("x", 300)
	s := New(nil, fail(pkg.ErrDump.Wrap(errors.New(long))), WithNotifier(n))

	_ = s.Attach(context.Background(), app)

	got := n.list()
	if len(got) != 1 || got[0].level != "error" || got[0].msg != long[:MaxMessage] {
		t.Errorf("notifications = %v", got)
	}

	if s.PID() != "" || s.Model().Snapshot().Header != nil {
		t.Error("failure did not detach")
	}
}

func TestToggleOrder(t *testing.T) {
	n := &notes{}
	s := New(nil, text(sample), WithNotifier(n))

	s.ToggleOrder()

	if got := n.list(); len(got) != 1 || got[0] != (note{"info", MsgNothingToFlip}) {
		t.Fatalf("notifications = %v", got)
	}

	if s.Model().Reverse() {
		t.Error("toggled with no frames")
	}

	_ = s.Attach(context.Background(), app)
	s.ToggleOrder()

	if !s.Model().Reverse() {
		t.Error("ToggleOrder() did not flip")
	}

	nodes := s.Model().Nodes()
	if nodes[0].Kind != tree.KindHeader || nodes[1].Label != "main (main.py)" {
		t.Errorf("nodes = %+v", nodes)
	}
}

func TestOpenFrame(t *testing.T) {
	n := &notes{}
	nav := &navigator{}
	s := New(nil, text(sample), WithNotifier(n), WithNavigator(nav))
	_ = s.Attach(context.Background(), app)

	f := stack.Frame{File: "/app/main.py", Line: 12, Func: "main", UID: 1}
	if err := s.OpenFrame(context.Background(), f); err != nil {
		t.Fatal(err)
	}

	if nav.file != "/app/main.py" || nav.line != 12 {
		t.Errorf("navigated to %s:%d", nav.file, nav.line)
	}

	if sel := s.Model().Snapshot().Selected; sel == nil || *sel != 1 {
		t.Errorf("selected = %v", sel)
	}

	nav.err = errors.New("no editor")
	if err := s.OpenFrame(context.Background(), f); err == nil {
		t.Error("OpenFrame() error = nil")
	}

	if got := n.list(); len(got) != 1 || got[0].level != "error" {
		t.Errorf("notifications = %v", got)
	}
}

func TestPick(t *testing.T) {
	rows := listFunc(func() []proc.Row {
		return []proc.Row{
			{PID: "1", CmdLine: "node server.js"},
			{PID: "2", CmdLine: "python3 app.py --debug"},
		}
	})

	s := New(nil, text(sample), WithLister(rows))

	var offered []proc.Candidate

	cancel := PickerFunc(func(_ context.Context, c []proc.Candidate) (proc.Candidate, bool, error) {
		offered = c

		return proc.Candidate{}, false, nil
	})

	if err := s.Pick(context.Background(), cancel); err != nil {
		t.Fatal(err)
	}

	if len(offered) != 1 || offered[0].PID != "2" {
		t.Errorf("offered = %v", offered)
	}

	if s.PID() != "" || s.Model().Snapshot().Header != nil {
		t.Error("cancelled pick changed the session")
	}

	first := PickerFunc(func(_ context.Context, c []proc.Candidate) (proc.Candidate, bool, error) {
		return c[0], true, nil
	})

	if err := s.Pick(context.Background(), first); err != nil {
		t.Fatal(err)
	}

	if s.PID() != "2" || s.Model().FrameCount() != 2 {
		t.Errorf("pid = %q frames = %d", s.PID(), s.Model().FrameCount())
	}
}

func TestDetach(t *testing.T) {
	s := New(nil, text(sample))
	_ = s.Attach(context.Background(), app)

	s.Detach()

	if s.PID() != "" || s.ID() != "" || s.State() != StateIdle {
		t.Error("Detach() left attachment state")
	}

	if snap := s.Model().Snapshot(); snap.Header != nil || len(snap.Frames) != 0 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestRefresh_StaleDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	s := New(nil, dumpFunc(func(_ context.Context, pid string) (string, error) {
		if pid == "1" {
			close(started)
			<-release
		}

		return sample, nil
	}))

	done := make(chan error)

	go func() { done <- s.Attach(context.Background(), proc.Candidate{PID: "1"}) }()

	<-started
	s.Detach()
	close(release)

	if err := <-done; err != nil {
		t.Fatal(err)
	}

	if snap := s.Model().Snapshot(); snap.Header != nil || len(snap.Frames) != 0 {
		t.Errorf("stale dump was applied: %+v", snap)
	}
}

func TestRefresh_FailureDoesNotClearNewerAttach(t *testing.T) {
	var armed bool

	s := New(nil, dumpFunc(func(_ context.Context, pid string) (string, error) {
		if pid == "1" {
			armed = true

			return "", errors.New("permission denied")
		}

		return sample, nil
	}), WithNotifier(&notes{}))

	var attached error

	// The first change after the failed pid 1 dump attaches pid 2.
	s.Model().Subscribe(func() {
		if !armed {
			return
		}

		armed = false
		attached = s.Attach(context.Background(), proc.Candidate{PID: "2"})
	})

	if err := s.Attach(context.Background(), proc.Candidate{PID: "1"}); err == nil {
		t.Fatal("Attach(1) error = nil")
	}

	if attached != nil {
		t.Fatalf("Attach(2) error = %v", attached)
	}

	if s.PID() != "2" || s.State() != StateAttached {
		t.Errorf("pid = %q state = %v", s.PID(), s.State())
	}

	snap := s.Model().Snapshot()
	if snap.Header == nil || snap.Header.PID != "2" || len(snap.Frames) != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestAttach_OlderGenerationIgnored(t *testing.T) {
	s := New(nil, text(sample))
	_ = s.Attach(context.Background(), app)

	// A write from a generation that was never reached or already passed.
	if s.Model().Reset(0, nil) || s.Model().ClearFor(0) || s.Model().SetFramesFor(0, nil) {
		t.Error("older generation write applied")
	}

	snap := s.Model().Snapshot()
	if snap.Header == nil || snap.Header.Session != s.ID() || len(snap.Frames) != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestStateString(t *testing.T) {
	if StateDumping.String() != "Dumping" || State(9).String() != "State(9)" {
		t.Errorf("String() = %q, %q", StateDumping.String(), State(9).String())
	}
}
