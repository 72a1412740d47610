package tree

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ardnew/spyview/stack"
)

func frames(n int) []stack.Frame {
	out := make([]stack.Frame, n)
	for i := range out {
		out[i] = stack.Frame{
			File: "/src/mod" + string(rune('a'+i)) + ".py",
			Line: 10 + i,
			Func: "f" + string(rune('a'+i)),
			UID:  i,
		}
	}

	return out
}

func TestNodes_HeaderAndFrames(t *testing.T) {
	m := New()
	m.SetHeader(&Header{PID: "4242", CmdLine: "python3 app.py"})
	m.SetFrames([]stack.Frame{{File: "/app/main.py", Line: 12, Func: "main", UID: 0}})

	nodes := m.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("len(Nodes()) = %d, want 2", len(nodes))
	}

	h := nodes[0]
	if h.Kind != KindHeader || h.Label != "Process ID: 4242" ||
		h.Description != "(Python process)" || h.Detail != "python3 app.py" {
		t.Errorf("header node = %+v", h)
	}

	if h.Activatable() {
		t.Error("header node is activatable")
	}

	f := nodes[1]
	if f.Label != "main (main.py)" || f.Detail != "/app/main.py:12" || !f.Activatable() {
		t.Errorf("frame node = %+v", f)
	}

	if m.FrameCount() != 1 {
		t.Errorf("FrameCount() = %d, want 1", m.FrameCount())
	}
}

func TestNodes_Empty(t *testing.T) {
	var m Model
	if nodes := m.Nodes(); len(nodes) != 0 {
		t.Errorf("Nodes() = %v, want empty", nodes)
	}

	if s := m.Snapshot(); s.Frames == nil {
		t.Error("Snapshot().Frames is nil")
	}
}

func TestToggleOrder(t *testing.T) {
	m := New()
	m.SetFrames(frames(4))

	before := m.Nodes()

	m.ToggleOrder()
	once := m.Nodes()

	for i := range before {
		if once[i].UID != before[len(before)-1-i].UID {
			t.Fatalf("toggle once: node %d uid = %d, want %d",
				i, once[i].UID, before[len(before)-1-i].UID)
		}
	}

	m.ToggleOrder()

	if twice := m.Nodes(); !reflect.DeepEqual(twice, before) {
		t.Errorf("toggle twice = %v, want %v", twice, before)
	}
}

func TestToggleOrder_HeaderStaysFirst(t *testing.T) {
	m := New()
	m.SetHeader(&Header{PID: "1"})
	m.SetFrames(frames(2))
	m.ToggleOrder()

	nodes := m.Nodes()
	if nodes[0].Kind != KindHeader || nodes[1].UID != 1 || nodes[2].UID != 0 {
		t.Errorf("reversed nodes = %+v", nodes)
	}
}

func TestSetFrames_SelectionInvariant(t *testing.T) {
	m := New()
	m.SetFrames(frames(3))
	m.SetSelected(2)

	m.SetFrames(frames(5))

	if s := m.Snapshot(); s.Selected == nil || *s.Selected != 2 {
		t.Fatalf("selection dropped although uid 2 still present: %v", s.Selected)
	}

	m.SetFrames(frames(2))

	if s := m.Snapshot(); s.Selected != nil {
		t.Errorf("selection = %d, want nil after uid vanished", *s.Selected)
	}

	m.SetSelected(99)

	if s := m.Snapshot(); s.Selected == nil || *s.Selected != 99 {
		t.Error("SetSelected validated its argument")
	}

	m.SetFrames(nil)

	if s := m.Snapshot(); s.Selected != nil {
		t.Error("selection survived clearing the frames")
	}
}

func TestSelectedNode(t *testing.T) {
	m := New()
	m.SetFrames(frames(3))
	m.SetSelected(1)

	for _, n := range m.Nodes() {
		if n.Selected != (n.UID == 1) {
			t.Errorf("node %d selected = %v", n.UID, n.Selected)
		}
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	m := New()
	m.SetHeader(&Header{PID: "7"})
	m.SetFrames(frames(1))
	m.SetSelected(0)

	s := m.Snapshot()
	s.Frames[0].Func = "mutated"
	s.Header.PID = "8"
	*s.Selected = 5

	again := m.Snapshot()
	if again.Frames[0].Func == "mutated" || again.Header.PID != "7" || *again.Selected != 0 {
		t.Errorf("snapshot aliases model state: %+v", again)
	}
}

func TestSubscribe(t *testing.T) {
	m := New()

	var calls int
	cancel := m.Subscribe(func() {
		calls++
		_ = m.Nodes()
	})

	m.SetHeader(nil)
	m.SetFrames(nil)
	m.ToggleOrder()
	m.SetSelected(0)

	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}

	cancel()
	m.ToggleOrder()

	if calls != 4 {
		t.Errorf("calls after cancel = %d, want 4", calls)
	}
}

func TestFrame(t *testing.T) {
	m := New()
	m.SetFrames(frames(2))

	if f, ok := m.Frame(1); !ok || f.Func != "fb" {
		t.Errorf("Frame(1) = %v, %v", f, ok)
	}

	if _, ok := m.Frame(5); ok {
		t.Error("Frame(5) found")
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := New()

	var notified atomic.Int64
	m.Subscribe(func() { notified.Add(1) })

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range 50 {
				switch (i + j) % 4 {
				case 0:
					m.SetFrames(frames(3))
				case 1:
					m.ToggleOrder()
				case 2:
					m.SetSelected(j % 3)
				default:
					_ = m.Nodes()
				}
			}
		}()
	}

	wg.Wait()

	if notified.Load() == 0 {
		t.Error("no notifications delivered")
	}
}

func TestGenerations(t *testing.T) {
	m := New()

	var calls int
	m.Subscribe(func() { calls++ })

	if !m.Reset(2, &Header{PID: "2"}) || !m.SetFramesFor(2, frames(2)) {
		t.Fatal("current generation write rejected")
	}

	m.SetSelected(1)

	tests := []struct {
		name  string
		apply func() bool
	}{
		{"reset same", func() bool { return m.Reset(2, nil) }},
		{"reset older", func() bool { return m.Reset(1, &Header{PID: "1"}) }},
		{"frames older", func() bool { return m.SetFramesFor(1, nil) }},
		{"frames newer", func() bool { return m.SetFramesFor(3, nil) }},
		{"clear older", func() bool { return m.ClearFor(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := calls
			if tt.apply() {
				t.Error("applied")
			}

			if calls != before {
				t.Error("subscribers notified")
			}

			snap := m.Snapshot()
			if snap.Header == nil || snap.Header.PID != "2" || len(snap.Frames) != 2 {
				t.Errorf("snapshot = %+v", snap)
			}
		})
	}

	if !m.Reset(3, &Header{PID: "3"}) {
		t.Fatal("Reset(3) rejected")
	}

	if snap := m.Snapshot(); snap.Header.PID != "3" || len(snap.Frames) != 0 || snap.Selected != nil {
		t.Errorf("after reset = %+v", snap)
	}

	if !m.ClearFor(3) {
		t.Fatal("ClearFor(3) rejected")
	}

	if snap := m.Snapshot(); snap.Header != nil {
		t.Errorf("after clear = %+v", snap)
	}
}
