package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/spyview/editor"
	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/proc"
	"github.com/ardnew/spyview/session"
	"github.com/ardnew/spyview/tree"
)

const sample = `Thread 0x1 (active): "MainThread"
    work (/app/worker.py:40)
    main (/app/main.py:12)
`

type dumper string

func (d dumper) Dump(context.Context, string) (string, error) { return string(d), nil }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var cands = []proc.Candidate{
	{PID: "10", Label: "app.py", CmdLine: "python3 app.py"},
	{PID: "11", Label: "celery", CmdLine: "python3 -m celery worker"},
	{PID: "12", Label: "http.server", CmdLine: "py -3 -m http.server"},
}

func TestPicker_FilterAndChoose(t *testing.T) {
	p := newPicker(cands)
	if len(p.matches) != 3 {
		t.Fatalf("initial matches = %d, want 3", len(p.matches))
	}

	for _, r := range "celery" {
		p, _, _ = p.update(runes(string(r)))
	}

	if len(p.matches) != 1 || p.matches[0].PID != "11" {
		t.Fatalf("matches = %+v", p.matches)
	}

	p, res, _ := p.update(tea.KeyMsg{Type: tea.KeyEnter})
	if res != pickChosen {
		t.Fatalf("result = %v, want chosen", res)
	}

	if c, ok := p.chosen(); !ok || c.PID != "11" {
		t.Errorf("chosen = %+v, %v", c, ok)
	}
}

func TestPicker_MoveAndCancel(t *testing.T) {
	p := newPicker(cands)

	p, _, _ = p.update(tea.KeyMsg{Type: tea.KeyDown})
	p, _, _ = p.update(tea.KeyMsg{Type: tea.KeyDown})
	p, _, _ = p.update(tea.KeyMsg{Type: tea.KeyDown})

	if c, _ := p.chosen(); c.PID != "12" {
		t.Errorf("cursor at %s, want 12 (clamped)", c.PID)
	}

	p, _, _ = p.update(tea.KeyMsg{Type: tea.KeyUp})

	if c, _ := p.chosen(); c.PID != "11" {
		t.Errorf("cursor at %s, want 11", c.PID)
	}

	if _, res, _ := p.update(tea.KeyMsg{Type: tea.KeyEsc}); res != pickCancelled {
		t.Errorf("esc result = %v, want cancelled", res)
	}
}

func TestPicker_Empty(t *testing.T) {
	p := newPicker(nil)

	if _, res, _ := p.update(tea.KeyMsg{Type: tea.KeyEnter}); res != pickPending {
		t.Errorf("enter on empty list = %v, want pending", res)
	}

	if !strings.Contains(p.view(), "no Python processes") {
		t.Errorf("view = %q", p.view())
	}
}

func newTestModel(t *testing.T) (model, *Host) {
	t.Helper()

	host := NewHost(editor.Editor{Logger: log.Discard(), Command: []string{"vim"}})
	sess := session.New(nil, dumper(sample),
		session.WithNotifier(host.Notifier()),
		session.WithNavigator(host.Navigator()),
	)

	if err := sess.Attach(context.Background(), cands[0]); err != nil {
		t.Fatal(err)
	}

	return newModel(context.Background(), sess, host, make(chan struct{}, 1), log.Discard()), host
}

func TestModel_NodesAndToggle(t *testing.T) {
	m, _ := newTestModel(t)

	if len(m.nodes) != 3 || m.nodes[0].Kind != tree.KindHeader {
		t.Fatalf("nodes = %+v", m.nodes)
	}

	next, _ := m.Update(runes("t"))
	next, _ = next.Update(changedMsg{})
	m = next.(model)

	if m.nodes[1].Label != "main (main.py)" {
		t.Errorf("after toggle nodes[1] = %q", m.nodes[1].Label)
	}

	if !strings.Contains(m.View(), "Process ID: 10") {
		t.Errorf("view missing header:\n%s", m.View())
	}
}

func TestModel_OpenFrame(t *testing.T) {
	m, host := newTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("opening the header node returned a command")
	}

	next, _ = next.Update(runes("j"))
	_, cmd = next.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Fatal("opening a frame returned no command")
	}

	if host.nav.take() != nil {
		t.Error("pending editor command was not consumed")
	}

	snap := m.sess.Model().Snapshot()
	if snap.Selected == nil || *snap.Selected != 0 {
		t.Errorf("selected = %v, want uid 0", snap.Selected)
	}
}

func TestModel_NotesAndQuit(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(noteMsg{level: levelWarn, text: session.MsgReadFailed})
	if !strings.Contains(next.View(), session.MsgReadFailed) {
		t.Errorf("view missing note:\n%s", next.View())
	}

	next, cmd := next.Update(runes("q"))
	if cmd == nil || next.View() != "" {
		t.Error("q did not quit")
	}
}

func TestModel_PickMode(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(candidatesMsg{cands: cands})
	if next.(model).mode != modePick {
		t.Fatal("candidates did not open the picker")
	}

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(model).mode != modeStack {
		t.Error("esc did not close the picker")
	}
}

func TestNotifierNeverBlocks(t *testing.T) {
	n := newNotifier()
	for range cap(n.ch) + 10 {
		n.Info("x")
	}

	if len(n.ch) != cap(n.ch) {
		t.Errorf("queued %d, want %d", len(n.ch), cap(n.ch))
	}
}
