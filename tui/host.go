// Package tui is the terminal front end: a process picker and a stack view
// driven by a session.
package tui

import (
	"context"
	"os/exec"
	"sync"

	"github.com/ardnew/spyview/editor"
	"github.com/ardnew/spyview/session"
)

const (
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"
)

type note struct {
	level string
	text  string
}

// notifier queues user messages for the program. Messages arrive from
// session calls made both inside Update and on command goroutines, so they
// are never delivered synchronously.
type notifier struct {
	ch chan note
}

func newNotifier() *notifier { return &notifier{ch: make(chan note, 32)} }

func (n *notifier) push(level, text string) {
	select {
	case n.ch <- note{level: level, text: text}:
	default:
	}
}

func (n *notifier) Info(text string)  { n.push(levelInfo, text) }
func (n *notifier) Warn(text string)  { n.push(levelWarn, text) }
func (n *notifier) Error(text string) { n.push(levelError, text) }

// navigator records the editor command for the program to run once it has
// released the terminal.
type navigator struct {
	editor  editor.Editor
	mu      sync.Mutex
	pending *exec.Cmd
}

func (n *navigator) Navigate(ctx context.Context, file string, line int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.pending = n.editor.Cmd(ctx, file, line)

	return nil
}

func (n *navigator) take() *exec.Cmd {
	n.mu.Lock()
	defer n.mu.Unlock()

	cmd := n.pending
	n.pending = nil

	return cmd
}

// Host provides the collaborators a session needs to be displayed by
// [Host.Run].
type Host struct {
	notes *notifier
	nav   *navigator
}

// NewHost returns a host opening frames with ed.
func NewHost(ed editor.Editor) *Host {
	return &Host{notes: newNotifier(), nav: &navigator{editor: ed}}
}

// Notifier returns the notifier to construct the session with.
func (h *Host) Notifier() session.Notifier { return h.notes }

// Navigator returns the navigator to construct the session with.
func (h *Host) Navigator() session.Navigator { return h.nav }
