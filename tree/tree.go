// Package tree holds the displayed state of an attached process: an optional
// header, the frames of the latest dump, the display order, and the selected
// frame. It renders that state as a flat list of [Node] values and notifies
// subscribers whenever it changes.
package tree

import (
	"maps"
	"slices"
	"sync"

	"github.com/ardnew/spyview/stack"
)

// Header identifies the process a set of frames was read from.
type Header struct {
	PID     string `json:"pid"               yaml:"pid"`
	CmdLine string `json:"cmdline"           yaml:"cmdline"`
	// Session names the attachment that owns the displayed frames.
	Session string `json:"session,omitempty" yaml:"session,omitempty"`
}

// Snapshot is a copy of a [Model]'s state.
type Snapshot struct {
	Header   *Header       `json:"header,omitempty"   yaml:"header,omitempty"`
	Selected *int          `json:"selected,omitempty" yaml:"selected,omitempty"`
	Frames   []stack.Frame `json:"frames"             yaml:"frames"`
	Reverse  bool          `json:"reverse"            yaml:"reverse"`
}

// Model is safe for concurrent use. Its zero value is an empty model.
type Model struct {
	subs   map[int]func()
	header *Header
	sel    *int
	frames []stack.Frame
	nextID int
	gen    uint64
	mu     sync.RWMutex
	rev    bool
}

// New returns an empty model.
func New() *Model { return &Model{} }

// Subscribe registers fn to be called after every mutation. The returned
// function removes the subscription.
func (m *Model) Subscribe(fn func()) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subs == nil {
		m.subs = map[int]func(){}
	}

	id := m.nextID
	m.nextID++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		delete(m.subs, id)
	}
}

// update applies fn under the write lock, then notifies subscribers outside
// of it.
func (m *Model) update(fn func()) {
	m.updateIf(func() bool {
		fn()

		return true
	})
}

// updateIf is update for conditional mutations. Subscribers are notified
// only when fn reports a change.
func (m *Model) updateIf(fn func() bool) bool {
	m.mu.Lock()
	if !fn() {
		m.mu.Unlock()

		return false
	}

	subs := make([]func(), 0, len(m.subs))
	for _, id := range slices.Sorted(maps.Keys(m.subs)) {
		subs = append(subs, m.subs[id])
	}
	m.mu.Unlock()

	for _, sub := range subs {
		sub()
	}

	return true
}


// SetHeader sets the header, or clears it when h is nil.
func (m *Model) SetHeader(h *Header) {
	m.update(func() {
		if h == nil {
			m.header = nil

			return
		}

		c := *h
		m.header = &c
	})
}

// ToggleOrder flips the display order of frames.
func (m *Model) ToggleOrder() {
	m.update(func() { m.rev = !m.rev })
}

// SetFrames replaces the frames. The selection survives only if a frame
// with the same UID is still present.
func (m *Model) SetFrames(frames []stack.Frame) {
	m.update(func() {
		m.frames = slices.Clone(frames)
		if m.sel != nil && !m.hasUID(*m.sel) {
			m.sel = nil
		}
	})
}

// Reset starts display generation gen: it sets the header, or clears it
// when h is nil, and drops the frames and selection in a single change. It
// does nothing unless gen is newer than the current generation, so an
// older attachment can never overwrite a newer one.
func (m *Model) Reset(gen uint64, h *Header) bool {
	return m.updateIf(func() bool {
		if gen <= m.gen {
			return false
		}

		m.gen = gen
		m.header, m.frames, m.sel = nil, nil, nil

		if h != nil {
			c := *h
			m.header = &c
		}

		return true
	})
}

// SetFramesFor is [Model.SetFrames] applied only while gen is the current
// generation. It reports whether the frames were replaced.
func (m *Model) SetFramesFor(gen uint64, frames []stack.Frame) bool {
	return m.updateIf(func() bool {
		if gen != m.gen {
			return false
		}

		m.frames = slices.Clone(frames)
		if m.sel != nil && !m.hasUID(*m.sel) {
			m.sel = nil
		}

		return true
	})
}

// ClearFor drops the header, frames, and selection in a single change, only
// while gen is the current generation.
func (m *Model) ClearFor(gen uint64) bool {
	return m.updateIf(func() bool {
		if gen != m.gen {
			return false
		}

		m.header, m.frames, m.sel = nil, nil, nil

		return true
	})
}

// SetSelected marks uid as selected. It is not checked against the frames.
func (m *Model) SetSelected(uid int) {
	m.update(func() { m.sel = &uid })
}

func (m *Model) hasUID(uid int) bool {
	return slices.ContainsFunc(m.frames, func(f stack.Frame) bool {
		return f.UID == uid
	})
}

// Reverse reports whether frames are displayed in reverse order.
func (m *Model) Reverse() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.rev
}

// FrameCount returns the number of frame nodes [Model.Nodes] renders.
func (m *Model) FrameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.frames)
}

// Frame returns the frame with the given UID.
func (m *Model) Frame(uid int) (stack.Frame, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := slices.IndexFunc(m.frames, func(f stack.Frame) bool { return f.UID == uid })
	if i < 0 {
		return stack.Frame{}, false
	}

	return m.frames[i], true
}

// Snapshot returns a deep copy of the model state.
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{Frames: slices.Clone(m.frames), Reverse: m.rev}
	if s.Frames == nil {
		s.Frames = []stack.Frame{}
	}

	if m.header != nil {
		h := *m.header
		s.Header = &h
	}

	if m.sel != nil {
		sel := *m.sel
		s.Selected = &sel
	}

	return s
}
