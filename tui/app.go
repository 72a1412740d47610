package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/proc"
	"github.com/ardnew/spyview/session"
	"github.com/ardnew/spyview/tree"
)

type (
	// candidatesMsg carries a fresh candidate list for the picker.
	candidatesMsg struct {
		cands []proc.Candidate
		err   error
	}
	// doneMsg reports that a session call on a command goroutine returned.
	doneMsg struct{ err error }
	// changedMsg reports that the tree model changed.
	changedMsg struct{}
	// noteMsg delivers a user message.
	noteMsg note
	// editorDoneMsg reports that the editor exited.
	editorDoneMsg struct{ err error }
)

type mode int

const (
	modeStack mode = iota
	modePick
)

// model is the Bubble Tea model of the stack view.
type model struct {
	ctxFunc  func() context.Context
	sess     *session.Session
	host     *Host
	changed  chan struct{}
	logger   log.Logger
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	view     viewport.Model
	picker   picker
	nodes    []tree.Node
	note     note
	cursor   int
	width    int
	height   int
	mode     mode
	busy     bool
	quitting bool
}

// Run displays sess until the user quits. sess must have been created with
// the host's notifier and navigator. When the session is not attached, the
// picker opens first.
func (h *Host) Run(ctx context.Context, sess *session.Session, logger log.Logger) error {
	changed := make(chan struct{}, 1)

	cancel := sess.Model().Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()

	m := newModel(ctx, sess, h, changed, logger)

	_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()

	logger.TraceContext(ctx, "tui exit", slog.Any("error", err))

	return err
}

func newModel(
	ctx context.Context,
	sess *session.Session,
	host *Host,
	changed chan struct{},
	logger log.Logger,
) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	m := model{
		ctxFunc: func() context.Context { return ctx },
		sess:    sess,
		host:    host,
		changed: changed,
		logger:  logger,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		view:    viewport.New(defaultWidth, defaultRows),
		width:   defaultWidth,
		height:  defaultRows + 4,
	}
	m.nodes = sess.Model().Nodes()
	m.render()

	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitChanged(), m.waitNote()}

	switch {
	case m.sess.PID() == "":
		cmds = append(cmds, m.loadCandidates())
	case m.sess.Model().FrameCount() == 0:
		cmds = append(cmds, m.refresh())
	}

	return tea.Batch(cmds...)
}

func (m model) waitChanged() tea.Cmd {
	return func() tea.Msg {
		<-m.changed

		return changedMsg{}
	}
}

func (m model) waitNote() tea.Cmd {
	return func() tea.Msg { return noteMsg(<-m.host.notes.ch) }
}

func (m model) loadCandidates() tea.Cmd {
	return func() tea.Msg {
		cands, err := m.sess.Candidates(m.ctxFunc())

		return candidatesMsg{cands: cands, err: err}
	}
}

// run calls fn on a command goroutine with the spinner going.
func (m *model) run(fn func(context.Context) error) tea.Cmd {
	m.busy = true
	ctx := m.ctxFunc()

	return tea.Batch(m.spinner.Tick, func() tea.Msg { return doneMsg{err: fn(ctx)} })
}

func (m *model) refresh() tea.Cmd { return m.run(m.sess.Refresh) }

func (m *model) attach(c proc.Candidate) tea.Cmd {
	return m.run(func(ctx context.Context) error { return m.sess.Attach(ctx, c) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.picker = m.picker.resize(msg.Width, msg.Height)
		m.layout()

		return m, nil

	case changedMsg:
		m.nodes = m.sess.Model().Nodes()
		m.cursor = min(m.cursor, max(len(m.nodes)-1, 0))
		m.render()

		return m, m.waitChanged()

	case noteMsg:
		m.note = note(msg)

		return m, m.waitNote()

	case candidatesMsg:
		if msg.err != nil {
			m.mode = modeStack

			return m, nil
		}

		m.mode = modePick
		m.picker = newPicker(msg.cands).resize(m.width, m.height)

		return m, textinput.Blink

	case doneMsg:
		m.busy = false
		m.logger.TraceContext(m.ctxFunc(), "session call done", slog.Any("error", msg.err))

		return m, nil

	case editorDoneMsg:
		if msg.err != nil {
			m.note = note{level: levelError, text: "editor: " + msg.err.Error()}
		}

		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if m.mode == modePick {
		return m.updatePicker(msg)
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(kmsg)
	}

	var cmd tea.Cmd

	m.view, cmd = m.view.Update(msg)

	return m, cmd
}

func (m model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd    tea.Cmd
		result pickResult
	)

	m.picker, result, cmd = m.picker.update(msg)

	switch result {
	case pickChosen:
		m.mode = modeStack
		c, _ := m.picker.chosen()

		return m, m.attach(c)

	case pickCancelled:
		m.mode = modeStack

		return m, nil
	}

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "tui keypress", slog.String("key", msg.String()))

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true

		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()

	case key.Matches(msg, m.keys.Pick):
		return m, m.loadCandidates()

	case key.Matches(msg, m.keys.Refresh):
		if m.busy {
			return m, nil
		}

		return m, m.refresh()

	case key.Matches(msg, m.keys.Toggle):
		m.sess.ToggleOrder()

	case key.Matches(msg, m.keys.Open):
		return m, m.open()

	case key.Matches(msg, m.keys.Cancel):
		m.note = note{}

	case key.Matches(msg, m.keys.Up):
		m.move(-1)

	case key.Matches(msg, m.keys.Down):
		m.move(1)

	case key.Matches(msg, m.keys.PageUp):
		m.move(-m.view.Height)

	case key.Matches(msg, m.keys.PageDown):
		m.move(m.view.Height)

	case key.Matches(msg, m.keys.Home):
		m.move(-len(m.nodes))

	case key.Matches(msg, m.keys.End):
		m.move(len(m.nodes))
	}

	return m, nil
}

func (m *model) move(delta int) {
	if len(m.nodes) == 0 {
		return
	}

	m.cursor = min(max(m.cursor+delta, 0), len(m.nodes)-1)
	m.render()
}

func (m model) open() tea.Cmd {
	if m.cursor >= len(m.nodes) || !m.nodes[m.cursor].Activatable() {
		return nil
	}

	f, ok := m.sess.Model().Frame(m.nodes[m.cursor].UID)
	if !ok {
		return nil
	}

	if err := m.sess.OpenFrame(m.ctxFunc(), f); err != nil {
		return nil
	}

	cmd := m.host.nav.take()
	if cmd == nil {
		return nil
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg { return editorDoneMsg{err: err} })
}

// layout sizes the viewport to what the header, detail, status, and help
// lines leave over.
func (m *model) layout() {
	m.view.Width = m.width
	m.view.Height = max(m.height-lipgloss.Height(m.help.View(m.keys))-4, 1)
	m.render()
}

// render redraws the node list into the viewport and keeps the cursor
// visible.
func (m *model) render() {
	lines := make([]string, len(m.nodes))
	for i, n := range m.nodes {
		lines[i] = renderNode(n, i == m.cursor, m.width)
	}

	m.view.SetContent(strings.Join(lines, "\n"))

	switch {
	case m.cursor < m.view.YOffset:
		m.view.SetYOffset(m.cursor)
	case m.cursor >= m.view.YOffset+m.view.Height:
		m.view.SetYOffset(m.cursor - m.view.Height + 1)
	}
}

func renderNode(n tree.Node, selected bool, width int) string {
	mark := "  "
	if n.Selected {
		mark = markStyle.Render("▸ ")
	}

	var text string

	switch n.Kind {
	case tree.KindHeader:
		text = headerStyle.Render(n.Label) + " " + descStyle.Render(n.Description)
	default:
		text = frameStyle.Render(n.Label)
	}

	line := mark + text
	if selected {
		line = cursorStyle.Render(mark + n.Label)
		if n.Description != "" {
			line += cursorStyle.Render(" " + n.Description)
		}
	}

	if width > 0 && lipgloss.Width(line) > width {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}

	return line
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	if m.mode == modePick {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Select a Python process"),
			m.picker.view(),
		)
	}

	var b strings.Builder

	title := titleStyle.Render("py-spy stack")
	if m.busy {
		title += " " + m.spinner.View()
	}

	b.WriteString(title)
	b.WriteString("\n")

	if len(m.nodes) == 0 {
		b.WriteString(hintStyle.Render("nothing to show - press p to pick a process"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.view.View())
		b.WriteString("\n")
	}

	detail := ""
	if m.cursor < len(m.nodes) {
		detail = m.nodes[m.cursor].Detail
	}

	b.WriteString(detailStyle.Width(max(m.width, 1)).Render(detail))
	b.WriteString("\n")

	if m.note.text != "" {
		b.WriteString(noteStyles[m.note.level].Render(m.note.text))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}
