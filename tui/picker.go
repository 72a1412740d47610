package tui

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/spyview/proc"
)

const (
	pickPrompt   = "pid ➜ "
	defaultWidth = 80
	defaultRows  = 10
)

type pickResult int

const (
	pickPending pickResult = iota
	pickChosen
	pickCancelled
)

// picker is a fuzzy-filtered single-select list of candidates.
type picker struct {
	input   textinput.Model
	all     []proc.Candidate
	matches []proc.Match
	cursor  int
	width   int
	rows    int
}

func newPicker(cands []proc.Candidate) picker {
	ti := textinput.New()
	ti.Prompt = titleStyle.Render(pickPrompt)
	ti.Placeholder = "type to filter by script, module, or command line"
	ti.CharLimit = 256
	ti.Width = defaultWidth - len(pickPrompt)
	ti.Focus()

	p := picker{input: ti, all: cands, width: defaultWidth, rows: defaultRows}
	p.refilter()

	return p
}

func (p *picker) refilter() {
	p.matches = proc.Search(strings.TrimSpace(p.input.Value()), p.all)
	if p.cursor >= len(p.matches) {
		p.cursor = max(len(p.matches)-1, 0)
	}
}

func (p picker) chosen() (proc.Candidate, bool) {
	if p.cursor < 0 || p.cursor >= len(p.matches) {
		return proc.Candidate{}, false
	}

	return p.matches[p.cursor].Candidate, true
}

func (p picker) resize(width, height int) picker {
	p.width = width
	p.rows = max(height-4, 1)
	p.input.Width = max(width-len(pickPrompt)-2, 10)

	return p
}

func (p picker) update(msg tea.Msg) (picker, pickResult, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd

		p.input, cmd = p.input.Update(msg)

		return p, pickPending, cmd
	}

	switch key.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		return p, pickCancelled, nil

	case tea.KeyEnter:
		if _, ok := p.chosen(); ok {
			return p, pickChosen, nil
		}

		return p, pickPending, nil

	case tea.KeyUp, tea.KeyCtrlP, tea.KeyShiftTab:
		if p.cursor > 0 {
			p.cursor--
		}

		return p, pickPending, nil

	case tea.KeyDown, tea.KeyCtrlN, tea.KeyTab:
		if p.cursor < len(p.matches)-1 {
			p.cursor++
		}

		return p, pickPending, nil
	}

	var cmd tea.Cmd

	p.input, cmd = p.input.Update(msg)
	p.refilter()

	return p, pickPending, cmd
}

func (p picker) view() string {
	var b strings.Builder

	b.WriteString(p.input.View())
	b.WriteString("\n")

	if len(p.all) == 0 {
		b.WriteString(hintStyle.Render("no Python processes found (esc to cancel)"))
		b.WriteString("\n")

		return b.String()
	}

	first := 0
	if p.cursor >= p.rows {
		first = p.cursor - p.rows + 1
	}

	last := min(first+p.rows, len(p.matches))

	for i := first; i < last; i++ {
		b.WriteString(renderMatch(p.matches[i], i == p.cursor, p.width))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render(
		strconv.Itoa(len(p.matches)) + "/" + strconv.Itoa(len(p.all)) +
			"  ↑/↓ move  enter attach  esc cancel",
	))
	b.WriteString("\n")

	return b.String()
}

// renderMatch renders a match with its matched characters highlighted,
// cut to width.
func renderMatch(m proc.Match, selected bool, width int) string {
	base, high := descStyle, matchStyle
	if selected {
		base, high = cursorStyle, cursorMatchStyle
	}

	marked := make(map[int]bool, len(m.Indexes))
	for _, i := range m.Indexes {
		marked[i] = true
	}

	var b strings.Builder

	b.WriteString(base.Render("  "))

	labelEnd := len(m.Label)
	budget := max(width-2, 1)

	for i, r := range m.Text {
		if budget == 0 {
			break
		}

		budget--

		style := base
		if i < labelEnd && !selected {
			style = frameStyle
		}

		if marked[i] {
			style = high
		}

		b.WriteString(style.Render(string(r)))
	}

	return b.String()
}

// pickModel is a standalone program around a picker.
type pickModel struct {
	picker picker
	result pickResult
}

func (m pickModel) Init() tea.Cmd { return textinput.Blink }

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.picker = m.picker.resize(size.Width, size.Height)

		return m, nil
	}

	var cmd tea.Cmd

	m.picker, m.result, cmd = m.picker.update(msg)
	if m.result != pickPending {
		return m, tea.Quit
	}

	return m, cmd
}

func (m pickModel) View() string {
	if m.result != pickPending {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Select a Python process"),
		m.picker.view(),
	)
}

// Pick lets the user choose one of cands on the terminal, drawing on
// standard error. ok is false when the user cancelled.
func Pick(ctx context.Context, cands []proc.Candidate) (proc.Candidate, bool, error) {
	p := tea.NewProgram(
		pickModel{picker: newPicker(cands)},
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
	)

	final, err := p.Run()
	if err != nil {
		return proc.Candidate{}, false, err
	}

	m, _ := final.(pickModel)
	if m.result != pickChosen {
		return proc.Candidate{}, false, nil
	}

	c, ok := m.picker.chosen()

	return c, ok, nil
}
