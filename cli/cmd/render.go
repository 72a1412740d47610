package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	ltree "github.com/charmbracelet/lipgloss/tree"

	"github.com/ardnew/spyview/history"
	"github.com/ardnew/spyview/proc"
	"github.com/ardnew/spyview/tree"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	detailStyle   = lipgloss.NewStyle().Faint(true)
	branchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderNode formats one node as "label  detail".
func renderNode(n tree.Node) string {
	label := labelStyle.Render(n.Label)

	switch {
	case n.Kind == tree.KindHeader:
		label = headerStyle.Render(n.Label + " " + n.Description)
	case n.Selected:
		label = selectedStyle.Render(n.Label)
	}

	if n.Detail == "" {
		return label
	}

	return label + "  " + detailStyle.Render(n.Detail)
}

// renderSnapshot prints snap as a tree rooted at its header.
func renderSnapshot(w io.Writer, snap tree.Snapshot) error {
	nodes := snap.Nodes()
	if len(snap.Frames) == 0 {
		for _, n := range nodes {
			if _, err := fmt.Fprintln(w, renderNode(n)); err != nil {
				return err
			}
		}

		_, err := fmt.Fprintln(w, detailStyle.Render("no frames"))

		return err
	}

	t := ltree.New().
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(branchStyle)

	for _, n := range nodes {
		if n.Kind == tree.KindHeader {
			t = t.Root(renderNode(n))

			continue
		}

		t = t.Child(renderNode(n))
	}

	_, err := fmt.Fprintln(w, t)

	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderHeader(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.PaddingRight(1)
			}

			return lipgloss.NewStyle().PaddingRight(1)
		}).
		Headers(headers...)
}

func renderCandidates(w io.Writer, cands []proc.Candidate) error {
	if len(cands) == 0 {
		_, err := fmt.Fprintln(w, detailStyle.Render("no Python processes found"))

		return err
	}

	t := newTable("PID", "LABEL", "COMMAND")
	for _, c := range cands {
		t.Row(c.PID, c.Label, c.CmdLine)
	}

	_, err := fmt.Fprintln(w, t)

	return err
}

func renderEntries(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, detailStyle.Render("no recorded dumps"))

		return err
	}

	t := newTable("ID", "TAKEN", "PID", "FRAMES", "COMMAND")
	for _, e := range entries {
		t.Row(
			strconv.FormatInt(e.ID, 10),
			e.Taken.Local().Format(time.DateTime),
			e.PID,
			strconv.Itoa(e.FrameCount),
			e.CmdLine,
		)
	}

	_, err := fmt.Fprintln(w, t)

	return err
}
