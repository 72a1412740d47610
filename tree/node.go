package tree

import "strconv"

// Kind distinguishes header nodes from frame nodes.
type Kind int

const (
	KindHeader Kind = iota
	KindFrame
)

// Node is one rendered row.
type Node struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	// Detail is the tooltip: the command line for a header, file:line for a
	// frame.
	Detail   string `json:"detail"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	UID      int    `json:"uid"`
	Kind     Kind   `json:"kind"`
	Selected bool   `json:"selected,omitempty"`
}

// Activatable reports whether opening the node navigates somewhere.
func (n Node) Activatable() bool { return n.Kind == KindFrame }

// Nodes renders the model. See [Snapshot.Nodes].
func (m *Model) Nodes() []Node { return m.Snapshot().Nodes() }

// Nodes renders the header node, if any, followed by one node per frame in
// display order.
func (s Snapshot) Nodes() []Node {
	nodes := make([]Node, 0, len(s.Frames)+1)

	if s.Header != nil {
		nodes = append(nodes, Node{
			Kind:        KindHeader,
			Label:       "Process ID: " + s.Header.PID,
			Description: "(Python process)",
			Detail:      s.Header.CmdLine,
			UID:         -1,
		})
	}

	for i := range s.Frames {
		f := s.Frames[i]
		if s.Reverse {
			f = s.Frames[len(s.Frames)-1-i]
		}

		nodes = append(nodes, Node{
			Kind:     KindFrame,
			Label:    f.String(),
			Detail:   f.File + ":" + strconv.Itoa(f.Line),
			File:     f.File,
			Line:     f.Line,
			UID:      f.UID,
			Selected: s.Selected != nil && *s.Selected == f.UID,
		})
	}

	return nodes
}
