package proc

import (
	"log/slog"
	"strings"
)

// Row is one raw line of a process listing.
type Row struct {
	PID     string
	CmdLine string
}

// Candidate is a process that passed a [Filter]. It is also the environment
// that [Where] expressions are evaluated against, so its exported fields are
// the names available to them.
type Candidate struct {
	PID string `json:"pid" yaml:"pid"`
	// CmdLine is the full command line with quotes removed.
	CmdLine string `json:"cmdline" yaml:"cmdline"`
	// Label is the first argument after the executable that is not a flag,
	// or the executable itself.
	Label string   `json:"label" yaml:"label"`
	Exe   string   `json:"exe" yaml:"exe"`
	Args  []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// LogValue implements [slog.LogValuer].
func (c Candidate) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("pid", c.PID),
		slog.String("label", c.Label),
	)
}

// makeCandidate cleans a matched command line and derives its label.
func makeCandidate(row Row) Candidate {
	cmd := strings.TrimSpace(strings.ReplaceAll(row.CmdLine, `"`, ""))
	fields := strings.Fields(cmd)

	c := Candidate{PID: row.PID, CmdLine: cmd}
	if len(fields) == 0 {
		return c
	}

	c.Exe, c.Args = fields[0], fields[1:]
	c.Label = c.Exe

	for _, arg := range c.Args {
		if !strings.HasPrefix(arg, "-") {
			c.Label = arg

			break
		}
	}

	return c
}
