package proc

import "github.com/sahilm/fuzzy"

// Match is a ranked search result.
type Match struct {
	Candidate
	// Text is the string that was matched: the label, pid and command line
	// separated by single spaces.
	Text string
	// Indexes are the byte positions in Text that matched the pattern.
	Indexes []int
}

// SearchText returns the text a candidate is searched by.
func SearchText(c Candidate) string {
	return c.Label + " " + c.PID + " " + c.CmdLine
}

type candidateSource []Candidate

func (s candidateSource) String(i int) string { return SearchText(s[i]) }
func (s candidateSource) Len() int            { return len(s) }

// Search ranks candidates against a fuzzy pattern over label and command
// line. An empty pattern returns every candidate in its original order.
func Search(pattern string, candidates []Candidate) []Match {
	if pattern == "" {
		out := make([]Match, len(candidates))
		for i, c := range candidates {
			out[i] = Match{Candidate: c, Text: SearchText(c)}
		}

		return out
	}

	found := fuzzy.FindFrom(pattern, candidateSource(candidates))
	out := make([]Match, len(found))

	for i, m := range found {
		out[i] = Match{
			Candidate: candidates[m.Index],
			Text:      m.Str,
			Indexes:   m.MatchedIndexes,
		}
	}

	return out
}
