package proc

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// interpreterRegexp matches an interpreter executable token anywhere in a
// command line, bounded by line ends, path separators, whitespace, or quotes.
var interpreterRegexp = regexp.MustCompile(
	`(?i)(?:^|[\\/\s"])(?:python(?:[23](?:\.\d+)?)?w?|pyw?)(?:\.exe)?(?:$|[\\/\s"])`,
)

// IsInterpreter reports whether cmdLine runs a Python interpreter.
func IsInterpreter(cmdLine string) bool {
	return interpreterRegexp.MatchString(cmdLine)
}

// OwnerFunc returns the uid owning pid, or false when it cannot be read.
type OwnerFunc func(pid string) (uid int, ok bool)

var statusUIDRegexp = regexp.MustCompile(`(?m)^Uid:\s+(\d+)`)

// StatusOwner reads the real uid from <root>/<pid>/status, the layout of
// procfs on linux.
func StatusOwner(root string) OwnerFunc {
	return func(pid string) (int, bool) {
		data, err := os.ReadFile(filepath.Join(root, pid, "status"))
		if err != nil {
			return 0, false
		}

		m := statusUIDRegexp.FindSubmatch(data)
		if m == nil {
			return 0, false
		}

		uid, err := strconv.Atoi(string(m[1]))
		if err != nil {
			return 0, false
		}

		return uid, true
	}
}

// Filter turns raw rows into candidates.
//
// When Owner is set, rows whose owner differs from UID, or whose owner cannot
// be determined, are dropped. Rows that do not run an interpreter are always
// dropped. Where, if non-nil, is evaluated last.
type Filter struct {
	Owner OwnerFunc
	Where *Where
	UID   int
}

// DefaultFilter returns the filter for the current platform and user.
func DefaultFilter(where *Where) Filter {
	owner, uid := platformOwner()

	return Filter{Owner: owner, UID: uid, Where: where}
}

// Apply filters rows and deduplicates the survivors by PID. A later row with
// the same PID replaces the earlier one's contents but keeps its position.
func (f Filter) Apply(rows []Row) []Candidate {
	var (
		out   []Candidate
		index = map[string]int{}
	)

	for _, row := range rows {
		if !f.keep(row) {
			continue
		}

		c := makeCandidate(row)
		if !f.Where.Match(c) {
			continue
		}

		if i, ok := index[c.PID]; ok {
			out[i] = c

			continue
		}

		index[c.PID] = len(out)
		out = append(out, c)
	}

	return out
}

func (f Filter) keep(row Row) bool {
	if f.Owner != nil {
		uid, ok := f.Owner(row.PID)
		if !ok || uid != f.UID {
			return false
		}
	}

	return IsInterpreter(row.CmdLine)
}
