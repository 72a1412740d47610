package proc

import (
	"regexp"
	"strings"
)

var (
	lineSplitRegexp = regexp.MustCompile(`\r?\n`)
	psRowRegexp     = regexp.MustCompile(`^\s*(\d+)\s+(.*)$`)
	digitsRegexp    = regexp.MustCompile(`^\d+$`)
)

func lines(text string) []string {
	return lineSplitRegexp.Split(text, -1)
}

// ParsePS parses `ps -eo pid,args` output: a pid, whitespace, then the rest
// of the line as the command. The header row has no numeric pid and is
// skipped with every other non-matching line.
func ParsePS(text string) []Row {
	var rows []Row

	for _, line := range lines(text) {
		m := psRowRegexp.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		rows = append(rows, Row{PID: m[1], CmdLine: m[2]})
	}

	return rows
}

// ParseWMIC parses `wmic process get ProcessId,CommandLine /FORMAT:CSV`
// output. Columns are Node, CommandLine, ProcessId, but WMIC does not quote
// fields, so the command line may itself contain commas: everything between
// the first and the last column is joined back together.
func ParseWMIC(text string) []Row {
	var rows []Row

	for _, line := range lines(text) {
		parts := strings.Split(strings.TrimSpace(line), ",")
		if len(parts) < 3 {
			continue
		}

		pid := strings.TrimSpace(parts[len(parts)-1])
		if !digitsRegexp.MatchString(pid) {
			continue
		}

		cmd := strings.Join(parts[1:len(parts)-1], ",")
		cmd = strings.TrimSuffix(strings.TrimPrefix(cmd, `"`), `"`)

		rows = append(rows, Row{PID: pid, CmdLine: strings.TrimSpace(cmd)})
	}

	return rows
}

const (
	tasklistPIDColumn     = 1
	tasklistCommandColumn = 8
)

// ParseTasklist parses `tasklist /v /fo csv` output, where every field is
// quoted. The pid is column 1 and the command column 8; shorter rows are
// skipped.
func ParseTasklist(text string) []Row {
	var rows []Row

	for _, line := range lines(text) {
		parts := strings.Split(strings.TrimSpace(line), `","`)
		if len(parts) <= tasklistCommandColumn {
			continue
		}

		for i := range parts {
			parts[i] = strings.TrimSuffix(strings.TrimPrefix(parts[i], `"`), `"`)
		}

		pid := parts[tasklistPIDColumn]
		if !digitsRegexp.MatchString(pid) {
			continue
		}

		rows = append(rows, Row{PID: pid, CmdLine: parts[tasklistCommandColumn]})
	}

	return rows
}
