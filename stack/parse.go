package stack

import (
	"regexp"
	"strconv"
	"strings"
)

// Matcher recognizes a single trimmed line of dump output. The returned
// frame's UID is ignored; [Parse] assigns it.
type Matcher func(line string) (Frame, bool)

var (
	quotedFileRegexp = regexp.MustCompile(`^File "(.+)", line (\d+), in (.+)$`)
	inlineRegexp     = regexp.MustCompile(`^(.+?) \((.+):(\d+)\)$`)
)

// MatchQuotedFile accepts `File "<path>", line <n>, in <func>`.
func MatchQuotedFile(line string) (Frame, bool) {
	m := quotedFileRegexp.FindStringSubmatch(line)
	if m == nil {
		return Frame{}, false
	}

	n, ok := lineNumber(m[2])
	if !ok {
		return Frame{}, false
	}

	return Frame{File: m[1], Line: n, Func: m[3]}, true
}

// MatchInline accepts `<func> (<path>:<n>)`.
func MatchInline(line string) (Frame, bool) {
	m := inlineRegexp.FindStringSubmatch(line)
	if m == nil {
		return Frame{}, false
	}

	n, ok := lineNumber(m[3])
	if !ok {
		return Frame{}, false
	}

	return Frame{File: m[2], Line: n, Func: m[1]}, true
}

func lineNumber(s string) (int, bool) {
	n, err := strconv.Atoi(s)

	return n, err == nil
}

// Matchers is the default matcher order used by [Parse].
var Matchers = []Matcher{MatchQuotedFile, MatchInline}

// Parse converts raw dump text into frames using [Matchers].
func Parse(text string) []Frame {
	return ParseWith(text, Matchers...)
}

// ParseWith converts raw dump text into frames, offering each trimmed line
// to matchers in order. Frames keep text order and get UIDs 0..n-1.
// The result is never nil.
func ParseWith(text string, matchers ...Matcher) []Frame {
	frames := []Frame{}

	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for _, match := range matchers {
			f, ok := match(line)
			if !ok {
				continue
			}

			f.UID = len(frames)
			frames = append(frames, f)

			break
		}
	}

	return frames
}

// threadMarker is present in every dump the sampler managed to read.
const threadMarker = "Thread"

// HasThreadMarker reports whether text looks like a successful dump. Its
// absence usually means a permission problem rather than an idle process.
func HasThreadMarker(text string) bool {
	return strings.Contains(text, threadMarker)
}
