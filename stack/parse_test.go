package stack

import (
	"reflect"
	"strings"
	"testing"
)

func TestParse_EndToEnd(t *testing.T) {
	text := "File \"/app/main.py\", line 10, in main\n" +
		"Thread 1\n" +
		"run (/app/worker.py:42)\n"

	got := Parse(text)
	want := []Frame{
		{File: "/app/main.py", Line: 10, Func: "main", UID: 0},
		{File: "/app/worker.py", Line: 42, Func: "run", UID: 1},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}

	if !HasThreadMarker(text) {
		t.Error("HasThreadMarker() = false, want true")
	}
}

func TestParse_Empty(t *testing.T) {
	for _, text := range []string{"", "\n\n", "   "} {
		got := Parse(text)
		if got == nil || len(got) != 0 {
			t.Errorf("Parse(%q) = %#v, want empty non-nil slice", text, got)
		}
	}
}

func TestParse_WellFormedLinesKeepOrder(t *testing.T) {
	lines := []string{
		`File "/srv/a.py", line 1, in alpha`,
		`beta (/srv/b.py:2)`,
		`File "C:\proj\c.py", line 3, in <module>`,
		`gamma.delta (relative/d.py:4)`,
		`  File "/srv/e.py", line 5, in epsilon  `,
	}

	frames := Parse(strings.Join(lines, "\n"))
	if len(frames) != len(lines) {
		t.Fatalf("got %d frames, want %d", len(frames), len(lines))
	}

	wantFunc := []string{"alpha", "beta", "<module>", "gamma.delta", "epsilon"}
	for i, f := range frames {
		if f.UID != i {
			t.Errorf("frames[%d].UID = %d", i, f.UID)
		}

		if f.Line != i+1 {
			t.Errorf("frames[%d].Line = %d, want %d", i, f.Line, i+1)
		}

		if f.Func != wantFunc[i] {
			t.Errorf("frames[%d].Func = %q, want %q", i, f.Func, wantFunc[i])
		}
	}

	if frames[2].File != `C:\proj\c.py` {
		t.Errorf("windows path mangled: %q", frames[2].File)
	}
}

func TestParse_GarbageDoesNotShiftFrames(t *testing.T) {
	clean := "File \"/a.py\", line 7, in f\n" + "g (/b.py:8)\n"
	noisy := "Process 123: python app.py\n" +
		"Python v3.11.4 (/usr/bin/python3.11)\n\n" +
		"Thread 0x7F00 (active): \"MainThread\"\n" +
		"File \"/a.py\", line 7, in f\n" +
		"    Locals:\n" +
		"        x: 1\n" +
		"not a frame (missing colon)\n" +
		"g (/b.py:8)\n" +
		"trailing (file.py:notanumber)\n"

	if got, want := Parse(noisy), Parse(clean); !reflect.DeepEqual(got, want) {
		t.Errorf("noisy parse = %+v, want %+v", got, want)
	}
}

func TestParse_QuotedFileWinsOverInline(t *testing.T) {
	// Both patterns could apply to this line; the quoted-file dialect is
	// tried first.
	line := `File "/a.py", line 2, in f (/b.py:3)`

	frames := Parse(line)
	if len(frames) != 1 {
		t.Fatalf("got %d frames", len(frames))
	}

	if frames[0].File != "/a.py" || frames[0].Line != 2 {
		t.Errorf("unexpected frame %+v", frames[0])
	}
}

func TestParse_LineNumberOverflowIsSkipped(t *testing.T) {
	frames := Parse("f (/a.py:99999999999999999999999)\ng (/b.py:1)")
	if len(frames) != 1 || frames[0].Func != "g" || frames[0].UID != 0 {
		t.Errorf("unexpected frames %+v", frames)
	}
}

func TestParseWith_CustomMatcher(t *testing.T) {
	only := func(line string) (Frame, bool) {
		if !strings.HasPrefix(line, "@") {
			return Frame{}, false
		}

		return Frame{Func: line[1:], File: "x.py", Line: 1, UID: 99}, true
	}

	frames := ParseWith("@a\nb (/b.py:1)\n@c", only)
	if len(frames) != 2 || frames[0].Func != "a" || frames[1].Func != "c" {
		t.Fatalf("unexpected frames %+v", frames)
	}

	if frames[0].UID != 0 || frames[1].UID != 1 {
		t.Errorf("UIDs not reassigned: %+v", frames)
	}
}

func TestHasThreadMarker(t *testing.T) {
	if HasThreadMarker("Error: Permission Denied") {
		t.Error("unexpected marker")
	}
}

func TestFrameLabels(t *testing.T) {
	f := Frame{File: "/srv/app/handlers.py", Line: 12, Func: "get"}

	if got := f.String(); got != "get (handlers.py)" {
		t.Errorf("String() = %q", got)
	}

	if got := f.Location(); got != "/srv/app/handlers.py:12" {
		t.Errorf("Location() = %q", got)
	}
}
