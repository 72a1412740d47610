package editor

import (
	"context"
	"slices"
	"testing"

	"github.com/ardnew/spyview/log"
)

func TestArgs(t *testing.T) {
	tests := []struct {
		editor []string
		want   []string
	}{
		{[]string{"vim"}, []string{"vim", "+12", "/a/b.py"}},
		{[]string{"/usr/bin/nano"}, []string{"/usr/bin/nano", "+12", "/a/b.py"}},
		{[]string{"emacsclient", "-t"}, []string{"emacsclient", "-t", "+12", "/a/b.py"}},
		{[]string{"hx"}, []string{"hx", "/a/b.py:12"}},
		{[]string{"code", "--wait"}, []string{"code", "--wait", "-g", "/a/b.py:12"}},
		{[]string{"subl"}, []string{"subl", "/a/b.py:12"}},
		{[]string{"ed"}, []string{"ed", "+12", "/a/b.py"}},
		{nil, []string{"vi", "+12", "/a/b.py"}},
	}

	for _, tt := range tests {
		if got := Args(tt.editor, "/a/b.py", 12); !slices.Equal(got, tt.want) {
			t.Errorf("Args(%v) = %v, want %v", tt.editor, got, tt.want)
		}
	}
}

func TestSyntaxOf(t *testing.T) {
	for exe, want := range map[string]Syntax{
		"code.cmd":       SyntaxGoto,
		"CODE.EXE":       SyntaxGoto,
		"/opt/zed":       SyntaxColon,
		"/usr/bin/nvim":  SyntaxPlus,
		"something-else": SyntaxPlus,
	} {
		if got := SyntaxOf(exe); got != want {
			t.Errorf("SyntaxOf(%q) = %v, want %v", exe, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	if got := Resolve(""); !slices.Equal(got, []string{Default}) {
		t.Errorf("Resolve() = %v, want default", got)
	}

	t.Setenv("EDITOR", "nano -w")

	if got := Resolve(""); !slices.Equal(got, []string{"nano", "-w"}) {
		t.Errorf("Resolve() = %v, want $EDITOR", got)
	}

	t.Setenv("VISUAL", "code --wait")

	if got := Resolve(""); got[0] != "code" {
		t.Errorf("Resolve() = %v, want $VISUAL", got)
	}

	if got := Resolve("hx"); !slices.Equal(got, []string{"hx"}) {
		t.Errorf("Resolve(hx) = %v", got)
	}
}

func TestCmd(t *testing.T) {
	e := Editor{Logger: log.Discard(), Command: []string{"vim"}}

	cmd := e.Cmd(context.Background(), "/x.py", 3)
	if !slices.Equal(cmd.Args, []string{"vim", "+3", "/x.py"}) {
		t.Errorf("Cmd().Args = %v", cmd.Args)
	}
}
