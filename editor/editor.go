// Package editor opens source files at a line in the user's editor.
package editor

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ardnew/spyview/log"
)

// Default is the editor used when neither $VISUAL nor $EDITOR is set.
const Default = "vi"

// Resolve returns the editor command line: explicit if set, else $VISUAL,
// $EDITOR, then [Default].
func Resolve(explicit string) []string {
	for _, v := range []string{explicit, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if f := strings.Fields(v); len(f) > 0 {
			return f
		}
	}

	return []string{Default}
}

// Syntax is how an editor is told which line to open.
type Syntax int

const (
	// SyntaxPlus passes "+line file".
	SyntaxPlus Syntax = iota
	// SyntaxColon passes "file:line".
	SyntaxColon
	// SyntaxGoto passes "-g file:line".
	SyntaxGoto
)

var syntaxByName = map[string]Syntax{
	"vi": SyntaxPlus, "vim": SyntaxPlus, "nvim": SyntaxPlus, "gvim": SyntaxPlus,
	"view": SyntaxPlus, "nano": SyntaxPlus, "emacs": SyntaxPlus,
	"emacsclient": SyntaxPlus, "micro": SyntaxPlus, "kak": SyntaxPlus,
	"hx": SyntaxColon, "helix": SyntaxColon,
	"subl": SyntaxColon, "sublime_text": SyntaxColon, "zed": SyntaxColon,
	"code": SyntaxGoto, "code-insiders": SyntaxGoto, "codium": SyntaxGoto,
	"vscodium": SyntaxGoto, "cursor": SyntaxGoto, "windsurf": SyntaxGoto,
}

// SyntaxOf returns the line syntax of the editor executable exe. Unknown
// editors get [SyntaxPlus].
func SyntaxOf(exe string) Syntax {
	name := strings.ToLower(filepath.Base(exe))
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, ".cmd")

	if s, ok := syntaxByName[name]; ok {
		return s
	}

	return SyntaxPlus
}

// Args returns the editor command line opening file at line.
func Args(editor []string, file string, line int) []string {
	if len(editor) == 0 {
		editor = []string{Default}
	}

	args := append([]string{}, editor...)
	loc := file + ":" + strconv.Itoa(line)

	switch SyntaxOf(editor[0]) {
	case SyntaxColon:
		return append(args, loc)
	case SyntaxGoto:
		return append(args, "-g", loc)
	default:
		return append(args, "+"+strconv.Itoa(line), file)
	}
}

// Editor builds and runs editor commands.
type Editor struct {
	Logger  log.Logger
	Command []string
}

// New returns an Editor for the resolved command line of explicit.
func New(explicit string, logger log.Logger) Editor {
	return Editor{Logger: logger, Command: Resolve(explicit)}
}

// Cmd returns an unstarted command opening file at line, attached to the
// current terminal.
func (e Editor) Cmd(ctx context.Context, file string, line int) *exec.Cmd {
	args := Args(e.Command, file, line)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd
}

// Navigate starts the editor without waiting for it to exit. It suits
// editors that open their own window; terminal editors need a host that
// hands over the terminal, see [Editor.Cmd].
func (e Editor) Navigate(ctx context.Context, file string, line int) error {
	args := Args(e.Command, file, line)

	e.Logger.DebugContext(ctx, "opening editor", slog.Any("args", args))

	cmd := exec.Command(args[0], args[1:]...) //nolint:noctx
	if err := cmd.Start(); err != nil {
		return err
	}

	go func() { _ = cmd.Wait() }()

	return nil
}
