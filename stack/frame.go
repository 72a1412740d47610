package stack

import (
	"log/slog"
	"path/filepath"
	"strconv"
)

// Frame is one entry of a call stack. Frames are values and never change
// after [Parse] creates them.
type Frame struct {
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
	Func string `json:"func" yaml:"func"`
	// UID is unique within one dump and increases in text order from 0.
	UID int `json:"uid" yaml:"uid"`
}

// Base returns the file name without its directory.
func (f Frame) Base() string { return filepath.Base(f.File) }

// Location returns "file:line".
func (f Frame) Location() string { return f.File + ":" + strconv.Itoa(f.Line) }

// String returns "func (base)", the label used for the frame in every view.
func (f Frame) String() string { return f.Func + " (" + f.Base() + ")" }

// LogValue implements [slog.LogValuer].
func (f Frame) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("uid", f.UID),
		slog.String("func", f.Func),
		slog.String("file", f.File),
		slog.Int("line", f.Line),
	)
}
