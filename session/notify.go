package session

import (
	"github.com/ardnew/spyview/log"
)

// Messages shown to the user.
const (
	MsgNoProcess     = "no process selected."
	MsgReadFailed    = "stack read failed - need sudo or same user?"
	MsgNoFrames      = "no frames (process idle or permission denied)."
	MsgProcessEnded  = "process ended."
	MsgNothingToFlip = "no frames to reorder."
)

// MaxMessage is the longest sampler failure message shown to the user.
const MaxMessage = 120

// Notifier shows messages to the user.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// LogNotifier writes user messages to a logger.
type LogNotifier struct {
	Logger log.Logger
}

func (n LogNotifier) Info(msg string)  { n.Logger.Info(msg) }
func (n LogNotifier) Warn(msg string)  { n.Logger.Warn(msg) }
func (n LogNotifier) Error(msg string) { n.Logger.Error(msg) }

type discardNotifier struct{}

func (discardNotifier) Info(string)  {}
func (discardNotifier) Warn(string)  {}
func (discardNotifier) Error(string) {}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}
