package session

import (
	"github.com/ardnew/spyview/log"
	"github.com/ardnew/spyview/proc"
)

// Option configures a [Session].
type Option func(*Session)

// WithLister sets the process lister used by [Session.Pick].
func WithLister(l proc.Lister) Option {
	return func(s *Session) { s.lister = l }
}

// WithFilter sets the candidate filter used by [Session.Pick].
func WithFilter(f proc.Filter) Option {
	return func(s *Session) { s.filter = f }
}

// WithNotifier sets where user messages go.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notify = n
		}
	}
}

// WithNavigator sets how frames are opened.
func WithNavigator(n Navigator) Option {
	return func(s *Session) { s.nav = n }
}

// WithRecorder records every successful dump.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.rec = r }
}

// WithLogger sets the diagnostic log sink.
func WithLogger(l log.Logger) Option {
	return func(s *Session) { s.log = l }
}
