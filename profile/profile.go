package profile

// Stopper ends a profiling session. Stop is safe to call once.
type Stopper interface{ Stop() }

type settings struct {
	mode  string
	dir   string
	quiet bool
}

// Option configures a profiling session.
type Option func(settings) settings

// WithMode selects the profile kind. See [Modes].
func WithMode(mode string) Option {
	return func(s settings) settings {
		s.mode = mode

		return s
	}
}

// WithDir sets the output directory.
func WithDir(dir string) Option {
	return func(s settings) settings {
		s.dir = dir

		return s
	}
}

// WithQuiet suppresses the profiler's own log lines.
func WithQuiet(quiet bool) Option {
	return func(s settings) settings {
		s.quiet = quiet

		return s
	}
}

// Start begins profiling. It returns a no-op [Stopper] when no mode is set,
// the mode is unknown, or the binary was built without the pprof tag.
func Start(opts ...Option) Stopper {
	var s settings

	for _, opt := range opts {
		s = opt(s)
	}

	if s.mode == "" {
		return nop{}
	}

	return start(s)
}

type nop struct{}

func (nop) Stop() {}
