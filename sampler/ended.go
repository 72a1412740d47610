package sampler

import (
	"errors"
	"regexp"

	"github.com/ardnew/spyview/pkg"
)

// ErrProcessEnded is returned by [Sampler.Dump] when the target process is
// gone before or during the dump.
var ErrProcessEnded = pkg.ErrProcessEnded

var endedRegexp = regexp.MustCompile(
	`(?i)(No such process|executable name|process error|os error 87|os error 3)`,
)

// IsEnded reports whether err means the target process no longer exists.
func IsEnded(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrProcessEnded) || endedRegexp.MatchString(err.Error())
}

// Message returns the outermost message of an error chain: for a failed
// dump, what the sampler printed.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var chain pkg.Error
	if errors.As(err, &chain) && len(chain) > 0 {
		return chain[len(chain)-1].Error()
	}

	return err.Error()
}
