//go:build unix

package sampler

import (
	"errors"

	"golang.org/x/sys/unix"
)

// alive reports false only when signalling pid fails with ESRCH. A process
// owned by another user (EPERM) is alive.
func alive(pid int) bool {
	err := unix.Kill(pid, 0)

	return !errors.Is(err, unix.ESRCH)
}
