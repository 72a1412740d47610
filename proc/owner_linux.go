//go:build linux

package proc

import "os"

func platformOwner() (OwnerFunc, int) {
	return StatusOwner("/proc"), os.Getuid()
}
