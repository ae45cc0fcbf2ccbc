package util

import (
	"os"
	"syscall"
)

// IsProcessAlive reports whether a process with the given pid exists and has
// not been reaped. Signal 0 performs the existence check without delivering
// anything to the target.
func IsProcessAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
