package worker

import (
	"os/exec"
	"syscall"
)

func (h *Handle) signalGroup(_ syscall.Signal) error {
	return h.cmd.Process.Kill()
}

func initCmd(cmd *exec.Cmd) {
	// No-op on Windows.
}
