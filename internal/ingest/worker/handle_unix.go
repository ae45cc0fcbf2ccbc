//go:build aix || darwin || dragonfly || freebsd || (js && wasm) || linux || nacl || netbsd || openbsd || solaris

package worker

import (
	"os/exec"
	"syscall"
)

func (h *Handle) signalGroup(sig syscall.Signal) error {
	if pgid, err := syscall.Getpgid(h.pid); err == nil {
		// Negative pid sends signal to all in process group
		return syscall.Kill(-pgid, sig)
	} else {
		return syscall.Kill(h.pid, sig)
	}
}

func initCmd(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
