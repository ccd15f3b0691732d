//go:build unix

package execution

import (
	"os/exec"
	"syscall"
)

// isolate puts cmd in its own process group and makes cancellation kill the
// whole group.
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
