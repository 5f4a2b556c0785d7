//go:build unix

package terminal

import (
	"os/exec"
	"syscall"
)

// setupPTYCommand makes the pty the child's controlling terminal in a new
// session.
func setupPTYCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}
}
