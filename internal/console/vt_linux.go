//go:build linux

package console

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	vtSetMode = 0x5602
	vtRelDisp = 0x5605

	vtAuto    = 0
	vtProcess = 1
)

// vtMode mirrors struct vt_mode from linux/vt.h.
type vtMode struct {
	mode   int8
	waitv  int8
	relsig int16
	acqsig int16
	frsig  int16
}

func setVTMode(fd int, m *vtMode) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), vtSetMode, uintptr(unsafe.Pointer(m)))
	if errno != 0 {
		return fmt.Errorf("%w: %v", ErrNotConsole, errno)
	}
	return nil
}

// setProcessMode asks the kernel to send release and acquire instead of
// switching consoles on its own.
func setProcessMode(fd int, release, acquire syscall.Signal) error {
	return setVTMode(fd, &vtMode{
		mode:   vtProcess,
		relsig: int16(release),
		acqsig: int16(acquire),
	})
}

func setAutoMode(fd int) error {
	return setVTMode(fd, &vtMode{mode: vtAuto})
}

// releaseDisplay acknowledges a release request.
func releaseDisplay(fd int) error {
	return unix.IoctlSetInt(fd, vtRelDisp, 1)
}
