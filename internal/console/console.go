// Package console is the controlling terminal: raw input, the wait over
// console and slot descriptors, virtual console switching and child
// reaping.
package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/zhyh329/fbpad/internal/app"
)

// ErrNotConsole is returned when the controlling terminal is not a virtual
// console, so display switching cannot be taken over.
var ErrNotConsole = errors.New("not a virtual console")

// Options configures a Console.
type Options struct {
	In  *os.File
	Out io.Writer
	// Term is the TERM of the display; palette sequences are only sent to
	// the Linux console.
	Term string
	// NoVT skips virtual console process mode.
	NoVT   bool
	Logger *log.Logger
}

// Console implements app.Console on a terminal device.
type Console struct {
	fd     int
	out    io.Writer
	term   string
	vt     bool
	logger *log.Logger

	buf  [1]byte
	pfds []unix.PollFd
}

var _ app.Console = (*Console)(nil)

// Open prepares the terminal: input becomes non-blocking, the screen is
// cleared, the cursor hidden and, on the Linux console, the theme palette
// loaded. Virtual console process mode is enabled
// unless disabled; failing that is logged and the session goes on without
// the display handshake. The release and acquire signals must already be
// handled (see Notifier) before calling Open.
func Open(opts Options) (*Console, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Console{
		fd:     int(opts.In.Fd()),
		out:    opts.Out,
		term:   opts.Term,
		logger: logger,
	}

	_, _ = io.WriteString(c.out, ansi.EraseEntireScreen+ansi.CursorHomePosition+ansi.HideCursor)
	_ = c.ResetPalette()

	if err := unix.SetNonblock(c.fd, true); err != nil {
		return c, fmt.Errorf("failed to make input non-blocking: %w", err)
	}

	if !opts.NoVT {
		if err := setProcessMode(c.fd, ReleaseSignal, AcquireSignal); err != nil {
			logger.Warn("virtual console switching unavailable", "err", err)
		} else {
			c.vt = true
		}
	}
	return c, nil
}

// Close gives switching back to the kernel, restores blocking input, resets
// the console palette and shows the cursor.
func (c *Console) Close() {
	if c.vt {
		if err := setAutoMode(c.fd); err != nil {
			c.logger.Debug("failed to restore console mode", "err", err)
		}
		c.vt = false
	}
	_ = unix.SetNonblock(c.fd, false)
	if c.term == "linux" {
		_, _ = io.WriteString(c.out, ansi.ResetPalette)
	}
	_, _ = io.WriteString(c.out, ansi.ShowCursor)
}

// VT reports whether display switching is process controlled.
func (c *Console) VT() bool { return c.vt }

// Size returns the terminal size in cells.
func (c *Console) Size() (cols, rows int, err error) {
	return term.GetSize(c.fd)
}

// Fd returns the input descriptor.
func (c *Console) Fd() int { return c.fd }

// ReadByte reads one byte of input. It never blocks.
func (c *Console) ReadByte() (byte, bool) {
	n, err := unix.Read(c.fd, c.buf[:])
	if err != nil || n != 1 {
		return 0, false
	}
	return c.buf[0], true
}

// MakeRaw puts input in raw mode.
func (c *Console) MakeRaw() (func(), error) {
	state, err := term.MakeRaw(c.fd)
	if err != nil {
		return nil, fmt.Errorf("failed to set raw mode: %w", err)
	}
	return func() {
		if err := term.Restore(c.fd, state); err != nil {
			c.logger.Warn("failed to restore terminal mode", "err", err)
		}
	}, nil
}

// Wait polls fds for input. A wait interrupted by a signal reports nothing
// ready.
func (c *Console) Wait(fds []int, ready []app.Ready, timeout time.Duration) (int, error) {
	if cap(c.pfds) < len(fds) {
		c.pfds = make([]unix.PollFd, len(fds))
	}
	pfds := c.pfds[:len(fds)]
	for i, fd := range fds {
		pfds[i] = unix.PollFd{Fd: int32(fd), Events: unix.POLLIN}
	}

	n, err := unix.Poll(pfds, int(timeout.Milliseconds()))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, err
	}

	for i := range pfds {
		ready[i] = readiness(pfds[i].Revents)
	}
	return n, nil
}

func readiness(revents int16) app.Ready {
	var r app.Ready
	if revents&unix.POLLIN != 0 {
		r |= app.ReadyIn
	}
	if revents&unix.POLLHUP != 0 {
		r |= app.ReadyHup
	}
	if revents&(unix.POLLERR|unix.POLLNVAL) != 0 {
		r |= app.ReadyErr
	}
	return r
}

// ReleaseDisplay lets the kernel switch to the requested console.
func (c *Console) ReleaseDisplay() error {
	if !c.vt {
		return nil
	}
	return releaseDisplay(c.fd)
}

// ResetPalette loads the theme palette into the Linux console again; other
// terminals keep their own.
func (c *Console) ResetPalette() error {
	if c.term != "linux" {
		return nil
	}
	_, err := io.WriteString(c.out, PaletteSequence())
	return err
}

// Reap collects every exited child without blocking and returns how many
// it found.
func (c *Console) Reap() int {
	n := 0
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG, nil)
		if err != nil || pid <= 0 {
			return n
		}
		c.logger.Debug("child exited", "pid", pid, "status", ws.ExitStatus())
		n++
	}
}
