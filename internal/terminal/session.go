package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/colorprofile"
	xpty "github.com/charmbracelet/x/xpty"
	"github.com/shirou/gopsutil/v4/process"
)

// Session is a program running behind a slot's stream.
type Session struct {
	stream io.ReadWriteCloser
	fd     int
	pid    int
	argv   []string

	closeOnce sync.Once
}

// NewSession wraps an already started stream. fd is the descriptor the
// event loop waits on; pid may be 0 when there is no process.
func NewSession(stream io.ReadWriteCloser, fd, pid int, argv []string) *Session {
	return &Session{stream: stream, fd: fd, pid: pid, argv: argv}
}

// Spawner starts argv on a terminal of the given size.
type Spawner func(argv []string, cols, rows int) (*Session, error)

// Fd returns the stream descriptor.
func (s *Session) Fd() int { return s.fd }

// Pid returns the process id, or 0.
func (s *Session) Pid() int { return s.pid }

// Argv returns the command line.
func (s *Session) Argv() []string { return s.argv }

// Read reads program output.
func (s *Session) Read(p []byte) (int, error) { return s.stream.Read(p) }

// Write sends input to the program.
func (s *Session) Write(p []byte) (int, error) { return s.stream.Write(p) }

// Close closes the stream. The program sees a hangup; its exit is
// collected by the child reaper.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.stream.Close()
	})
	return err
}

// Name returns the program name, asking the process table first.
func (s *Session) Name() string {
	if s.pid > 0 {
		if p, err := process.NewProcess(int32(s.pid)); err == nil {
			if name, err := p.Name(); err == nil && name != "" {
				return name
			}
		}
	}
	if len(s.argv) > 0 {
		return s.argv[0]
	}
	return ""
}

// SpawnPTY starts argv on a new pseudo-terminal sized cols x rows.
func SpawnPTY(argv []string, cols, rows int) (*Session, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("empty command")
	}

	// #nosec G204 - running user programs is the point
	cmd := exec.Command(argv[0], argv[1:]...)

	termType, colorTerm := getTerminalEnv()
	cmd.Env = append(os.Environ(),
		"TERM="+termType,
		"TERM_PROGRAM=fbpad",
	)
	if colorTerm != "" {
		cmd.Env = append(cmd.Env, "COLORTERM="+colorTerm)
	}

	pty, err := xpty.NewPty(cols, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate pty: %w", err)
	}

	setupPTYCommand(cmd)

	if err := pty.Start(cmd); err != nil {
		_ = pty.Close()
		return nil, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	// The child holds the slave now; dropping ours lets the master report a
	// hangup once the child is gone.
	if up, ok := pty.(*xpty.UnixPty); ok {
		_ = up.Slave().Close()
	}

	return NewSession(pty, int(pty.Fd()), cmd.Process.Pid, argv), nil
}

var (
	localEnvOnce   sync.Once
	localTermType  string
	localColorTerm string
)

// getTerminalEnv returns TERM and COLORTERM for spawned programs, detected
// once from the controlling terminal.
func getTerminalEnv() (termType, colorTerm string) {
	localEnvOnce.Do(func() {
		profile := colorprofile.Detect(os.Stdout, os.Environ())
		localTermType, localColorTerm = profileToEnv(profile, os.Getenv("TERM"))
	})
	return localTermType, localColorTerm
}

// profileToEnv converts a color profile to TERM and COLORTERM values.
// colorTerm may be empty.
func profileToEnv(profile colorprofile.Profile, parentTerm string) (termType, colorTerm string) {
	switch profile {
	case colorprofile.TrueColor:
		if parentTerm != "" {
			termType = parentTerm
		} else {
			termType = "xterm-256color"
		}
		colorTerm = "truecolor"

	case colorprofile.ANSI256:
		switch {
		case strings.Contains(parentTerm, "256color"):
			termType = parentTerm
		case strings.HasPrefix(parentTerm, "screen"):
			termType = "screen-256color"
		case strings.HasPrefix(parentTerm, "tmux"):
			termType = "tmux-256color"
		default:
			termType = "xterm-256color"
		}

	case colorprofile.ANSI:
		// The Linux console lands here.
		if parentTerm != "" && parentTerm != "dumb" {
			termType = parentTerm
		} else {
			termType = "linux"
		}

	case colorprofile.Ascii, colorprofile.NoTTY:
		termType = "dumb"

	default:
		termType = "xterm-256color"
	}
	return termType, colorTerm
}
