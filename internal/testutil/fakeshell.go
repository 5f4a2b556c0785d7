// Package testutil provides in-memory stand-ins for the programs, terminal
// engine, console and signal source used by the multiplexer.
package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// ErrShellClosed is returned by writes to a closed FakeShell.
var ErrShellClosed = errors.New("fake shell closed")

// FakeShell is an in-memory program stream. Output queued with SendOutput
// is returned by Read; bytes written are recorded as input.
type FakeShell struct {
	mu      sync.Mutex
	output  bytes.Buffer
	input   bytes.Buffer
	history []string
	closed  bool
	notify  chan struct{}
}

// NewFakeShell returns an open shell with no pending output.
func NewFakeShell() *FakeShell {
	return &FakeShell{notify: make(chan struct{}, 1)}
}

func (s *FakeShell) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// SendOutput queues output for Read. It is ignored after Close.
func (s *FakeShell) SendOutput(out string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.output.WriteString(out)
	s.wake()
}

// SendOutputf queues formatted output.
func (s *FakeShell) SendOutputf(format string, args ...any) {
	s.SendOutput(fmt.Sprintf(format, args...))
}

// Pending returns the number of queued output bytes.
func (s *FakeShell) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output.Len()
}

// tryRead reads queued output; ok is false when there was nothing to
// return yet.
func (s *FakeShell) tryRead(p []byte) (n int, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.output.Len() > 0 {
		n, _ = s.output.Read(p)
		return n, true, nil
	}
	if s.closed {
		return 0, true, io.EOF
	}
	return 0, false, nil
}

// Read blocks until output is queued or the shell is closed, like a pipe.
func (s *FakeShell) Read(p []byte) (int, error) {
	for {
		if n, ok, err := s.tryRead(p); ok {
			return n, err
		}
		<-s.notify
	}
}

// ReadWithTimeout is Read with a deadline.
func (s *FakeShell) ReadWithTimeout(p []byte, timeout time.Duration) (int, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		if n, ok, err := s.tryRead(p); ok {
			return n, err
		}
		select {
		case <-s.notify:
		case <-timer.C:
			return 0, fmt.Errorf("read timed out after %s", timeout)
		}
	}
}

// Write records input.
func (s *FakeShell) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrShellClosed
	}
	s.input.Write(p)
	s.history = append(s.history, string(p))
	return len(p), nil
}

// GetInput returns all input written so far.
func (s *FakeShell) GetInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.String()
}

// GetInputHistory returns each write as a separate entry.
func (s *FakeShell) GetInputHistory() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// ClearInput forgets recorded input.
func (s *FakeShell) ClearInput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input.Reset()
	s.history = nil
}

// Close marks the shell closed. Pending output can still be read; after
// that Read returns io.EOF. Closing twice is not an error.
func (s *FakeShell) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.wake()
	}
	return nil
}

// IsClosed reports whether Close was called.
func (s *FakeShell) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
