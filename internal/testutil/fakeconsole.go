package testutil

import (
	"time"

	"github.com/zhyh329/fbpad/internal/app"
)

// FakeConsoleFd is the controlling input descriptor of a FakeConsole.
const FakeConsoleFd = 0

// FakeConsole is a scripted controlling terminal. Each Wait pops one entry
// from Script, a map from descriptor to readiness; an exhausted script
// reports a hangup on the console so loops end.
type FakeConsole struct {
	Input  []byte
	Script []map[int]app.Ready

	// RawErr is returned by MakeRaw when set.
	RawErr error
	// WaitErr is returned by the next Wait when set, then cleared.
	WaitErr error
	// OnWait runs at the start of every Wait.
	OnWait func(n int)

	Waits     int
	WaitFds   [][]int
	Raw       int
	Restored  int
	Releases  int
	Palettes  int
	Reaps     int
	Reaped    int
	ReapCount int
}

var (
	_ app.Console      = (*FakeConsole)(nil)
	_ app.SignalSource = (*FakeSignals)(nil)
)

// NewFakeConsole returns a console that yields input byte by byte.
func NewFakeConsole(input string) *FakeConsole {
	return &FakeConsole{Input: []byte(input)}
}

// Type appends input.
func (c *FakeConsole) Type(s string) { c.Input = append(c.Input, s...) }

func (c *FakeConsole) Fd() int { return FakeConsoleFd }

func (c *FakeConsole) ReadByte() (byte, bool) {
	if len(c.Input) == 0 {
		return 0, false
	}
	b := c.Input[0]
	c.Input = c.Input[1:]
	return b, true
}

func (c *FakeConsole) MakeRaw() (func(), error) {
	if c.RawErr != nil {
		return nil, c.RawErr
	}
	c.Raw++
	return func() { c.Restored++ }, nil
}

func (c *FakeConsole) Wait(fds []int, ready []app.Ready, _ time.Duration) (int, error) {
	c.Waits++
	c.WaitFds = append(c.WaitFds, append([]int(nil), fds...))
	if c.OnWait != nil {
		c.OnWait(c.Waits)
	}
	if err := c.WaitErr; err != nil {
		c.WaitErr = nil
		return 0, err
	}

	var step map[int]app.Ready
	if len(c.Script) > 0 {
		step = c.Script[0]
		c.Script = c.Script[1:]
	} else {
		step = map[int]app.Ready{FakeConsoleFd: app.ReadyHup}
	}

	n := 0
	for i, fd := range fds {
		if r, ok := step[fd]; ok && r != 0 {
			ready[i] = r
			n++
		}
	}
	return n, nil
}

func (c *FakeConsole) ReleaseDisplay() error {
	c.Releases++
	return nil
}

func (c *FakeConsole) ResetPalette() error {
	c.Palettes++
	return nil
}

// Reap reports ReapCount children the first time after each child event.
func (c *FakeConsole) Reap() int {
	c.Reaps++
	n := c.ReapCount
	c.Reaped += n
	c.ReapCount = 0
	return n
}

// FakeSignals is a SignalSource fed directly by tests.
type FakeSignals struct {
	FD      int
	Pending []app.Event
}

// NewFakeSignals returns a source without a descriptor.
func NewFakeSignals() *FakeSignals { return &FakeSignals{FD: -1} }

// Push queues events.
func (s *FakeSignals) Push(ev ...app.Event) { s.Pending = append(s.Pending, ev...) }

func (s *FakeSignals) Fd() int { return s.FD }

func (s *FakeSignals) Drain() []app.Event {
	out := s.Pending
	s.Pending = nil
	return out
}
