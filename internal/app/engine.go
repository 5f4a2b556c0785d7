package app

import "time"

// RenderMode tells the engine how to present the slot it activates.
type RenderMode int

const (
	// RenderHidden updates the slot off screen; nothing is drawn.
	RenderHidden RenderMode = iota
	// RenderLive repaints the display from the slot's engine state.
	RenderLive
	// RenderCached resumes drawing without a repaint: the display already
	// holds the slot's screen, either restored from the snapshot cache or
	// never replaced.
	RenderCached
)

func (m RenderMode) String() string {
	switch m {
	case RenderHidden:
		return "hidden"
	case RenderLive:
		return "redraw-live"
	case RenderCached:
		return "redraw-cached"
	}
	return "unknown"
}

// Engine is the terminal engine: it owns every slot's session, stream and
// screen state. Slot arguments are arena indices.
type Engine interface {
	// Activate makes slot the engine's active slot.
	Activate(slot int, mode RenderMode)
	// Persist records the slot's live state so it can be resumed.
	Persist(slot int)
	// SnapshotSave caches the slot's current screen under its tag.
	SnapshotSave(slot int)
	// SnapshotLoad restores the slot's tag snapshot to the display. It
	// reports false when no usable snapshot exists.
	SnapshotLoad(slot int) bool
	// ReadAvailable consumes pending output of the slot's stream. An error
	// means the stream has ended.
	ReadAvailable(slot int) error
	// Send writes input bytes to the slot's program.
	Send(slot int, b ...byte) error
	// Spawn starts argv in an empty slot.
	Spawn(slot int, argv []string) error
	// Teardown frees the slot's screen resources and ends its session.
	Teardown(slot int)
	// ScrollHistory shows the slot's backlog offset lines above the bottom.
	ScrollHistory(slot int, offset int)
	// Screenshot saves the visible screen and returns where it went.
	Screenshot() (string, error)
	// Overlay draws one line on the bottom row of the display.
	Overlay(line string)

	// Open reports whether the slot has a running session.
	Open(slot int) bool
	// Fd returns the slot's stream descriptor, or -1 when closed.
	Fd(slot int) int
	// Rows returns the display height in lines.
	Rows() int
}

// Ready is the readiness reported for one descriptor by a wait.
type Ready uint8

const (
	// ReadyIn means the descriptor has data.
	ReadyIn Ready = 1 << iota
	// ReadyHup means the other end hung up.
	ReadyHup
	// ReadyErr means the descriptor is in an error state or invalid.
	ReadyErr
)

// Console is the controlling terminal and the host side of the display
// handshake.
type Console interface {
	// Fd returns the controlling input descriptor.
	Fd() int
	// ReadByte reads one input byte without blocking.
	ReadByte() (byte, bool)
	// MakeRaw switches input to raw mode and returns the restore func.
	MakeRaw() (restore func(), err error)
	// Wait blocks until a descriptor is ready or the timeout passes,
	// filling ready (len(ready) == len(fds)) and returning the number of
	// ready descriptors.
	Wait(fds []int, ready []Ready, timeout time.Duration) (int, error)
	// ReleaseDisplay acknowledges a release request.
	ReleaseDisplay() error
	// ResetPalette loads the color palette again after reacquiring.
	ResetPalette() error
	// Reap collects exited children without blocking.
	Reap() int
}

// Event is a queued notification from the host.
type Event int

const (
	// EventRelease asks the session to give up the display.
	EventRelease Event = iota + 1
	// EventAcquire hands the display back.
	EventAcquire
	// EventChild reports that a child process exited.
	EventChild
)

func (e Event) String() string {
	switch e {
	case EventRelease:
		return "release"
	case EventAcquire:
		return "acquire"
	case EventChild:
		return "child"
	}
	return "unknown"
}

// SignalSource is a bounded event queue filled asynchronously and drained by
// the event loop.
type SignalSource interface {
	// Fd is readable while events are pending, or -1 if the source has no
	// descriptor.
	Fd() int
	// Drain returns and removes every pending event in arrival order.
	Drain() []Event
}
