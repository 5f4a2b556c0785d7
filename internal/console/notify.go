package console

import (
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"github.com/zhyh329/fbpad/internal/app"
	"github.com/zhyh329/fbpad/internal/config"
)

// Signals used by the display handshake.
const (
	ReleaseSignal = syscall.SIGUSR1
	AcquireSignal = syscall.SIGUSR2
)

// Notifier turns host signals into a bounded queue of app events. A byte is
// written to a pipe for every queued event so the event loop's wait wakes
// up; the queue itself is only read by Drain on the loop's goroutine.
type Notifier struct {
	sigs    chan os.Signal
	events  chan app.Event
	rfd     int
	wfd     int
	done    chan struct{}
	dropped atomic.Int64
	logger  *log.Logger
}

var _ app.SignalSource = (*Notifier)(nil)

// NewNotifier starts relaying the release, acquire and child signals.
func NewNotifier(logger *log.Logger) (*Notifier, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		return nil, err
	}
	for _, fd := range p {
		unix.CloseOnExec(fd)
		if err := unix.SetNonblock(fd, true); err != nil {
			_ = unix.Close(p[0])
			_ = unix.Close(p[1])
			return nil, err
		}
	}

	n := &Notifier{
		sigs:   make(chan os.Signal, config.SignalQueueSize),
		events: make(chan app.Event, config.SignalQueueSize),
		rfd:    p[0],
		wfd:    p[1],
		done:   make(chan struct{}),
		logger: logger,
	}
	signal.Notify(n.sigs, ReleaseSignal, AcquireSignal, syscall.SIGCHLD)
	go n.relay()
	return n, nil
}

func eventFor(sig os.Signal) (app.Event, bool) {
	switch sig {
	case ReleaseSignal:
		return app.EventRelease, true
	case AcquireSignal:
		return app.EventAcquire, true
	case syscall.SIGCHLD:
		return app.EventChild, true
	}
	return 0, false
}

func (n *Notifier) relay() {
	defer close(n.done)
	for sig := range n.sigs {
		if ev, ok := eventFor(sig); ok {
			n.push(ev)
		}
	}
}

// push queues ev and wakes the loop. A full queue drops the event.
func (n *Notifier) push(ev app.Event) {
	select {
	case n.events <- ev:
	default:
		n.dropped.Add(1)
		n.logger.Warn("signal queue full, event dropped", "event", ev.String())
		return
	}
	// EAGAIN means a wakeup is already pending.
	_, _ = unix.Write(n.wfd, []byte{1})
}

// Fd is readable while events are queued.
func (n *Notifier) Fd() int { return n.rfd }

// Drain empties the wake pipe and returns the queued events in order.
func (n *Notifier) Drain() []app.Event {
	var buf [64]byte
	for {
		k, err := unix.Read(n.rfd, buf[:])
		if err != nil || k <= 0 {
			break
		}
	}
	var out []app.Event
	for {
		select {
		case ev := <-n.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

// Dropped returns the number of events lost to a full queue.
func (n *Notifier) Dropped() int64 { return n.dropped.Load() }

// Stop ends signal delivery and closes the pipe.
func (n *Notifier) Stop() {
	signal.Stop(n.sigs)
	close(n.sigs)
	<-n.done
	_ = unix.Close(n.rfd)
	_ = unix.Close(n.wfd)
}
