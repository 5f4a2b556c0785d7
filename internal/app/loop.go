package app

import (
	"github.com/zhyh329/fbpad/internal/config"
)

const noSlot = -1

// PollAll runs one iteration of the event loop and reports whether the
// controlling input is gone.
//
// Controlling input is handled before slot streams. Slot streams are
// visited in index order; each is read (or torn down on hangup) with the
// engine temporarily pointed at it.
func (p *Pad) PollAll() bool {
	p.fds = append(p.fds[:0], p.Console.Fd())
	p.owner = append(p.owner[:0], noSlot)
	if p.Signals != nil {
		if fd := p.Signals.Fd(); fd >= 0 {
			p.fds = append(p.fds, fd)
			p.owner = append(p.owner, noSlot)
		}
	}
	for i := 0; i < p.Table.Count(); i++ {
		if fd := p.Engine.Fd(i); fd >= 0 {
			p.fds = append(p.fds, fd)
			p.owner = append(p.owner, i)
		}
	}
	if cap(p.ready) < len(p.fds) {
		p.ready = make([]Ready, len(p.fds))
	}
	p.ready = p.ready[:len(p.fds)]
	clear(p.ready)

	n, err := p.Console.Wait(p.fds, p.ready, config.PollTimeout)
	p.drainSignals()
	if err != nil {
		p.LogDebug("wait interrupted", "err", err)
		return false
	}
	if n < 1 {
		return false
	}

	if p.ready[0]&(ReadyHup|ReadyErr) != 0 {
		p.LogWarn("controlling input closed")
		return true
	}
	if p.ready[0]&ReadyIn != 0 && inputHandler != nil {
		inputHandler(p)
	}

	for k := 1; k < len(p.fds); k++ {
		slot := p.owner[k]
		// The input handler may have closed the slot since the wait.
		if slot == noSlot || p.ready[k] == 0 || !p.Engine.Open(slot) {
			continue
		}
		p.serviceSlot(slot, p.ready[k])
	}
	return false
}

func (p *Pad) serviceSlot(slot int, r Ready) {
	p.TempSwitch(slot)
	ended := r&ReadyIn == 0
	if !ended {
		if err := p.Engine.ReadAvailable(slot); err != nil {
			p.LogDebug("slot stream ended", "slot", slot, "err", err)
			ended = true
		}
	}
	if ended {
		p.Engine.Teardown(slot)
		p.LogInfo("slot closed", "slot", slot)
		if p.OneShot {
			p.Quit()
		}
	}
	p.SwitchBack(slot)
}
