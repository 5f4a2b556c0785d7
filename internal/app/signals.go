package app

// HandleEvent applies one host notification. Events are ignored once the
// exit flag is set.
func (p *Pad) HandleEvent(ev Event) {
	if p.exit {
		return
	}
	live := p.Cursor.Live()
	switch ev {
	case EventRelease:
		p.Hidden = true
		p.Switch(live, live, false, true, false)
		if err := p.Console.ReleaseDisplay(); err != nil {
			p.LogWarn("release acknowledge failed", "err", err)
		}
		p.LogInfo("display released")
	case EventAcquire:
		p.Hidden = false
		if err := p.Console.ResetPalette(); err != nil {
			p.LogWarn("palette reset failed", "err", err)
		}
		p.Switch(live, live, true, false, true)
		p.LogInfo("display acquired")
	case EventChild:
		if n := p.Console.Reap(); n > 0 {
			p.LogDebug("reaped children", "count", n)
		}
	}
}

// drainSignals handles every queued event in arrival order.
func (p *Pad) drainSignals() {
	if p.Signals == nil {
		return
	}
	for _, ev := range p.Signals.Drain() {
		p.HandleEvent(ev)
	}
}
