package app

// Switch moves the engine's active slot from one slot to another. It is the
// only place that changes what is rendered.
//
// With save, an open snapshot-eligible from is cached first; from is always
// persisted. With show and load, an open snapshot-eligible to is restored
// from the cache when possible. The chosen mode is returned.
func (p *Pad) Switch(from, to int, show, save, load bool) RenderMode {
	mode := RenderHidden
	if show {
		if load {
			mode = RenderLive
		} else {
			mode = RenderCached
		}
	}

	if save && p.Engine.Open(from) && p.Table.Saved(from) {
		p.Engine.SnapshotSave(from)
	}
	p.Engine.Persist(from)

	if show && load && p.Engine.Open(to) && p.Table.Saved(to) {
		if p.Engine.SnapshotLoad(to) {
			mode = RenderCached
		} else {
			mode = RenderLive
		}
	}
	p.Engine.Activate(to, mode)

	if show && load {
		p.HistPos = 0
	}
	return mode
}

// Live returns the live slot index.
func (p *Pad) Live() int { return p.Cursor.Live() }

// ShowTerm makes slot n live. It does nothing if n is already live or the
// session is in one-shot mode, and reports whether a switch happened.
func (p *Pad) ShowTerm(n int) bool {
	live := p.Cursor.Live()
	if n == live || p.OneShot {
		return false
	}
	show := !p.Hidden
	p.Switch(live, n, show, show, show)
	p.Cursor.MoveTo(n)
	p.LogDebug("show slot", "slot", n, "tag", string(p.Table.Label(p.Table.Tag(n))), "bank", p.Table.Bank(n))
	return true
}

// ShowTag shows the front bank of tag.
func (p *Pad) ShowTag(tag int) bool {
	return p.ShowTerm(p.Cursor.Front(tag))
}

// ShowAlternate shows the other bank of the current tag.
func (p *Pad) ShowAlternate() bool {
	return p.ShowTerm(p.Table.Alternate(p.Cursor.Live()))
}

// ShowLastTag returns to the last tag shown before the current one.
func (p *Pad) ShowLastTag() bool {
	return p.ShowTag(p.Cursor.Last)
}

// NextOpen shows the first open slot after the live one, wrapping around.
func (p *Pad) NextOpen() bool {
	live := p.Cursor.Live()
	count := p.Table.Count()
	for n := (live + 1) % count; n != live; n = (n + 1) % count {
		if p.Engine.Open(n) {
			return p.ShowTerm(n)
		}
	}
	return false
}

// Redraw repaints the live slot without changing any state.
func (p *Pad) Redraw() {
	live := p.Cursor.Live()
	p.Switch(live, live, !p.Hidden, false, true)
}

// TempSwitch points the engine at slot idx without rendering it so a
// hidden slot can absorb output. Pair with SwitchBack.
func (p *Pad) TempSwitch(idx int) {
	if live := p.Cursor.Live(); idx != live {
		p.Switch(live, idx, false, false, false)
	}
}

// SwitchBack returns the engine to the live slot after TempSwitch(idx).
func (p *Pad) SwitchBack(idx int) {
	if live := p.Cursor.Live(); idx != live {
		p.Switch(idx, live, !p.Hidden, false, false)
	}
}

// MainTerm reports whether the live slot has a running session.
func (p *Pad) MainTerm() bool {
	return p.Engine.Open(p.Cursor.Live())
}

// Exec starts argv in the live slot if it is empty.
func (p *Pad) Exec(argv []string) {
	if p.MainTerm() {
		return
	}
	live := p.Cursor.Live()
	if err := p.Engine.Spawn(live, argv); err != nil {
		p.LogError("spawn failed", "slot", live, "argv", argv, "err", err)
		if p.OneShot {
			p.Quit()
		}
		return
	}
	p.LogInfo("spawned", "slot", live, "argv", argv)
}

// Send forwards input bytes to the live slot if it has a session.
func (p *Pad) Send(b ...byte) {
	if !p.MainTerm() {
		return
	}
	live := p.Cursor.Live()
	if err := p.Engine.Send(live, b...); err != nil {
		p.LogWarn("send failed", "slot", live, "err", err)
	}
}
