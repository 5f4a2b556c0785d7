// Package input implements the controlling-input state machine: passcode
// entry while locked, escape commands and passthrough to the live slot.
package input

import (
	"github.com/zhyh329/fbpad/internal/app"
)

// HandleInput consumes one byte of controlling input, plus the command byte
// when the first one is the escape byte. A missing byte is ignored.
func HandleInput(p *app.Pad) {
	c, ok := p.ReadByte()
	if !ok {
		return
	}

	if p.LockActive() {
		handleLocked(p, c)
		return
	}

	if c == p.Commands.Escape() {
		next, ok := p.ReadByte()
		if ok && handleCommand(p, next) {
			return
		}
		// Unmatched sequel: the escape byte goes through first, then the
		// sequel itself as ordinary input.
		p.Send(c)
		if !ok {
			p.HistPos = 0
			return
		}
		c = next
	}

	p.HistPos = 0
	p.Send(c)
}

func handleLocked(p *app.Pad, c byte) {
	if c == '\r' {
		p.SubmitPass()
		return
	}
	p.AppendPass(c)
}

// handleCommand runs the escape command selected by c and reports whether
// c named one.
func handleCommand(p *app.Pad, c byte) bool {
	if action, ok := p.Commands.Lookup(c); ok {
		ExecuteAction(action, p)
		return true
	}
	if tag, ok := p.Table.Lookup(c); ok {
		p.ShowTag(tag)
		return true
	}
	p.LogDebug("unbound escape command", "key", c)
	return false
}
