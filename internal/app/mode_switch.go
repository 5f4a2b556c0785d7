package app

import (
	"crypto/subtle"

	"github.com/zhyh329/fbpad/internal/config"
)

// LockActive reports whether input is going to the passcode buffer. Locking
// without a configured passcode has no effect.
func (p *Pad) LockActive() bool {
	return p.Locked && p.Passcode != ""
}

// EnterLockMode sets the lock and clears the passcode buffer.
func (p *Pad) EnterLockMode() {
	p.Locked = true
	p.Pass = p.Pass[:0]
	if p.Passcode == "" {
		p.LogWarn("lock requested but no passcode is configured")
		return
	}
	p.LogInfo("locked")
}

// AppendPass adds one passcode character. Non-printable bytes and bytes past
// the buffer bound are dropped.
func (p *Pad) AppendPass(c byte) {
	if c < 0x20 || c >= 0x7f {
		return
	}
	if len(p.Pass) >= config.PasscodeMax-1 {
		return
	}
	p.Pass = append(p.Pass, c)
}

// SubmitPass compares the buffer with the passcode. A match clears the lock;
// either way the buffer is emptied.
func (p *Pad) SubmitPass() bool {
	ok := subtle.ConstantTimeCompare(p.Pass, []byte(p.Passcode)) == 1
	p.Pass = p.Pass[:0]
	if ok {
		p.Locked = false
		p.LogInfo("unlocked")
	}
	return ok
}
