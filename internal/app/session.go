package app

import (
	"context"
	"fmt"
)

// Run drives one session to completion. Controlling input is in raw mode
// for exactly the duration of the loop. With a non-empty argv the session is
// one-shot: argv runs in the live slot and its exit ends the run.
func (p *Pad) Run(ctx context.Context, argv []string) error {
	restore, err := p.Console.MakeRaw()
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer restore()

	live := p.Cursor.Live()
	p.Engine.Activate(live, RenderLive)

	if len(argv) > 0 {
		p.OneShot = true
		p.Exec(argv)
	}

	for !p.exit {
		if err := ctx.Err(); err != nil {
			p.LogInfo("session cancelled", "err", err)
			break
		}
		if p.PollAll() {
			break
		}
	}
	p.LogInfo("session ended", "one_shot", p.OneShot, "exiting", p.exit)
	return nil
}
