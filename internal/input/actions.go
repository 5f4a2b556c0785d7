package input

import (
	"github.com/zhyh329/fbpad/internal/app"
	"github.com/zhyh329/fbpad/internal/config"
)

// ExecuteAction runs a named escape command against the session.
func ExecuteAction(action config.Action, p *app.Pad) {
	switch action {
	case config.ActionShell:
		p.Exec(p.Programs.Shell)
	case config.ActionMail:
		p.Exec(p.Programs.Mail)
	case config.ActionEditor:
		p.Exec(p.Programs.Editor)
	case config.ActionAlternate:
		p.ShowAlternate()
	case config.ActionLastTag:
		p.ShowLastTag()
	case config.ActionShowTags:
		p.ShowTags()
	case config.ActionNextOpen:
		p.NextOpen()
	case config.ActionQuit:
		p.LogInfo("quit requested")
		p.Quit()
	case config.ActionScreenshot:
		takeScreenshot(p)
	case config.ActionRedraw:
		p.Redraw()
	case config.ActionLock:
		p.EnterLockMode()
	case config.ActionScrollUp:
		scrollHistory(p, p.Engine.Rows()/2)
	case config.ActionScrollDown:
		scrollHistory(p, -p.Engine.Rows()/2)
	default:
		p.LogWarn("unknown action", "action", string(action))
	}
}

// scrollHistory moves the history offset by delta lines, clamped to
// [0, MaxHistory], and shows the live slot's backlog at the new offset.
func scrollHistory(p *app.Pad, delta int) {
	p.HistPos = min(max(p.HistPos+delta, 0), p.MaxHistory)
	p.Engine.ScrollHistory(p.Live(), p.HistPos)
}

func takeScreenshot(p *app.Pad) {
	path, err := p.Engine.Screenshot()
	if err != nil {
		p.LogError("screenshot failed", "err", err)
		return
	}
	p.LogInfo("screenshot saved", "path", path)
}
