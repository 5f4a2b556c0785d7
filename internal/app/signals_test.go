package app_test

import (
	"slices"
	"testing"

	"github.com/zhyh329/fbpad/internal/app"
	"github.com/zhyh329/fbpad/internal/testutil"
)

func TestHandleEvent_Release(t *testing.T) {
	h := newHarness(t, "AB", "A")
	h.engine.OpenSlot(0)

	h.pad.HandleEvent(app.EventRelease)

	if !h.pad.Hidden {
		t.Error("Hidden not set")
	}
	if !slices.Equal(h.engine.Saved, []int{0}) {
		t.Errorf("saved = %v, want [0]", h.engine.Saved)
	}
	if last, _ := h.engine.LastActivation(); last.Slot != 0 || last.Mode != app.RenderHidden {
		t.Errorf("activation = %+v, want slot 0 hidden", last)
	}
	if h.console.Releases != 1 {
		t.Errorf("releases = %d, want 1", h.console.Releases)
	}
}

func TestHandleEvent_AcquireRedraws(t *testing.T) {
	tests := []struct {
		name    string
		noCache bool
		want    app.RenderMode
	}{
		{"from snapshot", false, app.RenderCached},
		{"live", true, app.RenderLive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "AB", "A")
			h.engine.OpenSlot(0)
			h.engine.NoCache = tt.noCache

			h.pad.HandleEvent(app.EventRelease)
			h.pad.HandleEvent(app.EventAcquire)

			if h.pad.Hidden {
				t.Error("Hidden still set")
			}
			if h.console.Palettes != 1 {
				t.Errorf("palette resets = %d, want 1", h.console.Palettes)
			}
			if last, _ := h.engine.LastActivation(); last.Slot != 0 || last.Mode != tt.want {
				t.Errorf("activation = %+v, want slot 0 %s", last, tt.want)
			}
		})
	}
}

func TestHandleEvent_HiddenSuppressesRendering(t *testing.T) {
	h := newHarness(t, "AB", "")
	h.engine.OpenSlot(0)
	h.engine.OpenSlot(1)

	h.pad.HandleEvent(app.EventRelease)
	h.engine.Reset()

	h.pad.ShowTag(1)
	h.pad.Redraw()
	for _, a := range h.engine.Activations {
		if a.Mode != app.RenderHidden {
			t.Errorf("rendered %+v while hidden", a)
		}
	}
	if h.pad.Live() != 1 {
		t.Errorf("live = %d, want 1", h.pad.Live())
	}
}

func TestHandleEvent_Child(t *testing.T) {
	h := newHarness(t, "AB", "")
	h.console.ReapCount = 3

	h.pad.HandleEvent(app.EventChild)
	h.pad.HandleEvent(app.EventChild)

	if h.console.Reaps != 2 || h.console.Reaped != 3 {
		t.Errorf("reaps = %d reaped = %d, want 2 and 3", h.console.Reaps, h.console.Reaped)
	}
	if len(h.engine.Calls) != 0 {
		t.Errorf("child event touched the engine: %q", h.engine.Calls)
	}
}

func TestHandleEvent_IgnoredWhenExiting(t *testing.T) {
	h := newHarness(t, "AB", "")
	h.pad.Quit()

	h.pad.HandleEvent(app.EventRelease)
	h.pad.HandleEvent(app.EventChild)

	if h.pad.Hidden || h.console.Releases != 0 || h.console.Reaps != 0 {
		t.Error("event handled after exit")
	}
}

func TestHandleEvent_RepeatedRelease(t *testing.T) {
	h := newHarness(t, "AB", "A")
	h.engine.OpenSlot(0)

	h.pad.HandleEvent(app.EventRelease)
	h.pad.HandleEvent(app.EventRelease)

	if !h.pad.Hidden || h.console.Releases != 2 {
		t.Errorf("hidden = %v releases = %d, want true and 2", h.pad.Hidden, h.console.Releases)
	}
	want := []testutil.Activation{{Slot: 0, Mode: app.RenderHidden}, {Slot: 0, Mode: app.RenderHidden}}
	if !slices.Equal(h.engine.Activations, want) {
		t.Errorf("activations = %+v, want %+v", h.engine.Activations, want)
	}
}

func TestEvent_String(t *testing.T) {
	tests := map[app.Event]string{
		app.EventRelease: "release",
		app.EventAcquire: "acquire",
		app.EventChild:   "child",
		app.Event(99):    "unknown",
	}
	for ev, want := range tests {
		if got := ev.String(); got != want {
			t.Errorf("Event(%d).String() = %q, want %q", int(ev), got, want)
		}
	}
}
