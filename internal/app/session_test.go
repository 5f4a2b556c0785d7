package app_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/zhyh329/fbpad/internal/app"
	"github.com/zhyh329/fbpad/internal/testutil"
)

func TestRun_Interactive(t *testing.T) {
	h := newHarness(t, "AB", "")
	h.console.Script = []map[int]app.Ready{{}, {}}

	if err := h.pad.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if h.pad.OneShot {
		t.Error("interactive run marked one-shot")
	}
	if first := h.engine.Activations[0]; first != (testutil.Activation{Slot: 0, Mode: app.RenderLive}) {
		t.Errorf("first activation = %+v, want slot 0 redraw-live", first)
	}
	// Two idle waits, then the exhausted script hangs up the console.
	if h.console.Waits != 3 {
		t.Errorf("waits = %d, want 3", h.console.Waits)
	}
	if h.console.Raw != 1 || h.console.Restored != 1 {
		t.Errorf("raw = %d restored = %d, want 1 and 1", h.console.Raw, h.console.Restored)
	}
}

func TestRun_OneShot(t *testing.T) {
	h := newHarness(t, "AB", "")
	h.console.Script = []map[int]app.Ready{
		{fd(0): app.ReadyIn},
		{fd(0): app.ReadyHup},
		{},
	}

	if err := h.pad.Run(context.Background(), []string{"make", "test"}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !h.pad.OneShot {
		t.Error("OneShot not set")
	}
	if got := h.engine.Spawned[0]; !slices.Equal(got, []string{"make", "test"}) {
		t.Errorf("spawned %v, want [make test]", got)
	}
	if !h.pad.Exiting() {
		t.Error("exit flag not set after the program ended")
	}
	if h.console.Waits != 2 {
		t.Errorf("waits = %d, want 2", h.console.Waits)
	}
	if h.console.Restored != 1 {
		t.Errorf("restored = %d, want 1", h.console.Restored)
	}
}

func TestRun_OneShotSpawnFailure(t *testing.T) {
	h := newHarness(t, "AB", "")
	h.engine.SpawnErr = errors.New("not found")

	if err := h.pad.Run(context.Background(), []string{"missing"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.console.Waits != 0 {
		t.Errorf("waits = %d, want 0", h.console.Waits)
	}
	if h.console.Restored != 1 {
		t.Errorf("restored = %d, want 1", h.console.Restored)
	}
}

func TestRun_QuitStopsLoop(t *testing.T) {
	h := newHarness(t, "AB", "")
	h.console.Script = []map[int]app.Ready{{}, {}, {}, {}}
	h.console.OnWait = func(n int) {
		if n == 2 {
			h.pad.Quit()
		}
	}

	if err := h.pad.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.console.Waits != 2 {
		t.Errorf("waits = %d, want 2", h.console.Waits)
	}
}

func TestRun_Cancelled(t *testing.T) {
	h := newHarness(t, "AB", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.pad.Run(ctx, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.console.Waits != 0 {
		t.Errorf("waits = %d, want 0", h.console.Waits)
	}
	if h.console.Restored != 1 {
		t.Errorf("restored = %d, want 1", h.console.Restored)
	}
}

func TestRun_RawModeFailure(t *testing.T) {
	h := newHarness(t, "AB", "")
	h.console.RawErr = errors.New("not a terminal")

	if err := h.pad.Run(context.Background(), nil); err == nil {
		t.Fatal("Run succeeded without raw mode")
	}
	if len(h.engine.Calls) != 0 || h.console.Waits != 0 {
		t.Error("session started without raw mode")
	}
}
