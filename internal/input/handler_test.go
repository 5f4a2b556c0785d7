package input_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/zhyh329/fbpad/internal/app"
	"github.com/zhyh329/fbpad/internal/config"
	"github.com/zhyh329/fbpad/internal/input"
	"github.com/zhyh329/fbpad/internal/slots"
	"github.com/zhyh329/fbpad/internal/testutil"
)

const esc = "\x1b"

func newPad(t *testing.T, labels string) (*app.Pad, *testutil.FakeEngine, *testutil.FakeConsole) {
	t.Helper()
	table, err := slots.NewTable(labels, "")
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	commands, err := config.NewCommandTable(config.DefaultConfig())
	if err != nil {
		t.Fatalf("NewCommandTable: %v", err)
	}
	engine := testutil.NewFakeEngine(table.Tags())
	console := testutil.NewFakeConsole("")
	pad := app.New(app.Options{
		Table:    table,
		Engine:   engine,
		Console:  console,
		Commands: commands,
		Programs: config.ProgramsConfig{
			Shell:  []string{"sh"},
			Mail:   []string{"mutt"},
			Editor: []string{"vi"},
		},
		Passcode:   "secret",
		MaxHistory: 100,
	})
	return pad, engine, console
}

// feed runs the dispatcher until the typed input is consumed.
func feed(pad *app.Pad, console *testutil.FakeConsole, s string) {
	console.Type(s)
	for len(console.Input) > 0 {
		input.HandleInput(pad)
	}
}

func TestHandleInput_Passthrough(t *testing.T) {
	pad, engine, console := newPad(t, "AB")
	engine.OpenSlot(0)
	pad.HistPos = 5

	feed(pad, console, "ls\r")

	if got := string(engine.Sent[0]); got != "ls\r" {
		t.Errorf("sent %q, want %q", got, "ls\r")
	}
	if pad.HistPos != 0 {
		t.Errorf("HistPos = %d, want 0", pad.HistPos)
	}
}

func TestHandleInput_PassthroughEmptySlot(t *testing.T) {
	pad, engine, console := newPad(t, "AB")
	pad.HistPos = 5

	feed(pad, console, "q")

	if len(engine.Calls) != 0 {
		t.Errorf("calls = %q, want none", engine.Calls)
	}
	if pad.HistPos != 0 {
		t.Errorf("HistPos = %d, want 0", pad.HistPos)
	}
}

func TestHandleInput_NoByte(t *testing.T) {
	pad, engine, _ := newPad(t, "AB")
	engine.OpenSlot(0)
	pad.HistPos = 5

	input.HandleInput(pad)

	if len(engine.Calls) != 0 || pad.HistPos != 5 {
		t.Errorf("empty read changed state: calls %q HistPos %d", engine.Calls, pad.HistPos)
	}
}

// An escape followed by a byte that names no command forwards the escape
// byte and then the byte itself. Other readings of this case are possible;
// this pins the chosen one.
func TestHandleInput_UnrecognizedEscape(t *testing.T) {
	tests := []struct {
		name  string
		typed string
		open  bool
		want  string
	}{
		{"unbound sequel", esc + "z", true, esc + "z"},
		{"double escape", esc + esc, true, esc + esc},
		{"escape then arrow key", esc + "[A", true, esc + "[A"},
		{"escape with nothing after", esc, true, esc},
		{"empty slot", esc + "z", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pad, engine, console := newPad(t, "AB")
			if tt.open {
				engine.OpenSlot(0)
			}
			pad.HistPos = 3

			feed(pad, console, tt.typed)

			if got := string(engine.Sent[0]); got != tt.want {
				t.Errorf("sent %q, want %q", got, tt.want)
			}
			if pad.HistPos != 0 {
				t.Errorf("HistPos = %d, want 0", pad.HistPos)
			}
			if pad.Live() != 0 || pad.Exiting() {
				t.Error("unrecognized escape changed session state")
			}
		})
	}
}

func TestHandleInput_Commands(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		check func(t *testing.T, pad *app.Pad, engine *testutil.FakeEngine)
	}{
		{"shell", "c", func(t *testing.T, pad *app.Pad, engine *testutil.FakeEngine) {
			if !slices.Equal(engine.Spawned[0], []string{"sh"}) {
				t.Errorf("spawned %v", engine.Spawned)
			}
		}},
		{"mail", "m", func(t *testing.T, pad *app.Pad, engine *testutil.FakeEngine) {
			if !slices.Equal(engine.Spawned[0], []string{"mutt"}) {
				t.Errorf("spawned %v", engine.Spawned)
			}
		}},
		{"editor", "e", func(t *testing.T, pad *app.Pad, engine *testutil.FakeEngine) {
			if !slices.Equal(engine.Spawned[0], []string{"vi"}) {
				t.Errorf("spawned %v", engine.Spawned)
			}
		}},
		{"alternate j", "j", func(t *testing.T, pad *app.Pad, engine *testutil.FakeEngine) {
			if pad.Live() != 2 {
				t.Errorf("live = %d, want 2", pad.Live())
			}
		}},
		{"alternate k", "k", func(t *testing.T, pad *app.Pad, engine *testutil.FakeEngine) {
			if pad.Live() != 2 {
				t.Errorf("live = %d, want 2", pad.Live())
			}
		}},
		{"show tags", "p", func(t *testing.T, pad *app.Pad, engine *testutil.FakeEngine) {
			if len(engine.Overlays) != 1 {
				t.Errorf("overlays = %d, want 1", len(engine.Overlays))
			}
		}},
		{"quit", "\x11", func(t *testing.T, pad *app.Pad, engine *testutil.FakeEngine) {
			if !pad.Exiting() {
				t.Error("exit flag not set")
			}
		}},
		{"screenshot", "s", func(t *testing.T, pad *app.Pad, engine *testutil.FakeEngine) {
			if engine.Screenshots != 1 {
				t.Errorf("screenshots = %d, want 1", engine.Screenshots)
			}
		}},
		{"redraw", "y", func(t *testing.T, pad *app.Pad, engine *testutil.FakeEngine) {
			last, _ := engine.LastActivation()
			if last != (testutil.Activation{Slot: 0, Mode: app.RenderLive}) {
				t.Errorf("activation = %+v", last)
			}
		}},
		{"lock", "\x0c", func(t *testing.T, pad *app.Pad, engine *testutil.FakeEngine) {
			if !pad.LockActive() {
				t.Error("lock not active")
			}
		}},
		{"tag label", "B", func(t *testing.T, pad *app.Pad, engine *testutil.FakeEngine) {
			if pad.Cursor.Tag != 1 {
				t.Errorf("tag = %d, want 1", pad.Cursor.Tag)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pad, engine, console := newPad(t, "AB")
			feed(pad, console, esc+tt.key)
			tt.check(t, pad, engine)
			if len(engine.Sent) != 0 {
				t.Errorf("command bytes forwarded: %v", engine.Sent)
			}
		})
	}
}

func TestHandleInput_NextOpen(t *testing.T) {
	pad, engine, console := newPad(t, "ABC")
	engine.OpenSlot(4)

	feed(pad, console, esc+"\t")

	if pad.Live() != 4 {
		t.Errorf("live = %d, want 4", pad.Live())
	}
}

func TestHandleInput_LastTag(t *testing.T) {
	pad, _, console := newPad(t, "ABC")

	feed(pad, console, esc+"C"+esc+"o")
	if pad.Cursor.Tag != 0 {
		t.Errorf("tag = %d, want 0", pad.Cursor.Tag)
	}
	feed(pad, console, esc+"o")
	if pad.Cursor.Tag != 2 {
		t.Errorf("tag = %d, want 2", pad.Cursor.Tag)
	}
}

func TestHandleInput_ShellOnlyIntoEmptySlot(t *testing.T) {
	pad, engine, console := newPad(t, "AB")
	engine.OpenSlot(0)

	feed(pad, console, esc+"c")

	if len(engine.Spawned) != 0 {
		t.Errorf("spawned into a running slot: %v", engine.Spawned)
	}
}

func TestHandleInput_ScreenshotFailure(t *testing.T) {
	pad, engine, console := newPad(t, "AB")
	engine.ShotErr = errors.New("read-only file system")

	feed(pad, console, esc+"s")

	if pad.Exiting() {
		t.Error("screenshot failure ended the session")
	}
}

func TestHandleInput_Locked(t *testing.T) {
	pad, engine, console := newPad(t, "AB")
	engine.OpenSlot(0)
	feed(pad, console, esc+"\x0c")

	feed(pad, console, "nope\r")
	if !pad.Locked {
		t.Fatal("wrong passcode unlocked")
	}
	if len(pad.Pass) != 0 {
		t.Errorf("buffer = %q after mismatch", pad.Pass)
	}

	// Escape commands and tags are plain passcode input while locked.
	feed(pad, console, esc+"B"+esc+"\x11")
	if pad.Cursor.Tag != 0 || pad.Exiting() {
		t.Error("command ran while locked")
	}
	feed(pad, console, "\r")

	feed(pad, console, "secret\r")
	if pad.Locked {
		t.Error("correct passcode did not unlock")
	}
	if len(engine.Sent) != 0 {
		t.Errorf("locked input forwarded: %q", engine.Sent[0])
	}

	feed(pad, console, "x")
	if got := string(engine.Sent[0]); got != "x" {
		t.Errorf("sent %q after unlock, want %q", got, "x")
	}
}

func TestHandleInput_LockWithoutPasscode(t *testing.T) {
	pad, engine, console := newPad(t, "AB")
	pad.Passcode = ""
	engine.OpenSlot(0)

	feed(pad, console, esc+"\x0c"+"hi")

	if got := string(engine.Sent[0]); got != "hi" {
		t.Errorf("sent %q, want %q", got, "hi")
	}
}

func TestHandleInput_ScrollHistory(t *testing.T) {
	pad, engine, console := newPad(t, "AB")
	engine.OpenSlot(0)
	engine.RowsN = 24

	feed(pad, console, esc+",")
	if pad.HistPos != 12 {
		t.Fatalf("HistPos = %d, want 12", pad.HistPos)
	}

	for range 20 {
		feed(pad, console, esc+",")
	}
	if pad.HistPos != 100 {
		t.Errorf("HistPos = %d, want clamp at 100", pad.HistPos)
	}

	for range 20 {
		feed(pad, console, esc+".")
	}
	if pad.HistPos != 0 {
		t.Errorf("HistPos = %d, want clamp at 0", pad.HistPos)
	}

	for _, off := range engine.Scrolls {
		if off < 0 || off > 100 {
			t.Errorf("scroll offset %d out of range", off)
		}
	}
	if got := engine.Scrolls[:2]; !slices.Equal(got, []int{12, 24}) {
		t.Errorf("first scrolls = %v, want [12 24]", got)
	}
}

func TestHandleInput_ShowResetsHistory(t *testing.T) {
	pad, _, console := newPad(t, "AB")

	feed(pad, console, esc+","+esc+",")
	if pad.HistPos == 0 {
		t.Fatal("scroll did not move history")
	}
	feed(pad, console, esc+"B")
	if pad.HistPos != 0 {
		t.Errorf("HistPos = %d after showing another tag, want 0", pad.HistPos)
	}
}
