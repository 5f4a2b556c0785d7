package testutil

import (
	"fmt"

	"github.com/zhyh329/fbpad/internal/app"
)

// FakeFdBase is added to a slot index to form its fake descriptor.
const FakeFdBase = 100

// Activation is one recorded Activate call.
type Activation struct {
	Slot int
	Mode app.RenderMode
}

// FakeEngine records every engine call. Slots open through Spawn or
// OpenSlot; the snapshot cache is keyed by slot modulo Tags.
type FakeEngine struct {
	Tags  int
	RowsN int

	// NoCache makes every SnapshotLoad fail.
	NoCache bool
	// SpawnErr is returned by Spawn when set.
	SpawnErr error
	// ReadErr is returned by ReadAvailable for a slot when set.
	ReadErr map[int]error
	// ShotErr is returned by Screenshot when set.
	ShotErr error

	Active int
	Mode   app.RenderMode

	Calls       []string
	Activations []Activation
	Persisted   []int
	Saved       []int
	Loaded      []int
	Reads       []int
	Teardowns   []int
	Spawned     map[int][]string
	Sent        map[int][]byte
	Scrolls     []int
	Overlays    []string
	Screenshots int

	open     map[int]bool
	snapshot map[int]bool
}

var _ app.Engine = (*FakeEngine)(nil)

// NewFakeEngine returns an engine for tags tags with every slot closed.
func NewFakeEngine(tags int) *FakeEngine {
	return &FakeEngine{
		Tags:     tags,
		RowsN:    24,
		Active:   -1,
		ReadErr:  make(map[int]error),
		Spawned:  make(map[int][]string),
		Sent:     make(map[int][]byte),
		open:     make(map[int]bool),
		snapshot: make(map[int]bool),
	}
}

func (f *FakeEngine) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

// OpenSlot marks slot open without recording a spawn.
func (f *FakeEngine) OpenSlot(slot int) { f.open[slot] = true }

// HasSnapshot reports whether slot's tag has a cached snapshot.
func (f *FakeEngine) HasSnapshot(slot int) bool { return f.snapshot[slot%f.Tags] }

// Reset forgets recorded calls but keeps slot and cache state.
func (f *FakeEngine) Reset() {
	f.Calls = nil
	f.Activations = nil
	f.Persisted = nil
	f.Saved = nil
	f.Loaded = nil
	f.Reads = nil
	f.Teardowns = nil
	f.Scrolls = nil
	f.Overlays = nil
}

// LastActivation returns the most recent Activate call.
func (f *FakeEngine) LastActivation() (Activation, bool) {
	if len(f.Activations) == 0 {
		return Activation{}, false
	}
	return f.Activations[len(f.Activations)-1], true
}

func (f *FakeEngine) Activate(slot int, mode app.RenderMode) {
	f.record("activate %d %s", slot, mode)
	f.Active, f.Mode = slot, mode
	f.Activations = append(f.Activations, Activation{Slot: slot, Mode: mode})
}

func (f *FakeEngine) Persist(slot int) {
	f.record("persist %d", slot)
	f.Persisted = append(f.Persisted, slot)
}

func (f *FakeEngine) SnapshotSave(slot int) {
	f.record("save %d", slot)
	f.Saved = append(f.Saved, slot)
	f.snapshot[slot%f.Tags] = true
}

func (f *FakeEngine) SnapshotLoad(slot int) bool {
	f.record("load %d", slot)
	f.Loaded = append(f.Loaded, slot)
	return !f.NoCache && f.snapshot[slot%f.Tags]
}

func (f *FakeEngine) ReadAvailable(slot int) error {
	f.record("read %d", slot)
	f.Reads = append(f.Reads, slot)
	return f.ReadErr[slot]
}

func (f *FakeEngine) Send(slot int, b ...byte) error {
	f.record("send %d %q", slot, b)
	f.Sent[slot] = append(f.Sent[slot], b...)
	return nil
}

func (f *FakeEngine) Spawn(slot int, argv []string) error {
	f.record("spawn %d %v", slot, argv)
	if f.SpawnErr != nil {
		return f.SpawnErr
	}
	f.open[slot] = true
	f.Spawned[slot] = argv
	return nil
}

func (f *FakeEngine) Teardown(slot int) {
	f.record("teardown %d", slot)
	f.Teardowns = append(f.Teardowns, slot)
	delete(f.open, slot)
	delete(f.snapshot, slot%f.Tags)
}

func (f *FakeEngine) ScrollHistory(slot int, offset int) {
	f.record("scroll %d %d", slot, offset)
	f.Scrolls = append(f.Scrolls, offset)
}

func (f *FakeEngine) Screenshot() (string, error) {
	f.record("screenshot")
	if f.ShotErr != nil {
		return "", f.ShotErr
	}
	f.Screenshots++
	return fmt.Sprintf("/tmp/fbpad-shot-%d.txt", f.Screenshots), nil
}

func (f *FakeEngine) Overlay(line string) {
	f.record("overlay")
	f.Overlays = append(f.Overlays, line)
}

func (f *FakeEngine) Open(slot int) bool { return f.open[slot] }

func (f *FakeEngine) Fd(slot int) int {
	if f.open[slot] {
		return FakeFdBase + slot
	}
	return -1
}

func (f *FakeEngine) Rows() int { return f.RowsN }
