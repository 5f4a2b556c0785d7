package terminal

// snapshot is a rendered screen cached for one tag.
type snapshot struct {
	slot   int
	gen    uint64
	screen []byte
}

// SnapshotCache holds at most one rendered screen per tag. Lookups fail
// whenever the entry belongs to another bank or its slot has written output
// since it was saved; callers then redraw from the backlog.
type SnapshotCache struct {
	entries map[int]snapshot
}

// NewSnapshotCache returns an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{entries: make(map[int]snapshot)}
}

// Save stores screen as tag's snapshot of slot at generation gen.
func (c *SnapshotCache) Save(tag, slot int, gen uint64, screen []byte) {
	c.entries[tag] = snapshot{slot: slot, gen: gen, screen: screen}
}

// Load returns tag's snapshot if it still matches slot at gen.
func (c *SnapshotCache) Load(tag, slot int, gen uint64) ([]byte, bool) {
	s, ok := c.entries[tag]
	if !ok || s.slot != slot || s.gen != gen {
		return nil, false
	}
	return s.screen, true
}

// Drop forgets tag's snapshot if it was taken from slot.
func (c *SnapshotCache) Drop(tag, slot int) {
	if s, ok := c.entries[tag]; ok && s.slot == slot {
		delete(c.entries, tag)
	}
}

// Len returns the number of cached snapshots.
func (c *SnapshotCache) Len() int { return len(c.entries) }
