// Package slots implements the fixed terminal slot arena: tag identities,
// bank/tag addressing and the display cursor that selects the live slot.
package slots

import (
	"fmt"
	"strings"
)

// Banks is the number of slots sharing one tag.
const Banks = 2

// Table is the static registry of tags. A Table with T tags addresses 2*T
// slots; slot i belongs to tag i%T and bank i/T.
type Table struct {
	labels string
	saved  string
}

// NewTable builds a table from a label string (one byte per tag) and the
// subset of labels whose tags use the snapshot cache.
func NewTable(labels, saved string) (*Table, error) {
	if labels == "" {
		return nil, fmt.Errorf("no tags configured")
	}
	for i := 0; i < len(labels); i++ {
		if strings.IndexByte(labels[i+1:], labels[i]) >= 0 {
			return nil, fmt.Errorf("duplicate tag label %q", labels[i])
		}
	}
	for i := 0; i < len(saved); i++ {
		if strings.IndexByte(labels, saved[i]) < 0 {
			return nil, fmt.Errorf("saved tag %q is not a tag label", saved[i])
		}
	}
	return &Table{labels: labels, saved: saved}, nil
}

// Tags returns T.
func (t *Table) Tags() int { return len(t.labels) }

// Count returns the number of slots, 2*T.
func (t *Table) Count() int { return Banks * len(t.labels) }

// Index returns the slot index of (bank, tag).
func (t *Table) Index(bank, tag int) int { return bank*t.Tags() + tag }

// Tag returns the tag of slot i.
func (t *Table) Tag(i int) int { return i % t.Tags() }

// Bank returns the bank of slot i.
func (t *Table) Bank(i int) int { return i / t.Tags() }

// Alternate returns the slot in the other bank of the same tag.
func (t *Table) Alternate(i int) int {
	return t.Index(t.Bank(i)^1, t.Tag(i))
}

// Label returns the display label of a tag.
func (t *Table) Label(tag int) byte { return t.labels[tag] }

// Labels returns every tag label in tag order.
func (t *Table) Labels() string { return t.labels }

// Lookup returns the tag whose label is c.
func (t *Table) Lookup(c byte) (int, bool) {
	i := strings.IndexByte(t.labels, c)
	return i, i >= 0
}

// Saved reports whether slot i's tag is snapshot-eligible.
func (t *Table) Saved(i int) bool {
	return strings.IndexByte(t.saved, t.labels[t.Tag(i)]) >= 0
}

// Cursor is the display cursor: the current tag, the last different tag and
// the front bank of every tag. Only the switch controller writes it.
type Cursor struct {
	table *Table
	Tag   int
	Last  int
	top   []int
}

// NewCursor returns a cursor at tag 0, bank 0 of every tag.
func NewCursor(t *Table) *Cursor {
	return &Cursor{table: t, top: make([]int, t.Tags())}
}

// Top returns the front bank of a tag.
func (c *Cursor) Top(tag int) int { return c.top[tag] }

// Live returns the live slot index, top[Tag]*T + Tag.
func (c *Cursor) Live() int {
	return c.table.Index(c.top[c.Tag], c.Tag)
}

// Front returns the slot shown when tag is selected.
func (c *Cursor) Front(tag int) int {
	return c.table.Index(c.top[tag], tag)
}

// MoveTo makes slot i the live slot. Last is updated only when the tag
// changes.
func (c *Cursor) MoveTo(i int) {
	tag := c.table.Tag(i)
	if tag != c.Tag {
		c.Last = c.Tag
	}
	c.Tag = tag
	c.top[tag] = c.table.Bank(i)
}
