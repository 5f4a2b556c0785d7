package terminal

import (
	"bytes"

	"github.com/charmbracelet/x/ansi"
)

// Backlog is a slot's bounded raw output history, split into lines. The
// last line is the one still being written. Every write bumps the
// generation so cached renders can tell they are stale.
//
// Lines live in a ring so that dropping the oldest one is O(1).
type Backlog struct {
	// ring holds the lines; its length is the line limit
	ring [][]byte
	// head is the index of the oldest line in ring
	head int
	// n is the number of lines in use, at least 1
	n        int
	size     int
	maxBytes int
	gen      uint64
}

// NewBacklog returns a backlog keeping at most maxLines lines and maxBytes
// bytes; the oldest lines are dropped first.
func NewBacklog(maxLines, maxBytes int) *Backlog {
	return &Backlog{
		ring:     make([][]byte, max(maxLines, 1)),
		n:        1,
		maxBytes: max(maxBytes, 1),
	}
}

func (b *Backlog) index(k int) int { return (b.head + k) % len(b.ring) }

// Write appends raw output.
func (b *Backlog) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		last := b.index(b.n - 1)
		if i < 0 {
			b.ring[last] = append(b.ring[last], p...)
			b.size += len(p)
			break
		}
		b.ring[last] = append(b.ring[last], p[:i]...)
		b.size += i
		b.newLine()
		p = p[i+1:]
	}
	b.trim()
	b.gen++
	return n, nil
}

// newLine starts an empty line, overwriting the oldest one when full.
func (b *Backlog) newLine() {
	if b.n == len(b.ring) {
		b.dropOldest()
	}
	next := b.index(b.n)
	b.ring[next] = b.ring[next][:0]
	b.n++
}

func (b *Backlog) dropOldest() {
	b.size -= len(b.ring[b.head])
	b.head = (b.head + 1) % len(b.ring)
	b.n--
}

func (b *Backlog) trim() {
	for b.n > 1 && b.size > b.maxBytes {
		b.dropOldest()
	}
	// A single line can still exceed the byte budget; keep its tail.
	if b.size > b.maxBytes {
		last := b.ring[b.head]
		cut := len(last) - b.maxBytes
		b.ring[b.head] = append(last[:0], last[cut:]...)
		b.size = b.maxBytes
	}
}

// Reset empties the backlog.
func (b *Backlog) Reset() {
	b.head = 0
	b.n = 1
	b.ring[0] = b.ring[0][:0]
	b.size = 0
	b.gen++
}

// Gen returns the write generation.
func (b *Backlog) Gen() uint64 { return b.gen }

// Len returns the number of lines, counting the unfinished one.
func (b *Backlog) Len() int { return b.n }

// Window returns up to n lines ending offset lines above the bottom. The
// lines share storage with the backlog and are valid until the next Write.
func (b *Backlog) Window(offset, n int) [][]byte {
	end := b.n - max(offset, 0)
	if end <= 0 || n <= 0 {
		return nil
	}
	start := max(end-n, 0)
	out := make([][]byte, 0, end-start)
	for k := start; k < end; k++ {
		out = append(out, b.ring[b.index(k)])
	}
	return out
}

// Tail returns the last n lines.
func (b *Backlog) Tail(n int) [][]byte { return b.Window(0, n) }

// renderRaw joins lines as they were written.
func renderRaw(lines [][]byte) []byte {
	var out bytes.Buffer
	for i, l := range lines {
		if i > 0 {
			out.WriteString("\r\n")
		}
		out.Write(bytes.TrimSuffix(l, []byte{'\r'}))
	}
	return out.Bytes()
}

// plainLines strips escape sequences and carriage returns from lines.
func plainLines(lines [][]byte) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = ansi.Strip(string(bytes.TrimRight(l, "\r")))
	}
	return out
}
