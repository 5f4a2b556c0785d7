// Package terminal runs the programs behind each slot and draws the live
// slot on the display. Output is passed through unchanged; every slot
// keeps a bounded backlog used for redraws, history and screenshots.
package terminal

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhyh329/fbpad/internal/app"
	"github.com/zhyh329/fbpad/internal/config"
	"github.com/zhyh329/fbpad/internal/slots"
)

var (
	// ErrSlotOpen is returned when spawning into a slot that has a session.
	ErrSlotOpen = errors.New("slot already has a session")
	// ErrSlotClosed is returned when using a slot that has no session.
	ErrSlotClosed = errors.New("slot has no session")
)

// Options configures an Engine.
type Options struct {
	Table   *slots.Table
	Display io.Writer
	Rows    int
	Cols    int
	// History is the number of lines kept beyond one screen.
	History       int
	ScreenshotDir string
	Spawn         Spawner
	Logger        *log.Logger
}

type slot struct {
	session *Session
	backlog *Backlog
}

// Engine implements app.Engine.
type Engine struct {
	table   *slots.Table
	out     *bufio.Writer
	rows    int
	cols    int
	spawn   Spawner
	logger  *log.Logger
	shotDir string

	slots  []slot
	snaps  *SnapshotCache
	active int
	mode   app.RenderMode
	buf    []byte

	// offset lines of history are shown for slot viewing; zero is the live
	// bottom.
	offset  int
	viewing int
}

var _ app.Engine = (*Engine)(nil)

// NewEngine creates an engine with every slot closed and nothing active.
func NewEngine(opts Options) *Engine {
	rows, cols := opts.Rows, opts.Cols
	if rows <= 0 {
		rows = 25
	}
	if cols <= 0 {
		cols = 80
	}
	history := opts.History
	if history <= 0 {
		history = config.DefaultHistory
	}
	spawn := opts.Spawn
	if spawn == nil {
		spawn = SpawnPTY
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	maxLines := history + rows
	e := &Engine{
		table:   opts.Table,
		out:     bufio.NewWriter(opts.Display),
		rows:    rows,
		cols:    cols,
		spawn:   spawn,
		logger:  logger,
		shotDir: opts.ScreenshotDir,
		slots:   make([]slot, opts.Table.Count()),
		snaps:   NewSnapshotCache(),
		mode:    app.RenderHidden,
		buf:     make([]byte, config.ReadChunk),
	}
	for i := range e.slots {
		e.slots[i].backlog = NewBacklog(maxLines, maxLines*config.BacklogBytesPerLine)
	}
	return e
}

func (e *Engine) drawing(i int) bool {
	return i == e.active && e.mode != app.RenderHidden
}

func (e *Engine) scrolled(i int) bool {
	return e.offset > 0 && e.viewing == i
}

func (e *Engine) flush() {
	if err := e.out.Flush(); err != nil {
		e.logger.Debug("display write failed", "err", err)
	}
}

// screen renders slot i's bottom screen from its backlog.
func (e *Engine) screen(i int) []byte {
	body := renderRaw(e.slots[i].backlog.Tail(e.rows))
	out := make([]byte, 0, len(body)+len(ansi.EraseEntireScreen)+len(ansi.CursorHomePosition))
	out = append(out, ansi.EraseEntireScreen...)
	out = append(out, ansi.CursorHomePosition...)
	return append(out, body...)
}

func (e *Engine) repaint(i int) {
	_, _ = e.out.Write(e.screen(i))
	e.offset = 0
	e.flush()
}

// Activate makes slot i active and draws it according to mode.
func (e *Engine) Activate(i int, mode app.RenderMode) {
	e.active = i
	e.mode = mode
	if mode == app.RenderLive {
		e.repaint(i)
	}
}

// Persist pushes out everything drawn for slot i so the display is
// consistent before another slot takes over.
func (e *Engine) Persist(i int) {
	if i == e.active {
		e.flush()
	}
}

// SnapshotSave caches slot i's screen under its tag.
func (e *Engine) SnapshotSave(i int) {
	s := &e.slots[i]
	if s.session == nil {
		return
	}
	e.snaps.Save(e.table.Tag(i), i, s.backlog.Gen(), e.screen(i))
	e.logger.Debug("snapshot saved", "slot", i)
}

// SnapshotLoad draws slot i's cached screen. It fails when the cache has
// nothing current for the slot.
func (e *Engine) SnapshotLoad(i int) bool {
	screen, ok := e.snaps.Load(e.table.Tag(i), i, e.slots[i].backlog.Gen())
	if !ok {
		return false
	}
	_, _ = e.out.Write(screen)
	e.offset = 0
	e.flush()
	return true
}

// ReadAvailable reads one chunk of slot i's output. Output of the drawn
// slot goes straight to the display unless history is being shown.
func (e *Engine) ReadAvailable(i int) error {
	s := &e.slots[i]
	if s.session == nil {
		return ErrSlotClosed
	}
	n, err := s.session.Read(e.buf)
	if n > 0 {
		data := e.buf[:n]
		_, _ = s.backlog.Write(data)
		if e.drawing(i) && !e.scrolled(i) {
			_, _ = e.out.Write(data)
			e.flush()
		}
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return io.EOF
	}
	return nil
}

// Send writes input to slot i. Typing into the drawn slot leaves history.
func (e *Engine) Send(i int, b ...byte) error {
	s := &e.slots[i]
	if s.session == nil {
		return ErrSlotClosed
	}
	if e.drawing(i) && e.scrolled(i) {
		e.repaint(i)
	}
	_, err := s.session.Write(b)
	return err
}

// Spawn starts argv in slot i.
func (e *Engine) Spawn(i int, argv []string) error {
	s := &e.slots[i]
	if s.session != nil {
		return ErrSlotOpen
	}
	sess, err := e.spawn(argv, e.cols, e.rows)
	if err != nil {
		return err
	}
	s.session = sess
	s.backlog.Reset()
	if e.drawing(i) {
		e.repaint(i)
	}
	e.logger.Debug("session started", "slot", i, "pid", sess.Pid(), "name", sess.Name())
	return nil
}

// Teardown closes slot i's session and frees its backlog and snapshot.
func (e *Engine) Teardown(i int) {
	s := &e.slots[i]
	if s.session != nil {
		if err := s.session.Close(); err != nil {
			e.logger.Debug("session close failed", "slot", i, "err", err)
		}
		s.session = nil
	}
	s.backlog.Reset()
	e.snaps.Drop(e.table.Tag(i), i)
	if e.drawing(i) {
		e.repaint(i)
	}
}

// ScrollHistory shows slot i's backlog offset lines above the bottom.
func (e *Engine) ScrollHistory(i int, offset int) {
	if !e.drawing(i) {
		return
	}
	if offset <= 0 {
		e.repaint(i)
		return
	}
	e.offset = offset
	e.viewing = i
	lines := plainLines(e.slots[i].backlog.Window(offset, e.rows))
	_, _ = e.out.WriteString(ansi.EraseEntireScreen + ansi.CursorHomePosition)
	_, _ = e.out.WriteString(strings.Join(lines, "\r\n"))
	e.flush()
}

// Overlay writes line over the bottom row and puts the cursor back.
func (e *Engine) Overlay(line string) {
	if e.mode == app.RenderHidden {
		return
	}
	_, _ = e.out.WriteString(ansi.SaveCursor + ansi.CursorPosition(1, e.rows) + ansi.EraseEntireLine)
	_, _ = e.out.WriteString(ansi.Truncate(line, e.cols, ""))
	_, _ = e.out.WriteString(ansi.RestoreCursor)
	e.flush()
}

// Open reports whether slot i has a session.
func (e *Engine) Open(i int) bool { return e.slots[i].session != nil }

// Fd returns slot i's stream descriptor or -1.
func (e *Engine) Fd(i int) int {
	if s := e.slots[i].session; s != nil {
		return s.Fd()
	}
	return -1
}

// Rows returns the display height.
func (e *Engine) Rows() int { return e.rows }

// Active returns the active slot and its render mode.
func (e *Engine) Active() (int, app.RenderMode) { return e.active, e.mode }

// Close ends every session.
func (e *Engine) Close() {
	for i := range e.slots {
		if s := e.slots[i].session; s != nil {
			_ = s.Close()
			e.slots[i].session = nil
		}
	}
	e.flush()
}
