// Package app holds the multiplexer session: the display cursor and the
// switch protocol, host signal handling, the event loop and the session
// driver.
package app

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/zhyh329/fbpad/internal/config"
	"github.com/zhyh329/fbpad/internal/slots"
)

// InputHandler processes controlling input once the console is readable.
// It lives in the input package; registering it here avoids an import cycle.
type InputHandler func(p *Pad)

var inputHandler InputHandler

// SetInputHandler registers the input handler function.
// This must be called before Run.
func SetInputHandler(handler InputHandler) {
	inputHandler = handler
}

// Pad is the state of one multiplexer session. Each mutable field has a
// single writer:
//   - Cursor: the switch controller (Switch, ShowTerm and friends)
//   - Hidden: the signal controller (HandleEvent)
//   - Locked, Pass, HistPos: the input dispatcher; Switch also resets HistPos
//   - OneShot and the exit flag: the session driver and the event loop
type Pad struct {
	Table    *slots.Table
	Cursor   *slots.Cursor
	Engine   Engine
	Console  Console
	Signals  SignalSource
	Commands *config.CommandTable
	Programs config.ProgramsConfig
	Passcode string

	// MaxHistory bounds HistPos.
	MaxHistory int

	Hidden  bool
	Locked  bool
	Pass    []byte
	HistPos int
	OneShot bool

	exit bool

	logger *log.Logger

	fds   []int
	ready []Ready
	owner []int
}

// Options configures a new Pad.
type Options struct {
	Table      *slots.Table
	Engine     Engine
	Console    Console
	Signals    SignalSource
	Commands   *config.CommandTable
	Programs   config.ProgramsConfig
	Passcode   string
	MaxHistory int
	Logger     *log.Logger
}

// New creates a session showing bank 0 of the first tag.
func New(opts Options) *Pad {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	maxHistory := opts.MaxHistory
	if maxHistory <= 0 {
		maxHistory = config.DefaultHistory
	}
	return &Pad{
		Table:      opts.Table,
		Cursor:     slots.NewCursor(opts.Table),
		Engine:     opts.Engine,
		Console:    opts.Console,
		Signals:    opts.Signals,
		Commands:   opts.Commands,
		Programs:   opts.Programs,
		Passcode:   opts.Passcode,
		MaxHistory: maxHistory,
		Pass:       make([]byte, 0, config.PasscodeMax),
		logger:     logger,
	}
}

// Quit sets the exit flag. It cannot be cleared.
func (p *Pad) Quit() { p.exit = true }

// Exiting reports whether the exit flag is set.
func (p *Pad) Exiting() bool { return p.exit }

// ReadByte reads one byte of controlling input; false means none was
// available.
func (p *Pad) ReadByte() (byte, bool) {
	return p.Console.ReadByte()
}

// LogDebug logs a debug message with key/value pairs.
func (p *Pad) LogDebug(msg string, keyvals ...any) { p.logger.Debug(msg, keyvals...) }

// LogInfo logs an informational message.
func (p *Pad) LogInfo(msg string, keyvals ...any) { p.logger.Info(msg, keyvals...) }

// LogWarn logs a warning message.
func (p *Pad) LogWarn(msg string, keyvals ...any) { p.logger.Warn(msg, keyvals...) }

// LogError logs an error message.
func (p *Pad) LogError(msg string, keyvals ...any) { p.logger.Error(msg, keyvals...) }
