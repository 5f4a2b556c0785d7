// Package config provides configuration constants, the escape-command table,
// and user settings.
package config

import "time"

// =============================================================================
// Tags
// =============================================================================

const (
	// DefaultTags holds one label per tag; each tag owns two slots
	DefaultTags = "xnlhtr01uiva-"

	// DefaultSavedTags lists the tags that use the snapshot cache
	DefaultSavedTags = ""

	// MaxTags bounds the number of tags (and so the slot arena)
	MaxTags = 32
)

// =============================================================================
// Input
// =============================================================================

const (
	// DefaultEscapeKey is the key that enters escape-command mode
	DefaultEscapeKey = "esc"

	// PasscodeMax bounds the lock passcode buffer, terminator included
	PasscodeMax = 1024
)

// =============================================================================
// History and Backlog
// =============================================================================

const (
	// DefaultHistory is the maximum history offset in lines
	DefaultHistory = 512

	// MinHistory is the smallest accepted history setting
	MinHistory = 16

	// MaxHistory is the largest accepted history setting
	MaxHistory = 100000

	// BacklogBytesPerLine sizes a slot's raw backlog relative to its history
	BacklogBytesPerLine = 256
)

// =============================================================================
// Event Loop
// =============================================================================

const (
	// PollTimeout bounds one wait so the exit flag is rechecked regularly
	PollTimeout = time.Second

	// SignalQueueSize is the capacity of the signal event queue
	SignalQueueSize = 32

	// ReadChunk is the largest read from a slot stream per readiness event
	ReadChunk = 4096
)

// =============================================================================
// Tag Indicator
// =============================================================================

const (
	// IndicatorFg is the palette index of the legend text
	IndicatorFg = 7

	// IndicatorBg is the palette index of the legend background
	IndicatorBg = 0

	// IndicatorHighlight is the background of snapshot-eligible labels
	IndicatorHighlight = 15
)

// IndicatorColors maps the number of open banks of a tag to a palette index.
var IndicatorColors = [3]int{15, 4, 2}

// =============================================================================
// Files
// =============================================================================

const (
	// ConfigFile is the config path relative to the XDG config home
	ConfigFile = "fbpad/config.toml"

	// LogFile is the log path relative to the XDG state home
	LogFile = "fbpad/fbpad.log"

	// ScreenshotDir is the screenshot directory relative to the XDG data home
	ScreenshotDir = "fbpad/screenshots"

	// ThemesDir is the custom theme directory relative to the XDG config home
	ThemesDir = "fbpad/themes"
)

// DefaultLogLevel is used when neither the file nor a flag sets one.
const DefaultLogLevel = "warn"
