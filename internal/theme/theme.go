// Package theme resolves the 16-color console palette from a named theme.
package theme

import (
	"errors"
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

// ErrNotFound is returned by Initialize for an unregistered theme name.
var ErrNotFound = errors.New("theme not found")

var enabled bool

// Initialize sets up the theme registry and selects themeName.
// If themeName is empty, theming is disabled and the console keeps its own
// palette. An unknown name selects the default theme and returns an error
// wrapping ErrNotFound. Custom theme files that fail to load are reported in
// the returned error too; the selection still stands.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	var errs []error
	if themesDir, err := GetThemesDir(); err == nil {
		if _, err := LoadCustomThemes(themesDir); err != nil {
			errs = append(errs, fmt.Errorf("error loading custom themes: %w", err))
		}
	}

	if !tint.SetTintID(themeName) {
		tint.SetTintID("default")
		errs = append(errs, fmt.Errorf("%w: %q, using default", ErrNotFound, themeName))
	}
	return errors.Join(errs...)
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	return enabled
}

// Current returns the active theme, or nil when theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// Names returns the ids of every registered theme.
func Names() []string {
	tint.NewDefaultRegistry()
	if themesDir, err := GetThemesDir(); err == nil {
		_, _ = LoadCustomThemes(themesDir)
	}
	return tint.TintIDs()
}

var xtermPalette = [16]string{
	"#000000", "#cd0000", "#00cd00", "#cdcd00", "#0000ee", "#cd00cd", "#00cdcd", "#e5e5e5",
	"#7f7f7f", "#ff0000", "#00ff00", "#ffff00", "#5c5cff", "#ff00ff", "#00ffff", "#ffffff",
}

// Palette returns the 16 console colors of the current theme, or the xterm
// defaults when theming is disabled.
func Palette() [16]color.Color {
	var p [16]color.Color
	t := Current()
	if t == nil {
		for i, hex := range xtermPalette {
			p[i] = lipgloss.Color(hex)
		}
		return p
	}
	return [16]color.Color{
		t.Black, t.Red, t.Green, t.Yellow,
		t.Blue, t.Purple, t.Cyan, t.White,
		t.BrightBlack, t.BrightRed, t.BrightGreen, t.BrightYellow,
		t.BrightBlue, t.BrightPurple, t.BrightCyan, t.BrightWhite,
	}
}

// Hex converts a color to #rrggbb.
func Hex(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
