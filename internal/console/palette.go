package console

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/zhyh329/fbpad/internal/theme"
)

// PaletteSequence returns the Linux console sequence loading the current
// theme's 16 colors, or resetting the palette when theming is off.
func PaletteSequence() string {
	if !theme.IsEnabled() {
		return ansi.ResetPalette
	}
	var b strings.Builder
	for i, c := range theme.Palette() {
		b.WriteString(ansi.SetPalette(i, c))
	}
	return b.String()
}
