package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	tint "github.com/lrstanley/bubbletint/v2"
)

// GetThemesDir returns the custom themes directory
// ($XDG_CONFIG_HOME/fbpad/themes), creating it if needed.
func GetThemesDir() (string, error) {
	keepFile, err := xdg.ConfigFile("fbpad/themes/.keep")
	if err != nil {
		return "", fmt.Errorf("failed to get themes directory: %w", err)
	}
	return filepath.Dir(keepFile), nil
}

// LoadCustomThemes registers every *.json theme in themesDir and returns
// their ids. Files that fail to load are skipped and reported together in
// the returned error; the ids that did load are returned either way.
func LoadCustomThemes(themesDir string) ([]string, error) {
	entries, err := os.ReadDir(themesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}

	var loaded []string
	var skipped []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		t, err := LoadCustomThemeFile(filepath.Join(themesDir, entry.Name()))
		if err != nil {
			skipped = append(skipped, fmt.Errorf("skipping custom theme %s: %w", entry.Name(), err))
			continue
		}
		tint.Register(t)
		loaded = append(loaded, t.ID)
	}
	return loaded, errors.Join(skipped...)
}

// LoadCustomThemeFile decodes one theme. The id defaults to the lowercased
// file name; missing colors are filled from the xterm palette.
func LoadCustomThemeFile(path string) (*tint.Tint, error) {
	// #nosec G304 - path is from the user's themes directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var t tint.Tint
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse theme JSON: %w", err)
	}

	if t.ID == "" {
		base := filepath.Base(path)
		t.ID = strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	}
	if t.ID == "" {
		return nil, fmt.Errorf("theme has no ID")
	}
	if t.DisplayName == "" {
		t.DisplayName = t.ID
	}

	fillDefaults(&t)
	return &t, nil
}

// fillDefaults sets nil colors. Normal colors come from the xterm palette,
// bright colors copy their normal counterpart, the cursor copies Fg.
func fillDefaults(t *tint.Tint) {
	if t.Fg == nil {
		t.Fg = tint.FromHex(xtermPalette[7])
	}
	if t.Bg == nil {
		t.Bg = tint.FromHex(xtermPalette[0])
	}
	if t.Cursor == nil {
		t.Cursor = copyColor(t.Fg)
	}

	normal := []**tint.Color{&t.Black, &t.Red, &t.Green, &t.Yellow, &t.Blue, &t.Purple, &t.Cyan, &t.White}
	bright := []**tint.Color{
		&t.BrightBlack, &t.BrightRed, &t.BrightGreen, &t.BrightYellow,
		&t.BrightBlue, &t.BrightPurple, &t.BrightCyan, &t.BrightWhite,
	}
	for i, c := range normal {
		if *c == nil {
			*c = tint.FromHex(xtermPalette[i])
		}
	}
	for i, c := range bright {
		if *c == nil {
			*c = copyColor(*normal[i])
		}
	}
}

func copyColor(c *tint.Color) *tint.Color {
	if c == nil {
		return nil
	}
	dup := *c
	return &dup
}
