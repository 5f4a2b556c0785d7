package terminal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"

	"github.com/zhyh329/fbpad/internal/config"
)

// ScreenshotDir returns dir, or the default screenshot directory when dir
// is empty.
func ScreenshotDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	path, err := xdg.DataFile(filepath.Join(config.ScreenshotDir, ".keep"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve screenshot directory: %w", err)
	}
	return filepath.Dir(path), nil
}

// Screenshot writes the visible text of the active slot to a new file and
// returns its path.
func (e *Engine) Screenshot() (string, error) {
	dir, err := ScreenshotDir(e.shotDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	now := time.Now()
	name := fmt.Sprintf("fbpad-%s-%s.txt", now.Format("20060102-150405"), uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(e.screenText(now)), 0o600); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return path, nil
}

// screenText is the visible screen of the active slot as plain text, under
// a one-line header.
func (e *Engine) screenText(at time.Time) string {
	i := e.active
	s := e.slots[i]

	program := "-"
	if s.session != nil {
		program = s.session.Name()
	}
	offset := 0
	if e.scrolled(i) {
		offset = e.offset
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# fbpad %s tag=%c bank=%d program=%s offset=%d\n",
		at.Format(time.RFC3339), e.table.Label(e.table.Tag(i)), e.table.Bank(i), program, offset)
	for _, line := range plainLines(s.backlog.Window(offset, e.rows)) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
