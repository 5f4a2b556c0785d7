package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"charm.land/lipgloss/v2"

	"github.com/zhyh329/fbpad/internal/config"
	"github.com/zhyh329/fbpad/internal/theme"
	"github.com/zhyh329/fbpad/pkg/fbpad"
)

// runSession runs the multiplexer. A failed setup is reported but is not a
// command failure: fbpad always exits cleanly once it got this far.
func runSession(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	err := fbpad.Run(ctx, args,
		fbpad.WithConfigPath(configPath),
		fbpad.WithOverrides(overrides),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fbpad: %v\n", err)
	}
	return nil
}

func printConfigPath(w io.Writer) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	_, err = fmt.Fprintln(w, path)
	return err
}

func findEditor() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	for _, editor := range []string{"vim", "vi", "nano"} {
		if _, err := exec.LookPath(editor); err == nil {
			return editor
		}
	}
	return ""
}

func editConfigFile() error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.WriteConfig(path, config.DefaultConfig()); err != nil {
			return err
		}
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found, set $EDITOR")
	}
	fields := strings.Fields(editor)

	// #nosec G204 - the editor is the user's own choice
	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor exited: %w", err)
	}

	// Report problems now rather than on the next start.
	if _, err := config.LoadUserConfig(path); err != nil {
		return err
	}
	return nil
}

func resetConfigToDefaults(in io.Reader, out io.Writer, yes bool) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if !yes {
		fmt.Fprintf(out, "Overwrite %s with defaults? [y/N] ", path)
		answer, _ := bufio.NewReader(in).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if err := config.WriteConfig(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(out, "Configuration reset: %s\n", path)
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderKeybindings lays out the escape command table in two columns.
func renderKeybindings(bindings []config.Keybinding) string {
	width := len("Key")
	for _, kb := range bindings {
		width = max(width, lipgloss.Width(kb.Key))
	}
	col := lipgloss.NewStyle().Width(width + 3)

	var b strings.Builder
	b.WriteString(col.Render(headerStyle.Render("Key")) + headerStyle.Render("Action") + "\n")
	for _, kb := range bindings {
		b.WriteString(col.Render(keyStyle.Render(kb.Key)) + kb.Description + "\n")
	}
	return b.String()
}

func listKeybindings(w io.Writer) error {
	cfg, err := config.LoadUserConfig(configPath)
	if err != nil {
		fmt.Fprintln(w, dimStyle.Render("Config could not be loaded, showing defaults: "+err.Error()))
		cfg = config.DefaultConfig()
	}
	ct, err := config.NewCommandTable(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, renderKeybindings(config.GetKeybindings(ct, cfg.Tags.Labels)))
	return err
}

func listThemes(w io.Writer) error {
	for _, name := range theme.Names() {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

// renderPalette draws one swatch per palette entry, normal colors on the
// first row and bright ones on the second.
func renderPalette(name string) string {
	palette := theme.Palette()
	var b strings.Builder
	b.WriteString(headerStyle.Render(name) + "\n")
	for row := range 2 {
		for i := range 8 {
			c := palette[row*8+i]
			swatch := lipgloss.NewStyle().Background(c).Render("    ")
			b.WriteString(swatch + " " + dimStyle.Render(fmt.Sprintf("%-8s", theme.Hex(c))))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func previewThemeColors(w io.Writer, name string) error {
	if err := theme.Initialize(name); errors.Is(err, theme.ErrNotFound) {
		return fmt.Errorf("failed to load theme %q: %w", name, err)
	}
	_, err := fmt.Fprint(w, renderPalette(name))
	return err
}
