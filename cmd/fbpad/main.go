// Package main implements fbpad, a terminal multiplexer for the Linux
// console. Each tag owns two slots; an escape key followed by a command
// byte switches between them, starts programs and locks the screen.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/zhyh329/fbpad/internal/config"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	configPath string
	overrides  config.Overrides
)

func main() {
	rootCmd := newRootCmd(runSession)
	rootCmd.SetArgs(normalizeArgs(rootCmd, os.Args[1:]))

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree; run receives the program arguments
// of the root command.
func newRootCmd(run func(context.Context, []string) error) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fbpad [flags] [program [args...]]",
		Short: "Terminal multiplexer for the Linux console",
		Long: `fbpad - a small terminal multiplexer for the Linux console

Every tag holds two slots. Press the escape key and then a tag label to
show that tag, or a command key to start a shell, switch banks, scroll
history or lock the screen. Run "fbpad keys" for the full table.

With a program argument fbpad runs just that program and exits when it
ends.`,
		Example: `  # Start an interactive session
  fbpad

  # Run one program and exit with it
  fbpad htop

  # Use a theme's colors for the console palette
  fbpad --theme dracula

  # Run inside a terminal emulator
  fbpad --no-vt

  # Show the escape command table
  fbpad keys`,
		Version: version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.SetInterspersed(false)
	flags.StringVar(&configPath, "config", "", "Configuration file (default: $XDG_CONFIG_HOME/fbpad/config.toml)")
	flags.StringVar(&overrides.Tags, "tags", "", "Tag labels, one character per tag")
	flags.StringVar(&overrides.Saved, "saved", "", "Labels of tags whose screens are cached")
	flags.StringVar(&overrides.ThemeName, "theme", "", "Palette theme (e.g., dracula, nord). Run 'fbpad themes' for the list")
	flags.IntVar(&overrides.History, "history", 0, fmt.Sprintf("Lines reachable by scrolling, %d to %d (default: from config or %d)", config.MinHistory, config.MaxHistory, config.DefaultHistory))
	flags.StringVar(&overrides.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&overrides.LogFile, "log-file", "", "Log file (default: $XDG_STATE_HOME/fbpad/fbpad.log)")
	flags.BoolVar(&overrides.Debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&overrides.NoVT, "no-vt", false, "Leave virtual console switching to the kernel")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage fbpad configuration",
		Long:  `Manage the fbpad configuration file`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printConfigPath(cmd.OutOrStdout())
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the fbpad configuration file in your editor

The editor is taken from $VISUAL or $EDITOR, falling back to vim, vi or
nano.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return editConfigFile()
		},
	}

	var resetYes bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the fbpad configuration file to default settings

This overwrites your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return resetConfigToDefaults(cmd.InOrStdin(), cmd.OutOrStdout(), resetYes)
		},
	}
	configResetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd)

	keysCmd := &cobra.Command{
		Use:     "keys",
		Aliases: []string{"keybinds", "kb"},
		Short:   "List the escape commands",
		Long:    `Display the configured escape commands in a table`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listKeybindings(cmd.OutOrStdout())
		},
	}

	var previewTheme string
	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "List available palette themes",
		Example: `  # List every theme
  fbpad themes

  # Show a theme's 16 colors
  fbpad themes --preview dracula`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if previewTheme != "" {
				return previewThemeColors(cmd.OutOrStdout(), previewTheme)
			}
			return listThemes(cmd.OutOrStdout())
		},
	}
	themesCmd.Flags().StringVar(&previewTheme, "preview", "", "Preview a theme's 16 colors")

	rootCmd.AddCommand(configCmd, keysCmd, themesCmd)
	return rootCmd
}
