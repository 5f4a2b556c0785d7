package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// UserConfig represents the user's custom configuration
type UserConfig struct {
	Tags     TagsConfig     `toml:"tags"`
	Programs ProgramsConfig `toml:"programs"`
	Input    InputConfig    `toml:"input"`
	Display  DisplayConfig  `toml:"display"`
	Log      LogConfig      `toml:"log"`
}

// TagsConfig holds the tag labels
type TagsConfig struct {
	Labels string `toml:"labels"` // One character per tag (default: xnlhtr01uiva-)
	Saved  string `toml:"saved"`  // Labels of tags that use the snapshot cache
}

// ProgramsConfig holds the argv of the programs escape commands start
type ProgramsConfig struct {
	Shell  []string `toml:"shell"`  // Empty means detect ($SHELL, then /bin/bash, /bin/sh)
	Mail   []string `toml:"mail"`   // Mail client (default: mutt)
	Editor []string `toml:"editor"` // Editor (default: $EDITOR or vi)
}

// InputConfig holds input settings
type InputConfig struct {
	Escape   string              `toml:"escape"`   // Escape key (default: esc)
	Passcode string              `toml:"passcode"` // Lock passcode; empty disables locking
	Commands map[string][]string `toml:"commands"` // Escape command key overrides
}

// DisplayConfig holds display settings
type DisplayConfig struct {
	History       int    `toml:"history"`        // Maximum history offset in lines (default: 512)
	Theme         string `toml:"theme"`          // Palette theme name (e.g., dracula, nord)
	ScreenshotDir string `toml:"screenshot_dir"` // Default: $XDG_DATA_HOME/fbpad/screenshots
	NoVT          bool   `toml:"no_vt"`          // Do not take over virtual console switching
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error (default: warn)
	File  string `toml:"file"`  // Default: $XDG_STATE_HOME/fbpad/fbpad.log
}

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Tags: TagsConfig{
			Labels: DefaultTags,
			Saved:  DefaultSavedTags,
		},
		Programs: ProgramsConfig{
			Shell:  []string{DetectShell()},
			Mail:   []string{"mutt"},
			Editor: []string{detectEditor()},
		},
		Input: InputConfig{
			Escape:   DefaultEscapeKey,
			Commands: defaultCommands(),
		},
		Display: DisplayConfig{
			History: DefaultHistory,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// DetectShell returns the user's login shell, falling back to common paths.
func DetectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	for _, shell := range []string{"/bin/bash", "/bin/zsh", "/bin/sh"} {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	return "/bin/sh"
}

func detectEditor() string {
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
	return "vi"
}

// LoadUserConfig loads the configuration at path, or from the XDG config
// directory when path is empty. A missing XDG config is created with
// defaults.
func LoadUserConfig(path string) (*UserConfig, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(ConfigFile)
		if err != nil {
			return createDefaultConfig()
		}
		path = found
	}

	// #nosec G304 - reading the user's own config file is intentional
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := ParseUserConfig(data)
	if err != nil {
		return nil, err
	}

	validation := ValidateConfig(cfg)
	if validation.HasErrors() {
		for _, issue := range validation.Errors {
			fmt.Fprintf(os.Stderr, "Config error in [%s]: %s - %s\n", issue.Field, issue.Key, issue.Message)
		}
		return nil, fmt.Errorf("configuration has %d error(s), please fix and restart", len(validation.Errors))
	}
	return cfg, nil
}

// ParseUserConfig decodes TOML and fills every missing value with its
// default.
func ParseUserConfig(data []byte) (*UserConfig, error) {
	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	defaultCfg := DefaultConfig()
	fillMissingTags(&cfg, defaultCfg)
	fillMissingPrograms(&cfg, defaultCfg)
	fillMissingInput(&cfg, defaultCfg)
	fillMissingDisplay(&cfg, defaultCfg)
	fillMissingLog(&cfg, defaultCfg)
	return &cfg, nil
}

// createDefaultConfig writes a default config file to the XDG config directory
func createDefaultConfig() (*UserConfig, error) {
	cfg := DefaultConfig()

	configPath, err := xdg.ConfigFile(ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	if err := WriteConfig(configPath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteConfig marshals cfg to path behind a commented header.
func WriteConfig(path string, cfg *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# fbpad configuration file\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + path + "\n")
	sb.WriteString("# For the escape command table, run: fbpad keys\n")
	sb.WriteString("#\n")
	sb.WriteString("# [tags] labels: one character per tag, two slots per tag\n")
	sb.WriteString("# [tags] saved: labels whose screens are cached when switching away\n")
	sb.WriteString("# [input] escape: esc, ctrl+<letter> or a single character\n")
	sb.WriteString("# [input] passcode: empty disables the lock command\n")
	fmt.Fprintf(&sb, "# [display] history: lines reachable by scrolling (%d to %d)\n", MinHistory, MaxHistory)
	sb.WriteString("# [log] level: debug, info, warn, error\n\n")
	sb.Write(data)

	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fillMissingTags(cfg, defaultCfg *UserConfig) {
	if cfg.Tags.Labels == "" {
		cfg.Tags.Labels = defaultCfg.Tags.Labels
	}
}

func fillMissingPrograms(cfg, defaultCfg *UserConfig) {
	if len(cfg.Programs.Shell) == 0 {
		cfg.Programs.Shell = defaultCfg.Programs.Shell
	}
	if len(cfg.Programs.Mail) == 0 {
		cfg.Programs.Mail = defaultCfg.Programs.Mail
	}
	if len(cfg.Programs.Editor) == 0 {
		cfg.Programs.Editor = defaultCfg.Programs.Editor
	}
}

func fillMissingInput(cfg, defaultCfg *UserConfig) {
	if cfg.Input.Escape == "" {
		cfg.Input.Escape = defaultCfg.Input.Escape
	}
	if cfg.Input.Commands == nil {
		cfg.Input.Commands = make(map[string][]string)
	}
	fillMapDefaults(cfg.Input.Commands, defaultCfg.Input.Commands)
}

func fillMissingDisplay(cfg, defaultCfg *UserConfig) {
	cfg.Display.History = clampHistory(cfg.Display.History, defaultCfg.Display.History)
}

func fillMissingLog(cfg, defaultCfg *UserConfig) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultCfg.Log.Level
	}
}

func clampHistory(lines, fallback int) int {
	switch {
	case lines <= 0:
		return fallback
	case lines < MinHistory:
		return MinHistory
	case lines > MaxHistory:
		return MaxHistory
	}
	return lines
}

func fillMapDefaults(target, defaults map[string][]string) {
	for k, v := range defaults {
		if _, exists := target[k]; !exists {
			target[k] = v
		}
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile(ConfigFile)
	if err != nil {
		return xdg.ConfigFile(ConfigFile)
	}
	return path, nil
}

// ValidationIssue describes one problem found in the configuration
type ValidationIssue struct {
	Field   string
	Key     string
	Message string
}

// ValidationResult collects errors (fatal) and warnings (logged)
type ValidationResult struct {
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// HasErrors reports whether any fatal issue was found.
func (v *ValidationResult) HasErrors() bool { return len(v.Errors) > 0 }

// HasWarnings reports whether any non-fatal issue was found.
func (v *ValidationResult) HasWarnings() bool { return len(v.Warnings) > 0 }

func (v *ValidationResult) errorf(field, key, format string, args ...any) {
	v.Errors = append(v.Errors, ValidationIssue{field, key, fmt.Sprintf(format, args...)})
}

func (v *ValidationResult) warnf(field, key, format string, args ...any) {
	v.Warnings = append(v.Warnings, ValidationIssue{field, key, fmt.Sprintf(format, args...)})
}

// ValidateConfig checks a filled configuration.
func ValidateConfig(cfg *UserConfig) *ValidationResult {
	v := &ValidationResult{}

	labels := cfg.Tags.Labels
	if len(labels) > MaxTags {
		v.errorf("tags", "labels", "at most %d tags are supported, got %d", MaxTags, len(labels))
	}
	seen := make(map[byte]bool, len(labels))
	for i := 0; i < len(labels); i++ {
		c := labels[i]
		if c < 0x20 || c > 0x7e {
			v.errorf("tags", "labels", "label %q is not printable", c)
		}
		if seen[c] {
			v.errorf("tags", "labels", "label %q appears twice", c)
		}
		seen[c] = true
	}
	for i := 0; i < len(cfg.Tags.Saved); i++ {
		if !seen[cfg.Tags.Saved[i]] {
			v.errorf("tags", "saved", "%q is not a tag label", cfg.Tags.Saved[i])
		}
	}

	ct, err := NewCommandTable(cfg)
	if err != nil {
		v.errorf("input", "commands", "%v", err)
	} else {
		if seen[ct.Escape()] {
			v.warnf("input", "escape", "escape key %s is also a tag label", KeyName(ct.Escape()))
		}
		for i := 0; i < len(labels); i++ {
			if a, ok := ct.Lookup(labels[i]); ok {
				v.warnf("tags", "labels", "label %q is shadowed by command %s", labels[i], a)
			}
		}
	}

	if len(cfg.Input.Passcode) >= PasscodeMax {
		v.errorf("input", "passcode", "passcode longer than %d bytes", PasscodeMax-1)
	}

	if cfg.Display.History < MinHistory || cfg.Display.History > MaxHistory {
		v.warnf("display", "history", "history %d outside %d..%d", cfg.Display.History, MinHistory, MaxHistory)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		v.warnf("log", "level", "unknown level %q, using %s", cfg.Log.Level, DefaultLogLevel)
	}

	return v
}
