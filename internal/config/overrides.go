package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/zhyh329/fbpad/internal/theme"
)

// Overrides contains CLI flag values that can override user config.
// Zero values indicate the flag was not set and should use the user config default.
type Overrides struct {
	// Tags replaces the tag labels
	Tags string

	// Saved replaces the snapshot-eligible labels
	Saved string

	// History overrides the history depth (0 means use config)
	History int

	// ThemeName is the palette theme to load
	ThemeName string

	// LogLevel overrides the log level
	LogLevel string

	// LogFile overrides the log file path
	LogFile string

	// Debug forces the debug log level
	Debug bool

	// NoVT disables virtual console switching control
	NoVT bool
}

// envOverrides are read from FBPAD_* environment variables.
type envOverrides struct {
	Tags     string   `envconfig:"TAGS"`
	Saved    string   `envconfig:"SAVED"`
	Shell    []string `envconfig:"SHELL"`
	Escape   string   `envconfig:"ESCAPE"`
	Passcode string   `envconfig:"PASSCODE"`
	History  int      `envconfig:"HISTORY"`
	Theme    string   `envconfig:"THEME"`
	LogLevel string   `envconfig:"LOG_LEVEL"`
	LogFile  string   `envconfig:"LOG_FILE"`
}

// ApplyEnv applies FBPAD_* environment variables on top of cfg.
func ApplyEnv(cfg *UserConfig) error {
	var env envOverrides
	if err := envconfig.Process("fbpad", &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	if env.Tags != "" {
		cfg.Tags.Labels = env.Tags
	}
	if env.Saved != "" {
		cfg.Tags.Saved = env.Saved
	}
	if len(env.Shell) > 0 {
		cfg.Programs.Shell = env.Shell
	}
	if env.Escape != "" {
		cfg.Input.Escape = env.Escape
	}
	if env.Passcode != "" {
		cfg.Input.Passcode = env.Passcode
	}
	if env.History > 0 {
		cfg.Display.History = clampHistory(env.History, cfg.Display.History)
	}
	if env.Theme != "" {
		cfg.Display.Theme = env.Theme
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFile != "" {
		cfg.Log.File = env.LogFile
	}
	return nil
}

// ApplyOverrides applies CLI flag overrides to cfg and loads the resulting
// theme. A theme that fails to load is returned as an error but leaves cfg
// fully applied, so callers may treat it as a warning.
func ApplyOverrides(overrides Overrides, cfg *UserConfig) error {
	if overrides.Tags != "" {
		cfg.Tags.Labels = overrides.Tags
	}
	if overrides.Saved != "" {
		cfg.Tags.Saved = overrides.Saved
	}

	if overrides.History > 0 {
		cfg.Display.History = clampHistory(overrides.History, cfg.Display.History)
	}

	if overrides.LogLevel != "" {
		cfg.Log.Level = overrides.LogLevel
	}
	if overrides.Debug {
		cfg.Log.Level = "debug"
	}
	if overrides.LogFile != "" {
		cfg.Log.File = overrides.LogFile
	}

	// NoVT - OR of CLI flag and user config
	cfg.Display.NoVT = cfg.Display.NoVT || overrides.NoVT

	// Theme - CLI flag takes precedence, otherwise use user config
	if overrides.ThemeName != "" {
		cfg.Display.Theme = overrides.ThemeName
	}
	if cfg.Display.Theme != "" {
		if err := theme.Initialize(cfg.Display.Theme); err != nil {
			return fmt.Errorf("failed to load theme %q: %w", cfg.Display.Theme, err)
		}
	}
	return nil
}
