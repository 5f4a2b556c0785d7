package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseUserConfig_FillsDefaults(t *testing.T) {
	cfg, err := ParseUserConfig([]byte(`
[tags]
labels = "ab"

[input.commands]
quit = ["q"]
`))
	if err != nil {
		t.Fatalf("ParseUserConfig failed: %v", err)
	}

	if cfg.Tags.Labels != "ab" {
		t.Errorf("labels = %q, want %q", cfg.Tags.Labels, "ab")
	}
	if cfg.Input.Escape != DefaultEscapeKey {
		t.Errorf("escape = %q, want default", cfg.Input.Escape)
	}
	if cfg.Display.History != DefaultHistory {
		t.Errorf("history = %d, want %d", cfg.Display.History, DefaultHistory)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if got := cfg.Input.Commands["quit"]; !reflect.DeepEqual(got, []string{"q"}) {
		t.Errorf("quit keys = %v, user value should win", got)
	}
	if got := cfg.Input.Commands["shell"]; !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("shell keys = %v, default should be filled", got)
	}
	if len(cfg.Programs.Shell) == 0 || len(cfg.Programs.Editor) == 0 {
		t.Error("programs should be filled with defaults")
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Tags.Labels != "xnlhtr01uiva-" {
		t.Errorf("labels = %q", cfg.Tags.Labels)
	}
	if cfg.Tags.Saved != "" {
		t.Errorf("saved = %q, want none", cfg.Tags.Saved)
	}
	if cfg.Display.History != 512 {
		t.Errorf("history = %d, want 512", cfg.Display.History)
	}
	if MinHistory != 16 || MaxHistory != 100000 {
		t.Errorf("history range = %d..%d, want 16..100000", MinHistory, MaxHistory)
	}

	// Overriding the labels alone must leave a valid configuration.
	cfg.Tags.Labels = "abc"
	if v := ValidateConfig(cfg); v.HasErrors() {
		t.Errorf("labels override invalidated the defaults: %+v", v.Errors)
	}
}

func TestParseUserConfig_Invalid(t *testing.T) {
	if _, err := ParseUserConfig([]byte("[tags\nlabels=")); err == nil {
		t.Error("expected parse error for malformed TOML")
	}
}

func TestClampHistory(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 99},
		{-5, 99},
		{1, MinHistory},
		{MaxHistory + 1, MaxHistory},
		{300, 300},
	}
	for _, tt := range tests {
		if got := clampHistory(tt.in, 99); got != tt.want {
			t.Errorf("clampHistory(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*UserConfig)
		wantError bool
		wantWarn  bool
	}{
		{"defaults", func(*UserConfig) {}, false, false},
		{"duplicate label", func(c *UserConfig) { c.Tags.Labels = "aba" }, true, false},
		{"non printable label", func(c *UserConfig) { c.Tags.Labels = "a\tb" }, true, false},
		{"saved not a label", func(c *UserConfig) { c.Tags.Saved = "Z" }, true, false},
		{"unknown command", func(c *UserConfig) { c.Input.Commands["fly"] = []string{"f"} }, true, false},
		{"bad key", func(c *UserConfig) { c.Input.Commands["quit"] = []string{"hyper+q"} }, true, false},
		{"colliding keys", func(c *UserConfig) { c.Input.Commands["quit"] = []string{"c"} }, true, false},
		{"label shadowed by command", func(c *UserConfig) { c.Tags.Labels = "abc" }, false, true},
		{"unknown log level", func(c *UserConfig) { c.Log.Level = "loud" }, false, true},
		{"long passcode", func(c *UserConfig) { c.Input.Passcode = string(make([]byte, PasscodeMax)) }, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			v := ValidateConfig(cfg)
			if v.HasErrors() != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v (%+v)", v.HasErrors(), tt.wantError, v.Errors)
			}
			if v.HasWarnings() != tt.wantWarn {
				t.Errorf("HasWarnings() = %v, want %v (%+v)", v.HasWarnings(), tt.wantWarn, v.Warnings)
			}
		})
	}
}

func TestWriteAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fbpad", "config.toml")
	cfg := DefaultConfig()
	cfg.Tags.Labels = "qwe"
	cfg.Tags.Saved = "w"
	cfg.Input.Passcode = "secret"

	if err := WriteConfig(path, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := LoadUserConfig(path)
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}
	if loaded.Tags.Labels != "qwe" || loaded.Tags.Saved != "w" {
		t.Errorf("tags = %+v", loaded.Tags)
	}
	if loaded.Input.Passcode != "secret" {
		t.Errorf("passcode = %q", loaded.Input.Passcode)
	}
}

func TestLoadUserConfig_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[tags]\nlabels = \"aa\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadUserConfig(path); err == nil {
		t.Error("expected validation error for duplicate labels")
	}
}
