// Package fbpad runs the terminal multiplexer on the controlling console.
//
// # Basic Usage
//
// Run an interactive session with the user's configuration:
//
//	if err := fbpad.Run(ctx, nil); err != nil {
//		log.Fatal(err)
//	}
//
// Run one program to completion, exiting when it does:
//
//	err := fbpad.Run(ctx, []string{"top"})
//
// # Custom Configuration
//
// Use options to override the configuration file:
//
//	err := fbpad.Run(ctx, nil,
//		fbpad.WithTheme("dracula"),
//		fbpad.WithTags("123456789"),
//		fbpad.WithHistory(2000),
//	)
package fbpad

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/zhyh329/fbpad/internal/app"
	"github.com/zhyh329/fbpad/internal/config"
	"github.com/zhyh329/fbpad/internal/console"
	"github.com/zhyh329/fbpad/internal/input"
	"github.com/zhyh329/fbpad/internal/slots"
	"github.com/zhyh329/fbpad/internal/terminal"
)

// Options configures a run.
type Options struct {
	// ConfigPath is the configuration file. Empty means the XDG location.
	ConfigPath string

	// UserConfig replaces the configuration file entirely when set.
	UserConfig *config.UserConfig

	// Overrides are applied on top of the file and environment.
	Overrides config.Overrides

	// In is the controlling input. Default is os.Stdin.
	In *os.File

	// Out is the display. Default is os.Stdout.
	Out io.Writer

	// Logger replaces the file logger.
	Logger *log.Logger
}

// Option is a functional option for configuring a run.
type Option func(*Options)

// WithConfigPath reads the configuration from path.
func WithConfigPath(path string) Option {
	return func(o *Options) {
		o.ConfigPath = path
	}
}

// WithUserConfig uses cfg instead of reading a file.
func WithUserConfig(cfg *config.UserConfig) Option {
	return func(o *Options) {
		o.UserConfig = cfg
	}
}

// WithOverrides applies CLI style overrides.
func WithOverrides(overrides config.Overrides) Option {
	return func(o *Options) {
		o.Overrides = overrides
	}
}

// WithTheme sets the palette theme.
func WithTheme(name string) Option {
	return func(o *Options) {
		o.Overrides.ThemeName = name
	}
}

// WithTags sets the tag labels.
func WithTags(labels string) Option {
	return func(o *Options) {
		o.Overrides.Tags = labels
	}
}

// WithHistory sets the maximum history offset in lines.
func WithHistory(lines int) Option {
	return func(o *Options) {
		o.Overrides.History = lines
	}
}

// WithIO sets the controlling input and the display.
func WithIO(in *os.File, out io.Writer) Option {
	return func(o *Options) {
		o.In = in
		o.Out = out
	}
}

// WithLogger sends logs to logger instead of the log file.
func WithLogger(logger *log.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		In:  os.Stdin,
		Out: os.Stdout,
	}
}

// ProgramArgs drops leading flag-like arguments. What is left, if
// anything, is the program to run in one-shot mode.
func ProgramArgs(args []string) []string {
	for len(args) > 0 && strings.HasPrefix(args[0], "-") {
		args = args[1:]
	}
	if len(args) == 0 {
		return nil
	}
	return args
}

// LoadConfig resolves the configuration for a run: file (or the given
// config), then FBPAD_* variables, then overrides. Problems that do not stop
// the run, such as an unknown theme, come back as warnings for the caller
// to log once its logger exists.
func LoadConfig(options Options) (cfg *config.UserConfig, warnings []error, err error) {
	cfg = options.UserConfig
	if cfg == nil {
		cfg, err = config.LoadUserConfig(options.ConfigPath)
		if err != nil {
			return nil, nil, err
		}
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, nil, err
	}
	if err := config.ApplyOverrides(options.Overrides, cfg); err != nil {
		warnings = append(warnings, err)
	}

	v := config.ValidateConfig(cfg)
	if v.HasErrors() {
		issue := v.Errors[0]
		return nil, nil, fmt.Errorf("invalid configuration [%s] %s: %s", issue.Field, issue.Key, issue.Message)
	}
	for _, issue := range v.Warnings {
		warnings = append(warnings, fmt.Errorf("configuration [%s] %s: %s", issue.Field, issue.Key, issue.Message))
	}
	return cfg, warnings, nil
}

// NewLogger opens the log file named by cfg, or the default one under the
// XDG state directory. The returned function closes the file.
func NewLogger(cfg config.LogConfig) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.WarnLevel
	}

	path := cfg.File
	if path == "" {
		path, err = xdg.StateFile(config.LogFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve log file: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	// #nosec G304 - the log path comes from the user's own config
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		Prefix:          "fbpad",
		ReportTimestamp: true,
	})
	return logger, func() { _ = f.Close() }, nil
}

// Run runs one multiplexer session on the controlling console. args are
// the startup arguments; see ProgramArgs. It returns once the session
// ends, or with an error when the console could not be set up.
func Run(ctx context.Context, args []string, opts ...Option) error {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	cfg, warnings, err := LoadConfig(options)
	if err != nil {
		return err
	}

	logger := options.Logger
	if logger == nil {
		var closeLog func()
		logger, closeLog, err = NewLogger(cfg.Log)
		if err != nil {
			return err
		}
		defer closeLog()
	}
	logger = logger.With("run", uuid.NewString()[:8])
	for _, w := range warnings {
		logger.Warn("configuration problem", "err", w)
	}

	table, err := slots.NewTable(cfg.Tags.Labels, cfg.Tags.Saved)
	if err != nil {
		return fmt.Errorf("invalid tags: %w", err)
	}
	commands, err := config.NewCommandTable(cfg)
	if err != nil {
		return fmt.Errorf("invalid escape commands: %w", err)
	}

	// The display signals must be caught before the console asks for them.
	notifier, err := console.NewNotifier(logger)
	if err != nil {
		return fmt.Errorf("failed to watch signals: %w", err)
	}
	defer notifier.Stop()

	con, err := console.Open(console.Options{
		In:     options.In,
		Out:    options.Out,
		Term:   os.Getenv("TERM"),
		NoVT:   cfg.Display.NoVT,
		Logger: logger,
	})
	defer con.Close()
	if err != nil {
		logger.Error("console setup failed", "err", err)
		return fmt.Errorf("failed to open console: %w", err)
	}

	cols, rows, err := con.Size()
	if err != nil {
		logger.Warn("console size unknown, using 80x25", "err", err)
		cols, rows = 80, 25
	}

	display := &colorprofile.Writer{
		Forward: options.Out,
		Profile: colorprofile.Detect(options.Out, os.Environ()),
	}
	engine := terminal.NewEngine(terminal.Options{
		Table:         table,
		Display:       display,
		Rows:          rows,
		Cols:          cols,
		History:       cfg.Display.History,
		ScreenshotDir: cfg.Display.ScreenshotDir,
		Logger:        logger,
	})
	defer engine.Close()

	app.SetInputHandler(input.HandleInput)
	pad := app.New(app.Options{
		Table:      table,
		Engine:     engine,
		Console:    con,
		Signals:    notifier,
		Commands:   commands,
		Programs:   cfg.Programs,
		Passcode:   cfg.Input.Passcode,
		MaxHistory: cfg.Display.History,
		Logger:     logger,
	})

	logger.Info("session start", "tags", cfg.Tags.Labels, "rows", rows, "cols", cols, "vt", con.VT())
	err = pad.Run(ctx, ProgramArgs(args))
	if dropped := notifier.Dropped(); dropped > 0 {
		logger.Warn("signal events dropped", "count", dropped)
	}
	logger.Info("session end")
	return err
}
