package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/errlink/pkg/config"
	"github.com/ccollicutt/errlink/pkg/console"
	"github.com/ccollicutt/errlink/pkg/notify"
	"github.com/ccollicutt/errlink/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// GlobalOptions holds the flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
	Verbose    bool
}

// AddFlags registers the global flags on cmd as persistent flags.
func (g *GlobalOptions) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&g.ConfigPath, "config", "", "Config file (default "+config.DefaultPath+" if present)")
	cmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "Verbose logging (same as --log-level debug)")
}

// Logger returns a text logger writing to w at the configured level.
func (g *GlobalOptions) Logger(w io.Writer) (*slog.Logger, error) {
	level := slog.LevelDebug
	if !g.Verbose {
		if err := level.UnmarshalText([]byte(g.LogLevel)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", g.LogLevel, err)
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// LoadConfig loads the config named by --config, or the default config file
// when it exists.
func (g *GlobalOptions) LoadConfig(ctx context.Context) (*config.Config, error) {
	if g.ConfigPath != "" {
		cfg, err := config.Load(ctx, g.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadOptional(ctx, config.DefaultPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// ConsoleOptions holds the presentation flags of run and filter.
type ConsoleOptions struct {
	BaseDir      string
	Color        string
	Hyperlinks   string
	LinkTemplate string
	Title        string
	MetricsFile  string
	Notify       bool
}

func (o *ConsoleOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.BaseDir, "base-dir", "", "Directory relative error paths are resolved against")
	cmd.Flags().StringVar(&o.Color, "color", "", "Colored output (auto|always|never)")
	cmd.Flags().StringVar(&o.Hyperlinks, "hyperlinks", "", "Terminal hyperlinks (auto|always|never)")
	cmd.Flags().StringVar(&o.LinkTemplate, "link-template", "", "Hyperlink URL template, e.g. vscode://file{path}:{line}:{column}")
	cmd.Flags().StringVar(&o.Title, "title", "", "Notification title")
	cmd.Flags().StringVar(&o.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
	cmd.Flags().BoolVar(&o.Notify, "notify", false, "Print failure notifications to stderr")
}

// apply overrides cfg with the flags that were set and validates the result.
func (o *ConsoleOptions) apply(cfg *config.Config) error {
	if o.BaseDir != "" {
		cfg.BaseDir = o.BaseDir
	}
	if o.Color != "" {
		cfg.Color = console.Mode(o.Color)
	}
	if o.Hyperlinks != "" {
		cfg.Hyperlinks = console.Mode(o.Hyperlinks)
	}
	if o.LinkTemplate != "" {
		cfg.LinkTemplate = o.LinkTemplate
	}
	if o.Title != "" {
		cfg.Title = o.Title
	}
	return config.Validate(cfg)
}

// session is a console wired to the terminal, notifiers and metrics.
type session struct {
	console  *console.Console
	stats    *console.Stats
	webhooks *webhook.Notifier
	logger   *slog.Logger
	cfg      *config.Config
}

func newSession(cmd *cobra.Command, g *GlobalOptions, o *ConsoleOptions) (*session, error) {
	logger, err := g.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	cfg, err := g.LoadConfig(commandContext(cmd))
	if err != nil {
		return nil, err
	}
	if err := o.apply(cfg); err != nil {
		return nil, err
	}

	terminal := console.NewTerminal(cmd.OutOrStdout(), console.TerminalOptions{
		Color:      cfg.Color,
		Hyperlinks: cfg.Hyperlinks,
		Links:      cfg.CompiledLinkTemplate(),
	})

	hooks := webhook.NewNotifier(cfg.Webhooks, logger)
	notifiers := notify.Multi{hooks}
	if o.Notify {
		notifiers = append(notifiers, notify.NewWriter(cmd.ErrOrStderr()))
	}

	stats := console.NewStats()
	c := console.New(terminal,
		console.WithResolver(console.DirResolver{Base: cfg.BaseDir}),
		console.WithNotifier(notifiers),
		console.WithStats(stats),
		console.WithLogger(logger),
		console.WithTitle(cfg.Title),
	)

	return &session{console: c, stats: stats, webhooks: hooks, logger: logger, cfg: cfg}, nil
}

// finish writes metrics when requested.
func (s *session) finish(o *ConsoleOptions) error {
	if o.MetricsFile == "" {
		return nil
	}
	f, err := os.Create(o.MetricsFile) // #nosec G304 -- user-provided path is expected
	if err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	s.stats.WritePrometheus(f)
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
