package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/reviewdog/errorformat"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/errlink/pkg/console"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOptional loads path if it exists and returns the validated defaults
// otherwise.
func LoadOptional(ctx context.Context, path string) (*Config, error) {
	cfg, err := Load(ctx, path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg = DefaultConfig()
	cfg.applyEnvironmentOverrides()
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks a configuration for errors and compiles templates and
// errorformat definitions.
func Validate(cfg *Config) error {
	if cfg.BaseDir == "" {
		cfg.BaseDir = DefaultBaseDir
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}

	if !cfg.Color.Valid() {
		return fmt.Errorf("color: invalid mode %q (must be auto, always, or never)", cfg.Color)
	}
	if !cfg.Hyperlinks.Valid() {
		return fmt.Errorf("hyperlinks: invalid mode %q (must be auto, always, or never)", cfg.Hyperlinks)
	}

	links, err := console.ParseLinkTemplate(cfg.LinkTemplate)
	if err != nil {
		return fmt.Errorf("link_template: %w", err)
	}
	cfg.compiledLinks = links

	if len(cfg.Errorformat) > 0 {
		efm, err := errorformat.NewErrorformat(cfg.Errorformat)
		if err != nil {
			return fmt.Errorf("errorformat: %w", err)
		}
		cfg.compiledErrorformat = efm
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			return fmt.Errorf("webhooks[%d] (%s): %w", i, cfg.Webhooks[i].DisplayName(), err)
		}
	}

	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.bearer = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnFailure
	case WebhookTriggerOnFailure, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_failure, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}
	return s
}
