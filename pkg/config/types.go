// Package config provides configuration loading and validation for errlink.
package config

import (
	"time"

	"github.com/reviewdog/errorformat"

	"github.com/ccollicutt/errlink/pkg/console"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// BaseDir is the directory relative error paths are resolved against.
	BaseDir string `yaml:"base_dir"`

	// Color and Hyperlinks control terminal rendering (auto, always, never).
	Color      console.Mode `yaml:"color"`
	Hyperlinks console.Mode `yaml:"hyperlinks"`

	// LinkTemplate renders hyperlink URLs, e.g. "vscode://file{path}:{line}:{column}".
	LinkTemplate string `yaml:"link_template"`

	// Title is used for notifications.
	Title string `yaml:"title,omitempty"`

	// Errorformat holds vim errorformat definitions used by scan in place of
	// the built-in location pattern.
	Errorformat []string `yaml:"errorformat,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`

	// Populated during validation.
	compiledLinks       *console.LinkTemplate
	compiledErrorformat *errorformat.Errorformat
}

// CompiledLinkTemplate returns the parsed link template.
func (c *Config) CompiledLinkTemplate() *console.LinkTemplate {
	return c.compiledLinks
}

// CompiledErrorformat returns the compiled errorformat, or nil when none is
// configured.
func (c *Config) CompiledErrorformat() *errorformat.Errorformat {
	return c.compiledErrorformat
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnFailure fires only for reported failures (default).
	WebhookTriggerOnFailure WebhookTrigger = "on_failure"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for run notifications.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication. It may name an
	// environment variable as $VAR or ${VAR}.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_failure" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Expanded from Token during validation.
	bearer string
}

// BearerToken returns the token with environment variables expanded.
func (w WebhookConfig) BearerToken() string {
	return w.bearer
}

// DisplayName returns the name, falling back to the URL.
func (w WebhookConfig) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.URL
}
