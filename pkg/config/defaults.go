package config

import (
	"os"
	"time"

	"github.com/ccollicutt/errlink/pkg/console"
)

// Default values for configuration.
const (
	DefaultPath           = ".errlink.yaml"
	DefaultBaseDir        = "."
	DefaultWebhookTimeout = 10 * time.Second
	DefaultTitle          = "errlink"
)

// Environment variable names.
const (
	EnvBaseDir    = "ERRLINK_BASE_DIR"
	EnvColor      = "ERRLINK_COLOR"
	EnvHyperlinks = "ERRLINK_HYPERLINKS"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir:      DefaultBaseDir,
		Color:        console.ModeAuto,
		Hyperlinks:   console.ModeAuto,
		LinkTemplate: console.DefaultLinkTemplate,
		Title:        DefaultTitle,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if dir := os.Getenv(EnvBaseDir); dir != "" {
		c.BaseDir = dir
	}
	if mode := os.Getenv(EnvColor); mode != "" {
		c.Color = console.Mode(mode)
	}
	if mode := os.Getenv(EnvHyperlinks); mode != "" {
		c.Hyperlinks = console.Mode(mode)
	}
}
