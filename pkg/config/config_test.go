package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ccollicutt/errlink/pkg/console"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
base_dir: /work/aosp
color: never
hyperlinks: always
link_template: "vscode://file{path}:{line}:{column}"
title: Android Builder
errorformat:
  - '%f:%l:%c: %m'
webhooks:
  - name: ci
    url: https://example.com/hook
    timeout: 5s
`
	path := writeTempFile(t, "config.yaml", content)

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BaseDir != "/work/aosp" {
		t.Errorf("BaseDir = %q, want /work/aosp", cfg.BaseDir)
	}
	if cfg.Color != console.ModeNever || cfg.Hyperlinks != console.ModeAlways {
		t.Errorf("modes = %q/%q, want never/always", cfg.Color, cfg.Hyperlinks)
	}
	if cfg.Title != "Android Builder" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if cfg.CompiledLinkTemplate() == nil {
		t.Error("CompiledLinkTemplate() = nil")
	}
	if cfg.CompiledErrorformat() == nil {
		t.Error("CompiledErrorformat() = nil")
	}
	if len(cfg.Webhooks) != 1 {
		t.Fatalf("Webhooks = %d, want 1", len(cfg.Webhooks))
	}
	if cfg.Webhooks[0].Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Webhooks[0].Timeout)
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerOnFailure {
		t.Errorf("Trigger = %q, want on_failure", cfg.Webhooks[0].Trigger)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeTempFile(t, "empty.yaml", "{}\n")

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseDir != DefaultBaseDir {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, DefaultBaseDir)
	}
	if cfg.LinkTemplate != console.DefaultLinkTemplate {
		t.Errorf("LinkTemplate = %q", cfg.LinkTemplate)
	}
	if cfg.CompiledErrorformat() != nil {
		t.Error("CompiledErrorformat() should be nil without errorformat")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempFile(t, "invalid.yaml", `invalid: yaml: content: [`)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoadOptional_Missing(t *testing.T) {
	cfg, err := LoadOptional(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if cfg.CompiledLinkTemplate() == nil {
		t.Error("defaults were not validated")
	}
}

func TestLoadOptional_InvalidFile(t *testing.T) {
	path := writeTempFile(t, "bad.yaml", "color: rainbow\n")
	if _, err := LoadOptional(context.Background(), path); err == nil {
		t.Error("LoadOptional() expected error for invalid config")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvBaseDir, "/override")
	t.Setenv(EnvHyperlinks, "never")
	t.Setenv(EnvColor, "always")

	path := writeTempFile(t, "config.yaml", "base_dir: /from/file\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseDir != "/override" {
		t.Errorf("BaseDir = %q, want /override", cfg.BaseDir)
	}
	if cfg.Hyperlinks != console.ModeNever || cfg.Color != console.ModeAlways {
		t.Errorf("modes = %q/%q", cfg.Color, cfg.Hyperlinks)
	}
}

func TestValidate_InvalidModes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Color = "sometimes"
	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for invalid color mode")
	}

	cfg = DefaultConfig()
	cfg.Hyperlinks = "maybe"
	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for invalid hyperlinks mode")
	}
}

func TestValidate_LinkTemplate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LinkTemplate = "file://{filename}"
	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for unknown template tag")
	}
}

func TestValidate_EmptyBaseDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseDir = ""
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.BaseDir != DefaultBaseDir {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, DefaultBaseDir)
	}
}

func TestValidate_EmptyTitle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Title = ""
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", cfg.Title, DefaultTitle)
	}
}

func TestLoad_EmptyTitleInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("title: \"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", cfg.Title, DefaultTitle)
	}
}

func TestValidate_TokenExpandedOnce(t *testing.T) {
	t.Setenv("ERRLINK_HOOK_TOKEN", "$ecretvalue")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "webhooks:\n  - url: https://example.com/hook\n    token: ${ERRLINK_HOOK_TOKEN}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Webhooks[0].BearerToken(); got != "$ecretvalue" {
		t.Fatalf("after Load BearerToken() = %q, want $ecretvalue", got)
	}

	// Command line overrides validate the loaded config again.
	for i := 0; i < 2; i++ {
		if err := Validate(cfg); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
	}
	if got := cfg.Webhooks[0].BearerToken(); got != "$ecretvalue" {
		t.Errorf("after Validate BearerToken() = %q, want $ecretvalue", got)
	}
	if cfg.Webhooks[0].Token != "${ERRLINK_HOOK_TOKEN}" {
		t.Errorf("Token = %q, raw value should be kept", cfg.Webhooks[0].Token)
	}
}

func TestValidate_Webhook(t *testing.T) {
	tests := []struct {
		name    string
		webhook WebhookConfig
		wantErr bool
	}{
		{"valid", WebhookConfig{URL: "https://example.com/hook"}, false},
		{"missing url", WebhookConfig{Name: "x"}, true},
		{"bad scheme", WebhookConfig{URL: "ftp://example.com/hook"}, true},
		{"no host", WebhookConfig{URL: "https:///hook"}, true},
		{"bad trigger", WebhookConfig{URL: "https://example.com", Trigger: "on_issues"}, true},
		{"always", WebhookConfig{URL: "https://example.com", Trigger: WebhookTriggerAlways}, false},
		{"never", WebhookConfig{URL: "https://example.com", Trigger: WebhookTriggerNever}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Webhooks = []WebhookConfig{tt.webhook}
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_WebhookDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Webhooks = []WebhookConfig{{URL: "https://example.com/hook"}}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerOnFailure {
		t.Errorf("Trigger = %q, want on_failure", cfg.Webhooks[0].Trigger)
	}
	if cfg.Webhooks[0].Timeout != DefaultWebhookTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Webhooks[0].Timeout, DefaultWebhookTimeout)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("ERRLINK_TEST_TOKEN", "s3cret")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"literal", "literal"},
		{"$ERRLINK_TEST_TOKEN", "s3cret"},
		{"${ERRLINK_TEST_TOKEN}", "s3cret"},
		{"${ERRLINK_TEST_UNSET}", ""},
	}

	for _, tt := range tests {
		if got := expandEnvVar(tt.in); got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWebhookConfig_DisplayName(t *testing.T) {
	if got := (WebhookConfig{Name: "ci", URL: "https://x"}).DisplayName(); got != "ci" {
		t.Errorf("DisplayName() = %q, want ci", got)
	}
	if got := (WebhookConfig{URL: "https://x"}).DisplayName(); got != "https://x" {
		t.Errorf("DisplayName() = %q, want url", got)
	}
}
