package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleConfig = `
sandbox:
  image: scaffold-runner
  timeout_seconds: 90
  cpu_limit: 2
  memory_limit_mb: 2048

models:
  mini:
    provider: openai
    model_id: gpt-4o-mini
    base_url: https://api.openai.com
    api_key_env: OPENAI_API_KEY
    max_tokens: 4096
  thinker:
    provider: anthropic
    model_id: claude-sonnet-4
    base_url: https://api.anthropic.com
    api_key_env: ANTHROPIC_API_KEY
    thinking_budget_tokens: 4096

ledger:
  dir: results
`

func loadConfig(t *testing.T, content string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gauntlet.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return Load(path)
}

func TestLoad(t *testing.T) {
	cfg, err := loadConfig(t, sampleConfig)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sandbox.Image != "scaffold-runner" {
		t.Errorf("Image = %q", cfg.Sandbox.Image)
	}
	if cfg.Timeout() != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout())
	}
	if cfg.Models["mini"].MaxTokens != 4096 {
		t.Errorf("MaxTokens = %d", cfg.Models["mini"].MaxTokens)
	}
	if cfg.Models["thinker"].ThinkingBudgetTokens != 4096 {
		t.Errorf("ThinkingBudgetTokens = %d", cfg.Models["thinker"].ThinkingBudgetTokens)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadConfig(t, `
models:
  m:
    provider: openai
    model_id: gpt-4o-mini
    base_url: https://api.openai.com
`)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sandbox.Image != "scaffold-runner" {
		t.Errorf("default image = %q", cfg.Sandbox.Image)
	}
	if cfg.Sandbox.TimeoutSeconds != 120 {
		t.Errorf("default timeout = %d", cfg.Sandbox.TimeoutSeconds)
	}
	if cfg.Ledger.Dir != "results" {
		t.Errorf("default ledger dir = %q", cfg.Ledger.Dir)
	}
	if cfg.Models["m"].MaxTokens != 8192 {
		t.Errorf("default max_tokens = %d", cfg.Models["m"].MaxTokens)
	}
}

func TestLoadRejectsIncompleteModel(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"no models", "sandbox:\n  image: x\n", "no models defined"},
		{"missing provider", "models:\n  m:\n    model_id: x\n    base_url: y\n", "provider is required"},
		{"missing model_id", "models:\n  m:\n    provider: x\n    base_url: y\n", "model_id is required"},
		{"missing base_url", "models:\n  m:\n    provider: x\n    model_id: y\n", "base_url is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(t, tt.content)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestResolveModel(t *testing.T) {
	cfg, err := loadConfig(t, sampleConfig)
	if err != nil {
		t.Fatal(err)
	}

	m, err := cfg.ResolveModel("mini")
	if err != nil {
		t.Fatal(err)
	}
	if m.ModelID != "gpt-4o-mini" {
		t.Errorf("alias lookup returned %+v", m)
	}

	m, err = cfg.ResolveModel("anthropic/claude-sonnet-4")
	if err != nil {
		t.Fatal(err)
	}
	if m.Provider != "anthropic" {
		t.Errorf("provider/model lookup returned %+v", m)
	}

	if _, err := cfg.ResolveModel("openai/gpt-99"); err == nil {
		t.Error("expected error for unconfigured model")
	}
	if _, err := cfg.ResolveModel(""); err == nil {
		t.Error("expected error for empty spec")
	}
}
