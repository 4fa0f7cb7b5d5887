package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Sandbox Sandbox          `yaml:"sandbox"`
	Models  map[string]Model `yaml:"models"`
	Ledger  Ledger           `yaml:"ledger"`
	Secrets Secrets          `yaml:"secrets"`
	Pricing Pricing          `yaml:"pricing"`
}

type Sandbox struct {
	Image          string  `yaml:"image"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	CPULimit       float64 `yaml:"cpu_limit"`
	MemoryLimitMB  int64   `yaml:"memory_limit_mb"`
}

// Model binds a model spec to a concrete backend.
type Model struct {
	Provider             string `yaml:"provider"`
	ModelID              string `yaml:"model_id"`
	BaseURL              string `yaml:"base_url"`
	APIKeyEnv            string `yaml:"api_key_env"`
	MaxTokens            int    `yaml:"max_tokens"`
	ThinkingBudgetTokens int    `yaml:"thinking_budget_tokens"`
}

type Ledger struct {
	Dir string `yaml:"dir"`
}

type Secrets struct {
	EnvFile string `yaml:"env_file"`
}

type Pricing struct {
	Table string `yaml:"table"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Sandbox.Image == "" {
		cfg.Sandbox.Image = "scaffold-runner"
	}
	if cfg.Sandbox.TimeoutSeconds <= 0 {
		cfg.Sandbox.TimeoutSeconds = 120
	}
	if cfg.Ledger.Dir == "" {
		cfg.Ledger.Dir = "results"
	}
	if len(cfg.Models) == 0 {
		return fmt.Errorf("no models defined")
	}
	for name, m := range cfg.Models {
		if m.Provider == "" {
			return fmt.Errorf("model %q: provider is required", name)
		}
		if m.ModelID == "" {
			return fmt.Errorf("model %q: model_id is required", name)
		}
		if m.BaseURL == "" {
			return fmt.Errorf("model %q: base_url is required", name)
		}
		if m.MaxTokens == 0 {
			m.MaxTokens = 8192
			cfg.Models[name] = m
		}
	}
	return nil
}

// Timeout returns the configured sandbox timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Sandbox.TimeoutSeconds) * time.Second
}

// ResolveModel maps a model spec to its backend binding. A spec is either an
// alias defined in the config or a provider/model pair that matches one. The
// lookup fails before any sandbox is started.
func (c *Config) ResolveModel(spec string) (*Model, error) {
	if spec == "" {
		return nil, fmt.Errorf("empty model spec")
	}
	if m, ok := c.Models[spec]; ok {
		return &m, nil
	}
	if provider, modelID, ok := strings.Cut(spec, "/"); ok {
		for _, m := range c.Models {
			if m.Provider == provider && m.ModelID == modelID {
				return &m, nil
			}
		}
	}
	return nil, fmt.Errorf("model spec %q does not resolve to a configured backend", spec)
}
