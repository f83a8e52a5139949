package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds file-based defaults. Flags override config values; config
// values override the built-in defaults.
type Config struct {
	Model       string  `yaml:"model"`
	TokenBudget int     `yaml:"tokenBudget"`
	Output      string  `yaml:"output"`
	Concurrency int     `yaml:"concurrency"`
	MaxPages    int     `yaml:"maxPages"`
	DBPath      string  `yaml:"dbPath"`
	ModelRPS    float64 `yaml:"modelRps"`
	CrawlRPS    float64 `yaml:"crawlRps"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	return &cfg, nil
}

// built-in defaults, used when neither flag nor config sets a value
const (
	defaultTokenBudget = 10000
	defaultConcurrency = 4
	defaultOutput      = "llm_min"
	defaultModelRPS    = 0.5
	defaultCrawlRPS    = 1.0
)

// resolve applies the config-then-default fallback chain to a flag value.
func resolve(flag, config, fallback int) int {
	if flag > 0 {
		return flag
	}
	if config > 0 {
		return config
	}
	return fallback
}

func resolveString(flag, config, fallback string) string {
	if flag != "" {
		return flag
	}
	if config != "" {
		return config
	}
	return fallback
}

func resolveFloat(config, fallback float64) float64 {
	if config > 0 {
		return config
	}
	return fallback
}
