// Package config loads the notionfeed YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the service.
type Config struct {
	// HTTP is the listen address, e.g. "localhost:3001".
	HTTP string `yaml:"http"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	Notion   Notion `yaml:"notion"`
	Cache    Cache  `yaml:"cache"`
}

// Notion holds API credentials and the workspace root.
type Notion struct {
	Token      string `yaml:"token"`
	RootPageID string `yaml:"root_page_id"`
}

// Cache holds block-source cache settings.
type Cache struct {
	TTL time.Duration `yaml:"ttl"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		HTTP:     "localhost:3001",
		LogLevel: "info",
		Cache:    Cache{TTL: 5 * time.Second},
	}
}

// Load reads and parses the config file at path on top of the defaults.
// A missing file is not an error; the defaults apply and the token can
// still come from the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 5 * time.Second
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv fills credentials from the environment when the file leaves
// them empty.
func (c *Config) applyEnv() {
	if c.Notion.Token == "" {
		c.Notion.Token = os.Getenv("NOTION_TOKEN")
	}
	if c.Notion.RootPageID == "" {
		c.Notion.RootPageID = os.Getenv("NOTION_ROOT_PAGE_ID")
	}
}

// Validate reports missing required settings.
func (c *Config) Validate() error {
	if c.Notion.Token == "" {
		return errors.New("notion token is required (config notion.token or NOTION_TOKEN)")
	}
	if c.Notion.RootPageID == "" {
		return errors.New("root page id is required (config notion.root_page_id or NOTION_ROOT_PAGE_ID)")
	}
	return nil
}
