// Package config loads the optional YAML rules file and server
// environment. Everything has a compiled-in default; a missing config
// file is not an error unless a path was given explicitly.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/statement-analyzer/internal/categorize"
	"github.com/insightdelivered/statement-analyzer/internal/parser"
	"github.com/insightdelivered/statement-analyzer/internal/split"
)

// SplitConfig names the two parties and party A's fraction of each
// inbound amount, as a decimal string such as "0.20".
type SplitConfig struct {
	PartyA string `yaml:"party_a"`
	PartyB string `yaml:"party_b"`
	ShareA string `yaml:"share_a"`
}

// Config is the full analyzer configuration.
type Config struct {
	// CustomPattern replaces the built-in tail tokenizer with a regex
	// carrying named groups: date, description, and amount or
	// debit/credit.
	CustomPattern string            `yaml:"custom_pattern"`
	Categories    []categorize.Rule `yaml:"categories"`
	Split         SplitConfig       `yaml:"split"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Split: SplitConfig{PartyA: "Chiyuan", PartyB: "Jiahan", ShareA: "0.20"},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if _, err := cfg.Calculator(); err != nil {
		return nil, err
	}
	if cfg.CustomPattern != "" {
		if _, err := parser.NewPatternTokenizer(cfg.CustomPattern); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Calculator builds the split calculator this config describes.
func (c *Config) Calculator() (*split.Calculator, error) {
	ratio, err := decimal.NewFromString(c.Split.ShareA)
	if err != nil {
		return nil, fmt.Errorf("split share_a %q: %w", c.Split.ShareA, err)
	}
	if ratio.IsNegative() || ratio.Cmp(decimal.New(1, 0)) > 0 {
		return nil, fmt.Errorf("split share_a %q must be between 0 and 1", c.Split.ShareA)
	}
	return &split.Calculator{PartyA: c.Split.PartyA, PartyB: c.Split.PartyB, RatioA: ratio}, nil
}

// Categorizer builds the categorizer this config describes.
func (c *Config) Categorizer() *categorize.Categorizer {
	return categorize.New(c.Categories)
}

// SessionOptions maps the config onto parser session options.
func (c *Config) SessionOptions() parser.Options {
	return parser.Options{CustomPattern: c.CustomPattern}
}

// LoadEnv loads a .env file when present. Used by the server command;
// a missing file is fine.
func LoadEnv() {
	_ = godotenv.Load()
}

// Addr returns the configured listen address, defaulting to :8080.
func Addr(flagAddr string) string {
	if flagAddr != "" {
		return flagAddr
	}
	if v := os.Getenv("ANALYZER_ADDR"); v != "" {
		return v
	}
	return ":8080"
}
