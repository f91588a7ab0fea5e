// Package config loads the application configuration from a TOML file
// with environment variable overrides for credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/avenhq/avenassist/internal/core/domain"
)

// Environment variables that override file values. Credentials are
// never defaulted; they come from the file or these variables only.
const (
	EnvOpenAIAPIKey   = "AVEN_OPENAI_API_KEY"
	EnvPineconeAPIKey = "AVEN_PINECONE_API_KEY"
	EnvExaAPIKey      = "AVEN_EXA_API_KEY"
)

// Default non-credential values.
const (
	DefaultIndexName = "support-faq"
	DefaultTitle     = "Aven Support FAQ"
)

// Config is the full application configuration.
type Config struct {
	// DataDir holds the artefact and chunk database files.
	// Empty means ~/.avenassist/data.
	DataDir string `toml:"data_dir"`

	Harvest  HarvestConfig  `toml:"harvest"`
	OpenAI   OpenAIConfig   `toml:"openai"`
	Pinecone PineconeConfig `toml:"pinecone"`
	Exa      ExaConfig      `toml:"exa"`
	Index    IndexConfig    `toml:"index"`
	Ask      AskConfig      `toml:"ask"`
}

// HarvestConfig selects what to harvest.
type HarvestConfig struct {
	// Title is the document title for the harvested artefact.
	Title string `toml:"title"`

	// URLs are the candidate support page locators, tried in order.
	URLs []string `toml:"urls"`
}

// OpenAIConfig configures the embedding and chat services.
type OpenAIConfig struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	EmbeddingModel string `toml:"embedding_model"`
	ChatModel      string `toml:"chat_model"`
}

// PineconeConfig configures the vector index.
type PineconeConfig struct {
	APIKey          string `toml:"api_key"`
	IndexName       string `toml:"index_name"`
	IndexHost       string `toml:"index_host"`
	ControlPlaneURL string `toml:"control_plane_url"`
	Cloud           string `toml:"cloud"`
	Region          string `toml:"region"`
}

// ExaConfig configures the content source.
type ExaConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// IndexConfig tunes the indexing pipeline.
type IndexConfig struct {
	Strategy     string `toml:"strategy"`
	Concurrency  int    `toml:"concurrency"`
	MaxRetries   int    `toml:"max_retries"`
	EmbedsPerSec int    `toml:"embeds_per_sec"`
}

// AskConfig tunes question answering.
type AskConfig struct {
	TopK            int    `toml:"top_k"`
	Brand           string `toml:"brand"`
	NoContextPolicy string `toml:"no_context_policy"`
}

// DefaultPath returns the default config file location,
// ~/.avenassist/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".avenassist", "config.toml"), nil
}

// ResolvedDataDir returns the configured data directory, falling back
// to ~/.avenassist/data.
func (c *Config) ResolvedDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".avenassist", "data"), nil
}

// Load reads the config file at path and applies environment overrides.
// A missing file is not an error; the zero config plus environment
// variables may be enough for some commands.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrConfig, path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvOpenAIAPIKey); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(EnvPineconeAPIKey); v != "" {
		c.Pinecone.APIKey = v
	}
	if v := os.Getenv(EnvExaAPIKey); v != "" {
		c.Exa.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Harvest.Title == "" {
		c.Harvest.Title = DefaultTitle
	}
	if c.Pinecone.IndexName == "" {
		c.Pinecone.IndexName = DefaultIndexName
	}
}

// ValidateHarvest checks the settings the harvest command needs.
func (c *Config) ValidateHarvest() error {
	if c.Exa.APIKey == "" {
		return fmt.Errorf("%w: exa API key is required (set exa.api_key or %s)", domain.ErrConfig, EnvExaAPIKey)
	}
	if len(c.Harvest.URLs) == 0 {
		return fmt.Errorf("%w: harvest.urls must list at least one source URL", domain.ErrConfig)
	}
	return nil
}

// ValidateIndex checks the settings the index command needs.
func (c *Config) ValidateIndex() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("%w: openai API key is required (set openai.api_key or %s)", domain.ErrConfig, EnvOpenAIAPIKey)
	}
	if c.Pinecone.APIKey == "" {
		return fmt.Errorf("%w: pinecone API key is required (set pinecone.api_key or %s)", domain.ErrConfig, EnvPineconeAPIKey)
	}
	return nil
}

// ValidateAsk checks the settings the ask command needs.
func (c *Config) ValidateAsk() error {
	if err := c.ValidateIndex(); err != nil {
		return err
	}
	if c.Ask.NoContextPolicy != "" {
		if _, err := domain.ParseNoContextPolicy(c.Ask.NoContextPolicy); err != nil {
			return fmt.Errorf("%w: ask.no_context_policy: %v", domain.ErrConfig, err)
		}
	}
	return nil
}
