package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all recall configuration.
type Config struct {
	Memory MemoryConfig `yaml:"memory"`
	Store  StoreConfig  `yaml:"store"`
	Loader LoaderConfig `yaml:"loader"`
	Log    LogConfig    `yaml:"log"`
}

// MemoryConfig locates the lightweight backing files (topic index, timeline).
type MemoryConfig struct {
	Dir          string `yaml:"dir" env:"RECALL_MEMORY_DIR"`
	TimelinePath string `yaml:"timeline_path" env:"RECALL_TIMELINE_PATH"`
	IndexPath    string `yaml:"index_path" env:"RECALL_INDEX_PATH"`
}

// StoreConfig locates the full-memory SQLite database.
type StoreConfig struct {
	Path string `yaml:"path" env:"RECALL_STORE_PATH"`
}

// LoaderConfig tunes the progressive disclosure pipeline.
type LoaderConfig struct {
	MaxTokens           int     `yaml:"max_tokens" env:"RECALL_MAX_TOKENS"`
	RelevanceThreshold  float64 `yaml:"relevance_threshold" env:"RECALL_RELEVANCE_THRESHOLD"`
	EscalationThreshold float64 `yaml:"escalation_threshold" env:"RECALL_ESCALATION_THRESHOLD"`
	TimelineLimit       int     `yaml:"timeline_limit" env:"RECALL_TIMELINE_LIMIT"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level" env:"RECALL_LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"RECALL_LOG_PRETTY"`
}

// Default returns a Config with sensible defaults. Paths left empty are
// resolved under the memory dir (or ~/.recall) at runtime.
func Default() Config {
	return Config{
		Loader: LoaderConfig{
			MaxTokens:           2000,
			RelevanceThreshold:  0.5,
			EscalationThreshold: 0.8,
			TimelineLimit:       5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultDir returns the default base directory: ~/.recall
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".recall"), nil
}

// Load reads an optional YAML config file, then applies RECALL_* environment
// overrides. A missing file is not an error; a malformed one is, since a
// half-read config is worse than no config.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// Resolve fills in any empty paths under the memory dir.
func (c *Config) Resolve() error {
	if c.Memory.Dir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		c.Memory.Dir = dir
	}
	if c.Memory.TimelinePath == "" {
		c.Memory.TimelinePath = filepath.Join(c.Memory.Dir, "timeline.json")
	}
	if c.Memory.IndexPath == "" {
		c.Memory.IndexPath = filepath.Join(c.Memory.Dir, "topic-index.json")
	}
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.Memory.Dir, "recall.db")
	}
	return nil
}

// normalize clamps out-of-range tunables back to defaults rather than
// failing: a bad threshold should not take retrieval down.
func (c *Config) normalize() {
	def := Default()
	if c.Loader.MaxTokens <= 0 {
		c.Loader.MaxTokens = def.Loader.MaxTokens
	}
	if c.Loader.RelevanceThreshold < 0 || c.Loader.RelevanceThreshold > 1 {
		c.Loader.RelevanceThreshold = def.Loader.RelevanceThreshold
	}
	if c.Loader.EscalationThreshold < 0 || c.Loader.EscalationThreshold > 1 {
		c.Loader.EscalationThreshold = def.Loader.EscalationThreshold
	}
	if c.Loader.TimelineLimit <= 0 {
		c.Loader.TimelineLimit = def.Loader.TimelineLimit
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
