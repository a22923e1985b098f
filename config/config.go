package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the bracee engine.
type Config struct {
	AI        AIConfig        `yaml:"ai"`
	Storage   StorageConfig   `yaml:"storage"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AIConfig holds embedding and completion service configuration.
type AIConfig struct {
	EmbeddingHost   string `yaml:"embedding_host"`
	CompletionHost  string `yaml:"completion_host"`
	EmbeddingModel  string `yaml:"embedding_model"`
	CompletionModel string `yaml:"completion_model"`
	TokenEnv        string `yaml:"token_env"` // Environment variable for API key
}

// StorageConfig holds storage backend configuration.
type StorageConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

// RetrievalConfig holds retrieval tuning parameters.
type RetrievalConfig struct {
	// TopK is the default number of final results per query.
	TopK int `yaml:"top_k"`
	// CandidatePool is how many raw matches each facet namespace
	// contributes before fusion.
	CandidatePool int `yaml:"candidate_pool"`
	// FallbackPool is the pool size for the free-text fallback path,
	// used when an interpretation references no structured facet.
	FallbackPool int `yaml:"fallback_pool"`
	// RerankPool caps how many fused candidates are sent to the LLM judge.
	RerankPool int `yaml:"rerank_pool"`
	// RerankEnabled toggles the LLM reranking stage.
	RerankEnabled bool `yaml:"rerank_enabled"`
}

// IngestionConfig holds ingestion pipeline parameters.
type IngestionConfig struct {
	PoolSize  int `yaml:"pool_size"`
	BatchSize int `yaml:"batch_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			EmbeddingHost:   "http://localhost:11434/v1",
			CompletionHost:  "http://localhost:11434/v1",
			EmbeddingModel:  "embeddinggemma",
			CompletionModel: "qwen2.5:3b",
			TokenEnv:        "BRACEE_API_TOKEN",
		},
		Storage: StorageConfig{
			Path: "./bracee-data",
		},
		Retrieval: RetrievalConfig{
			TopK:          10,
			CandidatePool: 100,
			FallbackPool:  50,
			RerankPool:    20,
			RerankEnabled: true,
		},
		Ingestion: IngestionConfig{
			PoolSize:  4,
			BatchSize: 32,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for bracee.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "bracee.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".bracee", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.CandidatePool < c.Retrieval.TopK {
		return fmt.Errorf("retrieval.candidate_pool (%d) must be >= retrieval.top_k (%d)",
			c.Retrieval.CandidatePool, c.Retrieval.TopK)
	}
	if c.Retrieval.RerankPool < 1 {
		return fmt.Errorf("retrieval.rerank_pool must be positive, got %d", c.Retrieval.RerankPool)
	}
	if c.Ingestion.PoolSize < 1 {
		return fmt.Errorf("ingestion.pool_size must be positive, got %d", c.Ingestion.PoolSize)
	}
	return nil
}

// Token resolves the API token from the configured environment variable.
// Returns "none" when unset, which OpenAI-compatible local servers accept.
func (c *AIConfig) Token() string {
	if c.TokenEnv == "" {
		return "none"
	}
	if v := os.Getenv(c.TokenEnv); v != "" {
		return v
	}
	return "none"
}
