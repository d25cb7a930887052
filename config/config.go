package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the document search service.
// Secrets never live here: fields ending in Env name the environment
// variable the value is read from at startup.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// EmbeddingConfig holds embedding model configuration.
type EmbeddingConfig struct {
	Provider     string      `yaml:"provider"`       // "workersai", "openai", "mock"
	Model        string      `yaml:"model"`          // e.g. "@cf/baai/bge-base-en-v1.5"
	Dimension    int         `yaml:"dimension"`      // index dimensionality; longer model output is truncated
	APIKeyEnv    string      `yaml:"api_key_env"`    // Environment variable for the API key/token
	AccountIDEnv string      `yaml:"account_id_env"` // Environment variable for the Workers AI account id
	BaseURL      string      `yaml:"base_url"`       // Override for tests and self-hosted gateways
	Cache        CacheConfig `yaml:"cache"`
}

// CacheConfig holds embedding cache configuration.
type CacheConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Backend      string `yaml:"backend"`        // "memory", "redis"
	RedisAddrEnv string `yaml:"redis_addr_env"` // Environment variable for the Redis address
	MaxEntries   int    `yaml:"max_entries"`    // memory backend only
	TTLSeconds   int    `yaml:"ttl_seconds"`
}

// IndexConfig holds vector index configuration.
type IndexConfig struct {
	Backend string       `yaml:"backend"` // "qdrant", "bolt", "memory"
	Qdrant  QdrantConfig `yaml:"qdrant"`
	Bolt    BoltConfig   `yaml:"bolt"`
}

// QdrantConfig holds Qdrant backend configuration.
type QdrantConfig struct {
	URL        string `yaml:"url"`
	APIKeyEnv  string `yaml:"api_key_env"`
	Collection string `yaml:"collection"`
}

// BoltConfig holds local BoltDB backend configuration.
type BoltConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig names the environment variables carrying API key material.
type AuthConfig struct {
	LegacyKeyEnv  string `yaml:"legacy_key_env"`
	WriterKeysEnv string `yaml:"writer_keys_env"`
	ReaderKeysEnv string `yaml:"reader_keys_env"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Embedding: EmbeddingConfig{
			Provider:     "workersai",
			Model:        "@cf/baai/bge-base-en-v1.5",
			Dimension:    256,
			APIKeyEnv:    "CF_API_TOKEN",
			AccountIDEnv: "CF_ACCOUNT_ID",
			Cache: CacheConfig{
				Enabled:    false,
				Backend:    "memory",
				MaxEntries: 1000,
				TTLSeconds: 300,
			},
		},
		Index: IndexConfig{
			Backend: "bolt",
			Qdrant: QdrantConfig{
				APIKeyEnv:  "QDRANT_API_KEY",
				Collection: "documents",
			},
			Bolt: BoltConfig{
				Path: "docsearch.db",
			},
		},
		Auth: AuthConfig{
			LegacyKeyEnv:  "DOCSEARCH_API_KEY",
			WriterKeysEnv: "DOCSEARCH_WRITER_KEYS",
			ReaderKeysEnv: "DOCSEARCH_READER_KEYS",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docsearch.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docsearch.yaml")
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
