package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected Addr=:8080, got %s", cfg.Server.Addr)
	}
	if cfg.Embedding.Dimension != 256 {
		t.Errorf("expected Dimension=256, got %d", cfg.Embedding.Dimension)
	}
	if cfg.Embedding.Provider != "workersai" {
		t.Errorf("expected Provider=workersai, got %s", cfg.Embedding.Provider)
	}
	if cfg.Index.Backend != "bolt" {
		t.Errorf("expected Backend=bolt, got %s", cfg.Index.Backend)
	}
	if cfg.Auth.WriterKeysEnv != "DOCSEARCH_WRITER_KEYS" {
		t.Errorf("unexpected WriterKeysEnv: %s", cfg.Auth.WriterKeysEnv)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "docsearch.yaml")

	content := `
server:
  addr: ":9000"
embedding:
  provider: mock
  dimension: 64
index:
  backend: memory
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected Addr=:9000, got %s", cfg.Server.Addr)
	}
	if cfg.Embedding.Provider != "mock" {
		t.Errorf("expected Provider=mock, got %s", cfg.Embedding.Provider)
	}
	if cfg.Embedding.Dimension != 64 {
		t.Errorf("expected Dimension=64, got %d", cfg.Embedding.Dimension)
	}
	if cfg.Index.Backend != "memory" {
		t.Errorf("expected Backend=memory, got %s", cfg.Index.Backend)
	}
	// Untouched sections keep their defaults.
	if cfg.Auth.LegacyKeyEnv != "DOCSEARCH_API_KEY" {
		t.Errorf("expected default LegacyKeyEnv, got %s", cfg.Auth.LegacyKeyEnv)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "docsearch.yaml")

	content := `
index:
  backend: qdrant
  qdrant:
    url: "https://example.qdrant.io:6334"
    collection: docs
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Index.Backend != "qdrant" {
		t.Errorf("expected Backend=qdrant, got %s", cfg.Index.Backend)
	}
	if cfg.Index.Qdrant.Collection != "docs" {
		t.Errorf("expected Collection=docs, got %s", cfg.Index.Qdrant.Collection)
	}
}

func TestLoadFromDir_NoFile(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected defaults when no file present, got %s", cfg.Server.Addr)
	}
}
