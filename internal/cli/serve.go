package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"docsearch/config"
	"docsearch/internal/adapter/cache"
	"docsearch/internal/adapter/embedding"
	"docsearch/internal/adapter/index"
	"docsearch/internal/auth"
	"docsearch/internal/port"
	"docsearch/internal/server"
	"docsearch/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the document search HTTP service",
	Long: `Start the HTTP service on the configured address. API keys are read
from the environment variables named in the auth section of the config;
with no keys configured the service rejects every request.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := cmd.Context()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	idx, err := buildIndex(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open vector index: %w", err)
	}
	defer idx.Close()

	keys := auth.NewRegistry(
		os.Getenv(cfg.Auth.LegacyKeyEnv),
		os.Getenv(cfg.Auth.WriterKeysEnv),
		os.Getenv(cfg.Auth.ReaderKeysEnv),
	)
	if keys.Empty() {
		log.Printf("[serve] no API keys configured; every request will be rejected")
	}

	docs := usecase.NewDocumentService(embedder, idx)
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(docs, keys).Handler(),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[serve] listening on %s (index=%s, model=%s)",
			cfg.Server.Addr, cfg.Index.Backend, cfg.Embedding.Model)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-shutdownCtx.Done():
		log.Printf("[serve] shutting down")
		drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(drainCtx)
	}
}

// buildEmbedder wires the configured model client, cache, and the
// dimension-truncating provider.
func buildEmbedder(cfg *config.Config) (port.Embedder, error) {
	var model port.ModelClient
	var err error

	switch cfg.Embedding.Provider {
	case "workersai":
		model, err = embedding.NewWorkersAIClient(
			cfg.Embedding.AccountIDEnv, cfg.Embedding.APIKeyEnv,
			cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "openai":
		model, err = embedding.NewOpenAIClient(
			cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "mock":
		model = embedding.NewMockModel(cfg.Embedding.Dimension)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
	if err != nil {
		return nil, err
	}

	embedCache, err := buildEmbedCache(cfg.Embedding.Cache)
	if err != nil {
		return nil, err
	}

	return embedding.NewProvider(model, cfg.Embedding.Dimension, embedCache), nil
}

func buildEmbedCache(cfg config.CacheConfig) (port.EmbedCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	switch cfg.Backend {
	case "memory", "":
		return cache.NewMemoryCache(cfg.MaxEntries, ttl), nil
	case "redis":
		addr := os.Getenv(cfg.RedisAddrEnv)
		if addr == "" {
			return nil, fmt.Errorf("redis address not found in environment variable: %s", cfg.RedisAddrEnv)
		}
		client := redis.NewClient(&redis.Options{Addr: addr})
		return cache.NewRedisCache(client, ttl), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}

func buildIndex(ctx context.Context, cfg *config.Config) (port.VectorIndex, error) {
	switch cfg.Index.Backend {
	case "qdrant":
		return index.NewQdrantIndex(ctx, index.QdrantConfig{
			URL:        cfg.Index.Qdrant.URL,
			Collection: cfg.Index.Qdrant.Collection,
			APIKey:     os.Getenv(cfg.Index.Qdrant.APIKeyEnv),
			Dimension:  cfg.Embedding.Dimension,
		})
	case "bolt":
		return index.NewBoltIndex(cfg.Index.Bolt.Path, cfg.Embedding.Dimension)
	case "memory":
		return index.NewMemoryIndex(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported index backend: %s", cfg.Index.Backend)
	}
}
