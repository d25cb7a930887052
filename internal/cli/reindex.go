package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docsearch/internal/domain"
)

var (
	reindexAddr  string
	reindexKey   string
	reindexSeeds []string
	reindexClean bool
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Bulk load seed documents through the public API",
	Long: `Read seed documents from local JSON files and create them through the
service's HTTP API, one round-trip per document. Each document succeeds or
fails on its own; the command exits non-zero if any document failed.

Seed files contain a JSON array of {"id", "text", "metadata"} objects.

Examples:
  docsearch reindex --seeds 'seeds/**/*.json'
  docsearch reindex --seeds seeds.json --clean`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)

	reindexCmd.Flags().StringVar(&reindexAddr, "addr", "http://localhost:8080", "service base URL")
	reindexCmd.Flags().StringVar(&reindexKey, "key", "", "writer API key (default is $DOCSEARCH_API_KEY)")
	reindexCmd.Flags().StringArrayVar(&reindexSeeds, "seeds", nil, "glob pattern(s) for seed JSON files")
	reindexCmd.Flags().BoolVar(&reindexClean, "clean", false, "delete each document before re-creating it")
}

func runReindex(cmd *cobra.Command, args []string) error {
	key := reindexKey
	if key == "" {
		key = os.Getenv("DOCSEARCH_API_KEY")
	}
	if key == "" {
		return fmt.Errorf("writer API key required (--key or DOCSEARCH_API_KEY)")
	}
	if len(reindexSeeds) == 0 {
		return fmt.Errorf("at least one --seeds pattern is required")
	}

	seeds, err := loadSeeds(reindexSeeds)
	if err != nil {
		return err
	}
	if len(seeds) == 0 {
		return fmt.Errorf("no seed documents matched %v", reindexSeeds)
	}

	fmt.Printf("Reindexing %d documents via %s...\n", len(seeds), reindexAddr)

	client := &reindexClient{
		baseURL: reindexAddr,
		key:     key,
		http:    &http.Client{Timeout: 60 * time.Second},
	}

	bar := progressbar.NewOptions(len(seeds),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Reindexing[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	// One round-trip at a time: no ordering guarantee exists between
	// documents, but each one succeeds or fails independently.
	var succeeded, failed int
	var failures []string
	for i, doc := range seeds {
		if err := client.reindexOne(doc, reindexClean); err != nil {
			failed++
			failures = append(failures, fmt.Sprintf("%s: %v", doc.ID, err))
		} else {
			succeeded++
		}
		bar.Set(i + 1)
	}

	fmt.Printf("\nReindex complete:\n")
	fmt.Printf("  Succeeded: %d\n", succeeded)
	fmt.Printf("  Failed:    %d\n", failed)

	if failed > 0 {
		fmt.Printf("\nFailures:\n")
		for _, f := range failures {
			fmt.Printf("  - %s\n", f)
		}
		return fmt.Errorf("%d of %d documents failed", failed, len(seeds))
	}
	return nil
}

// loadSeeds reads every seed file matched by the given glob patterns.
func loadSeeds(patterns []string) ([]domain.Document, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid seeds pattern %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}

	var docs []domain.Document
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var fileDocs []domain.Document
		if err := json.Unmarshal(data, &fileDocs); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		docs = append(docs, fileDocs...)
	}
	return docs, nil
}

// reindexClient is a thin client of the public HTTP API.
type reindexClient struct {
	baseURL string
	key     string
	http    *http.Client
}

func (c *reindexClient) reindexOne(doc domain.Document, clean bool) error {
	if clean {
		if err := c.delete(doc.ID); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
	}
	if err := c.create(doc); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

func (c *reindexClient) create(doc domain.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/documents", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *reindexClient) delete(id string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/v1/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.do(req)
}

func (c *reindexClient) do(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}
