package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// MemoryIndex is an in-process VectorIndex. It backs tests and local
// development runs; search is brute-force cosine similarity.
type MemoryIndex struct {
	mu        sync.RWMutex
	dimension int
	entries   map[string]port.Entry
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex(dimension int) *MemoryIndex {
	return &MemoryIndex{
		dimension: dimension,
		entries:   make(map[string]port.Entry),
	}
}

// Upsert implements port.VectorIndex.
func (s *MemoryIndex) Upsert(_ context.Context, entries []port.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if len(e.Vector) != s.dimension {
			return fmt.Errorf("%w: upsert: vector dimension mismatch: expected %d, got %d",
				domain.ErrIndex, s.dimension, len(e.Vector))
		}
	}
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return nil
}

// DeleteByIDs implements port.VectorIndex. Absent ids are ignored.
func (s *MemoryIndex) DeleteByIDs(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.entries, id)
	}
	return nil
}

// GetByID implements port.VectorIndex. A hit is an identity lookup, so the
// score is pinned to 1.0 rather than computed.
func (s *MemoryIndex) GetByID(_ context.Context, id string) (port.Match, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return port.Match{}, false, nil
	}
	return port.Match{
		ID:       e.ID,
		Score:    1.0,
		Text:     e.Text,
		Metadata: e.Metadata,
	}, true, nil
}

// Query implements port.VectorIndex.
func (s *MemoryIndex) Query(_ context.Context, vector []float32, limit int) ([]port.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query: vector dimension mismatch: expected %d, got %d",
			domain.ErrIndex, s.dimension, len(vector))
	}
	if len(s.entries) == 0 || limit <= 0 {
		return nil, nil
	}

	matches := make([]port.Match, 0, len(s.entries))
	for _, e := range s.entries {
		matches = append(matches, port.Match{
			ID:       e.ID,
			Score:    cosineSimilarity(vector, e.Vector),
			Text:     e.Text,
			Metadata: e.Metadata,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

// Close implements port.VectorIndex.
func (s *MemoryIndex) Close() error {
	return nil
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)))
}
