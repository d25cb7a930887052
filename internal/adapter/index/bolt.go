package index

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

var bucketEntries = []byte("entries")

// BoltIndex is a single-node persistent VectorIndex backed by BoltDB.
// All entries are mirrored in memory for search; BoltDB is the durable
// copy. Search is brute-force cosine similarity, which is fine for the
// corpus sizes a single-node deployment carries.
type BoltIndex struct {
	db        *bbolt.DB
	dimension int
	mu        sync.RWMutex
	entries   map[string]port.Entry
}

type storedEntry struct {
	Vector   []float32         `json:"v"`
	Text     string            `json:"t"`
	Metadata map[string]string `json:"m,omitempty"`
}

// NewBoltIndex opens (or creates) a BoltDB-backed index at path.
func NewBoltIndex(path string, dimension int) (*BoltIndex, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrIndex, path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create bucket: %v", domain.ErrIndex, err)
	}

	idx := &BoltIndex{
		db:        db,
		dimension: dimension,
		entries:   make(map[string]port.Entry),
	}
	if err := idx.loadEntries(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: load entries: %v", domain.ErrIndex, err)
	}
	return idx, nil
}

// loadEntries loads all stored entries into memory.
func (s *BoltIndex) loadEntries() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var stored storedEntry
			if err := json.Unmarshal(v, &stored); err != nil {
				return nil // Skip corrupted entries
			}
			s.entries[string(k)] = port.Entry{
				ID:       string(k),
				Vector:   stored.Vector,
				Text:     stored.Text,
				Metadata: stored.Metadata,
			}
			return nil
		})
	})
}

// Upsert implements port.VectorIndex. The memory mirror is touched only
// after the transaction commits: a failed batch rolls back entirely and
// must not leave phantom entries visible to GetByID or Query.
func (s *BoltIndex) Upsert(_ context.Context, entries []port.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if len(e.Vector) != s.dimension {
			return fmt.Errorf("%w: upsert: vector dimension mismatch: expected %d, got %d",
				domain.ErrIndex, s.dimension, len(e.Vector))
		}
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		if b == nil {
			return fmt.Errorf("entries bucket not found")
		}

		for _, e := range entries {
			data, err := json.Marshal(storedEntry{
				Vector:   e.Vector,
				Text:     e.Text,
				Metadata: e.Metadata,
			})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(e.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: upsert: %v", domain.ErrIndex, err)
	}

	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return nil
}

// DeleteByIDs implements port.VectorIndex. Absent ids are ignored.
func (s *BoltIndex) DeleteByIDs(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		if b == nil {
			return nil
		}
		for _, id := range ids {
			if err := b.Delete([]byte(id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: delete: %v", domain.ErrIndex, err)
	}

	for _, id := range ids {
		delete(s.entries, id)
	}
	return nil
}

// GetByID implements port.VectorIndex.
func (s *BoltIndex) GetByID(_ context.Context, id string) (port.Match, bool, error) {
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
func (s *BoltIndex) Query(_ context.Context, vector []float32, limit int) ([]port.Match, error) {
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
func (s *BoltIndex) Close() error {
	return s.db.Close()
}
