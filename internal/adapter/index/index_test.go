package index

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"docsearch/internal/port"
)

// backends under the same contract tests.
func openBackends(t *testing.T, dimension int) map[string]port.VectorIndex {
	t.Helper()

	bolt, err := NewBoltIndex(filepath.Join(t.TempDir(), "index.db"), dimension)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { bolt.Close() })

	return map[string]port.VectorIndex{
		"memory": NewMemoryIndex(dimension),
		"bolt":   bolt,
	}
}

func TestUpsertGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, idx := range openBackends(t, 3) {
		t.Run(name, func(t *testing.T) {
			err := idx.Upsert(ctx, []port.Entry{{
				ID:       "doc1",
				Vector:   []float32{1, 0, 0},
				Text:     "hello world",
				Metadata: map[string]string{"source": "test"},
			}})
			if err != nil {
				t.Fatal(err)
			}

			match, found, err := idx.GetByID(ctx, "doc1")
			if err != nil {
				t.Fatal(err)
			}
			if !found {
				t.Fatal("expected doc1 to be found")
			}
			if match.ID != "doc1" || match.Text != "hello world" {
				t.Errorf("unexpected match: %+v", match)
			}
			if match.Score != 1.0 {
				t.Errorf("exact lookup should score 1.0, got %f", match.Score)
			}
			if match.Metadata["source"] != "test" {
				t.Errorf("metadata not preserved: %v", match.Metadata)
			}
		})
	}
}

func TestGetByID_Miss(t *testing.T) {
	ctx := context.Background()
	for name, idx := range openBackends(t, 3) {
		t.Run(name, func(t *testing.T) {
			_, found, err := idx.GetByID(ctx, "missing")
			if err != nil {
				t.Fatalf("miss should not be an error: %v", err)
			}
			if found {
				t.Error("expected found=false for absent id")
			}
		})
	}
}

func TestUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, idx := range openBackends(t, 3) {
		t.Run(name, func(t *testing.T) {
			for _, text := range []string{"first", "second"} {
				err := idx.Upsert(ctx, []port.Entry{{
					ID:     "doc1",
					Vector: []float32{1, 0, 0},
					Text:   text,
				}})
				if err != nil {
					t.Fatal(err)
				}
			}

			match, found, err := idx.GetByID(ctx, "doc1")
			if err != nil || !found {
				t.Fatalf("expected hit, found=%v err=%v", found, err)
			}
			if match.Text != "second" {
				t.Errorf("expected overwrite, got text %q", match.Text)
			}

			results, err := idx.Query(ctx, []float32{1, 0, 0}, 10)
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != 1 {
				t.Errorf("overwrite should not duplicate, got %d results", len(results))
			}
		})
	}
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, idx := range openBackends(t, 3) {
		t.Run(name, func(t *testing.T) {
			if err := idx.DeleteByIDs(ctx, []string{"never-existed"}); err != nil {
				t.Fatalf("deleting absent id should succeed: %v", err)
			}

			err := idx.Upsert(ctx, []port.Entry{{ID: "doc1", Vector: []float32{1, 0, 0}, Text: "x"}})
			if err != nil {
				t.Fatal(err)
			}
			if err := idx.DeleteByIDs(ctx, []string{"doc1"}); err != nil {
				t.Fatal(err)
			}
			if err := idx.DeleteByIDs(ctx, []string{"doc1"}); err != nil {
				t.Fatalf("second delete should succeed: %v", err)
			}

			_, found, err := idx.GetByID(ctx, "doc1")
			if err != nil {
				t.Fatal(err)
			}
			if found {
				t.Error("doc1 should be gone after delete")
			}
		})
	}
}

func TestQueryOrdering(t *testing.T) {
	ctx := context.Background()
	for name, idx := range openBackends(t, 3) {
		t.Run(name, func(t *testing.T) {
			entries := []port.Entry{
				{ID: "a", Vector: []float32{1, 0, 0}, Text: "a"},
				{ID: "b", Vector: []float32{0.9, 0.1, 0}, Text: "b"},
				{ID: "c", Vector: []float32{0, 0, 1}, Text: "c"},
			}
			if err := idx.Upsert(ctx, entries); err != nil {
				t.Fatal(err)
			}

			results, err := idx.Query(ctx, []float32{1, 0, 0}, 2)
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != 2 {
				t.Fatalf("expected 2 results, got %d", len(results))
			}
			if results[0].Score < results[1].Score {
				t.Errorf("results not in descending score order: %f < %f", results[0].Score, results[1].Score)
			}
			if results[0].ID != "a" {
				t.Errorf("expected closest match a, got %s", results[0].ID)
			}
		})
	}
}

func TestUpsertDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	for name, idx := range openBackends(t, 3) {
		t.Run(name, func(t *testing.T) {
			err := idx.Upsert(ctx, []port.Entry{{ID: "a", Vector: []float32{1, 0}, Text: "a"}})
			if err == nil {
				t.Error("expected upsert to reject wrong dimension")
			}
		})
	}
}

func TestUpsertFailedBatchLeavesNothing(t *testing.T) {
	ctx := context.Background()
	for name, idx := range openBackends(t, 3) {
		t.Run(name, func(t *testing.T) {
			err := idx.Upsert(ctx, []port.Entry{
				{ID: "good", Vector: []float32{1, 0, 0}, Text: "good"},
				{ID: "bad", Vector: []float32{1, 0}, Text: "bad"},
			})
			if err == nil {
				t.Fatal("expected batch with a bad dimension to fail")
			}

			// The failed batch must not apply partially: neither entry
			// may be visible.
			for _, id := range []string{"good", "bad"} {
				_, found, err := idx.GetByID(ctx, id)
				if err != nil {
					t.Fatal(err)
				}
				if found {
					t.Errorf("failed batch left %q visible", id)
				}
			}

			results, err := idx.Query(ctx, []float32{1, 0, 0}, 10)
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != 0 {
				t.Errorf("failed batch left %d entries queryable", len(results))
			}
		})
	}
}

func TestBoltIndexFailedBatchNotVisibleAfterReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	idx, err := NewBoltIndex(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	err = idx.Upsert(ctx, []port.Entry{
		{ID: "good", Vector: []float32{1, 0, 0}, Text: "good"},
		{ID: "bad", Vector: []float32{1, 0}, Text: "bad"},
	})
	if err == nil {
		t.Fatal("expected batch with a bad dimension to fail")
	}

	// The in-process view and the durable state must agree.
	if _, found, _ := idx.GetByID(ctx, "good"); found {
		t.Error("failed batch left good visible before restart")
	}
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBoltIndex(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if _, found, _ := reopened.GetByID(ctx, "good"); found {
		t.Error("failed batch was durably written")
	}
}

func TestBoltIndexPersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "index.db")

	idx, err := NewBoltIndex(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	err = idx.Upsert(ctx, []port.Entry{{
		ID:       "doc1",
		Vector:   []float32{0.5, 0.5, 0},
		Text:     "persisted",
		Metadata: map[string]string{"k": "v"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBoltIndex(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	match, found, err := reopened.GetByID(ctx, "doc1")
	if err != nil || !found {
		t.Fatalf("expected doc1 after reopen, found=%v err=%v", found, err)
	}
	if match.Text != "persisted" || match.Metadata["k"] != "v" {
		t.Errorf("unexpected match after reopen: %+v", match)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("cosineSimilarity = %f, want %f", got, tt.want)
			}
		})
	}
}
