package port

import "context"

// Entry is a vector to be stored alongside its document payload.
type Entry struct {
	ID       string            // Document id, unique within the index
	Vector   []float32         // Embedding vector
	Text     string            // Source text, returned verbatim on reads
	Metadata map[string]string // Opaque caller metadata
}

// Match is a stored entry returned from a lookup or query.
type Match struct {
	ID       string
	Score    float32 // Similarity score, higher is more similar
	Text     string
	Metadata map[string]string
}

// VectorIndex is the uniform contract over the backing vector store.
// Every operation is independently failable and wraps its failures with
// an operation-identifying message.
type VectorIndex interface {
	// Upsert inserts or replaces entries keyed by id. Idempotent.
	Upsert(ctx context.Context, entries []Entry) error

	// DeleteByIDs removes entries for the given ids. Absent ids are not
	// an error.
	DeleteByIDs(ctx context.Context, ids []string) error

	// GetByID is an exact-key lookup. A hit carries score 1.0 (identity
	// lookup, not a similarity comparison); a miss returns found=false
	// with a nil error.
	GetByID(ctx context.Context, id string) (Match, bool, error)

	// Query returns up to limit nearest neighbors in descending score
	// order.
	Query(ctx context.Context, vector []float32, limit int) ([]Match, error)

	// Close releases any resources held by the index.
	Close() error
}
