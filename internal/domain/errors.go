package domain

import "errors"

// Sentinel errors for the failure classes the service distinguishes.
// Callers classify with errors.Is; adapters wrap these with an
// operation-identifying message.
var (
	ErrNotFound   = errors.New("document not found")
	ErrValidation = errors.New("validation failed")
	ErrEmbedding  = errors.New("embedding generation failed")
	ErrIndex      = errors.New("vector index operation failed")
)
