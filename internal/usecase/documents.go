package usecase

import (
	"context"
	"fmt"

	"docsearch/internal/domain"
	"docsearch/internal/port"
)

// DefaultSearchLimit is used when a search request carries no limit.
const DefaultSearchLimit = 10

// DocumentService orchestrates the embedder and the vector index to
// implement document create/update, fetch, delete, and search. Each call
// is single-document atomic: an embedding or index failure aborts the
// whole operation, never leaving a partial write.
type DocumentService struct {
	embedder port.Embedder
	index    port.VectorIndex
}

// NewDocumentService creates a document service.
func NewDocumentService(embedder port.Embedder, index port.VectorIndex) *DocumentService {
	return &DocumentService{
		embedder: embedder,
		index:    index,
	}
}

// CreateOrUpdate embeds text and stores it under id, overwriting any prior
// document with the same id. Validation runs before the embedding call so
// malformed input never spends a model round-trip.
func (s *DocumentService) CreateOrUpdate(ctx context.Context, id, text string, metadata map[string]string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	if text == "" {
		return "", fmt.Errorf("%w: text is required", domain.ErrValidation)
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return "", err
	}

	err = s.index.Upsert(ctx, []port.Entry{{
		ID:       id,
		Vector:   vector,
		Text:     text,
		Metadata: metadata,
	}})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetByID fetches a document by exact id. A miss is domain.ErrNotFound,
// a normal outcome rather than an index failure.
func (s *DocumentService) GetByID(ctx context.Context, id string) (domain.Document, error) {
	if id == "" {
		return domain.Document{}, fmt.Errorf("%w: id is required", domain.ErrValidation)
	}

	match, found, err := s.index.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	if !found {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	return domain.Document{
		ID:       match.ID,
		Text:     match.Text,
		Metadata: match.Metadata,
	}, nil
}

// DeleteByID removes a document. Deleting an absent id succeeds.
func (s *DocumentService) DeleteByID(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	return s.index.DeleteByIDs(ctx, []string{id})
}

// Search embeds the query and returns up to limit nearest documents in
// the index's similarity order. An empty result set is valid.
func (s *DocumentService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := s.index.Query(ctx, vector, limit)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, domain.SearchResult{
			ID:       m.ID,
			Text:     m.Text,
			Metadata: m.Metadata,
			Score:    m.Score,
		})
	}
	return results, nil
}
