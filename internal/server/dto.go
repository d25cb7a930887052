package server

import "docsearch/internal/domain"

// CreateDocumentRequest is the body of POST /v1/documents.
type CreateDocumentRequest struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CreateDocumentResponse is the success body of POST /v1/documents.
type CreateDocumentResponse struct {
	ID string `json:"id"`
}

// DeleteDocumentResponse is the success body of DELETE /v1/documents/{id}.
type DeleteDocumentResponse struct {
	Success bool `json:"success"`
}

// SearchRequest is the body of POST /v1/search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResponse is the success body of POST /v1/search.
type SearchResponse struct {
	Results []domain.SearchResult `json:"results"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
