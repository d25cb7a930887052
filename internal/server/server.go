package server

import (
	"net/http"

	"docsearch/internal/auth"
	"docsearch/internal/usecase"
)

// Server is the HTTP front of the document search service. It owns no
// mutable request state: the key registry and the document service are
// built once and shared read-only across requests.
type Server struct {
	docs *usecase.DocumentService
	keys *auth.Registry
}

// New creates a Server over the given document service and key registry.
func New(docs *usecase.DocumentService, keys *auth.Registry) *Server {
	return &Server{
		docs: docs,
		keys: keys,
	}
}

// Handler returns the route table. Mutating verbs on the documents
// resource additionally pass the writer gate; reads and search accept
// both roles.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.Handle("POST /v1/documents", s.authenticate(s.requireWriter(http.HandlerFunc(s.handleCreateDocument))))
	mux.Handle("GET /v1/documents/{id}", s.authenticate(http.HandlerFunc(s.handleGetDocument)))
	mux.Handle("DELETE /v1/documents/{id}", s.authenticate(s.requireWriter(http.HandlerFunc(s.handleDeleteDocument))))
	mux.Handle("POST /v1/search", s.authenticate(http.HandlerFunc(s.handleSearch)))

	return mux
}
