package auth

import (
	"strings"

	"docsearch/internal/domain"
)

// Registry holds the configured API key sets. It is built once at startup
// and never mutated from request handling.
type Registry struct {
	writer map[string]struct{}
	reader map[string]struct{}
}

// NewRegistry parses raw key material into writer and reader sets. Each
// input may contain multiple tokens separated by commas or newlines;
// tokens are trimmed and empty ones dropped. The legacy single-key value
// is merged into the writer set.
func NewRegistry(legacyKey, writerKeys, readerKeys string) *Registry {
	r := &Registry{
		writer: make(map[string]struct{}),
		reader: make(map[string]struct{}),
	}
	addKeys(r.writer, legacyKey)
	addKeys(r.writer, writerKeys)
	addKeys(r.reader, readerKeys)
	return r
}

// Classify resolves a token to a role. Writer membership dominates: a
// token present in both sets is a writer. With no keys configured at all,
// every token classifies as RoleNone.
func (r *Registry) Classify(token string) domain.Role {
	if _, ok := r.writer[token]; ok {
		return domain.RoleWriter
	}
	if _, ok := r.reader[token]; ok {
		return domain.RoleReader
	}
	return domain.RoleNone
}

// Empty reports whether no keys are configured.
func (r *Registry) Empty() bool {
	return len(r.writer) == 0 && len(r.reader) == 0
}

func addKeys(set map[string]struct{}, raw string) {
	for _, part := range strings.FieldsFunc(raw, func(c rune) bool {
		return c == ',' || c == '\n'
	}) {
		key := strings.TrimSpace(part)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
}
