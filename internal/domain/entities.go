package domain

// Document is the unit of storage and retrieval. The id doubles as the
// vector-index key, so re-creating an id overwrites the prior document.
type Document struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SearchResult is a document plus the similarity score the index assigned
// to it for a particular query.
type SearchResult struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Score    float32           `json:"score"`
}

// Role is the access level resolved from a bearer token. Roles are ordered:
// a writer key is accepted everywhere a reader key is.
type Role int

const (
	RoleNone Role = iota
	RoleReader
	RoleWriter
)

// AtLeast reports whether r grants the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

func (r Role) String() string {
	switch r {
	case RoleWriter:
		return "writer"
	case RoleReader:
		return "reader"
	default:
		return "none"
	}
}
