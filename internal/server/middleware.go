package server

import (
	"context"
	"net/http"
	"strings"

	"docsearch/internal/domain"
)

type contextKey int

const roleKey contextKey = iota

// roleFromContext returns the role the authenticate middleware resolved
// for this request.
func roleFromContext(ctx context.Context) domain.Role {
	role, _ := ctx.Value(roleKey).(domain.Role)
	return role
}

// authenticate extracts the bearer token and classifies it. Anything
// other than an exact "Bearer <token>" header carrying a recognized key
// is a 401; role authorization happens later, per route.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		role := s.keys.Classify(token)
		if role == domain.RoleNone {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), roleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireWriter rejects reader-role requests on mutating routes with a
// distinct 403, so a valid reader key is told apart from no key at all.
func (s *Server) requireWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !roleFromContext(r.Context()).AtLeast(domain.RoleWriter) {
			writeError(w, http.StatusForbidden, "Writer key required for this endpoint")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken parses an Authorization header of exact form "Bearer <token>".
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := header[len(prefix):]
	if token == "" {
		return "", false
	}
	return token, true
}
