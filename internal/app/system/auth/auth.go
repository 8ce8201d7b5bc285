// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/deptnews/internal/app/system/respond"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-Identity helper                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Identity is the verified caller, injected into r.Context() by LoadIdentity.
// Department is only meaningful for department accounts.
type Identity struct {
	UserID     string
	Username   string
	Role       string // admin | department
	Department string
}

// IsAdmin reports whether the identity has the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == "admin"
}

type ctxKey string

const currentIdentityKey ctxKey = "currentIdentity"

// ErrNoToken is returned when a request carries no bearer token.
var ErrNoToken = errors.New("token missing")

// CurrentIdentity returns the identity & "found?" flag.
func CurrentIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(currentIdentityKey).(Identity)
	return id, ok
}

// WithTestIdentity injects an identity directly, bypassing token checks.
// Only tests should call this.
func WithTestIdentity(r *http.Request, id Identity) *http.Request {
	return withIdentity(r, id)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// Manager verifies bearer tokens and guards routes.
type Manager struct {
	tokens *Tokens
	log    *zap.Logger
}

// NewManager constructs a Manager around a token issuer/verifier.
func NewManager(tokens *Tokens, logger *zap.Logger) *Manager {
	return &Manager{tokens: tokens, log: logger}
}

// Tokens returns the underlying token issuer/verifier.
func (m *Manager) Tokens() *Tokens { return m.tokens }

// LoadIdentity injects the caller into context when the request carries a
// valid bearer token. Requests without a token, or with a bad one, continue
// anonymously; RequireSignedIn decides whether that is acceptable.
func (m *Manager) LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, err := bearerToken(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		id, err := m.tokens.Verify(tok)
		if err != nil {
			m.log.Debug("rejected bearer token", zap.Error(err), zap.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withIdentity(r, id))
	})
}

// LoadQueryToken is LoadIdentity for clients that cannot set headers, such
// as browser EventSource streams. It reads the token from ?access_token=
// when no identity was loaded from the Authorization header.
func (m *Manager) LoadQueryToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentIdentity(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		tok := strings.TrimSpace(r.URL.Query().Get("access_token"))
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := m.tokens.Verify(tok)
		if err != nil {
			m.log.Debug("rejected query token", zap.Error(err), zap.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withIdentity(r, id))
	})
}

// RequireSignedIn ensures there is an identity in context (set by LoadIdentity).
func (m *Manager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentIdentity(r); !ok {
			respond.Error(w, http.StatusUnauthorized, "Token missing or invalid")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures there is an identity with one of the allowed roles.
func (m *Manager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := CurrentIdentity(r)

			// 1) Not signed in → 401
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "Token missing or invalid")
				return
			}

			// 2) Signed in but wrong role → 403
			if _, has := set[strings.ToLower(id.Role)]; !has {
				respond.Error(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin allows only admin identities; others get 403 "Admins only".
func (m *Manager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := CurrentIdentity(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "Token missing or invalid")
			return
		}
		if !id.IsAdmin() {
			respond.Error(w, http.StatusForbidden, "Admins only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// helpers

func withIdentity(r *http.Request, id Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentIdentityKey, id))
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	scheme, tok, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
		return "", ErrNoToken
	}
	return strings.TrimSpace(tok), nil
}
