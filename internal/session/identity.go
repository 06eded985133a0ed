package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/decodedesk/decodedesk/internal/api"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the resolved caller of a request: either an authenticated
// account or an anonymous guest session. Key is the stable string the quota
// manager tracks records under.
type Identity struct {
	Key           string
	Authenticated bool
	SessionID     string
	UserID        string
	Email         string
	Plan          string
}

// Unlimited reports whether the identity bypasses the local quota entirely.
func (i *Identity) Unlimited() bool {
	return i.Authenticated && i.Plan == "pro"
}

// Claims is the subset of access-token claims the identity middleware needs.
type Claims struct {
	UserID string
	Email  string
	Plan   string
}

// ValidateToken checks a bearer access token; wired from the auth service
// in main to keep this package free of a dependency on auth internals.
type ValidateToken func(token string) (*Claims, error)

// Middleware resolves the request identity from a Bearer access token or an
// X-Session-ID guest token, rejecting requests that carry neither.
func Middleware(validate ValidateToken, sessions *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
					api.HandleError(w, api.ErrUnauthorized)
					return
				}
				claims, err := validate(parts[1])
				if err != nil {
					api.HandleError(w, api.ErrInvalidToken)
					return
				}
				ident := &Identity{
					Key:           "user:" + claims.UserID,
					Authenticated: true,
					UserID:        claims.UserID,
					Email:         claims.Email,
					Plan:          claims.Plan,
				}
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
				return
			}

			if sid := r.Header.Get("X-Session-ID"); sid != "" {
				if !sessions.Validate(r.Context(), sid) {
					api.HandleError(w, api.ErrInvalidToken)
					return
				}
				ident := &Identity{
					Key:       "guest:" + sid,
					SessionID: sid,
				}
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
				return
			}

			api.HandleError(w, api.ErrMissingIdentity)
		})
	}
}

// RequireUser gates a route to authenticated identities only.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := GetIdentity(r.Context())
		if ident == nil || !ident.Authenticated {
			api.HandleError(w, api.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

func GetIdentity(ctx context.Context) *Identity {
	ident, _ := ctx.Value(identityKey).(*Identity)
	return ident
}
