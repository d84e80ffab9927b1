package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserKey contextKey = "user_id"
)

// DefaultUserHeader is set by the upstream auth gateway in header mode.
const DefaultUserHeader = "X-User-Id"

// Oracle answers "who is the current user". Identify never fails; it returns
// ok == false for anonymous requests.
type Oracle interface {
	Identify(r *http.Request) (userID string, ok bool)
}

// APIKeyOracle maps bearer API keys to user ids.
type APIKeyOracle struct {
	keys map[string]string // user id -> key
}

func NewAPIKeyOracle(keys map[string]string) *APIKeyOracle {
	return &APIKeyOracle{keys: keys}
}

func (o *APIKeyOracle) Identify(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", false
	}
	// Support both "Bearer <key>" and "<key>" formats
	apiKey := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if apiKey == "" {
		return "", false
	}
	// constant-time comparison to prevent timing attacks
	var user string
	for u, key := range o.keys {
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
			user = u
		}
	}
	return user, user != ""
}

// HeaderOracle trusts a header set by a gateway in front of this service.
type HeaderOracle struct {
	Header string
}

func (o HeaderOracle) Identify(r *http.Request) (string, bool) {
	h := o.Header
	if h == "" {
		h = DefaultUserHeader
	}
	user := strings.TrimSpace(r.Header.Get(h))
	if user == "" || ValidateUserID(user) != nil {
		return "", false
	}
	return user, true
}

// Identify stores the caller's user id in the context. It never rejects;
// routes decide between 401 and not-found.
func Identify(o Oracle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := o.Identify(r); ok {
				r = r.WithContext(WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserFromContext extracts the user id from context
func UserFromContext(ctx context.Context) string {
	if user, ok := ctx.Value(UserKey).(string); ok {
		return user
	}
	return ""
}
