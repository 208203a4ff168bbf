package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const accountIDKey contextKey = "accountID"

// AccountID returns the authenticated account id stashed by the
// middleware, or false when the request was not authenticated.
func AccountID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(accountIDKey).(uint)
	return id, ok
}

// WithAccountID stamps an authenticated account id onto the context.
func WithAccountID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, accountIDKey, id)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Require wraps a handler and rejects requests without a valid bearer
// token of the given role.
func (t *Tokens) Require(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w, "authorization header is missing")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		id, tokenRole, err := t.Parse(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}
		if tokenRole != role {
			unauthorized(w, "token does not grant access to this resource")
			return
		}

		next(w, r.WithContext(WithAccountID(r.Context(), id)))
	}
}
