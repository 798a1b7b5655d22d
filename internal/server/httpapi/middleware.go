package httpapi

import (
	"context"
	"net/http"
	"strings"

	"sollog/internal/server/auth"
)

type ctxKey int

const userIDKey ctxKey = iota

// UserIDFromContext returns the authenticated user id set by Authenticator,
// or "" when the request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// Authenticator verifies the Authorization bearer token and stores the user
// id in the request context. Requests with a missing or bad token get a 401
// and never reach the handler.
func Authenticator(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}

			userID, err := auth.GetUserIDFromToken(token, secretKey)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
