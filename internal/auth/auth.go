package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
)

// User ID context key
type contextKey string

const (
	UserIDKey contextKey = "userID"
)

// GetUserIDFromContext extracts userID from context
func GetUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok || userID == "" {
		return "", errors.New("user ID not found in context")
	}
	return userID, nil
}

// Middleware extracts the user ID from the bearer token and puts it in the
// request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := ExtractTokenFromRequest(r)
		if err != nil {
			log.Printf("Error extracting token: %v", err)
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		userID, err := ExtractUserIDFromJWT(token)
		if err != nil {
			log.Printf("Error extracting user ID from JWT: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
