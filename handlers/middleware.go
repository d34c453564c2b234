package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alboomhq/alboombackend/repository"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// PhotographerContextKey is the key used to store the authenticated
	// photographer in the request context.
	PhotographerContextKey ContextKey = "photographer"
)

// AuthMiddleware creates a middleware handler for JWT authentication. It
// verifies the token and, if valid, fetches the photographer and adds them
// to the request context.
func AuthMiddleware(photographers repository.PhotographerRepository, jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authorization header format must be Bearer {token}")
				return
			}
			tokenString := parts[1]

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return jwtSecret, nil
			})
			if err != nil || !token.Valid {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
				return
			}

			var photographerID uint
			if _, err := fmt.Sscan(claims.Subject, &photographerID); err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid subject in token")
				return
			}

			photographer, err := photographers.GetByID(photographerID)
			if err != nil {
				// account may have been deleted after the token was issued
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Account not found")
				return
			}

			ctx := context.WithValue(r.Context(), PhotographerContextKey, photographer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
