package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dfi-sistemas/legajosbackend/models"
	"github.com/dfi-sistemas/legajosbackend/repository"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the key used to store the user object in the request context.
	UserContextKey ContextKey = "user"
)

// AuthMiddleware verifies the Bearer JWT and, if valid, fetches the user and
// adds them to the request context. Tokens of deleted or deactivated users
// are rejected.
func AuthMiddleware(jwtSecret []byte, userRepo repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Authorization header format must be Bearer {token}")
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
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired token")
				return
			}

			var userID uint
			if _, err := fmt.Sscan(claims.Subject, &userID); err != nil {
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid token subject")
				return
			}

			user, err := userRepo.GetByID(userID)
			if err != nil {
				// the user may have been deleted after the token was issued
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "User not found")
				return
			}
			if !user.Active {
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Account is deactivated")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed by AuthMiddleware.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}

// RequireAdmin only lets administrators through. Must run after AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "User not found in context")
			return
		}
		if user.Role != models.RoleAdmin {
			WriteAPIError(w, http.StatusForbidden, CodeForbidden, "Requires administrator role")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireWriter lets administrators and operators through; consultants are
// read-only. Must run after AuthMiddleware.
func RequireWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "User not found in context")
			return
		}
		if !user.Role.CanWrite() {
			WriteAPIError(w, http.StatusForbidden, CodeForbidden, "Requires operator or administrator role")
			return
		}
		next.ServeHTTP(w, r)
	})
}
