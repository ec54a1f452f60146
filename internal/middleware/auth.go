package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ridehub/ridehub-api/internal/pkg/jwt"
	"github.com/ridehub/ridehub-api/internal/pkg/response"
)

type contextKey string

const (
	DriverIDKey contextKey = "driver_id"
)

// DriverAuth returns middleware that validates driver JWT from the mobile app
func DriverAuth(jwtService *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateAccessToken(parts[1])
			if err != nil {
				if err == jwt.ErrExpiredToken {
					response.Unauthorized(w, "Token expired")
				} else {
					response.Unauthorized(w, "Invalid token")
				}
				return
			}

			if claims.IsBlocked {
				response.Forbidden(w, "Your account has been blocked")
				return
			}

			ctx := context.WithValue(r.Context(), DriverIDKey, claims.DriverID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetDriverID extracts driver ID from context
func GetDriverID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(DriverIDKey).(uuid.UUID)
	return id, ok
}
