package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ridehub/ridehub-api/internal/pkg/response"
)

// AdminTokenCookie is the HTTP-only cookie carrying the admin session token
const AdminTokenCookie = "admin_token"

type contextKey string

const (
	AdminIDKey   contextKey = "admin_id"
	AdminRoleKey contextKey = "admin_role"
)

var (
	ErrExpiredToken = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token revoked")
)

// Claims for admin panel tokens
type Claims struct {
	AdminID uuid.UUID `json:"admin_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and validates admin tokens
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService creates admin JWT service
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// GenerateToken creates a signed admin token with a unique JTI
func (s *JWTService) GenerateToken(admin *AdminUser) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.ttl)

	claims := Claims{
		AdminID: admin.ID,
		Email:   admin.Email,
		Role:    string(admin.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken parses and verifies an admin token
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// TokenRevoker keeps a deny list of logged-out token IDs.
// A nil redis client disables revocation checks.
type TokenRevoker struct {
	redis *redis.Client
}

// NewTokenRevoker creates a revoker backed by redis
func NewTokenRevoker(rdb *redis.Client) *TokenRevoker {
	return &TokenRevoker{redis: rdb}
}

func revokeKey(jti string) string {
	return "admin:revoked:" + jti
}

// Revoke marks the token ID as invalid until its natural expiry
func (tr *TokenRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if tr.redis == nil || jti == "" {
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	return tr.redis.Set(ctx, revokeKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether the token ID has been revoked
func (tr *TokenRevoker) IsRevoked(ctx context.Context, jti string) bool {
	if tr.redis == nil || jti == "" {
		return false
	}

	n, err := tr.redis.Exists(ctx, revokeKey(jti)).Result()
	if err != nil {
		log.Warn().Err(err).Msg("Token revocation check failed")
		return false
	}

	return n > 0
}

// AuthMiddleware authenticates admin requests. The token is read from
// the admin_token cookie, with an Authorization bearer fallback for
// API clients.
func AuthMiddleware(jwtService *JWTService, revoker *TokenRevoker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := ""

			if cookie, err := r.Cookie(AdminTokenCookie); err == nil {
				tokenString = cookie.Value
			}
			if tokenString == "" {
				authHeader := r.Header.Get("Authorization")
				if strings.HasPrefix(authHeader, "Bearer ") {
					tokenString = strings.TrimPrefix(authHeader, "Bearer ")
				}
			}

			if tokenString == "" {
				response.Unauthorized(w, "Authentication required")
				return
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				if errors.Is(err, ErrExpiredToken) {
					response.Unauthorized(w, "Token expired")
					return
				}
				response.Unauthorized(w, "Invalid token")
				return
			}

			if revoker.IsRevoked(r.Context(), claims.ID) {
				response.Unauthorized(w, "Session expired")
				return
			}

			ctx := context.WithValue(r.Context(), AdminIDKey, claims.AdminID)
			ctx = context.WithValue(ctx, AdminRoleKey, Role(claims.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireArea enforces the per-admin permission flag for a functional
// area. Permissions are read per request so flag changes apply without
// re-login.
func RequireArea(svc *Service, area Area) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			adminID, ok := GetAdminID(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}

			allowed, err := svc.HasAreaAccess(r.Context(), adminID, area)
			if err != nil {
				response.InternalError(w)
				return
			}
			if !allowed {
				response.Forbidden(w, "Access to this section is not allowed")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetAdminID extracts the authenticated admin ID from context
func GetAdminID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AdminIDKey).(uuid.UUID)
	return id, ok
}

// GetAdminRole extracts the authenticated admin role from context
func GetAdminRole(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(AdminRoleKey).(Role)
	return role, ok
}
