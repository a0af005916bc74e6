package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Callhook/callhook/pkg/logger"
)

// Key for storing the authenticated tenant in the request context
type contextKey string

const TenantIDKey contextKey = "tenant_id"

// TenantClaims is the JWT payload for management API tokens. Every token is
// scoped to exactly one tenant; there is no cross-tenant access.
type TenantClaims struct {
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies Bearer HS256 tokens on the management API.
type AuthMiddleware struct {
	jwtSecret []byte
	logger    logger.Logger
}

// NewAuthMiddleware creates a new auth middleware with the given signing secret
func NewAuthMiddleware(jwtSecret []byte, logger logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// RequireAuth creates a middleware that verifies the bearer token and puts
// the tenant id into the request context.
func (am *AuthMiddleware) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims := &TenantClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				// Verify signing method to prevent algorithm confusion
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return am.jwtSecret, nil
			})
			if err != nil || !token.Valid {
				am.logger.WithField("path", r.URL.Path).Warn("Rejected invalid API token")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			if claims.TenantID == "" {
				http.Error(w, "Tenant ID not found in token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), TenantIDKey, claims.TenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TenantFromContext returns the tenant id stored by RequireAuth.
func TenantFromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(string)
	return tenantID, ok && tenantID != ""
}
