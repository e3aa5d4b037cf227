package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-backoffice/internal/infrastructure/cache"
	"clinic-backoffice/pkg/jwt"
	"clinic-backoffice/pkg/response"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
	RoleIDKey    contextKey = "role_id"
	TokenIDKey   contextKey = "token_id"
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	tokenStore *cache.TokenStore
}

func NewAuthMiddleware(jwtService *jwt.JWTService, tokenStore *cache.TokenStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, status, msg := m.Verify(r.Context(), parts[1])
		if claims == nil {
			response.Error(w, status, msg, nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// Verify checks an access token's signature, type and revocation state.
// On failure it returns nil claims with the HTTP status and message to report.
func (m *AuthMiddleware) Verify(ctx context.Context, token string) (*jwt.Claims, int, string) {
	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}

	if claims.TokenType != jwt.AccessToken {
		return nil, http.StatusUnauthorized, "Invalid token type"
	}

	valid, err := m.tokenStore.Valid(ctx, cache.AccessTokenKind, claims.UserID, claims.TokenID)
	if err != nil {
		return nil, http.StatusInternalServerError, "Failed to validate token"
	}
	if !valid {
		return nil, http.StatusUnauthorized, "Token has been revoked"
	}

	return claims, http.StatusOK, ""
}

// WithClaims stores the caller identity from claims in ctx.
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
	ctx = context.WithValue(ctx, RoleIDKey, claims.RoleID)
	ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)
	return ctx
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetUserEmailFromContext extracts user email from context
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetRoleIDFromContext extracts role ID from context
func GetRoleIDFromContext(ctx context.Context) (int64, bool) {
	roleID, ok := ctx.Value(RoleIDKey).(int64)
	return roleID, ok
}
