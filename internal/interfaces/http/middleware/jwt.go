package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/restoops/backend/internal/infrastructure/auth"
	"github.com/restoops/backend/internal/interfaces/http/dto"
)

const (
	// AuthHeaderKey is the header carrying the access token
	AuthHeaderKey = "Authorization"
	// BearerPrefix precedes the token in the auth header
	BearerPrefix = "Bearer "

	// ContextKeyClaims is the gin context key holding the validated claims
	ContextKeyClaims = "jwt_claims"
	// ContextKeyUserID is the gin context key holding the authenticated user ID
	ContextKeyUserID = "jwt_user_id"
	// ContextKeyUsername is the gin context key holding the authenticated username
	ContextKeyUsername = "jwt_username"
)

// JWTMiddlewareConfig configures the JWT authentication middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// SkipPaths are exact request paths that bypass authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that bypass authentication
	SkipPathPrefixes []string
}

// JWTAuth returns a middleware that validates Bearer tokens and stores the
// claims in the request context.
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				abortUnauthorized(c, dto.ErrCodeTokenExpired, "token has expired")
			default:
				abortUnauthorized(c, dto.ErrCodeTokenInvalid, "invalid token")
			}
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Next()
	}
}

// RequireBranchAccess returns a middleware that rejects requests whose token
// does not grant access to the branch named by the given query or form key.
// Requests that do not carry the key pass through; handlers enforce
// branch scoping on the payload themselves.
func RequireBranchAccess(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query(key)
		if raw == "" {
			c.Next()
			return
		}
		branchID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInvalidInput, "invalid branch id", c.GetString("request_id")))
			return
		}

		claims, ok := GetJWTClaims(c)
		if !ok {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "authentication required")
			return
		}
		if !claims.CanAccessBranch(branchID) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "no access to the requested branch", c.GetString("request_id")))
			return
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" {
		return "", auth.ErrInvalidToken
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", auth.ErrInvalidToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if token == "" {
		return "", auth.ErrInvalidToken
	}
	return token, nil
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		code, message, c.GetString("request_id")))
}

// GetJWTClaims returns the validated claims stored by JWTAuth
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// GetJWTUserID returns the authenticated user ID, or empty when unauthenticated
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}
