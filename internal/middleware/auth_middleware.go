package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/farellandr/eventhub/internal/helpers"
	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setClaims(c *gin.Context, claims *helpers.Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Set("role", claims.Role)
}

// JWTAuthMiddleware rejects requests without a valid bearer token.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Authorization header required. Expected: Bearer <token>")
			c.Abort()
			return
		}

		claims, err := helpers.ValidateToken(secret, tokenString)
		if err != nil {
			log.Printf("token validation failed: %v", err)
			helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token.")
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the caller when a valid token is present and
// lets anonymous requests through.
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := helpers.ValidateToken(secret, tokenString); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole only admits callers whose token carries one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to perform this action.")
		c.Abort()
	}
}

// JWTSecretMiddleware makes the signing secret available to handlers that
// issue tokens, so they sign with the same key the auth middleware checks.
func JWTSecretMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("jwt_secret", secret)
		c.Next()
	}
}

func GetJWTSecret(c *gin.Context) string {
	return c.GetString("jwt_secret")
}
