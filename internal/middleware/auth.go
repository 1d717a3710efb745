package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tzinegf/AG-TUR/internal/config"
	"github.com/tzinegf/AG-TUR/internal/repository"
)

// Context keys set by the auth middleware.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
)

// Auth returns middleware that validates the bearer token issued by the
// external auth provider and stores the caller's identity on the context.
// With the dev bypass enabled, requests without a token act as the
// configured test user.
func Auth(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if cfg.AllowDevBypass && cfg.DevUserID != "" {
				c.Set(ContextUserID, cfg.DevUserID)
				c.Next()
				return
			}
			abortUnauthorized(c)
			return
		}

		rawToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if rawToken == "" {
			abortUnauthorized(c)
			return
		}

		token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			abortUnauthorized(c)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c)
			return
		}

		subject, err := claims.GetSubject()
		if err != nil || subject == "" {
			abortUnauthorized(c)
			return
		}

		c.Set(ContextUserID, subject)
		if email, ok := claims["email"].(string); ok {
			c.Set(ContextUserEmail, email)
		}

		c.Next()
	}
}

// RequireStaff returns middleware that restricts a route group to admin and
// manager profiles. It runs after Auth and consults the profiles store, the
// same check the provider's row-level security applies on the data side.
func RequireStaff(profiles repository.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			abortUnauthorized(c)
			return
		}

		profile, err := profiles.GetByID(c.Request.Context(), userID)
		if err != nil || !profile.IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}
