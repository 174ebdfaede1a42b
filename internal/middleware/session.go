package middleware

import (
	"net/http"
	"strings"

	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/auth"

	"github.com/gin-gonic/gin"
)

// IdentityKey is the gin context key holding the resolved session
// identity
const IdentityKey = "identity"

type SessionMiddleware struct {
	authService *auth.AuthService
}

func NewSessionMiddleware(authService *auth.AuthService) *SessionMiddleware {
	return &SessionMiddleware{authService: authService}
}

// RequireSession resolves the session token from the cookie (or a
// Bearer header fallback) into a SessionIdentity and aborts with 401
// when none resolves. Each successful resolution slides the session
// expiry forward.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		identity, err := m.authService.ResolveToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// RequireRoles aborts with 403 unless the identity holds at least one
// of the given roles. Must run after RequireSession.
func (m *SessionMiddleware) RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if identity.HasRole(role) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		c.Abort()
	}
}

func (m *SessionMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetIdentity returns the session identity set by RequireSession, or
// nil outside an authenticated request.
func GetIdentity(c *gin.Context) *models.SessionIdentity {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*models.SessionIdentity)
	if !ok {
		return nil
	}
	return identity
}
