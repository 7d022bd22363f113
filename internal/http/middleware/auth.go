// README: Bearer-token auth middleware; attaches caller uid and role to the context.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetrent/internal/infra"
	"fleetrent/internal/modules/identity"
	"fleetrent/internal/types"
)

const (
	ctxKeyUID  = "auth.uid"
	ctxKeyRole = "auth.role"
)

// Auth verifies the Authorization bearer token and stores the caller's
// uid and role for downstream handlers. Requests without a valid token
// are rejected with 401.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}
		token, err := verifier.VerifyToken(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxKeyUID, token.UID)
		c.Set(ctxKeyRole, token.Role)
		c.Next()
	}
}

// CallerUID returns the authenticated caller's user id, or "" when the
// request is unauthenticated.
func CallerUID(c *gin.Context) string {
	return c.GetString(ctxKeyUID)
}

// CallerRole returns the authenticated caller's role claim, or "".
func CallerRole(c *gin.Context) string {
	return c.GetString(ctxKeyRole)
}

// Caller returns the request actor for service calls.
func Caller(c *gin.Context) identity.Actor {
	return identity.Actor{
		ID:   types.ID(CallerUID(c)),
		Role: identity.Role(CallerRole(c)),
	}
}
