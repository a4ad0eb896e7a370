package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextTeacherID is the gin context key holding the authenticated
// teacher's identifier.
const ContextTeacherID = "teacher_id"

// TeacherAuth enforces bearer JWT tokens signed with HS256 and injects the
// teacher id into the request context. A missing or invalid token means the
// request is unauthenticated and never reaches a handler.
func TeacherAuth(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ContextTeacherID, claims.Subject)
		c.Set("claims", claims)
		c.Next()
	}
}

// TeacherID extracts the authenticated teacher id, or "" when the request
// is unauthenticated.
func TeacherID(c *gin.Context) string {
	return c.GetString(ContextTeacherID)
}
