package session

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Dhru-Will/dayflow-hrms/internal/roles"
)

const ctxUserKey = "session.user"

// RequireAuth enforces bearer JWT tokens signed with HS256 and stores the
// resolved user in the request context.
func RequireAuth(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := ParseToken(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		user, err := claims.User()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Runs after RequireAuth.
func RequireRole(allowed ...roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := UserFrom(c)
		if !ok || !roles.HasRole(user.Role, allowed) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// UserFrom returns the authenticated user set by RequireAuth.
func UserFrom(c *gin.Context) (User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return User{}, false
	}
	u, ok := v.(User)
	return u, ok
}
