package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tripgate/internal/session"
)

const sessionKey = "admin_session"

// RequireSession authenticates the bearer credential carried in the
// Authorization header (or the X-Session-Token fallback) and stores the
// resolved session on the context. Both login credentials work: the
// "<id>.<secret>" session token and the JWT access token minted alongside
// it, told apart by their dot count.
func RequireSession(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = strings.TrimSpace(c.GetHeader("X-Session-Token"))
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}

		var (
			sess session.Session
			err  error
		)
		if strings.Count(token, ".") == 2 {
			sess, err = store.Resolve(c.Request.Context(), token)
		} else {
			sess, err = store.Authenticate(c.Request.Context(), token)
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// RequireSuperAdmin gates registration of new admin accounts.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok || !sess.SuperAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "super-admin role required"})
			return
		}
		c.Next()
	}
}

// GetSession returns the session placed by RequireSession.
func GetSession(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return session.Session{}, false
	}
	sess, ok := v.(session.Session)
	return sess, ok
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
