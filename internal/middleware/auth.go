package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"schedulsy-api/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// IdentityProvider turns a bearer token into a session value.
type IdentityProvider interface {
	Resolve(ctx context.Context, token string) session.Session
}

// SessionGate resolves the request's session and only lets authenticated
// requests through. Loading sessions get 503 with Retry-After so the
// client defers; unauthenticated ones get 401.
func SessionGate(provider IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := provider.Resolve(c.Request.Context(), bearerToken(c))
		c.Set(sessionKey, sess)

		if err := sess.Require(); err != nil {
			if errors.Is(err, session.ErrLoading) {
				c.Header("Retry-After", "1")
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"error":  "Session is still loading",
					"status": sess.Status,
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":  "Authorization token is missing, invalid or expired",
					"status": sess.Status,
				})
			}
			c.Abort()
			return
		}

		// Store user info in context for use in handlers
		c.Set("user_id", sess.UserID)
		c.Set("session_id", sess.ID)

		c.Next()
	}
}

// CurrentSession returns the session resolved by SessionGate, or an
// unauthenticated one if the gate did not run.
func CurrentSession(c *gin.Context) session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(session.Session); ok {
			return sess
		}
	}
	return session.Unauthenticated()
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	// Extract token from "Bearer <token>"
	parts := strings.Fields(authHeader)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
