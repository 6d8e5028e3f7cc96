package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenParser validates a session token and returns the subject email.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// EmailKey is the context key under which the authenticated email is stored.
const EmailKey = "auth_email"

// RequireSession rejects requests without a valid Bearer session token.
func RequireSession(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}

		email, err := parser.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}

		c.Set(EmailKey, email)
		c.Next()
	}
}
