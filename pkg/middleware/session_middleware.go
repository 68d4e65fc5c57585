package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"healthybychoice/pkg/utils"
)

const SessionIDKey = "session_id"

// SessionAuthMiddleware requires a bearer session token and stores the
// session id on the context.
func SessionAuthMiddleware(tokens *utils.SessionTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := bearerSession(c, tokens)
		if !ok {
			utils.HandleServiceError(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// OptionalSessionMiddleware attaches the session id when a valid token is
// present and otherwise lets the request through anonymously.
func OptionalSessionMiddleware(tokens *utils.SessionTokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID, ok := bearerSession(c, tokens); ok {
			c.Set(SessionIDKey, sessionID)
		}
		c.Next()
	}
}

func bearerSession(c *gin.Context, tokens *utils.SessionTokens) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	sessionID, err := tokens.ValidateSessionToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return "", false
	}
	return sessionID, true
}
