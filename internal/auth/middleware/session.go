package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerly-app/ledgerly-backend/internal/auth"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth/token"
)

// RequireSession verifies the cookie token and puts the user id on the
// gin context. API handlers sit behind this even though the page gateway
// also verifies; the two layers are deliberate defense in depth sharing
// the same Issuer.
func RequireSession(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := auth.SessionToken(c)
		if t == "" {
			// No DB work before this point.
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}

		userID, err := issuer.Verify(t)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(auth.CtxUserID, userID)
		c.Next()
	}
}
