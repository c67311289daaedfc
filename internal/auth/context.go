package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// CtxUserID is set by the session middleware after token verification.
	CtxUserID = "user_id"
)

// UserID extracts the authenticated user's id from the gin context.
// Empty means the request carried no valid session.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}
