package http

import "github.com/gin-gonic/gin"

// Register attaches the auth routes to the given router group. The rate
// limiter guards only the credential-bearing endpoints; nil disables it.
func (h *Handler) Register(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}

	rg.POST("/login", limit, h.login)
	rg.POST("/register", limit, h.register)
	rg.GET("/validate", h.validate)
	rg.POST("/logout", h.logout)
}
