package dashboard

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerly-app/ledgerly-backend/internal/auth"
)

type Handler struct {
	src Source
}

// Register attaches the dashboard routes behind the session middleware.
func Register(rg *gin.RouterGroup, src Source) {
	h := &Handler{src: src}

	rg.GET("/summary", h.summary)
}

func (h *Handler) summary(c *gin.Context) {
	userID := auth.UserID(c)

	s, err := h.src.Summary(c.Request.Context(), userID)
	if err != nil {
		log.Printf("dashboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, s)
}
