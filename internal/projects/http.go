package projects

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerly-app/ledgerly-backend/internal/auth"
)

type Handler struct {
	store Store
	dirty DirtyNotifier
}

// DirtyNotifier lets writes drop any cached per-user aggregates.
type DirtyNotifier interface {
	Invalidate(userID string)
}

// Register attaches project routes. Mounted under /api/auth/projects to
// keep the original client contract.
func Register(rg *gin.RouterGroup, store Store, dirty DirtyNotifier) {
	h := &Handler{store: store, dirty: dirty}

	rg.GET("", h.get)
	rg.POST("", h.create)
	rg.PUT("", h.update)
	rg.DELETE("", h.delete)
}

type projectReq struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customerId"`
	ProjectName string     `json:"projectName"`
	ProjectCode *string    `json:"projectCode"`
	Description *string    `json:"description"`
	Platform    *string    `json:"platform"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

func (r projectReq) fields() Fields {
	return Fields{
		CustomerID:  r.CustomerID,
		ProjectName: strings.TrimSpace(r.ProjectName),
		ProjectCode: r.ProjectCode,
		Description: r.Description,
		Platform:    r.Platform,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

func (h *Handler) get(c *gin.Context) {
	userID := auth.UserID(c)

	if id := c.Query("id"); id != "" {
		p, err := h.store.Get(c.Request.Context(), userID, id)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
		return
	}

	items, err := h.store.List(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) create(c *gin.Context) {
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.ProjectName) == "" || req.CustomerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Project name and customer ID are required"})
		return
	}

	userID := auth.UserID(c)
	p, err := h.store.Create(c.Request.Context(), userID, req.fields())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.dirty.Invalidate(userID)
	c.JSON(http.StatusCreated, gin.H{"message": "Project created successfully", "project": p})
}

func (h *Handler) update(c *gin.Context) {
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}
	if req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Project ID is required"})
		return
	}

	userID := auth.UserID(c)
	p, err := h.store.Update(c.Request.Context(), userID, req.ID, req.fields())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.dirty.Invalidate(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Project updated successfully", "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Project ID is required"})
		return
	}

	userID := auth.UserID(c)
	if err := h.store.Delete(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err)
		return
	}

	h.dirty.Invalidate(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found or unauthorized"})
		return
	}
	log.Printf("projects: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
