package customers

import (
	"errors"
	"log"
	"net/http"
	"strings"

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

// Register attaches customer routes to the given router group. The group
// is expected to sit behind the session middleware.
func Register(rg *gin.RouterGroup, store Store, dirty DirtyNotifier) {
	h := &Handler{store: store, dirty: dirty}

	rg.GET("", h.get)
	rg.POST("", h.create)
	rg.PUT("", h.update)
	rg.DELETE("", h.delete)
}

type customerReq struct {
	ID       string  `json:"id"`
	Title    *string `json:"title"`
	Name     string  `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Currency *string `json:"currency"`
	Website  *string `json:"website"`
	Tags     *string `json:"tags"`
}

func (r customerReq) fields() Fields {
	return Fields{
		Title:    r.Title,
		Name:     strings.TrimSpace(r.Name),
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		Currency: r.Currency,
		Website:  r.Website,
		Tags:     r.Tags,
	}
}

// get serves both the list and, with ?id=, a single customer.
func (h *Handler) get(c *gin.Context) {
	userID := auth.UserID(c)

	if id := c.Query("id"); id != "" {
		cu, err := h.store.Get(c.Request.Context(), userID, id)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cu)
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
	var req customerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}

	userID := auth.UserID(c)
	cu, err := h.store.Create(c.Request.Context(), userID, req.fields())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.dirty.Invalidate(userID)
	c.JSON(http.StatusCreated, gin.H{"message": "Customer added successfully", "customer": cu})
}

func (h *Handler) update(c *gin.Context) {
	var req customerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}
	if req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Customer ID is required"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}

	userID := auth.UserID(c)
	cu, err := h.store.Update(c.Request.Context(), userID, req.ID, req.fields())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.dirty.Invalidate(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully", "customer": cu})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Customer ID is required"})
		return
	}

	userID := auth.UserID(c)
	if err := h.store.Delete(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err)
		return
	}

	h.dirty.Invalidate(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found or unauthorized"})
		return
	}
	log.Printf("customers: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
