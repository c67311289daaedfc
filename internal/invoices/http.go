package invoices

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

// Register attaches invoice routes to the given router group.
func Register(rg *gin.RouterGroup, store Store, dirty DirtyNotifier) {
	h := &Handler{store: store, dirty: dirty}

	rg.GET("", h.get)
	rg.POST("", h.create)
	rg.PUT("", h.update)
	rg.DELETE("", h.delete)
}

type invoiceReq struct {
	ID                 string     `json:"id"`
	CustomerID         string     `json:"customerId"`
	ProjectID          *string    `json:"projectId"`
	Number             string     `json:"invoiceNumber"`
	IssueDate          *time.Time `json:"invoiceDate"`
	DueDate            *time.Time `json:"dueDate"`
	Terms              *string    `json:"terms"`
	Items              []LineItem `json:"items"`
	Discount           *string    `json:"discount"`
	Notes              *string    `json:"customerNotes"`
	TermsAndConditions *string    `json:"termsAndConditions"`
	Total              string     `json:"total"`
	Status             string     `json:"status"`
}

func (r invoiceReq) fields() Fields {
	return Fields{
		CustomerID:         r.CustomerID,
		ProjectID:          r.ProjectID,
		Number:             strings.TrimSpace(r.Number),
		IssueDate:          r.IssueDate,
		DueDate:            r.DueDate,
		Terms:              r.Terms,
		Items:              r.Items,
		Discount:           r.Discount,
		Notes:              r.Notes,
		TermsAndConditions: r.TermsAndConditions,
		Total:              r.Total,
		Status:             r.Status,
	}
}

func (h *Handler) get(c *gin.Context) {
	userID := auth.UserID(c)

	if id := c.Query("id"); id != "" {
		inv, err := h.store.Get(c.Request.Context(), userID, id)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, inv)
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
	var req invoiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Number) == "" || req.CustomerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invoice number and customer ID are required"})
		return
	}

	userID := auth.UserID(c)
	inv, err := h.store.Create(c.Request.Context(), userID, req.fields())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.dirty.Invalidate(userID)
	c.JSON(http.StatusCreated, gin.H{"message": "Invoice created successfully", "invoice": inv})
}

func (h *Handler) update(c *gin.Context) {
	var req invoiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}
	if req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invoice ID is required"})
		return
	}

	userID := auth.UserID(c)
	inv, err := h.store.Update(c.Request.Context(), userID, req.ID, req.fields())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.dirty.Invalidate(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Invoice updated successfully", "invoice": inv})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invoice ID is required"})
		return
	}

	userID := auth.UserID(c)
	if err := h.store.Delete(c.Request.Context(), userID, id); err != nil {
		h.fail(c, err)
		return
	}

	h.dirty.Invalidate(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found or unauthorized"})
		return
	}
	log.Printf("invoices: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
