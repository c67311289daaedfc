package unit

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly-app/ledgerly-backend/internal/auth/middleware"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth/token"
	"github.com/ledgerly-app/ledgerly-backend/internal/ids"
	"github.com/ledgerly-app/ledgerly-backend/internal/invoices"
)

type memInvoiceStore struct {
	items map[string]*invoices.Invoice
}

func newMemInvoiceStore() *memInvoiceStore {
	return &memInvoiceStore{items: make(map[string]*invoices.Invoice)}
}

func (s *memInvoiceStore) Create(_ context.Context, userID string, f invoices.Fields) (*invoices.Invoice, error) {
	id, err := ids.NewPublicID("inv")
	if err != nil {
		return nil, err
	}
	if f.Status == "" {
		f.Status = "draft"
	}
	inv := &invoices.Invoice{
		ID:         id,
		UserID:     userID,
		CustomerID: f.CustomerID,
		ProjectID:  f.ProjectID,
		Number:     f.Number,
		IssueDate:  f.IssueDate,
		DueDate:    f.DueDate,
		Items:      f.Items,
		Total:      f.Total,
		Status:     f.Status,
		CreatedAt:  time.Now(),
	}
	s.items[inv.ID] = inv
	return inv, nil
}

func (s *memInvoiceStore) Get(_ context.Context, userID, id string) (*invoices.Invoice, error) {
	inv, ok := s.items[id]
	if !ok || inv.UserID != userID {
		return nil, invoices.ErrNotFound
	}
	return inv, nil
}

func (s *memInvoiceStore) List(_ context.Context, userID string) ([]invoices.Invoice, error) {
	out := []invoices.Invoice{}
	for _, inv := range s.items {
		if inv.UserID == userID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (s *memInvoiceStore) Update(_ context.Context, userID, id string, f invoices.Fields) (*invoices.Invoice, error) {
	inv, ok := s.items[id]
	if !ok || inv.UserID != userID {
		return nil, invoices.ErrNotFound
	}
	inv.Number = f.Number
	inv.Items = f.Items
	inv.Total = f.Total
	inv.Status = f.Status
	return inv, nil
}

func (s *memInvoiceStore) Delete(_ context.Context, userID, id string) error {
	inv, ok := s.items[id]
	if !ok || inv.UserID != userID {
		return invoices.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func newInvoicesRouter(t *testing.T) (*gin.Engine, *token.Issuer, *countingNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := token.NewIssuer([]byte("test-secret"), time.Hour)
	dirty := &countingNotifier{}

	r := gin.New()
	grp := r.Group("/api/invoices", middleware.RequireSession(issuer))
	invoices.Register(grp, newMemInvoiceStore(), dirty)
	return r, issuer, dirty
}

func TestInvoices_CreateValidation(t *testing.T) {
	r, issuer, dirty := newInvoicesRouter(t)
	cookie := cookieFor(t, issuer, "user-1")

	// number without customer, customer without number
	for _, body := range []gin.H{
		{"invoiceNumber": "INV-001"},
		{"customerId": "cust-12345-0001"},
		{"invoiceNumber": "   ", "customerId": "cust-12345-0001"},
	} {
		rr := do(t, r, http.MethodPost, "/api/invoices", body, cookie)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invoice number and customer ID are required")
	}
	assert.Empty(t, dirty.invalidations)
}

func TestInvoices_TotalsStoredAsSubmitted(t *testing.T) {
	r, issuer, _ := newInvoicesRouter(t)
	cookie := cookieFor(t, issuer, "user-1")

	// the submitted total does not match the line items; the server must
	// keep it verbatim rather than recompute
	rr := do(t, r, http.MethodPost, "/api/invoices", gin.H{
		"invoiceNumber": "INV-001",
		"customerId":    "cust-12345-0001",
		"items": []gin.H{
			{"name": "Design", "cost": "100.00"},
			{"name": "Build", "cost": "250.00"},
		},
		"total": "999.99",
	}, cookie)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Invoice invoices.Invoice `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "999.99", resp.Invoice.Total)
	require.Len(t, resp.Invoice.Items, 2)
	assert.Equal(t, "Design", resp.Invoice.Items[0].Name)
	assert.Equal(t, "draft", resp.Invoice.Status)
}

func TestInvoices_CrossUserIsNotFound(t *testing.T) {
	r, issuer, _ := newInvoicesRouter(t)
	alice := cookieFor(t, issuer, "user-alice")
	bob := cookieFor(t, issuer, "user-bob")

	rr := do(t, r, http.MethodPost, "/api/invoices", gin.H{
		"invoiceNumber": "INV-001",
		"customerId":    "cust-12345-0001",
	}, alice)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Invoice invoices.Invoice `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	rr = do(t, r, http.MethodGet, "/api/invoices?id="+resp.Invoice.ID, nil, bob)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invoice not found or unauthorized")

	rr = do(t, r, http.MethodDelete, "/api/invoices?id="+resp.Invoice.ID, nil, bob)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestInvoices_DeleteInvalidates(t *testing.T) {
	r, issuer, dirty := newInvoicesRouter(t)
	cookie := cookieFor(t, issuer, "user-1")

	rr := do(t, r, http.MethodPost, "/api/invoices", gin.H{
		"invoiceNumber": "INV-001",
		"customerId":    "cust-12345-0001",
	}, cookie)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Invoice invoices.Invoice `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	rr = do(t, r, http.MethodDelete, "/api/invoices?id="+resp.Invoice.ID, nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, r, http.MethodGet, "/api/invoices?id="+resp.Invoice.ID, nil, cookie)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	assert.Equal(t, []string{"user-1", "user-1"}, dirty.invalidations)
}
