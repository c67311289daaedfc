package unit

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly-app/ledgerly-backend/internal/auth"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth/middleware"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth/token"
	"github.com/ledgerly-app/ledgerly-backend/internal/customers"
	"github.com/ledgerly-app/ledgerly-backend/internal/ids"
)

type memCustomerStore struct {
	items map[string]*customers.Customer
	calls int
}

func newMemCustomerStore() *memCustomerStore {
	return &memCustomerStore{items: make(map[string]*customers.Customer)}
}

func (s *memCustomerStore) Create(_ context.Context, userID string, f customers.Fields) (*customers.Customer, error) {
	s.calls++
	id, err := ids.NewPublicID("cust")
	if err != nil {
		return nil, err
	}
	cu := &customers.Customer{
		ID:        id,
		Title:     f.Title,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		Address:   f.Address,
		Currency:  f.Currency,
		Website:   f.Website,
		Tags:      f.Tags,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	s.items[cu.ID] = cu
	return cu, nil
}

func (s *memCustomerStore) Get(_ context.Context, userID, id string) (*customers.Customer, error) {
	s.calls++
	cu, ok := s.items[id]
	if !ok || cu.UserID != userID {
		return nil, customers.ErrNotFound
	}
	return cu, nil
}

func (s *memCustomerStore) List(_ context.Context, userID string) ([]customers.Customer, error) {
	s.calls++
	out := []customers.Customer{}
	for _, cu := range s.items {
		if cu.UserID == userID {
			out = append(out, *cu)
		}
	}
	return out, nil
}

func (s *memCustomerStore) Update(_ context.Context, userID, id string, f customers.Fields) (*customers.Customer, error) {
	s.calls++
	cu, ok := s.items[id]
	if !ok || cu.UserID != userID {
		return nil, customers.ErrNotFound
	}
	cu.Title = f.Title
	cu.Name = f.Name
	cu.Email = f.Email
	cu.Phone = f.Phone
	cu.Address = f.Address
	cu.Currency = f.Currency
	cu.Website = f.Website
	cu.Tags = f.Tags
	return cu, nil
}

func (s *memCustomerStore) Delete(_ context.Context, userID, id string) error {
	s.calls++
	cu, ok := s.items[id]
	if !ok || cu.UserID != userID {
		return customers.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type countingNotifier struct {
	invalidations []string
}

func (n *countingNotifier) Invalidate(userID string) {
	n.invalidations = append(n.invalidations, userID)
}

func newCustomersRouter(t *testing.T) (*gin.Engine, *token.Issuer, *memCustomerStore, *countingNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := token.NewIssuer([]byte("test-secret"), time.Hour)
	store := newMemCustomerStore()
	dirty := &countingNotifier{}

	r := gin.New()
	grp := r.Group("/api/customers", middleware.RequireSession(issuer))
	customers.Register(grp, store, dirty)
	return r, issuer, store, dirty
}

func cookieFor(t *testing.T, issuer *token.Issuer, userID string) *http.Cookie {
	t.Helper()
	tok, err := issuer.Issue(userID)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: tok}
}

func do(t *testing.T, r *gin.Engine, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCustomers_NoSession(t *testing.T) {
	r, _, store, _ := newCustomersRouter(t)

	rr := do(t, r, http.MethodGet, "/api/customers", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Unauthorized")
	// middleware rejects before the store is ever consulted
	assert.Zero(t, store.calls)
}

func TestCustomers_ExpiredSession(t *testing.T) {
	r, _, _, _ := newCustomersRouter(t)

	expired := token.NewIssuer([]byte("test-secret"), -time.Minute)
	rr := do(t, r, http.MethodGet, "/api/customers", nil, cookieFor(t, expired, "user-1"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCustomers_CreateAndList(t *testing.T) {
	r, issuer, _, dirty := newCustomersRouter(t)
	cookie := cookieFor(t, issuer, "user-1")

	rr := do(t, r, http.MethodGet, "/api/customers", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	rr = do(t, r, http.MethodPost, "/api/customers", gin.H{"name": "Acme Corp"}, cookie)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "Customer added successfully")

	var created struct {
		Customer customers.Customer `json:"customer"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "Acme Corp", created.Customer.Name)
	assert.Equal(t, "user-1", created.Customer.UserID)
	assert.NotEmpty(t, created.Customer.ID)

	rr = do(t, r, http.MethodGet, "/api/customers", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	var list []customers.Customer
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.Customer.ID, list[0].ID)

	assert.Equal(t, []string{"user-1"}, dirty.invalidations)
}

func TestCustomers_CreateValidation(t *testing.T) {
	r, issuer, _, dirty := newCustomersRouter(t)
	cookie := cookieFor(t, issuer, "user-1")

	rr := do(t, r, http.MethodPost, "/api/customers", gin.H{"name": "   "}, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Name is required")
	assert.Empty(t, dirty.invalidations)
}

func TestCustomers_CrossUserIsNotFound(t *testing.T) {
	r, issuer, _, _ := newCustomersRouter(t)
	alice := cookieFor(t, issuer, "user-alice")
	bob := cookieFor(t, issuer, "user-bob")

	rr := do(t, r, http.MethodPost, "/api/customers", gin.H{"name": "Acme Corp"}, alice)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		Customer customers.Customer `json:"customer"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	id := created.Customer.ID

	// bob cannot read, update, or delete alice's customer; the response
	// is indistinguishable from a nonexistent id
	rr = do(t, r, http.MethodGet, "/api/customers?id="+id, nil, bob)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Customer not found or unauthorized")

	rr = do(t, r, http.MethodPut, "/api/customers", gin.H{"id": id, "name": "Hijack"}, bob)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, r, http.MethodDelete, "/api/customers?id="+id, nil, bob)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rrMissing := do(t, r, http.MethodGet, "/api/customers?id=cust-00000-0000", nil, bob)
	assert.Equal(t, rr.Code, rrMissing.Code)

	// alice still sees it
	rr = do(t, r, http.MethodGet, "/api/customers?id="+id, nil, alice)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCustomers_UpdateAndDelete(t *testing.T) {
	r, issuer, _, dirty := newCustomersRouter(t)
	cookie := cookieFor(t, issuer, "user-1")

	rr := do(t, r, http.MethodPost, "/api/customers", gin.H{"name": "Acme Corp"}, cookie)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		Customer customers.Customer `json:"customer"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	id := created.Customer.ID

	rr = do(t, r, http.MethodPut, "/api/customers", gin.H{"id": id, "name": "Acme Ltd"}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Customer updated successfully")

	rr = do(t, r, http.MethodGet, "/api/customers?id="+id, nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var got customers.Customer
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Acme Ltd", got.Name)

	rr = do(t, r, http.MethodDelete, "/api/customers?id="+id, nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Customer deleted successfully")

	rr = do(t, r, http.MethodGet, "/api/customers?id="+id, nil, cookie)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// create, update, delete each invalidate the cached aggregates
	assert.Equal(t, []string{"user-1", "user-1", "user-1"}, dirty.invalidations)
}

func TestCustomers_UpdateRequiresID(t *testing.T) {
	r, issuer, _, _ := newCustomersRouter(t)
	cookie := cookieFor(t, issuer, "user-1")

	rr := do(t, r, http.MethodPut, "/api/customers", gin.H{"name": "Acme"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Customer ID is required")
}
