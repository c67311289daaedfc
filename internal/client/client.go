// Package client is the programmatic counterpart of the browser session
// hook: it holds the session cookie, drives login/register/validate,
// and exposes typed calls for the owned-resource endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// ErrUnauthorized is returned for any 401 from the server; the cause is
// deliberately opaque.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound covers the server's merged not-found-or-forbidden outcome.
var ErrNotFound = errors.New("not found or unauthorized")

type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

type Customer struct {
	ID        string    `json:"id"`
	Title     *string   `json:"title"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Client is a session-aware API client. The cookie jar is the only
// holder of the session token; the server never stores it.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	user    *User
}

func New(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: u,
		http: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
			// Observe gateway redirects instead of following them.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// User returns the user from the last successful login/register/
// validate, or nil when signed out.
func (c *Client) User() *User {
	return c.user
}

type apiError struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	u := *c.baseURL
	ref, err := url.Parse(path)
	if err != nil {
		return err
	}
	full := u.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, method, full.String(), buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		var e apiError
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Message != "" {
			return fmt.Errorf("%s %s: %s", method, path, e.Message)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Login authenticates; the session cookie lands in the jar via the
// Set-Cookie response header.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"username": username, "password": password}, &resp)
	if err != nil {
		return nil, err
	}
	c.user = resp.User
	return resp.User, nil
}

// Register creates an account and starts the session.
func (c *Client) Register(ctx context.Context, username, password string, email *string) (*User, error) {
	var resp struct {
		User  *User  `json:"user"`
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/register",
		map[string]any{"username": username, "password": password, "email": email}, &resp)
	if err != nil {
		return nil, err
	}
	c.user = resp.User
	return resp.User, nil
}

// Validate asks the server who the current session belongs to. On any
// failure the local session state is discarded, mirroring the browser
// hook's cookie removal.
func (c *Client) Validate(ctx context.Context) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/validate", nil, &resp); err != nil {
		c.Logout(ctx)
		return nil, err
	}
	c.user = resp.User
	return resp.User, nil
}

// Logout discards the session client-side. The token stays valid on the
// server until it expires naturally.
func (c *Client) Logout(ctx context.Context) {
	_ = c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.user = nil
	if jar, err := cookiejar.New(nil); err == nil {
		c.http.Jar = jar
	}
}

// Customers lists the caller's customers.
func (c *Client) Customers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if err := c.do(ctx, http.MethodGet, "/api/customers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Customer fetches a single customer by id.
func (c *Client) Customer(ctx context.Context, id string) (*Customer, error) {
	var out Customer
	if err := c.do(ctx, http.MethodGet, "/api/customers?id="+url.QueryEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCustomer adds a customer for the signed-in user.
func (c *Client) CreateCustomer(ctx context.Context, name string) (*Customer, error) {
	var resp struct {
		Customer *Customer `json:"customer"`
	}
	err := c.do(ctx, http.MethodPost, "/api/customers", map[string]string{"name": name}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Customer, nil
}

// DeleteCustomer removes a customer by id.
func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/customers?id="+url.QueryEscape(id), nil, nil)
}
