package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerly-app/ledgerly-backend/internal/auth"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth/domain"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth/service"
)

// login checks credentials and hands the session token back as a cookie.
func (h *Handler) login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"message": vErr.Message})
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		default:
			log.Printf("login failed for %q: %v", req.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	auth.SetSessionCookie(c, token, h.cookieOpts)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// register creates the account and returns the token in the body as well
// as setting it as the session cookie.
func (h *Handler) register(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON body"})
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"message": vErr.Message})
		case errors.Is(err, domain.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
		default:
			log.Printf("register failed for %q: %v", req.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	auth.SetSessionCookie(c, token, h.cookieOpts)
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// validate re-verifies the cookie token and returns its user. Any token
// failure is a uniform 401.
func (h *Handler) validate(c *gin.Context) {
	token := auth.SessionToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
		return
	}

	user, err := h.authService.Validate(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		log.Printf("validate failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// logout clears the cookie. The token itself stays valid until expiry;
// there is no server-side revocation list.
func (h *Handler) logout(c *gin.Context) {
	auth.ClearSessionCookie(c, h.cookieOpts)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
