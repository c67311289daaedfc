package http

import (
	"github.com/ledgerly-app/ledgerly-backend/internal/auth"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth/service"
)

// Handler bundles the dependencies for the auth HTTP endpoints.
type Handler struct {
	authService *service.AuthService
	cookieOpts  auth.CookieOptions
}

func New(authService *service.AuthService, cookieOpts auth.CookieOptions) *Handler {
	return &Handler{
		authService: authService,
		cookieOpts:  cookieOpts,
	}
}

type credentialsReq struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email,omitempty"`
}
