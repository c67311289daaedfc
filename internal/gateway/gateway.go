package gateway

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ledgerly-app/ledgerly-backend/internal/auth"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth/token"
)

// PathClass is the gateway's view of an inbound path.
type PathClass int

const (
	// ClassPassthrough covers API routes and static assets; their
	// handlers do their own verification.
	ClassPassthrough PathClass = iota
	// ClassAuthPage covers the login/register pages.
	ClassAuthPage
	// ClassProtected is every other page.
	ClassProtected
)

const (
	LoginPath     = "/auth/login"
	DashboardPath = "/dashboard"
)

var passthroughPrefixes = []string{
	"/api/",
	"/_next/static/",
	"/_next/image/",
	"/public/",
}

// Classify buckets a request path. Pure function so the decision table
// is testable without a router.
func Classify(path string) PathClass {
	if path == "/favicon.ico" || path == "/health" || path == "/healthz" {
		return ClassPassthrough
	}
	for _, p := range passthroughPrefixes {
		if strings.HasPrefix(path, p) {
			return ClassPassthrough
		}
	}
	if strings.HasPrefix(path, "/auth/") || path == "/auth" {
		return ClassAuthPage
	}
	return ClassProtected
}

// Middleware is the edge Session Gateway: it decides allow or redirect
// for page routes before any page handler runs. Auth pages stay
// reachable with a bad or expired cookie so a corrupted token can never
// lock the user out of login.
func Middleware(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		class := Classify(c.Request.URL.Path)
		if class == ClassPassthrough {
			c.Next()
			return
		}

		t := auth.SessionToken(c)
		if t == "" {
			if class == ClassProtected {
				c.Redirect(http.StatusFound, LoginPath)
				c.Abort()
				return
			}
			// auth page without a token: let them log in
			c.Next()
			return
		}

		if _, err := issuer.Verify(t); err != nil {
			if class == ClassProtected {
				c.Redirect(http.StatusFound, LoginPath)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		// Authenticated users should not see the login page.
		if class == ClassAuthPage {
			c.Redirect(http.StatusFound, DashboardPath)
			c.Abort()
			return
		}

		c.Next()
	}
}
