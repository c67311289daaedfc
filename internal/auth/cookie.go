package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// CookieName is the session cookie holding the signed token.
	CookieName = "token"

	// CookieMaxAge matches the token TTL (24h in seconds).
	CookieMaxAge = 86400
)

// CookieOptions carries the environment-dependent cookie settings.
type CookieOptions struct {
	Secure bool
}

// SetSessionCookie attaches the signed token as an HTTP-only,
// SameSite=Strict cookie on the response.
func SetSessionCookie(c *gin.Context, token string, opts CookieOptions) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, token, CookieMaxAge, "/", "", opts.Secure, true)
}

// ClearSessionCookie expires the session cookie. The token itself stays
// valid until its natural expiry; there is no server-side revocation.
func ClearSessionCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, "", -1, "/", "", opts.Secure, true)
}

// SessionToken reads the raw token from the request cookie. Empty when
// the cookie is absent.
func SessionToken(c *gin.Context) string {
	v, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return v
}
