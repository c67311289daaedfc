package web

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// The backend serves a minimal HTML shell for each page route; the
// session gateway in front of these decides allow vs redirect. The real
// UI is the SPA bundle; these shells only make page-level access
// control observable.

const shell = `<!doctype html>
<html>
<head><title>Ledgerly | %s</title></head>
<body><div id="root" data-page="%s"></div></body>
</html>`

func page(title, id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, fmt.Sprintf(shell, title, id))
	}
}

// Register attaches the page routes the gateway guards.
func Register(r gin.IRouter) {
	r.GET("/", page("Dashboard", "dashboard"))
	r.GET("/dashboard", page("Dashboard", "dashboard"))
	r.GET("/customers", page("Customers", "customers"))
	r.GET("/projects", page("Projects", "projects"))
	r.GET("/invoices", page("Invoices", "invoices"))
	r.GET("/auth/login", page("Login", "login"))
	r.GET("/auth/register", page("Register", "register"))
}
