package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/ledgerly-app/ledgerly-backend/internal/api/http"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth"
	authhttp "github.com/ledgerly-app/ledgerly-backend/internal/auth/http"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth/middleware"
	authrepo "github.com/ledgerly-app/ledgerly-backend/internal/auth/repository"
	authsvc "github.com/ledgerly-app/ledgerly-backend/internal/auth/service"
	"github.com/ledgerly-app/ledgerly-backend/internal/auth/token"
	"github.com/ledgerly-app/ledgerly-backend/internal/customers"
	"github.com/ledgerly-app/ledgerly-backend/internal/dashboard"
	"github.com/ledgerly-app/ledgerly-backend/internal/gateway"
	"github.com/ledgerly-app/ledgerly-backend/internal/invoices"
	"github.com/ledgerly-app/ledgerly-backend/internal/projects"
	"github.com/ledgerly-app/ledgerly-backend/internal/ratelimit"
	"github.com/ledgerly-app/ledgerly-backend/internal/web"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigin  string
	Production  bool
	Issuer      *token.Issuer
	DB          *pgxpool.Pool
	Redis       *redis.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{dep.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	r.Use(httpapi.RequestIDMiddleware())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	// Edge gateway: page-level allow/redirect. API routes pass through
	// and re-verify behind RequireSession.
	r.Use(gateway.Middleware(dep.Issuer))
	web.Register(r)

	cookieOpts := auth.CookieOptions{Secure: dep.Production}

	userRepo := authrepo.NewUserRepository(dep.DB)
	authService := authsvc.NewAuthService(userRepo, dep.Issuer)

	limiter := ratelimit.NewPerIP()

	api := r.Group("/api")

	authHandler := authhttp.New(authService, cookieOpts)
	authHandler.Register(api.Group("/auth"), limiter.Middleware())

	summaryCache := dashboard.NewCache(dep.Redis, dashboard.NewRepo(dep.DB))

	sess := middleware.RequireSession(dep.Issuer)

	customersGroup := api.Group("/customers", sess)
	customers.Register(customersGroup, customers.NewRepo(dep.DB), summaryCache)

	// Original client contract mounts projects under /api/auth/projects.
	projectsGroup := api.Group("/auth/projects", sess)
	projects.Register(projectsGroup, projects.NewRepo(dep.DB), summaryCache)

	invoicesGroup := api.Group("/invoices", sess)
	invoices.Register(invoicesGroup, invoices.NewRepo(dep.DB), summaryCache)

	dashboardGroup := api.Group("/dashboard", sess)
	dashboard.Register(dashboardGroup, summaryCache)

	return r
}
