package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/userhub/dashboard/internal/api/handler"
	"github.com/userhub/dashboard/internal/api/middleware"
	"github.com/userhub/dashboard/internal/core/domain"
	"github.com/userhub/dashboard/internal/core/ports"
	"github.com/userhub/dashboard/internal/core/service"
	"github.com/userhub/dashboard/internal/core/store"
	"github.com/userhub/dashboard/internal/infrastructure/cache"
	"github.com/userhub/dashboard/internal/infrastructure/config"
	"github.com/userhub/dashboard/internal/security"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, backend ports.BackendClient, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.BodyLimit("8M"))
	e.Use(echoprometheus.NewMiddleware("dashboard"))

	sanitizer := security.NewMessageSanitizer()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, sanitizer)
	e.Validator = handler.NewValidator()

	// --- Dependencies ---
	sessionStore := store.New()
	sessions := service.NewSessionService(backend, sessionStore, log)
	directory := service.NewDirectoryService(backend, cache.NewDirectoryCache(rdb, cfg.Redis.DirectoryTTL), log)

	gate := middleware.NewGate(sessions, cfg.Session.CookieName, log)
	csrf := middleware.NewCSRF(cfg.Session.CSRFSecret, cfg.Session.CSRFTTL)
	limiter := middleware.NewRateLimiter(rate.Limit(5), 10) // per-IP, auth endpoints only

	authHandler := handler.NewAuthHandler(backend, sessions, cfg.Session.CookieName)
	pageHandler := handler.NewPageHandler(directory, csrf)
	userHandler := handler.NewUserHandler(directory, sessions)

	// --- Auth routes (public, rate limited) ---
	auth := e.Group("/auth", limiter.Middleware())
	auth.POST("/login", authHandler.Login)
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/logout", authHandler.Logout)

	// --- Public pages ---
	e.GET("/login", pageHandler.LoginPage)
	e.GET("/signup", pageHandler.SignupPage)
	e.GET("/unauthorized", pageHandler.Unauthorized)

	// --- Protected pages (each route activates the gate exactly once) ---
	e.GET("/", pageHandler.Home, gate.Protect(domain.RoleUser, domain.RoleManager, domain.RoleAdmin))
	e.GET("/admin", pageHandler.Admin, gate.Protect(domain.RoleAdmin))
	e.GET("/manager", pageHandler.Manager, gate.Protect(domain.RoleManager, domain.RoleAdmin))

	// --- Protected API ---
	api := e.Group("/api", csrf.Middleware(cfg.Session.CookieName))
	api.PUT("/profile", userHandler.Profile,
		gate.Protect(domain.RoleUser, domain.RoleManager, domain.RoleAdmin))

	users := api.Group("/users", gate.Protect(domain.RoleManager, domain.RoleAdmin))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
	users.POST("/bulk", userHandler.Bulk)

	// --- Ops endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Catch-all 404 ---
	e.RouteNotFound("/*", pageHandler.NotFound)

	return e
}
