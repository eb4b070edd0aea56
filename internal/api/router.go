package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/personaquiz/platform-client/internal/api/handler"
	"github.com/personaquiz/platform-client/internal/api/middleware"
	"github.com/personaquiz/platform-client/internal/core/domain"
	"github.com/personaquiz/platform-client/internal/core/ports"
	"github.com/personaquiz/platform-client/internal/infrastructure/config"
)

// RouterOptions groups the dependencies of the embedding surface.
type RouterOptions struct {
	Config   *config.Config
	Sessions ports.SessionService
	Store    ports.TokenStore
	Gateway  ports.AuthGateway
	// StorePinger is probed by readiness when the token store backend is
	// remote; nil for the file backend.
	StorePinger handler.Pinger
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// Consumer apps mount their own gated routes next to these with
// middleware.Guard and their route's declared requirement.
func NewRouter(opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("persona_session"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Session surface ---
	sessionHandler := handler.NewSessionHandler(opts.Sessions, opts.Store, opts.Gateway)

	e.POST("/session/login", sessionHandler.Login)
	e.DELETE("/session", sessionHandler.Logout)
	e.GET("/session", sessionHandler.Current)

	// Profile is visible to any authenticated visitor.
	e.GET("/profile", sessionHandler.Profile,
		middleware.Guard(opts.Sessions, opts.Config.Session.LoginPath, nil))

	// Admin console: exact-match rule, hierarchy deliberately bypassed.
	admin := e.Group("/admin",
		middleware.Guard(opts.Sessions, opts.Config.Session.LoginPath, &domain.Requirement{
			Role:  domain.RoleAdmin,
			Exact: true,
		}))
	admin.GET("/session", sessionHandler.Current)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.StorePinger)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
