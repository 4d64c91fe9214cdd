package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/tenant-notes/internal/handler"
	"github.com/iliyamo/tenant-notes/internal/middleware"
)

// Deps carries everything the HTTP layer needs.
type Deps struct {
	JWTSecret string
	Auth      *handler.AuthHandler
	Tenants   *handler.TenantHandler
	Notes     *handler.NoteHandler
	Cache     *middleware.TenantCache
	Log       *zap.Logger
}

// New builds an Echo instance with the global middleware chain and every
// route of the API.
func New(d Deps) *echo.Echo {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	RegisterRoutes(e)
	RegisterAuth(e, d.Auth, d.JWTSecret)
	RegisterTenants(e, d.Tenants, d.Cache, d.JWTSecret)
	RegisterNotes(e, d.Notes, d.Cache, d.JWTSecret)
	return e
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.Health)
}

// RegisterAuth registers login (public) and /auth/me (bearer token).
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.POST("/auth/login", a.Login)
	e.GET("/auth/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterTenants registers tenant endpoints.  Both require a token; the
// upgrade additionally requires the Admin role.
func RegisterTenants(e *echo.Echo, t *handler.TenantHandler, cache *middleware.TenantCache, jwtSecret string) {
	g := e.Group(
		"/tenants",
		middleware.JWTAuth(jwtSecret),
		cache.Middleware(),
	)
	g.GET("/:slug", t.GetTenant)
	g.POST("/:slug/upgrade", t.Upgrade, middleware.RequireAdmin())
}

// RegisterNotes registers note CRUD.  All routes require a token and are
// scoped to the caller's tenant inside the handlers.
func RegisterNotes(e *echo.Echo, n *handler.NoteHandler, cache *middleware.TenantCache, jwtSecret string) {
	g := e.Group(
		"/notes",
		middleware.JWTAuth(jwtSecret),
		cache.Middleware(),
	)
	g.POST("", n.CreateNote)
	g.GET("", n.ListNotes)
	g.GET("/:id", n.GetNote)
	g.PUT("/:id", n.UpdateNote)
	g.DELETE("/:id", n.DeleteNote)
}
