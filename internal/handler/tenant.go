package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/tenant-notes/internal/middleware"
	"github.com/iliyamo/tenant-notes/internal/queue"
	"github.com/iliyamo/tenant-notes/internal/repository"
	"github.com/iliyamo/tenant-notes/internal/service"
)

// TenantHandler serves tenant lookups and plan upgrades.  Callers can only
// see their own tenant.
type TenantHandler struct {
	Tenants *repository.TenantRepo
	hooks   mutationHooks
}

func NewTenantHandler(tenants *repository.TenantRepo, cache CacheInvalidator, events service.EventPublisher, log *zap.Logger) *TenantHandler {
	if tenants == nil {
		panic("nil repository passed to NewTenantHandler")
	}
	return &TenantHandler{Tenants: tenants, hooks: newMutationHooks(cache, events, log)}
}

// GetTenant handles GET /tenants/:slug.
func (h *TenantHandler) GetTenant(c echo.Context) error {
	cl, ok := middleware.ClaimsFrom(c)
	if !ok {
		return unauthorized(c)
	}
	slug := c.Param("slug")
	if cl.TenantSlug != slug {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}
	t, err := h.Tenants.Get(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Upgrade handles POST /tenants/:slug/upgrade.  RequireAdmin runs before
// it; the tenant check happens here.
func (h *TenantHandler) Upgrade(c echo.Context) error {
	cl, ok := middleware.ClaimsFrom(c)
	if !ok {
		return unauthorized(c)
	}
	slug := c.Param("slug")
	if cl.TenantSlug != slug {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot upgrade other tenants"})
	}
	t, err := h.Tenants.Upgrade(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrTenantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upgrade failed"})
	}

	ev := service.NewEvent(queue.EventTenantUpgraded, slug, cl.ID)
	ev.Plan = string(t.Plan)
	h.hooks.after(c, ev)
	h.hooks.log.Info("tenant upgraded", zap.String("tenant", slug), zap.Uint64("user_id", cl.ID))

	return c.JSON(http.StatusOK, echo.Map{"message": "Subscription upgraded to Pro", "tenant": t})
}
