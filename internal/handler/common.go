package handler // handler defines http handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/tenant-notes/internal/queue"
	"github.com/iliyamo/tenant-notes/internal/service"
)

// CacheInvalidator drops cached responses of a tenant after a mutation.
type CacheInvalidator interface {
	InvalidateTenant(ctx context.Context, tenant string) error
}

type nopInvalidator struct{}

func (nopInvalidator) InvalidateTenant(context.Context, string) error { return nil }

// publishTimeout bounds how long a write waits on the event broker.
const publishTimeout = 3 * time.Second

// mutationHooks runs the side effects shared by every successful write:
// cache invalidation and event publishing.  Failures are logged only.
type mutationHooks struct {
	cache          CacheInvalidator
	events         service.EventPublisher
	log            *zap.Logger
	publishTimeout time.Duration
}

func newMutationHooks(cache CacheInvalidator, events service.EventPublisher, log *zap.Logger) mutationHooks {
	if cache == nil {
		cache = nopInvalidator{}
	}
	if events == nil {
		events = service.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return mutationHooks{cache: cache, events: events, log: log, publishTimeout: publishTimeout}
}

func (m mutationHooks) after(c echo.Context, ev queue.NoteEvent) {
	ctx := c.Request().Context()
	if err := m.cache.InvalidateTenant(ctx, ev.TenantSlug); err != nil {
		m.log.Warn("cache invalidation failed", zap.String("tenant", ev.TenantSlug), zap.Error(err))
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.publishTimeout)
	defer cancel()
	if err := m.events.Publish(pubCtx, ev); err != nil {
		m.log.Warn("event publish failed", zap.String("type", ev.Type), zap.String("tenant", ev.TenantSlug), zap.Error(err))
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token required"})
}

// parseID parses a positive numeric path parameter.
func parseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
