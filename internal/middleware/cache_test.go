package middleware

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tenant-notes/internal/config"
	"github.com/iliyamo/tenant-notes/internal/model"
)

func newCachedEcho(t *testing.T, tc *TenantCache) (*echo.Echo, *int) {
	t.Helper()
	calls := 0
	e := echo.New()
	g := e.Group("/notes", JWTAuth(testSecret), tc.Middleware())
	g.GET("/:id", func(c echo.Context) error {
		calls++
		if c.Param("id") == "404" {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
		}
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id"), "call": calls})
	})
	g.POST("", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusCreated, echo.Map{"call": calls})
	})
	return e, &calls
}

func newTestCache(t *testing.T) (*TenantCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTenantCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "test", MaxBodyBytes: 1 << 20}, rdb), mr
}

func TestTenantCache_HitAndMiss(t *testing.T) {
	tc, _ := newTestCache(t)
	e, calls := newCachedEcho(t, tc)
	acme := "Bearer " + issue(t, model.RoleMember, "acme", time.Hour)

	first := serve(e, http.MethodGet, "/notes/1", acme)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serve(e, http.MethodGet, "/notes/1", acme)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, *calls)

	// a different path is a different entry
	other := serve(e, http.MethodGet, "/notes/2", acme)
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, *calls)
}

func TestTenantCache_TenantsAreSeparated(t *testing.T) {
	tc, _ := newTestCache(t)
	e, calls := newCachedEcho(t, tc)

	serve(e, http.MethodGet, "/notes/1", "Bearer "+issue(t, model.RoleMember, "acme", time.Hour))
	rec := serve(e, http.MethodGet, "/notes/1", "Bearer "+issue(t, model.RoleMember, "globex", time.Hour))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, *calls)
}

func TestTenantCache_InvalidateTenant(t *testing.T) {
	tc, mr := newTestCache(t)
	e, calls := newCachedEcho(t, tc)
	acme := "Bearer " + issue(t, model.RoleMember, "acme", time.Hour)
	globex := "Bearer " + issue(t, model.RoleMember, "globex", time.Hour)

	serve(e, http.MethodGet, "/notes/1", acme)
	serve(e, http.MethodGet, "/notes/1", globex)
	require.NoError(t, tc.InvalidateTenant(context.Background(), "acme"))

	gen, err := mr.Get("test:" + tc.instance + ":gen:acme")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	rec := serve(e, http.MethodGet, "/notes/1", acme)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `"call":`+strconv.Itoa(*calls))

	// globex entries survive
	rec = serve(e, http.MethodGet, "/notes/1", globex)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
}

func TestTenantCache_SkipsErrorsAndWrites(t *testing.T) {
	tc, _ := newTestCache(t)
	e, calls := newCachedEcho(t, tc)
	acme := "Bearer " + issue(t, model.RoleMember, "acme", time.Hour)

	serve(e, http.MethodGet, "/notes/404", acme)
	rec := serve(e, http.MethodGet, "/notes/404", acme)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	serve(e, http.MethodPost, "/notes", acme)
	rec = serve(e, http.MethodPost, "/notes", acme)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Equal(t, 4, *calls)
}

func TestTenantCache_RedisDown(t *testing.T) {
	tc, mr := newTestCache(t)
	e, calls := newCachedEcho(t, tc)
	mr.Close()

	rec := serve(e, http.MethodGet, "/notes/1", "Bearer "+issue(t, model.RoleMember, "acme", time.Hour))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *calls)
}

func TestTenantCache_Disabled(t *testing.T) {
	var nilCache *TenantCache
	assert.NoError(t, nilCache.InvalidateTenant(context.Background(), "acme"))

	tc := NewTenantCache(config.CacheConfig{Enabled: true}, nil)
	assert.NoError(t, tc.InvalidateTenant(context.Background(), "acme"))

	e, calls := newCachedEcho(t, tc)
	acme := "Bearer " + issue(t, model.RoleMember, "acme", time.Hour)
	serve(e, http.MethodGet, "/notes/1", acme)
	rec := serve(e, http.MethodGet, "/notes/1", acme)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Equal(t, 2, *calls)
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestTenantCache_EntriesDoNotOutliveProcess(t *testing.T) {
	tc, mr := newTestCache(t)
	e, _ := newCachedEcho(t, tc)
	acme := "Bearer " + issue(t, model.RoleMember, "acme", time.Hour)

	serve(e, http.MethodGet, "/notes/1", acme)
	require.Equal(t, "HIT", serve(e, http.MethodGet, "/notes/1", acme).Header().Get("X-Cache"))

	// a second cache on the same Redis stands in for a restarted process
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	restarted := NewTenantCache(config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "test"}, rdb)
	require.NotEqual(t, tc.instance, restarted.instance)

	e2, calls := newCachedEcho(t, restarted)
	rec := serve(e2, http.MethodGet, "/notes/1", acme)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, *calls)
}
