package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/tenant-notes/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }
func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit <= 0 {
        cw.buf.Write(b)
    } else if remain := cw.limit - cw.size; remain > 0 {
        if int64(len(b)) <= remain {
            cw.buf.Write(b)
        } else {
            cw.buf.Write(b[:remain])
        }
    }
    cw.size += int64(len(b))
    return cw.ResponseWriter.Write(b)
}

// TenantCache caches successful GET responses per tenant in Redis.  Every
// tenant has a generation counter that is part of each cache key; bumping
// it with InvalidateTenant orphans all cached entries of that tenant, which
// then age out through their TTL.
//
// Keys also carry a per-process instance id.  The stores are in memory, so
// entries written by an earlier process describe data that no longer exists.
type TenantCache struct {
    cfg      config.CacheConfig
    rdb      *redis.Client
    instance string
}

// NewTenantCache returns a cache.  A nil client or a disabled config makes
// every method a no-op.
func NewTenantCache(cfg config.CacheConfig, rdb *redis.Client) *TenantCache {
    if cfg.TTL <= 0 {
        cfg.TTL = 30 * time.Second
    }
    return &TenantCache{cfg: cfg, rdb: rdb, instance: uuid.NewString()}
}

func (tc *TenantCache) enabled() bool {
    return tc != nil && tc.cfg.Enabled && tc.rdb != nil
}

func (tc *TenantCache) generationKey(tenant string) string {
    return tc.cfg.Prefix + ":" + tc.instance + ":gen:" + tenant
}

func (tc *TenantCache) generation(ctx context.Context, tenant string) (string, error) {
    gen, err := tc.rdb.Get(ctx, tc.generationKey(tenant)).Result()
    if errors.Is(err, redis.Nil) {
        return "0", nil
    }
    return gen, err
}

// InvalidateTenant drops every cached response of tenant.
func (tc *TenantCache) InvalidateTenant(ctx context.Context, tenant string) error {
    if !tc.enabled() {
        return nil
    }
    return tc.rdb.Incr(ctx, tc.generationKey(tenant)).Err()
}

// cacheKey builds a stable key from tenant, generation and the concrete
// request path (not the route pattern, so /notes/1 and /notes/2 differ).
func (tc *TenantCache) cacheKey(tenant, gen string, r *http.Request) string {
    tail := strings.Join([]string{"instance", tc.instance, "tenant", tenant, "gen", gen, "method", r.Method, "path", r.URL.Path, "q", r.URL.RawQuery}, ":")
    sum := sha1.Sum([]byte(tail))
    return fmt.Sprintf("%s:%x", tc.cfg.Prefix, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    hdrJSON, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8+len(hdrJSON)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    copy(out[8:8+len(hdrJSON)], hdrJSON)
    copy(out[8+len(hdrJSON):], body)
    return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return 0, nil, nil, false
    }
    var hdr http.Header
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
            return 0, nil, nil, false
        }
    } else {
        hdr = make(http.Header)
    }
    return status, hdr, bs[8+hlen:], true
}

// Middleware serves cached GET responses for the caller's tenant and stores
// fresh 200 responses.  It must run after JWTAuth.  Redis errors fall
// through to the handler.
func (tc *TenantCache) Middleware() echo.MiddlewareFunc {
    if !tc.enabled() {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    maxBody := int64(tc.cfg.MaxBodyBytes)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            tenant := tenantSlug(c)
            if c.Request().Method != http.MethodGet || tenant == "" {
                return next(c)
            }

            ctx := c.Request().Context()
            gen, err := tc.generation(ctx, tenant)
            if err != nil {
                c.Logger().Warnf("[cache] generation lookup for tenant=%s failed: %v", tenant, err)
                return next(c)
            }
            key := tc.cacheKey(tenant, gen, c.Request())

            if bs, err := tc.rdb.Get(ctx, key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    for k, vals := range hdr {
                        // Echo sets Content-Length itself
                        if strings.EqualFold(k, echo.HeaderContentLength) || strings.EqualFold(k, "X-Cache") {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    if len(body) > 0 {
                        _, _ = c.Response().Write(body)
                    }
                    return nil
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            // truncated bodies are not worth replaying
            if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
                return nil
            }
            hdr := c.Response().Header().Clone()
            hdr.Del("X-Request-Id")
            if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
                _ = tc.rdb.SetEx(context.WithoutCancel(ctx), key, payload, tc.cfg.TTL).Err()
            }
            return nil
        }
    }
}
