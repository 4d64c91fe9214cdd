package middleware

// identity.go defines helpers shared across middleware files.  They read
// the caller's user id and tenant from the context keys set by JWTAuth and
// fall back to placeholders for unauthenticated requests.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// userID returns the authenticated user's id as a string, or "guest".
func userID(c echo.Context) string {
    if id, ok := c.Get(UserIDKey).(uint64); ok {
        return strconv.FormatUint(id, 10)
    }
    return "guest"
}

// tenantSlug returns the authenticated user's tenant, or "" for guests.
func tenantSlug(c echo.Context) string {
    tenant, _ := c.Get(TenantKey).(string)
    return tenant
}
