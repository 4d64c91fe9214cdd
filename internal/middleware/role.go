package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/iliyamo/tenant-notes/internal/model"
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  It must be composed
// after JWTAuth, which stores the role under RoleKey.  Requests from any
// other role are aborted with 403 and message msg.
func RequireRole(msg string, roles ...model.Role) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[string(r)] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get(RoleKey).(string)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": msg})
            }
            return next(c)
        }
    }
}

// RequireAdmin allows only users with the Admin role.
func RequireAdmin() echo.MiddlewareFunc {
    return RequireRole("admin access required", model.RoleAdmin)
}
