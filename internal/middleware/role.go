package middleware // middleware provides shared request processing for handlers

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/model"
)

// RequireRole enforces that the authenticated principal holds one of the
// allowed roles. An empty allow-set is an explicit deny-all: even ADMIN
// is rejected (the admin bypass lives in the ownership gate, not here).
// A role value outside the known enumeration is rejected too, which
// defends against payload tampering that smuggles in an out-of-band
// role string.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            p, ok := GetPrincipal(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            if len(allowed) == 0 {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "no roles are allowed"})
            }
            if !model.ValidRole(p.Role) {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid role"})
            }
            if !allowed[p.Role] {
                return c.JSON(http.StatusForbidden, echo.Map{
                    "error":    "forbidden",
                    "role":     p.Role,
                    "required": strings.Join(roles, ","),
                })
            }
            return next(c)
        }
    }
}
