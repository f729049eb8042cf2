package middleware // middleware contains reusable HTTP middleware for the API

import (
    "context"
    "crypto/subtle"
    "errors"
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/repository"
    "github.com/devhire/job-board/internal/service"
)

// Principal is the authenticated identity attached to a request. It is
// reconstructed from the verified token payload on every request and
// discarded with the request context.
type Principal struct {
    ID    uint64 `json:"id"`
    Email string `json:"email"`
    Role  string `json:"role"`
}

// Context and cookie/header names used by the gate chain.
const (
    PrincipalKey      = "principal"
    AccessCookieName  = "accessToken"
    RefreshCookieName = "refreshToken"
    CSRFCookieName    = "XSRF-TOKEN"
    CSRFHeaderName    = "X-CSRF-Token"
    csrfBypassHeader  = "X-CSRF-Bypass"
)

// csrfExempt lists the mutating routes that cannot carry a CSRF token
// yet: credential endpoints reached before any session exists, plus
// logout. Fixed list, not env-driven.
var csrfExempt = map[string]bool{
    "/v1/auth/register":               true,
    "/v1/auth/login":                  true,
    "/v1/auth/logout":                 true,
    "/v1/auth/refresh":                true,
    "/v1/auth/password-reset":         true,
    "/v1/auth/password-reset/confirm": true,
}

// GetPrincipal returns the authenticated principal stored by
// Authenticate, or false when the request never passed the gate.
func GetPrincipal(c echo.Context) (Principal, bool) {
    p, ok := c.Get(PrincipalKey).(Principal)
    return p, ok
}

// Authenticate is the per-request gate. For mutating, non-exempt routes
// it first enforces the CSRF header/cookie pair; then it extracts the
// credential (session cookie wins over a bearer header), verifies it,
// rejects sessions idle past the inactivity timeout, and finally stores
// the principal in context. Activity stamping is fire-and-forget so a
// slow store write never delays the response.
func Authenticate(tokens *service.TokenService, env string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()

            if !safeMethod(req.Method) && !csrfExempt[c.Path()] {
                if ok, err := checkCSRF(c, env); !ok {
                    return err
                }
            }

            raw := extractCredential(c)
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token provided"})
            }
            claims, err := tokens.VerifyAccess(raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
            }
            // The codec already rejects expired tokens; this re-check
            // guards against a claims object with a past exp slipping
            // through a future codec change.
            if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token has expired"})
            }
            idle, err := tokens.InactivityExceeded(req.Context(), claims.UserID)
            if err != nil {
                // A token for a vanished user is invalid; anything else
                // is a store fault, not the caller's.
                if errors.Is(err, repository.ErrNotFound) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
                }
                log.Printf("auth: inactivity lookup failed for user %d: %v", claims.UserID, err)
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
            }
            if idle {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Session expired due to inactivity"})
            }

            p := Principal{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
            c.Set(PrincipalKey, p)
            c.Set("user_id", p.ID)
            c.Set("role", p.Role)

            go func(id uint64) {
                ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
                defer cancel()
                _ = tokens.TouchActivity(ctx, id)
            }(p.ID)

            h := c.Response().Header()
            h.Set("X-Content-Type-Options", "nosniff")
            h.Set("X-Frame-Options", "DENY")

            return next(c)
        }
    }
}

// checkCSRF requires the submitted header token and the cookie token to
// both be present and byte-equal. The comparison is constant-time. The
// ok result carries the verdict; the error is whatever writing the
// rejection produced. Rejection cannot be signalled through the error
// alone because c.JSON returns nil after a successful write.
func checkCSRF(c echo.Context, env string) (bool, error) {
    if env != "prod" && c.Request().Header.Get(csrfBypassHeader) == "1" {
        return true, nil // dev convenience only; the header is dead in prod
    }
    header := c.Request().Header.Get(CSRFHeaderName)
    cookie, err := c.Cookie(CSRFCookieName)
    if header == "" || err != nil || cookie.Value == "" {
        return false, c.JSON(http.StatusForbidden, echo.Map{"error": "CSRF token missing"})
    }
    if subtle.ConstantTimeCompare([]byte(header), []byte(cookie.Value)) != 1 {
        return false, c.JSON(http.StatusForbidden, echo.Map{"error": "Invalid CSRF token"})
    }
    return true, nil
}

// extractCredential returns the presented access token. A session cookie
// takes precedence over the Authorization header so an existing browser
// session is preserved even when a client also sends a bearer.
func extractCredential(c echo.Context) string {
    if cookie, err := c.Cookie(AccessCookieName); err == nil && cookie.Value != "" {
        return cookie.Value
    }
    auth := c.Request().Header.Get("Authorization")
    if strings.HasPrefix(auth, "Bearer ") {
        return strings.TrimPrefix(auth, "Bearer ")
    }
    return ""
}

func safeMethod(m string) bool {
    switch m {
    case http.MethodGet, http.MethodHead, http.MethodOptions:
        return true
    }
    return false
}
