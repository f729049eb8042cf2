package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/devhire/job-board/internal/config"
    "github.com/devhire/job-board/internal/handler"
    "github.com/devhire/job-board/internal/middleware"
    "github.com/devhire/job-board/internal/service"
)

// RegisterAuth registers the session lifecycle endpoints under /v1/auth
// and the authenticated /v1/me endpoint. The credential endpoints carry
// a rate limiter when one is configured; refresh and logout stay
// unlimited because they are already bound by possession of a token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *service.TokenService, cfg config.Config, rdb *redis.Client) {
    g := e.Group("/v1/auth")

    if cfg.RateLimitEnabled && rdb != nil {
        limited := middleware.RateLimit(rdb, cfg.RateLimitMax, cfg.RateLimitWindow)
        g.POST("/register", a.Register, limited)
        g.POST("/login", a.Login, limited)
    } else {
        g.POST("/register", a.Register)
        g.POST("/login", a.Login)
    }
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.Authenticate(tokens, cfg.Env))
    auth.GET("/me", a.Me)
}
