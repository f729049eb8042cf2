package middleware

import (
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// RateLimit is a fixed-window limiter for the credential endpoints,
// keyed by client IP and route. Redis INCR with an EXPIRE on the first
// hit of the window keeps state shared across instances. With no Redis
// client the limiter is a no-op, and Redis errors fail open: login must
// keep working when the cache is down.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if rdb == nil || limit <= 0 {
                return next(c)
            }
            key := "rl:" + c.Path() + ":" + c.RealIP()
            ctx := c.Request().Context()
            n, err := rdb.Incr(ctx, key).Result()
            if err != nil {
                log.Printf("ratelimit: incr failed: %v", err)
                return next(c)
            }
            if n == 1 {
                if err := rdb.Expire(ctx, key, window).Err(); err != nil {
                    log.Printf("ratelimit: expire failed: %v", err)
                }
            }
            if n > int64(limit) {
                return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
            }
            return next(c)
        }
    }
}
