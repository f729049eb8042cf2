package handler // handler defines http handlers

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/middleware"
)

// principal pulls the authenticated principal placed in context by the
// auth middleware. Routes behind the gate always have one; the ok flag
// only trips when a handler is wired without the middleware.
func principal(c echo.Context) (middleware.Principal, bool) {
    return middleware.GetPrincipal(c)
}

// pathID parses a numeric route parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}

// pageParams reads ?page and ?limit with defaults 1 and 10.
func pageParams(c echo.Context) (int, int) {
    page, limit := 1, 10
    if v := c.QueryParam("page"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            page = n
        }
    }
    if v := c.QueryParam("limit"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            limit = n
        }
    }
    return page, limit
}
