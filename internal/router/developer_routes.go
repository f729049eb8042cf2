package router

import (
    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/config"
    "github.com/devhire/job-board/internal/handler"
    "github.com/devhire/job-board/internal/middleware"
    "github.com/devhire/job-board/internal/model"
    "github.com/devhire/job-board/internal/service"
)

// RegisterDeveloper registers the application endpoints job seekers use.
// Viewing a single application is open to either party on it, so that
// route sits outside the developer role gate with bothParties ownership.
func RegisterDeveloper(
    e *echo.Echo,
    tokens *service.TokenService,
    cfg config.Config,
    own middleware.OwnershipStore,
    apps *handler.ApplicationHandler,
) {
    authed := e.Group("/v1")
    authed.Use(middleware.Authenticate(tokens, cfg.Env))
    authed.GET("/applications/:id", apps.GetApplication,
        middleware.RequireOwnership(own, middleware.ResourceApplication, "id", true))

    dev := e.Group("/v1")
    dev.Use(middleware.Authenticate(tokens, cfg.Env))
    dev.Use(middleware.RequireRole(model.RoleDeveloper, model.RoleAdmin))

    dev.POST("/jobs/:id/apply", apps.Apply)
    dev.GET("/applications", apps.ListMine)
    dev.DELETE("/applications/:id", apps.Withdraw,
        middleware.RequireOwnership(own, middleware.ResourceApplication, "id", false))
}
