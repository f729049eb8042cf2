package router

import (
    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/config"
    "github.com/devhire/job-board/internal/handler"
    "github.com/devhire/job-board/internal/middleware"
    "github.com/devhire/job-board/internal/service"
)

// RegisterProfile registers the endpoints every authenticated user gets
// regardless of role: the skill catalog, their own skills, documents,
// notifications and saved jobs. Each id-addressed mutation goes through
// the ownership gate for its resource kind.
func RegisterProfile(
    e *echo.Echo,
    tokens *service.TokenService,
    cfg config.Config,
    own middleware.OwnershipStore,
    skills *handler.SkillHandler,
    docs *handler.DocumentHandler,
    notifs *handler.NotificationHandler,
    saved *handler.SavedJobHandler,
) {
    g := e.Group("/v1")
    g.Use(middleware.Authenticate(tokens, cfg.Env))

    g.GET("/skills", skills.ListCatalog)
    g.GET("/me/skills", skills.ListMine)
    g.PUT("/me/skills", skills.Upsert)
    g.DELETE("/me/skills/:id", skills.Remove,
        middleware.RequireOwnership(own, middleware.ResourceUserSkill, "id", false))

    g.POST("/documents", docs.Create)
    g.GET("/documents", docs.ListMine)
    g.DELETE("/documents/:id", docs.Delete,
        middleware.RequireOwnership(own, middleware.ResourceDocument, "id", false))

    g.GET("/notifications", notifs.ListMine)
    g.PATCH("/notifications/:id/read", notifs.MarkRead,
        middleware.RequireOwnership(own, middleware.ResourceNotification, "id", false))

    g.POST("/jobs/:id/save", saved.Save)
    g.GET("/saved-jobs", saved.ListMine)
    g.DELETE("/saved-jobs/:id", saved.Unsave,
        middleware.RequireOwnership(own, middleware.ResourceSavedJob, "id", false))
}
