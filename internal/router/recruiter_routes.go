package router

import (
    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/config"
    "github.com/devhire/job-board/internal/handler"
    "github.com/devhire/job-board/internal/middleware"
    "github.com/devhire/job-board/internal/model"
    "github.com/devhire/job-board/internal/service"
)

// RegisterRecruiter registers job management and application triage.
// Every id-addressed route is gated on ownership: recruiters can only
// touch their own jobs, and applications they own the job for or were
// assigned to.
func RegisterRecruiter(
    e *echo.Echo,
    tokens *service.TokenService,
    cfg config.Config,
    own middleware.OwnershipStore,
    jobs *handler.JobHandler,
    apps *handler.ApplicationHandler,
) {
    g := e.Group("/v1")
    g.Use(middleware.Authenticate(tokens, cfg.Env))
    g.Use(middleware.RequireRole(model.RoleRecruiter, model.RoleAdmin))

    g.POST("/jobs", jobs.CreateJob)
    g.GET("/my/jobs", jobs.ListMyJobs)
    g.PUT("/jobs/:id", jobs.UpdateJob,
        middleware.RequireOwnership(own, middleware.ResourceJob, "id", false))
    g.DELETE("/jobs/:id", jobs.DeleteJob,
        middleware.RequireOwnership(own, middleware.ResourceJob, "id", false))

    g.GET("/jobs/:id/applications", apps.ListForJob,
        middleware.RequireOwnership(own, middleware.ResourceJob, "id", false))
    g.POST("/applications/:id/assign", apps.AssignRecruiter,
        middleware.RequireOwnership(own, middleware.ResourceApplication, "id", true))
    g.PATCH("/applications/:id/status", apps.UpdateStatus,
        middleware.RequireOwnership(own, middleware.ResourceApplication, "id", true))
}
