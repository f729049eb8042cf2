package router

import (
    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/config"
    "github.com/devhire/job-board/internal/handler"
    "github.com/devhire/job-board/internal/middleware"
    "github.com/devhire/job-board/internal/model"
    "github.com/devhire/job-board/internal/service"
)

// RegisterSorting registers the ranked and sorted listing endpoints.
// Job recommendations are for seekers, candidate recommendations for
// the recruiter who owns the job.
func RegisterSorting(
    e *echo.Echo,
    tokens *service.TokenService,
    cfg config.Config,
    own middleware.OwnershipStore,
    sorting *handler.SortingHandler,
) {
    g := e.Group("/v1/sorting")
    g.Use(middleware.Authenticate(tokens, cfg.Env))

    g.GET("/jobs", sorting.SortedJobs)
    g.GET("/applications", sorting.SortedApplications)

    g.GET("/jobs/recommended", sorting.RecommendedJobs,
        middleware.RequireRole(model.RoleDeveloper, model.RoleAdmin))
    g.GET("/candidates/:job_id", sorting.RecommendedCandidates,
        middleware.RequireRole(model.RoleRecruiter, model.RoleAdmin),
        middleware.RequireOwnership(own, middleware.ResourceJob, "job_id", false))
}
