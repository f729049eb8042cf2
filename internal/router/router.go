package router

import (
    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/handler"
)

// RegisterRoutes registers routes that need no authentication: the
// health check and the public job browse endpoints.
func RegisterRoutes(e *echo.Echo, jobs *handler.JobHandler) {
    e.GET("/healthz", handler.Health)

    // Guests can browse open listings without a session. Everything
    // that mutates a job lives in the recruiter group.
    e.GET("/v1/jobs", jobs.ListOpenJobs)
    e.GET("/v1/jobs/:id", jobs.GetJob)
}
