package handler

import (
    "errors"
    "log"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/repository"
    "github.com/devhire/job-board/internal/service"
)

// SortingHandler serves the recommendation and sorted-listing endpoints.
type SortingHandler struct {
    Recommender *service.Recommender
}

func NewSortingHandler(rec *service.Recommender) *SortingHandler {
    if rec == nil {
        panic("nil recommender passed to NewSortingHandler")
    }
    return &SortingHandler{Recommender: rec}
}

// RecommendedJobs handles GET /v1/sorting/jobs/recommended.
func (h *SortingHandler) RecommendedJobs(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    page, limit := pageParams(c)
    res, err := h.Recommender.RecommendedJobs(c.Request().Context(), p.ID, page, limit)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        log.Printf("sorting: recommended jobs failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "recommendation failed"})
    }
    return c.JSON(http.StatusOK, res)
}

// RecommendedCandidates handles GET /v1/sorting/candidates/:job_id.
// Only the job owner (or an admin) should reach here; the ownership gate
// runs before this handler.
func (h *SortingHandler) RecommendedCandidates(c echo.Context) error {
    jobID, err := pathID(c, "job_id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid job id"})
    }
    page, limit := pageParams(c)
    res, err := h.Recommender.RecommendedCandidates(c.Request().Context(), jobID, page, limit)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        }
        log.Printf("sorting: recommended candidates failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "recommendation failed"})
    }
    return c.JSON(http.StatusOK, res)
}

// SortedJobs handles GET /v1/sorting/jobs?sort_by=&order=.
func (h *SortingHandler) SortedJobs(c echo.Context) error {
    var userID uint64
    if p, ok := principal(c); ok {
        userID = p.ID
    }
    page, limit := pageParams(c)
    res, err := h.Recommender.SortedJobs(c.Request().Context(),
        c.QueryParam("sort_by"), c.QueryParam("order"), page, limit, userID)
    if err != nil {
        log.Printf("sorting: sorted jobs failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "listing failed"})
    }
    return c.JSON(http.StatusOK, res)
}

// SortedApplications handles GET /v1/sorting/applications?sort_by=&order=.
func (h *SortingHandler) SortedApplications(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    page, limit := pageParams(c)
    res, err := h.Recommender.SortedApplications(c.Request().Context(), p.ID,
        c.QueryParam("sort_by"), c.QueryParam("order"), page, limit)
    if err != nil {
        log.Printf("sorting: sorted applications failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "listing failed"})
    }
    return c.JSON(http.StatusOK, res)
}
