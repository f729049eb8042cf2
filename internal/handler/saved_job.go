package handler

import (
    "errors"
    "log"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/repository"
)

// SavedJobHandler manages job bookmarks.
type SavedJobHandler struct {
    SavedJobs *repository.SavedJobRepo
    Jobs      *repository.JobRepo
}

func NewSavedJobHandler(saved *repository.SavedJobRepo, jobs *repository.JobRepo) *SavedJobHandler {
    if saved == nil || jobs == nil {
        panic("nil repository passed to NewSavedJobHandler")
    }
    return &SavedJobHandler{SavedJobs: saved, Jobs: jobs}
}

// Save handles POST /v1/jobs/:id/save.
func (h *SavedJobHandler) Save(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    jobID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    if _, err := h.Jobs.GetByID(ctx, jobID); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    id, err := h.SavedJobs.Save(ctx, p.ID, jobID)
    if err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "job already saved"})
        }
        log.Printf("saved_jobs: save failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save job"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id, "job_id": jobID})
}

// ListMine handles GET /v1/saved-jobs.
func (h *SavedJobHandler) ListMine(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.SavedJobs.ListByUser(c.Request().Context(), p.ID)
    if err != nil {
        log.Printf("saved_jobs: list failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Unsave handles DELETE /v1/saved-jobs/:id behind the ownership gate.
func (h *SavedJobHandler) Unsave(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.SavedJobs.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "saved job not found"})
        }
        log.Printf("saved_jobs: delete failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
