package handler // handler package contains recruiter job handlers

import (
    "errors"
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/model"
    "github.com/devhire/job-board/internal/repository"
)

// JobHandler bundles repositories for job postings.
type JobHandler struct {
    Jobs *repository.JobRepo
}

func NewJobHandler(jobs *repository.JobRepo) *JobHandler {
    if jobs == nil {
        panic("nil repository passed to NewJobHandler")
    }
    return &JobHandler{Jobs: jobs}
}

type jobSkillReq struct {
    SkillID uint64 `json:"skill_id"`
    Level   int    `json:"level"`
}

type jobReq struct {
    Title       string        `json:"title"`
    Description string        `json:"description"`
    Location    string        `json:"location"`
    JobType     string        `json:"job_type"`
    Salary      int64         `json:"salary"`
    ExpiresAt   *time.Time    `json:"expires_at"`
    Skills      []jobSkillReq `json:"skills"`
}

func (r jobReq) toModel(creator uint64) (model.Job, error) {
    title := strings.TrimSpace(r.Title)
    if title == "" {
        return model.Job{}, errors.New("title is required")
    }
    j := model.Job{
        UserID:      creator,
        Title:       title,
        Description: r.Description,
        Location:    strings.TrimSpace(r.Location),
        JobType:     strings.ToUpper(strings.TrimSpace(r.JobType)),
        Salary:      r.Salary,
        ExpiresAt:   r.ExpiresAt,
    }
    for _, s := range r.Skills {
        if s.SkillID == 0 || !model.ValidLevel(s.Level) {
            return model.Job{}, errors.New("skills require a skill_id and a level between 1 and 3")
        }
        j.Skills = append(j.Skills, model.JobSkill{SkillID: s.SkillID, Level: s.Level})
    }
    return j, nil
}

// CreateJob handles POST /v1/jobs for recruiters.
func (h *JobHandler) CreateJob(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req jobReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    job, err := req.toModel(p.ID)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    if err := h.Jobs.Create(c.Request().Context(), &job); err != nil {
        log.Printf("jobs: create failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create job"})
    }
    return c.JSON(http.StatusCreated, job)
}

// UpdateJob handles PUT/PATCH /v1/jobs/:id. Ownership is checked by the
// middleware; the handler only needs a live row.
func (h *JobHandler) UpdateJob(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req jobReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    job, err := req.toModel(p.ID)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    job.ID = id
    if err := h.Jobs.Update(c.Request().Context(), &job); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        }
        log.Printf("jobs: update %d failed: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    updated, err := h.Jobs.GetByID(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, updated)
}

// DeleteJob handles DELETE /v1/jobs/:id (soft delete).
func (h *JobHandler) DeleteJob(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Jobs.SoftDelete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        }
        log.Printf("jobs: delete %d failed: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListMyJobs handles GET /v1/jobs/mine for recruiters.
func (h *JobHandler) ListMyJobs(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Jobs.ListByCreator(c.Request().Context(), p.ID)
    if err != nil {
        log.Printf("jobs: list by creator failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetJob handles GET /v1/jobs/:id. Open jobs are public browse data.
func (h *JobHandler) GetJob(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    job, err := h.Jobs.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, job)
}

// ListOpenJobs handles GET /v1/jobs, the public browse endpoint.
func (h *JobHandler) ListOpenJobs(c echo.Context) error {
    items, err := h.Jobs.ListOpen(c.Request().Context())
    if err != nil {
        log.Printf("jobs: list open failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
