package handler

import (
    "context"
    "errors"
    "fmt"
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/model"
    "github.com/devhire/job-board/internal/queue"
    "github.com/devhire/job-board/internal/repository"
)

// ApplicationHandler bundles repositories for the application flow.
// State changes publish notification events; delivery failures are
// logged and never fail the request.
type ApplicationHandler struct {
    Applications *repository.ApplicationRepo
    Jobs         *repository.JobRepo
    Users        *repository.UserRepo
}

func NewApplicationHandler(apps *repository.ApplicationRepo, jobs *repository.JobRepo, users *repository.UserRepo) *ApplicationHandler {
    if apps == nil || jobs == nil || users == nil {
        panic("nil repository passed to NewApplicationHandler")
    }
    return &ApplicationHandler{Applications: apps, Jobs: jobs, Users: users}
}

// Apply handles POST /v1/jobs/:id/applications for developers.
func (h *ApplicationHandler) Apply(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    jobID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        CoverLetter string `json:"cover_letter"`
    }
    _ = c.Bind(&body)

    ctx := c.Request().Context()
    job, err := h.Jobs.GetByID(ctx, jobID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if job.ExpiresAt != nil && job.ExpiresAt.Before(time.Now()) {
        return c.JSON(http.StatusConflict, echo.Map{"error": "job posting has expired"})
    }
    if job.UserID == p.ID {
        return c.JSON(http.StatusConflict, echo.Map{"error": "cannot apply to own job"})
    }

    app := model.Application{JobID: jobID, UserID: p.ID, CoverLetter: body.CoverLetter}
    if err := h.Applications.Create(ctx, &app); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "already applied to this job"})
        }
        log.Printf("applications: create failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not apply"})
    }

    h.notify(queue.NotificationEvent{
        Type:          queue.EventApplicationSubmitted,
        UserID:        job.UserID,
        ActorID:       p.ID,
        JobID:         jobID,
        ApplicationID: app.ID,
        Message:       fmt.Sprintf("New application for %q", job.Title),
        OccurredAt:    time.Now().UTC(),
    })
    return c.JSON(http.StatusCreated, app)
}

// ListMine handles GET /v1/applications for developers.
func (h *ApplicationHandler) ListMine(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Applications.ListByUser(c.Request().Context(), p.ID)
    if err != nil {
        log.Printf("applications: list by user failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetApplication handles GET /v1/applications/:id. The ownership gate in
// front of it accepts the applicant, the job's recruiter or the assigned
// recruiter.
func (h *ApplicationHandler) GetApplication(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    app, err := h.Applications.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, app)
}

// Withdraw handles DELETE /v1/applications/:id for the applicant.
func (h *ApplicationHandler) Withdraw(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Applications.Withdraw(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
        }
        log.Printf("applications: withdraw %d failed: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "withdraw failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListForJob handles GET /v1/jobs/:id/applications for the job's
// recruiter (ownership gate runs on the job id).
func (h *ApplicationHandler) ListForJob(c echo.Context) error {
    jobID, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    items, err := h.Applications.ListByJob(c.Request().Context(), jobID)
    if err != nil {
        log.Printf("applications: list by job failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// AssignRecruiter handles PUT /v1/applications/:id/recruiter. The target
// must be an existing RECRUITER user; an empty body assigns the caller.
func (h *ApplicationHandler) AssignRecruiter(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        RecruiterID uint64 `json:"recruiter_id"`
    }
    _ = c.Bind(&body)
    recruiterID := body.RecruiterID
    if recruiterID == 0 {
        recruiterID = p.ID
    }

    ctx := c.Request().Context()
    target, err := h.Users.GetByID(ctx, recruiterID)
    if err != nil || target.Role != model.RoleRecruiter {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "recruiter_id must reference a recruiter"})
    }
    if err := h.Applications.AssignRecruiter(ctx, id, recruiterID); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
        }
        log.Printf("applications: assign recruiter failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign failed"})
    }

    if app, err := h.Applications.GetByID(ctx, id); err == nil {
        h.notify(queue.NotificationEvent{
            Type:          queue.EventRecruiterAssigned,
            UserID:        recruiterID,
            ActorID:       p.ID,
            JobID:         app.JobID,
            ApplicationID: app.ID,
            Message:       "You were assigned to an application",
            OccurredAt:    time.Now().UTC(),
        })
    }
    return c.NoContent(http.StatusNoContent)
}

// UpdateStatus handles PUT /v1/applications/:id/status. Moving to
// INTERVIEW accepts an interview_at time and notifies the applicant.
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        Status      string     `json:"status"`
        InterviewAt *time.Time `json:"interview_at"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    status := strings.ToUpper(strings.TrimSpace(body.Status))
    if !model.ValidApplicationStatus(status) || status == model.ApplicationWithdrawn {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }
    if status != model.ApplicationInterview {
        body.InterviewAt = nil
    }

    ctx := c.Request().Context()
    if err := h.Applications.UpdateStatus(ctx, id, status, body.InterviewAt); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
        }
        log.Printf("applications: status update failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }

    if app, err := h.Applications.GetByID(ctx, id); err == nil {
        eventType := queue.EventApplicationStatus
        message := fmt.Sprintf("Your application moved to %s", status)
        if status == model.ApplicationInterview {
            eventType = queue.EventInterviewScheduled
            message = "An interview was scheduled for your application"
        }
        h.notify(queue.NotificationEvent{
            Type:          eventType,
            UserID:        app.UserID,
            ActorID:       p.ID,
            JobID:         app.JobID,
            ApplicationID: app.ID,
            Message:       message,
            OccurredAt:    time.Now().UTC(),
        })
    }
    return c.NoContent(http.StatusNoContent)
}

// notify publishes off the request path; the queue is best-effort.
func (h *ApplicationHandler) notify(event queue.NotificationEvent) {
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = queue.Publish(ctx, event)
    }()
}
