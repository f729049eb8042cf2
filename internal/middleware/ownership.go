package middleware

import (
    "context"
    "errors"
    "log"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/model"
    "github.com/devhire/job-board/internal/repository"
)

// Resource enumerates the resource kinds the ownership gate understands.
// A closed enum with an exhaustive switch means adding a kind is a
// compile-time change, not a runtime string comparison.
type Resource int

const (
    ResourceJob Resource = iota
    ResourceApplication
    ResourceDocument
    ResourceNotification
    ResourceSavedJob
    ResourceUserSkill
)

func (r Resource) String() string {
    switch r {
    case ResourceJob:
        return "job"
    case ResourceApplication:
        return "application"
    case ResourceDocument:
        return "document"
    case ResourceNotification:
        return "notification"
    case ResourceSavedJob:
        return "saved_job"
    case ResourceUserSkill:
        return "user_skill"
    }
    return "unknown"
}

// OwnershipStore answers the ownership questions the gate asks. The
// repository layer implements it with single-column lookups.
type OwnershipStore interface {
    JobOwner(ctx context.Context, id uint64) (uint64, error)
    ApplicationParties(ctx context.Context, id uint64) (applicant uint64, recruiter *uint64, jobOwner uint64, err error)
    DocumentOwner(ctx context.Context, id uint64) (uint64, error)
    NotificationOwner(ctx context.Context, id uint64) (uint64, error)
    SavedJobOwner(ctx context.Context, id uint64) (uint64, error)
    UserSkillOwner(ctx context.Context, id uint64) (uint64, error)
}

// RequireOwnership gates a route on the principal owning the addressed
// resource. param names the route parameter carrying the resource id.
// ADMIN passes unconditionally. RECRUITER gets two transitive paths on
// applications: owning the job behind the application, or being the
// recruiter assigned to it. bothParties extends the general application
// check to accept the assigned recruiter as well as the applicant.
//
// A lookup that finds nothing yields 403, not 404, for every resource
// kind: a caller who cannot access a resource learns nothing about its
// existence.
func RequireOwnership(store OwnershipStore, res Resource, param string, bothParties bool) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            id, err := strconv.ParseUint(c.Param(param), 10, 64)
            if err != nil || id == 0 {
                return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resource id"})
            }
            p, ok := GetPrincipal(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            if p.Role == model.RoleAdmin {
                return next(c)
            }

            ctx := c.Request().Context()
            allowed := false
            var lookupErr error

            switch res {
            case ResourceJob:
                owner, err := store.JobOwner(ctx, id)
                allowed, lookupErr = owner == p.ID, err
            case ResourceApplication:
                applicant, recruiter, jobOwner, err := store.ApplicationParties(ctx, id)
                lookupErr = err
                if err == nil {
                    if p.Role == model.RoleRecruiter {
                        allowed = jobOwner == p.ID || (recruiter != nil && *recruiter == p.ID)
                    } else {
                        allowed = applicant == p.ID
                        if bothParties && recruiter != nil && *recruiter == p.ID {
                            allowed = true
                        }
                    }
                }
            case ResourceDocument:
                owner, err := store.DocumentOwner(ctx, id)
                allowed, lookupErr = owner == p.ID, err
            case ResourceNotification:
                owner, err := store.NotificationOwner(ctx, id)
                allowed, lookupErr = owner == p.ID, err
            case ResourceSavedJob:
                owner, err := store.SavedJobOwner(ctx, id)
                allowed, lookupErr = owner == p.ID, err
            case ResourceUserSkill:
                owner, err := store.UserSkillOwner(ctx, id)
                allowed, lookupErr = owner == p.ID, err
            default:
                log.Printf("ownership: unknown resource kind %d, denying", res)
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }

            if lookupErr != nil {
                if errors.Is(lookupErr, repository.ErrNotFound) {
                    // Missing rows fail the ownership predicate without
                    // leaking whether the resource exists.
                    return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
                }
                log.Printf("ownership: %s lookup failed: %v", res, lookupErr)
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
            }
            if !allowed {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
