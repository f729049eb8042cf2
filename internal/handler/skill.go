package handler

import (
    "errors"
    "log"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/model"
    "github.com/devhire/job-board/internal/repository"
)

// SkillHandler covers the skill catalog and per-user skill entries.
type SkillHandler struct {
    Skills *repository.SkillRepo
}

func NewSkillHandler(skills *repository.SkillRepo) *SkillHandler {
    if skills == nil {
        panic("nil repository passed to NewSkillHandler")
    }
    return &SkillHandler{Skills: skills}
}

// ListCatalog handles GET /v1/skills/catalog.
func (h *SkillHandler) ListCatalog(c echo.Context) error {
    items, err := h.Skills.ListCatalog(c.Request().Context())
    if err != nil {
        log.Printf("skills: catalog query failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListMine handles GET /v1/skills.
func (h *SkillHandler) ListMine(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Skills.ListByUser(c.Request().Context(), p.ID)
    if err != nil {
        log.Printf("skills: list failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Upsert handles PUT /v1/skills, setting the caller's proficiency for a
// catalog skill.
func (h *SkillHandler) Upsert(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        SkillID uint64 `json:"skill_id"`
        Level   int    `json:"level"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.SkillID == 0 || !model.ValidLevel(body.Level) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "skill_id and a level between 1 and 3 are required"})
    }
    id, err := h.Skills.Upsert(c.Request().Context(), p.ID, body.SkillID, body.Level)
    if err != nil {
        log.Printf("skills: upsert failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save skill"})
    }
    return c.JSON(http.StatusOK, model.UserSkill{ID: id, UserID: p.ID, SkillID: body.SkillID, Level: body.Level})
}

// Remove handles DELETE /v1/skills/:id behind the ownership gate.
func (h *SkillHandler) Remove(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Skills.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "skill entry not found"})
        }
        log.Printf("skills: delete failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
