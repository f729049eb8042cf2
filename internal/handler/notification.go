package handler

import (
    "log"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/repository"
)

// NotificationHandler exposes a user's notification feed. Rows are
// written by the queue consumer, so there is no create endpoint.
type NotificationHandler struct {
    Notifications *repository.NotificationRepo
}

func NewNotificationHandler(n *repository.NotificationRepo) *NotificationHandler {
    if n == nil {
        panic("nil repository passed to NewNotificationHandler")
    }
    return &NotificationHandler{Notifications: n}
}

// ListMine handles GET /v1/notifications.
func (h *NotificationHandler) ListMine(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Notifications.ListByUser(c.Request().Context(), p.ID)
    if err != nil {
        log.Printf("notifications: list failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MarkRead handles PUT /v1/notifications/:id/read behind the ownership
// gate.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Notifications.MarkRead(c.Request().Context(), id); err != nil {
        log.Printf("notifications: mark read failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
