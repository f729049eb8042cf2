package handler

import (
    "errors"
    "log"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/model"
    "github.com/devhire/job-board/internal/repository"
)

// DocumentHandler manages document metadata (CVs, portfolios). The
// binary upload itself lives outside this service.
type DocumentHandler struct {
    Documents *repository.DocumentRepo
}

func NewDocumentHandler(docs *repository.DocumentRepo) *DocumentHandler {
    if docs == nil {
        panic("nil repository passed to NewDocumentHandler")
    }
    return &DocumentHandler{Documents: docs}
}

// Create handles POST /v1/documents.
func (h *DocumentHandler) Create(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        Name    string `json:"name"`
        URL     string `json:"url"`
        DocType string `json:"doc_type"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(body.Name)
    if name == "" || strings.TrimSpace(body.URL) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and url are required"})
    }
    doc := model.Document{UserID: p.ID, Name: name, URL: body.URL, DocType: strings.ToUpper(body.DocType)}
    if err := h.Documents.Create(c.Request().Context(), &doc); err != nil {
        log.Printf("documents: create failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create document"})
    }
    return c.JSON(http.StatusCreated, doc)
}

// ListMine handles GET /v1/documents.
func (h *DocumentHandler) ListMine(c echo.Context) error {
    p, ok := principal(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Documents.ListByUser(c.Request().Context(), p.ID)
    if err != nil {
        log.Printf("documents: list failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Delete handles DELETE /v1/documents/:id behind the ownership gate.
func (h *DocumentHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Documents.SoftDelete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "document not found"})
        }
        log.Printf("documents: delete failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
