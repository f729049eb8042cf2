package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/devhire/job-board/internal/model"
)

func runRoleGate(t *testing.T, p *Principal, allowed ...string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/jobs", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if p != nil {
        c.Set(PrincipalKey, *p)
    }
    h := RequireRole(allowed...)(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    return rec
}

func TestRequireRoleNoPrincipal(t *testing.T) {
    rec := runRoleGate(t, nil, model.RoleRecruiter)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleAllowed(t *testing.T) {
    p := &Principal{ID: 1, Role: model.RoleRecruiter}
    rec := runRoleGate(t, p, model.RoleRecruiter, model.RoleAdmin)
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleDenied(t *testing.T) {
    p := &Principal{ID: 1, Role: model.RoleDeveloper}
    rec := runRoleGate(t, p, model.RoleRecruiter)
    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.Contains(t, rec.Body.String(), "RECRUITER")
}

// An empty allow-set denies everyone, including admins.
func TestRequireRoleEmptySetDeniesAll(t *testing.T) {
    p := &Principal{ID: 1, Role: model.RoleAdmin}
    rec := runRoleGate(t, p)
    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.Contains(t, rec.Body.String(), "no roles are allowed")
}

// A role outside the known enumeration is treated as tampering.
func TestRequireRoleUnknownRole(t *testing.T) {
    p := &Principal{ID: 1, Role: "SUPERUSER"}
    rec := runRoleGate(t, p, model.RoleRecruiter, "SUPERUSER")
    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.Contains(t, rec.Body.String(), "invalid role")
}
