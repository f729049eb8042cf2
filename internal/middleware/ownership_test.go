package middleware

import (
    "context"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/devhire/job-board/internal/model"
    "github.com/devhire/job-board/internal/repository"
)

// fakeOwnershipStore answers ownership lookups from fixed maps.
type fakeOwnershipStore struct {
    jobOwners     map[uint64]uint64
    docOwners     map[uint64]uint64
    applications  map[uint64]appParties
    lookupFailure error
}

type appParties struct {
    applicant uint64
    recruiter *uint64
    jobOwner  uint64
}

func (s *fakeOwnershipStore) owner(m map[uint64]uint64, id uint64) (uint64, error) {
    if s.lookupFailure != nil {
        return 0, s.lookupFailure
    }
    o, ok := m[id]
    if !ok {
        return 0, repository.ErrNotFound
    }
    return o, nil
}

func (s *fakeOwnershipStore) JobOwner(_ context.Context, id uint64) (uint64, error) {
    return s.owner(s.jobOwners, id)
}

func (s *fakeOwnershipStore) ApplicationParties(_ context.Context, id uint64) (uint64, *uint64, uint64, error) {
    if s.lookupFailure != nil {
        return 0, nil, 0, s.lookupFailure
    }
    p, ok := s.applications[id]
    if !ok {
        return 0, nil, 0, repository.ErrNotFound
    }
    return p.applicant, p.recruiter, p.jobOwner, nil
}

func (s *fakeOwnershipStore) DocumentOwner(_ context.Context, id uint64) (uint64, error) {
    return s.owner(s.docOwners, id)
}

func (s *fakeOwnershipStore) NotificationOwner(_ context.Context, id uint64) (uint64, error) {
    return s.owner(nil, id)
}

func (s *fakeOwnershipStore) SavedJobOwner(_ context.Context, id uint64) (uint64, error) {
    return s.owner(nil, id)
}

func (s *fakeOwnershipStore) UserSkillOwner(_ context.Context, id uint64) (uint64, error) {
    return s.owner(nil, id)
}

func runOwnershipGate(t *testing.T, store OwnershipStore, res Resource, bothParties bool, p *Principal, id string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodDelete, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetParamNames("id")
    c.SetParamValues(id)
    if p != nil {
        c.Set(PrincipalKey, *p)
    }
    h := RequireOwnership(store, res, "id", bothParties)(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    return rec
}

func TestOwnershipInvalidID(t *testing.T) {
    store := &fakeOwnershipStore{}
    p := &Principal{ID: 1, Role: model.RoleRecruiter}

    rec := runOwnershipGate(t, store, ResourceJob, false, p, "abc")
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = runOwnershipGate(t, store, ResourceJob, false, p, "0")
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOwnershipNoPrincipal(t *testing.T) {
    store := &fakeOwnershipStore{jobOwners: map[uint64]uint64{5: 1}}
    rec := runOwnershipGate(t, store, ResourceJob, false, nil, "5")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOwnershipOwnerPasses(t *testing.T) {
    store := &fakeOwnershipStore{jobOwners: map[uint64]uint64{5: 1}}
    p := &Principal{ID: 1, Role: model.RoleRecruiter}
    rec := runOwnershipGate(t, store, ResourceJob, false, p, "5")
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOwnershipNonOwnerForbidden(t *testing.T) {
    store := &fakeOwnershipStore{jobOwners: map[uint64]uint64{5: 1}}
    p := &Principal{ID: 2, Role: model.RoleRecruiter}
    rec := runOwnershipGate(t, store, ResourceJob, false, p, "5")
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOwnershipAdminBypass(t *testing.T) {
    store := &fakeOwnershipStore{jobOwners: map[uint64]uint64{5: 1}}
    p := &Principal{ID: 99, Role: model.RoleAdmin}
    rec := runOwnershipGate(t, store, ResourceJob, false, p, "5")
    assert.Equal(t, http.StatusOK, rec.Code)
}

// A missing row yields 403 rather than 404 so callers cannot probe for
// resource existence.
func TestOwnershipMissingRowForbidden(t *testing.T) {
    store := &fakeOwnershipStore{jobOwners: map[uint64]uint64{}}
    p := &Principal{ID: 1, Role: model.RoleRecruiter}
    rec := runOwnershipGate(t, store, ResourceJob, false, p, "404")
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOwnershipStoreFailure(t *testing.T) {
    store := &fakeOwnershipStore{lookupFailure: errors.New("connection reset")}
    p := &Principal{ID: 1, Role: model.RoleRecruiter}
    rec := runOwnershipGate(t, store, ResourceJob, false, p, "5")
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestOwnershipApplicationParties(t *testing.T) {
    assigned := uint64(30)
    store := &fakeOwnershipStore{applications: map[uint64]appParties{
        7: {applicant: 10, recruiter: &assigned, jobOwner: 20},
    }}

    t.Run("applicant passes", func(t *testing.T) {
        p := &Principal{ID: 10, Role: model.RoleDeveloper}
        rec := runOwnershipGate(t, store, ResourceApplication, false, p, "7")
        assert.Equal(t, http.StatusOK, rec.Code)
    })

    t.Run("job owner recruiter passes", func(t *testing.T) {
        p := &Principal{ID: 20, Role: model.RoleRecruiter}
        rec := runOwnershipGate(t, store, ResourceApplication, false, p, "7")
        assert.Equal(t, http.StatusOK, rec.Code)
    })

    t.Run("assigned recruiter passes", func(t *testing.T) {
        p := &Principal{ID: 30, Role: model.RoleRecruiter}
        rec := runOwnershipGate(t, store, ResourceApplication, false, p, "7")
        assert.Equal(t, http.StatusOK, rec.Code)
    })

    t.Run("unrelated recruiter forbidden", func(t *testing.T) {
        p := &Principal{ID: 40, Role: model.RoleRecruiter}
        rec := runOwnershipGate(t, store, ResourceApplication, false, p, "7")
        assert.Equal(t, http.StatusForbidden, rec.Code)
    })

    t.Run("unrelated developer forbidden", func(t *testing.T) {
        p := &Principal{ID: 40, Role: model.RoleDeveloper}
        rec := runOwnershipGate(t, store, ResourceApplication, true, p, "7")
        assert.Equal(t, http.StatusForbidden, rec.Code)
    })

    // The assigned party is admitted through the bothParties extension
    // even when their role is not RECRUITER.
    t.Run("assigned non-recruiter passes with bothParties", func(t *testing.T) {
        p := &Principal{ID: 30, Role: model.RoleDeveloper}
        rec := runOwnershipGate(t, store, ResourceApplication, true, p, "7")
        assert.Equal(t, http.StatusOK, rec.Code)

        // Without bothParties the same principal is rejected.
        rec = runOwnershipGate(t, store, ResourceApplication, false, p, "7")
        assert.Equal(t, http.StatusForbidden, rec.Code)
    })
}
