package middleware

import (
    "context"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/devhire/job-board/internal/model"
    "github.com/devhire/job-board/internal/repository"
    "github.com/devhire/job-board/internal/service"
    "github.com/devhire/job-board/internal/utils"
)

type stubUserStore struct {
    users map[uint64]*model.User
}

func (s *stubUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
    u, ok := s.users[id]
    if !ok {
        return model.User{}, repository.ErrNotFound
    }
    return *u, nil
}

func (s *stubUserStore) IncrementTokenVersion(_ context.Context, id uint64) (int64, error) {
    u, ok := s.users[id]
    if !ok {
        return 0, repository.ErrNotFound
    }
    u.TokenVersion++
    return u.TokenVersion, nil
}

func (s *stubUserStore) UpdateLastActive(_ context.Context, id uint64, at time.Time) error {
    if u, ok := s.users[id]; ok {
        u.LastActiveAt = &at
    }
    return nil
}

func authFixture(t *testing.T) (*service.TokenService, string) {
    t.Helper()
    now := time.Now()
    store := &stubUserStore{users: map[uint64]*model.User{
        1: {ID: 1, Email: "dev@example.com", Role: model.RoleDeveloper, LastActiveAt: &now},
    }}
    codec := utils.Codec{
        AccessSecret:  "access-secret",
        RefreshSecret: "refresh-secret",
        Issuer:        "job-board",
        Audience:      "job-board-clients",
        AccessTTL:     15 * time.Minute,
        RefreshTTL:    7 * 24 * time.Hour,
    }
    svc := service.NewTokenService(store, codec, service.NewMemoryBlacklist())

    access, _, err := codec.SignAccess(1, "dev@example.com", model.RoleDeveloper, 0)
    require.NoError(t, err)
    return svc, access
}

func runAuth(t *testing.T, svc *service.TokenService, req *http.Request) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath(req.URL.Path)

    h := Authenticate(svc, "test")(func(c echo.Context) error {
        p, ok := GetPrincipal(c)
        require.True(t, ok)
        return c.JSON(http.StatusOK, p)
    })
    require.NoError(t, h(c))
    return rec
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
    svc, _ := authFixture(t)
    req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)

    rec := runAuth(t, svc, req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Contains(t, rec.Body.String(), "No token provided")
}

func TestAuthenticateAcceptsCookie(t *testing.T) {
    svc, access := authFixture(t)
    req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
    req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: access})

    rec := runAuth(t, svc, req)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), "dev@example.com")
    assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestAuthenticateAcceptsBearer(t *testing.T) {
    svc, access := authFixture(t)
    req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
    req.Header.Set("Authorization", "Bearer "+access)

    rec := runAuth(t, svc, req)
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
    svc, _ := authFixture(t)
    req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
    req.Header.Set("Authorization", "Bearer garbage")

    rec := runAuth(t, svc, req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestAuthenticateRejectsInactiveSession(t *testing.T) {
    now := time.Now()
    stale := now.Add(-31 * 24 * time.Hour)
    store := &stubUserStore{users: map[uint64]*model.User{
        1: {ID: 1, Email: "dev@example.com", Role: model.RoleDeveloper, LastActiveAt: &stale},
    }}
    codec := utils.Codec{
        AccessSecret:  "access-secret",
        RefreshSecret: "refresh-secret",
        Issuer:        "job-board",
        Audience:      "job-board-clients",
        AccessTTL:     15 * time.Minute,
        RefreshTTL:    7 * 24 * time.Hour,
    }
    svc := service.NewTokenService(store, codec, service.NewMemoryBlacklist())
    access, _, err := codec.SignAccess(1, "dev@example.com", model.RoleDeveloper, 0)
    require.NoError(t, err)

    req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
    req.Header.Set("Authorization", "Bearer "+access)

    rec := runAuth(t, svc, req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Contains(t, rec.Body.String(), "Session expired due to inactivity")
}

func TestCSRFSkippedForSafeMethods(t *testing.T) {
    svc, access := authFixture(t)
    // GET with no CSRF material at all.
    req := httptest.NewRequest(http.MethodGet, "/v1/documents", nil)
    req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: access})

    rec := runAuth(t, svc, req)
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFMissingOnMutation(t *testing.T) {
    svc, access := authFixture(t)
    req := httptest.NewRequest(http.MethodPost, "/v1/documents", nil)
    req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: access})

    rec := runAuth(t, svc, req)
    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.Contains(t, rec.Body.String(), "CSRF token missing")
}

func TestCSRFMismatchOnMutation(t *testing.T) {
    svc, access := authFixture(t)
    req := httptest.NewRequest(http.MethodPost, "/v1/documents", nil)
    req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: access})
    req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "aaaa"})
    req.Header.Set(CSRFHeaderName, "bbbb")

    rec := runAuth(t, svc, req)
    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.Contains(t, rec.Body.String(), "Invalid CSRF token")
}

func TestCSRFMatchPassesMutation(t *testing.T) {
    svc, access := authFixture(t)
    req := httptest.NewRequest(http.MethodPost, "/v1/documents", nil)
    req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: access})
    req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "match-token"})
    req.Header.Set(CSRFHeaderName, "match-token")

    rec := runAuth(t, svc, req)
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFExemptPathSkipsCheck(t *testing.T) {
    svc, access := authFixture(t)
    req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
    req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: access})

    rec := runAuth(t, svc, req)
    assert.Equal(t, http.StatusOK, rec.Code)
}

// A rejected CSRF check must stop the chain, not just write a 403: the
// mutation behind it must never run.
func TestCSRFRejectionShortCircuits(t *testing.T) {
    svc, access := authFixture(t)

    cases := []struct {
        name  string
        setup func(req *http.Request)
    }{
        {"no csrf material", func(*http.Request) {}},
        {"mismatched pair", func(req *http.Request) {
            req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "aaaa"})
            req.Header.Set(CSRFHeaderName, "bbbb")
        }},
        {"header without cookie", func(req *http.Request) {
            req.Header.Set(CSRFHeaderName, "aaaa")
        }},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            req := httptest.NewRequest(http.MethodPost, "/v1/documents", nil)
            req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: access})
            tc.setup(req)

            e := echo.New()
            rec := httptest.NewRecorder()
            c := e.NewContext(req, rec)
            c.SetPath(req.URL.Path)

            executed := false
            h := Authenticate(svc, "test")(func(c echo.Context) error {
                executed = true
                return c.NoContent(http.StatusOK)
            })
            require.NoError(t, h(c))

            assert.Equal(t, http.StatusForbidden, rec.Code)
            assert.False(t, executed, "handler must not run past a CSRF rejection")
        })
    }
}

// brokenUserStore fails every lookup with a non-NotFound error.
type brokenUserStore struct{}

func (brokenUserStore) GetByID(context.Context, uint64) (model.User, error) {
    return model.User{}, errors.New("connection reset")
}

func (brokenUserStore) IncrementTokenVersion(context.Context, uint64) (int64, error) {
    return 0, errors.New("connection reset")
}

func (brokenUserStore) UpdateLastActive(context.Context, uint64, time.Time) error {
    return errors.New("connection reset")
}

// A store fault during the inactivity check is the server's problem,
// not a credential problem.
func TestAuthenticateStoreFailureIs500(t *testing.T) {
    codec := utils.Codec{
        AccessSecret:  "access-secret",
        RefreshSecret: "refresh-secret",
        Issuer:        "job-board",
        Audience:      "job-board-clients",
        AccessTTL:     15 * time.Minute,
        RefreshTTL:    7 * 24 * time.Hour,
    }
    svc := service.NewTokenService(brokenUserStore{}, codec, service.NewMemoryBlacklist())
    access, _, err := codec.SignAccess(1, "dev@example.com", model.RoleDeveloper, 0)
    require.NoError(t, err)

    req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
    req.Header.Set("Authorization", "Bearer "+access)

    e := echo.New()
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath(req.URL.Path)
    h := Authenticate(svc, "test")(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// A token whose user no longer exists stays a 401.
func TestAuthenticateDeletedUserIs401(t *testing.T) {
    store := &stubUserStore{users: map[uint64]*model.User{}}
    codec := utils.Codec{
        AccessSecret:  "access-secret",
        RefreshSecret: "refresh-secret",
        Issuer:        "job-board",
        Audience:      "job-board-clients",
        AccessTTL:     15 * time.Minute,
        RefreshTTL:    7 * 24 * time.Hour,
    }
    svc := service.NewTokenService(store, codec, service.NewMemoryBlacklist())
    access, _, err := codec.SignAccess(9, "gone@example.com", model.RoleDeveloper, 0)
    require.NoError(t, err)

    req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
    req.Header.Set("Authorization", "Bearer "+access)

    rec := runAuth(t, svc, req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Contains(t, rec.Body.String(), "Invalid token")
}

func TestCSRFDevBypassHeader(t *testing.T) {
    svc, access := authFixture(t)
    req := httptest.NewRequest(http.MethodPost, "/v1/documents", nil)
    req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: access})
    req.Header.Set("X-CSRF-Bypass", "1")

    // env "test" honors the bypass header.
    rec := runAuth(t, svc, req)
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFDevBypassDeadInProd(t *testing.T) {
    svc, access := authFixture(t)
    req := httptest.NewRequest(http.MethodPost, "/v1/documents", nil)
    req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: access})
    req.Header.Set("X-CSRF-Bypass", "1")

    e := echo.New()
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/v1/documents")
    h := Authenticate(svc, "prod")(func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}
