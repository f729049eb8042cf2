package service

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/devhire/job-board/internal/model"
    "github.com/devhire/job-board/internal/repository"
    "github.com/devhire/job-board/internal/utils"
)

// fakeUserStore keeps users in a map and mirrors the repository's
// token_version and last_active_at semantics.
type fakeUserStore struct {
    users map[uint64]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
    s := &fakeUserStore{users: make(map[uint64]*model.User)}
    for _, u := range users {
        s.users[u.ID] = u
    }
    return s
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
    u, ok := s.users[id]
    if !ok {
        return model.User{}, repository.ErrNotFound
    }
    return *u, nil
}

func (s *fakeUserStore) IncrementTokenVersion(_ context.Context, id uint64) (int64, error) {
    u, ok := s.users[id]
    if !ok {
        return 0, repository.ErrNotFound
    }
    u.TokenVersion++
    return u.TokenVersion, nil
}

func (s *fakeUserStore) UpdateLastActive(_ context.Context, id uint64, at time.Time) error {
    u, ok := s.users[id]
    if !ok {
        return repository.ErrNotFound
    }
    u.LastActiveAt = &at
    return nil
}

func newTestTokenService(users *fakeUserStore) *TokenService {
    codec := utils.Codec{
        AccessSecret:  "access-secret",
        RefreshSecret: "refresh-secret",
        Issuer:        "job-board",
        Audience:      "job-board-clients",
        AccessTTL:     15 * time.Minute,
        RefreshTTL:    7 * 24 * time.Hour,
    }
    return NewTokenService(users, codec, NewMemoryBlacklist())
}

func TestGeneratePairAndVerify(t *testing.T) {
    store := newFakeUserStore(&model.User{ID: 1, Email: "dev@example.com", Role: model.RoleDeveloper})
    svc := newTestTokenService(store)

    pair, err := svc.GeneratePair(context.Background(), 1)
    require.NoError(t, err)
    assert.NotEmpty(t, pair.AccessToken)
    assert.NotEmpty(t, pair.RefreshToken)
    assert.True(t, pair.RefreshExpires.After(pair.AccessExpires))

    claims, err := svc.VerifyAccess(pair.AccessToken)
    require.NoError(t, err)
    assert.Equal(t, uint64(1), claims.UserID)
    assert.Equal(t, model.RoleDeveloper, claims.Role)
}

func TestGeneratePairUnknownUser(t *testing.T) {
    svc := newTestTokenService(newFakeUserStore())

    _, err := svc.GeneratePair(context.Background(), 99)
    assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRotateIsSingleUse(t *testing.T) {
    store := newFakeUserStore(&model.User{ID: 1, Email: "dev@example.com", Role: model.RoleDeveloper})
    svc := newTestTokenService(store)
    ctx := context.Background()

    pair, err := svc.GeneratePair(ctx, 1)
    require.NoError(t, err)

    rotated, err := svc.Rotate(ctx, pair.RefreshToken)
    require.NoError(t, err)
    assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

    // The original refresh token died with the version bump.
    _, err = svc.Rotate(ctx, pair.RefreshToken)
    assert.Error(t, err)

    // The freshly rotated one works.
    _, err = svc.Rotate(ctx, rotated.RefreshToken)
    assert.NoError(t, err)
}

func TestRotateRejectsGarbage(t *testing.T) {
    store := newFakeUserStore(&model.User{ID: 1, Email: "dev@example.com", Role: model.RoleDeveloper})
    svc := newTestTokenService(store)

    _, err := svc.Rotate(context.Background(), "not-a-token")
    assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBlacklistRefreshBlocksRotation(t *testing.T) {
    store := newFakeUserStore(&model.User{ID: 1, Email: "dev@example.com", Role: model.RoleDeveloper})
    svc := newTestTokenService(store)
    ctx := context.Background()

    pair, err := svc.GeneratePair(ctx, 1)
    require.NoError(t, err)

    svc.BlacklistRefresh(ctx, pair.RefreshToken)

    _, err = svc.Rotate(ctx, pair.RefreshToken)
    assert.ErrorIs(t, err, ErrRevokedToken)
}

func TestInvalidateAllKillsOutstandingRefresh(t *testing.T) {
    store := newFakeUserStore(&model.User{ID: 1, Email: "dev@example.com", Role: model.RoleDeveloper})
    svc := newTestTokenService(store)
    ctx := context.Background()

    pair, err := svc.GeneratePair(ctx, 1)
    require.NoError(t, err)

    require.NoError(t, svc.InvalidateAll(ctx, 1))

    _, err = svc.Rotate(ctx, pair.RefreshToken)
    assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestInactivityExceeded(t *testing.T) {
    recent := time.Now().Add(-time.Hour)
    stale := time.Now().Add(-31 * 24 * time.Hour)
    store := newFakeUserStore(
        &model.User{ID: 1, Email: "a@b.c", Role: model.RoleDeveloper, LastActiveAt: &recent},
        &model.User{ID: 2, Email: "b@b.c", Role: model.RoleDeveloper, LastActiveAt: &stale},
        &model.User{ID: 3, Email: "c@b.c", Role: model.RoleDeveloper}, // never active
    )
    svc := newTestTokenService(store)
    ctx := context.Background()

    exceeded, err := svc.InactivityExceeded(ctx, 1)
    require.NoError(t, err)
    assert.False(t, exceeded)

    exceeded, err = svc.InactivityExceeded(ctx, 2)
    require.NoError(t, err)
    assert.True(t, exceeded)

    exceeded, err = svc.InactivityExceeded(ctx, 3)
    require.NoError(t, err)
    assert.True(t, exceeded, "no recorded activity counts as inactive")

    // Touching activity resets the clock.
    require.NoError(t, svc.TouchActivity(ctx, 2))
    exceeded, err = svc.InactivityExceeded(ctx, 2)
    require.NoError(t, err)
    assert.False(t, exceeded)
}

func TestMemoryBlacklistExpiry(t *testing.T) {
    bl := NewMemoryBlacklist()
    ctx := context.Background()

    require.NoError(t, bl.Add(ctx, "jti-1", 50*time.Millisecond))
    found, err := bl.Contains(ctx, "jti-1")
    require.NoError(t, err)
    assert.True(t, found)

    time.Sleep(100 * time.Millisecond)
    found, err = bl.Contains(ctx, "jti-1")
    require.NoError(t, err)
    assert.False(t, found)
}
