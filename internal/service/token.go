// Package service holds the auth/session core and the recommendation
// engine. Services are plain structs constructed once in main and passed
// down explicitly; there are no package-level singletons.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/devhire/job-board/internal/model"
	"github.com/devhire/job-board/internal/repository"
	"github.com/devhire/job-board/internal/utils"
)

// ErrUserNotFound means a token operation referenced a user that does
// not exist (or is deleted).
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidToken is returned for any refresh token that fails
// verification or whose embedded token_version no longer matches the
// stored one. The cause is deliberately not distinguished.
var ErrInvalidToken = errors.New("invalid refresh token")

// ErrRevokedToken is returned when a refresh token's jti is present in
// the revocation set.
var ErrRevokedToken = errors.New("revoked refresh token")

// DefaultInactivityTimeout forces re-authentication after 30 days
// without any authenticated activity, independent of token expiry.
const DefaultInactivityTimeout = 30 * 24 * time.Hour

// UserStore is the slice of the user repository the token service needs.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	IncrementTokenVersion(ctx context.Context, id uint64) (int64, error)
	UpdateLastActive(ctx context.Context, id uint64, at time.Time) error
}

// Pair is a freshly issued access/refresh token pair.
type Pair struct {
	AccessToken    string
	AccessExpires  time.Time
	RefreshToken   string
	RefreshExpires time.Time
}

// TokenService owns the token lifecycle: pair issuance, one-time refresh
// rotation via token_version, revocation and activity tracking.
type TokenService struct {
	Users             UserStore
	Codec             utils.Codec
	Revoked           Blacklist
	InactivityTimeout time.Duration
}

func NewTokenService(users UserStore, codec utils.Codec, revoked Blacklist) *TokenService {
	return &TokenService{
		Users:             users,
		Codec:             codec,
		Revoked:           revoked,
		InactivityTimeout: DefaultInactivityTimeout,
	}
}

// GeneratePair issues a new access/refresh pair for an existing user,
// embedding the user's current token_version. No store mutation happens
// here.
func (s *TokenService) GeneratePair(ctx context.Context, userID uint64) (Pair, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Pair{}, ErrUserNotFound
		}
		return Pair{}, err
	}
	return s.issue(u, u.TokenVersion)
}

func (s *TokenService) issue(u model.User, version int64) (Pair, error) {
	access, accessExp, err := s.Codec.SignAccess(u.ID, u.Email, u.Role, version)
	if err != nil {
		return Pair{}, err
	}
	refresh, refreshExp, err := s.Codec.SignRefresh(u.ID, u.Email, u.Role, version)
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		AccessToken:    access,
		AccessExpires:  accessExp,
		RefreshToken:   refresh,
		RefreshExpires: refreshExp,
	}, nil
}

// Rotate exchanges a refresh token for a brand-new pair. Rotation is
// strictly one-time-use: the store's token_version is bumped first, which
// invalidates every outstanding refresh token for the user (including the
// one just presented), and only then is the new pair minted against the
// incremented version. The blacklist insert narrows the window further
// but correctness never depends on it.
func (s *TokenService) Rotate(ctx context.Context, refreshRaw string) (Pair, error) {
	claims, err := s.Codec.VerifyRefresh(refreshRaw)
	if err != nil {
		return Pair{}, ErrInvalidToken
	}
	revoked, err := s.Revoked.Contains(ctx, claims.ID)
	if err == nil && revoked {
		return Pair{}, ErrRevokedToken
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return Pair{}, ErrInvalidToken
	}
	if *claims.TokenVersion != u.TokenVersion {
		return Pair{}, ErrInvalidToken
	}
	newVersion, err := s.Users.IncrementTokenVersion(ctx, u.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Pair{}, ErrInvalidToken
		}
		return Pair{}, err
	}
	if claims.ExpiresAt != nil {
		if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
			_ = s.Revoked.Add(ctx, claims.ID, ttl)
		}
	}
	return s.issue(u, newVersion)
}

// BlacklistRefresh records the presented refresh token's jti in the
// revocation set for the remainder of its lifetime. Idempotent; a token
// that fails verification is silently ignored (logout never fails on a
// garbage cookie).
func (s *TokenService) BlacklistRefresh(ctx context.Context, refreshRaw string) {
	claims, err := s.Codec.VerifyRefresh(refreshRaw)
	if err != nil || claims.ExpiresAt == nil {
		return
	}
	if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
		_ = s.Revoked.Add(ctx, claims.ID, ttl)
	}
}

// TouchActivity unconditionally stamps last_active_at = now. Called on
// login and on every successful authenticated request.
func (s *TokenService) TouchActivity(ctx context.Context, userID uint64) error {
	return s.Users.UpdateLastActive(ctx, userID, time.Now().UTC())
}

// InactivityExceeded reports whether the user has been inactive past the
// timeout. A user with no recorded activity counts as inactive.
func (s *TokenService) InactivityExceeded(ctx context.Context, userID uint64) (bool, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if u.LastActiveAt == nil {
		return true, nil
	}
	return time.Since(*u.LastActiveAt) > s.InactivityTimeout, nil
}

// InvalidateAll bumps the user's token_version without issuing new
// tokens: every outstanding refresh token dies on its next rotation
// attempt. Outstanding access tokens stay valid until their own TTL.
func (s *TokenService) InvalidateAll(ctx context.Context, userID uint64) error {
	_, err := s.Users.IncrementTokenVersion(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// VerifyAccess validates a presented access token. Access tokens are
// trusted for their full TTL; they are not re-checked against
// token_version.
func (s *TokenService) VerifyAccess(raw string) (*utils.Claims, error) {
	return s.Codec.VerifyAccess(raw)
}
