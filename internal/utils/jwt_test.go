package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func testCodec() Codec {
    return Codec{
        AccessSecret:  "access-secret",
        RefreshSecret: "refresh-secret",
        Issuer:        "job-board",
        Audience:      "job-board-clients",
        AccessTTL:     15 * time.Minute,
        RefreshTTL:    7 * 24 * time.Hour,
    }
}

func TestAccessTokenRoundTrip(t *testing.T) {
    cd := testCodec()

    raw, exp, err := cd.SignAccess(42, "dev@example.com", "DEVELOPER", 3)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().Add(cd.AccessTTL), exp, 5*time.Second)

    claims, err := cd.VerifyAccess(raw)
    require.NoError(t, err)
    assert.Equal(t, uint64(42), claims.UserID)
    assert.Equal(t, "dev@example.com", claims.Email)
    assert.Equal(t, "DEVELOPER", claims.Role)
    require.NotNil(t, claims.TokenVersion)
    assert.Equal(t, int64(3), *claims.TokenVersion)
    assert.NotEmpty(t, claims.ID, "every token carries a jti")
}

func TestRefreshTokenRoundTrip(t *testing.T) {
    cd := testCodec()

    raw, _, err := cd.SignRefresh(7, "rec@example.com", "RECRUITER", 1)
    require.NoError(t, err)

    claims, err := cd.VerifyRefresh(raw)
    require.NoError(t, err)
    assert.Equal(t, uint64(7), claims.UserID)
    require.NotNil(t, claims.TokenVersion)
    assert.Equal(t, int64(1), *claims.TokenVersion)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
    cd := testCodec()

    access, _, err := cd.SignAccess(1, "a@b.c", "DEVELOPER", 0)
    require.NoError(t, err)
    refresh, _, err := cd.SignRefresh(1, "a@b.c", "DEVELOPER", 0)
    require.NoError(t, err)

    _, err = cd.VerifyRefresh(access)
    assert.ErrorIs(t, err, ErrInvalidToken)
    _, err = cd.VerifyAccess(refresh)
    assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
    cd := testCodec()
    other := testCodec()
    other.AccessSecret = "some-other-secret"

    raw, _, err := cd.SignAccess(1, "a@b.c", "DEVELOPER", 0)
    require.NoError(t, err)

    _, err = other.VerifyAccess(raw)
    assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
    cd := testCodec()
    cd.AccessTTL = -time.Minute

    raw, _, err := cd.SignAccess(1, "a@b.c", "DEVELOPER", 0)
    require.NoError(t, err)

    _, err = cd.VerifyAccess(raw)
    assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongAudienceAndIssuer(t *testing.T) {
    cd := testCodec()

    raw, _, err := cd.SignAccess(1, "a@b.c", "DEVELOPER", 0)
    require.NoError(t, err)

    wrongAud := testCodec()
    wrongAud.Audience = "someone-else"
    _, err = wrongAud.VerifyAccess(raw)
    assert.ErrorIs(t, err, ErrInvalidToken)

    wrongIss := testCodec()
    wrongIss.Issuer = "someone-else"
    _, err = wrongIss.VerifyAccess(raw)
    assert.ErrorIs(t, err, ErrInvalidToken)
}

// A structurally valid token missing identity fields is rejected even
// though the signature checks out.
func TestVerifyRejectsMissingIdentityFields(t *testing.T) {
    cd := testCodec()
    now := time.Now().UTC()
    claims := Claims{
        // UserID deliberately zero.
        Email: "a@b.c",
        Role:  "DEVELOPER",
        RegisteredClaims: jwt.RegisteredClaims{
            Issuer:    cd.Issuer,
            Audience:  jwt.ClaimStrings{cd.Audience},
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
        },
    }
    raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cd.AccessSecret))
    require.NoError(t, err)

    _, err = cd.VerifyAccess(raw)
    assert.ErrorIs(t, err, ErrInvalidToken)
}

// Refresh verification insists on the token_version claim; access
// verification does not.
func TestRefreshRequiresTokenVersion(t *testing.T) {
    cd := testCodec()
    now := time.Now().UTC()
    claims := Claims{
        UserID: 5,
        Email:  "a@b.c",
        Role:   "DEVELOPER",
        RegisteredClaims: jwt.RegisteredClaims{
            Issuer:    cd.Issuer,
            Audience:  jwt.ClaimStrings{cd.Audience},
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
        },
    }
    raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cd.RefreshSecret))
    require.NoError(t, err)

    _, err = cd.VerifyRefresh(raw)
    assert.ErrorIs(t, err, ErrInvalidToken)
}
