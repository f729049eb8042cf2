package utils // package utils provides token signing/verification and hashing helpers

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"       // random jti values
)

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, expired, wrong audience or issuer, or a payload missing a
// required field. Callers never learn which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the shared payload shape for access and refresh tokens. Both
// kinds carry the user identity and the user's token_version; only
// refresh tokens are re-validated against the stored version.
type Claims struct {
    UserID       uint64 `json:"uid"`
    Email        string `json:"email"`
    Role         string `json:"role"`
    TokenVersion *int64 `json:"token_version,omitempty"`
    jwt.RegisteredClaims
}

// Codec signs and verifies HS256 tokens. Access and refresh tokens use
// distinct secrets so one kind can never be replayed as the other.
type Codec struct {
    AccessSecret  string
    RefreshSecret string
    Issuer        string
    Audience      string
    AccessTTL     time.Duration
    RefreshTTL    time.Duration
}

// SignAccess issues a short-lived access token. Returns the serialized
// token and its expiry.
func (cd Codec) SignAccess(userID uint64, email, role string, version int64) (string, time.Time, error) {
    return cd.sign(cd.AccessSecret, cd.AccessTTL, userID, email, role, version)
}

// SignRefresh issues a long-lived refresh token carrying the current
// token_version.
func (cd Codec) SignRefresh(userID uint64, email, role string, version int64) (string, time.Time, error) {
    return cd.sign(cd.RefreshSecret, cd.RefreshTTL, userID, email, role, version)
}

func (cd Codec) sign(secret string, ttl time.Duration, userID uint64, email, role string, version int64) (string, time.Time, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := Claims{
        UserID:       userID,
        Email:        email,
        Role:         role,
        TokenVersion: &version,
        RegisteredClaims: jwt.RegisteredClaims{
            Issuer:    cd.Issuer,
            Audience:  jwt.ClaimStrings{cd.Audience},
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
            ID:        uuid.NewString(), // jti for traceability and revocation
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return "", time.Time{}, err
    }
    return signed, exp, nil
}

// VerifyAccess validates an access token and returns its claims.
func (cd Codec) VerifyAccess(raw string) (*Claims, error) {
    return cd.verify(raw, cd.AccessSecret, false)
}

// VerifyRefresh validates a refresh token. On top of the access checks it
// requires the token_version claim to be present, because rotation cannot
// compare versions without it.
func (cd Codec) VerifyRefresh(raw string) (*Claims, error) {
    return cd.verify(raw, cd.RefreshSecret, true)
}

func (cd Codec) verify(raw, secret string, needVersion bool) (*Claims, error) {
    claims := &Claims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    },
        jwt.WithAudience(cd.Audience),
        jwt.WithIssuer(cd.Issuer),
        jwt.WithExpirationRequired(),
    )
    if err != nil || !tok.Valid {
        return nil, ErrInvalidToken
    }
    // A valid signature does not make the payload usable: identity fields
    // must be present for the principal to be reconstructed.
    if claims.UserID == 0 || claims.Email == "" || claims.Role == "" {
        return nil, ErrInvalidToken
    }
    if needVersion && claims.TokenVersion == nil {
        return nil, ErrInvalidToken
    }
    return claims, nil
}
