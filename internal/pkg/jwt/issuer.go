package jwt

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Subject is the identity a token is issued for.
type Subject struct {
	ID    int64
	Email string
	Roles []string
}

type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(codec *Codec, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

func (i *Issuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

func (i *Issuer) IssueAccessToken(s Subject) (string, error) {
	claims := &Claims{
		UserID:           s.ID,
		Auth:             Authorities(s.Roles),
		Use:              UseAccess,
		RegisteredClaims: i.registered(s.Email, i.accessTTL),
	}
	return i.codec.Encode(claims)
}

func (i *Issuer) IssueRefreshToken(s Subject) (string, error) {
	claims := &Claims{Use: UseRefresh, RegisteredClaims: i.registered(s.Email, i.refreshTTL)}
	return i.codec.Encode(claims)
}

// registered sets a random jti so tokens issued within the same second differ.
func (i *Issuer) registered(subject string, ttl time.Duration) jwtlib.RegisteredClaims {
	now := i.now()
	return jwtlib.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    i.codec.issuer,
		Subject:   subject,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
	}
}

