package jwt

import (
	"errors"
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"piq/internal/pkg/apperr"
)

// Codec signs and verifies HS256 tokens with a single process-wide secret.
// Decoding also requires the iss claim to equal issuer.
type Codec struct {
	secret []byte
	issuer string
}

func NewCodec(secret, issuer string) *Codec {
	return &Codec{secret: []byte(secret), issuer: issuer}
}

func (c *Codec) Encode(claims *Claims) (string, error) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.TokenProcessingError, err)
	}
	return signed, nil
}

// Decode verifies the signature and the time claims. Failures are classified
// into the token kinds of package apperr.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, c.keyFunc, jwtlib.WithIssuer(c.issuer))
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.Wrap(apperr.TokenProcessingError, errors.New("invalid claims"))
	}
	return claims, nil
}

func (c *Codec) keyFunc(t *jwtlib.Token) (any, error) {
	// other HMAC variants are rejected here so they classify as unsupported
	if t.Method.Alg() != jwtlib.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return c.secret, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwtlib.ErrTokenSignatureInvalid):
		return apperr.Wrap(apperr.InvalidSignature, err)
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return apperr.Wrap(apperr.TokenExpired, err)
	case errors.Is(err, jwtlib.ErrTokenUnverifiable):
		return apperr.Wrap(apperr.UnsupportedToken, err)
	case errors.Is(err, jwtlib.ErrTokenInvalidIssuer):
		return apperr.Wrap(apperr.UnsupportedToken, err)
	case errors.Is(err, jwtlib.ErrTokenMalformed):
		return apperr.Wrap(apperr.MalformedToken, err)
	default:
		return apperr.Wrap(apperr.TokenProcessingError, err)
	}
}
