package jwt

import (
	"errors"
	"fmt"
	"strings"

	"piq/internal/pkg/apperr"
)

// Validator checks presented tokens and exposes their claims.
type Validator struct {
	codec *Codec
}

func NewValidator(codec *Codec) *Validator {
	return &Validator{codec: codec}
}

// Validate returns the claims of a well-formed, correctly signed, unexpired
// token. Blank input is reported as a missing token without decoding.
func (v *Validator) Validate(token string) (*Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperr.MissingToken
	}
	return v.codec.Decode(token)
}

// ValidateAccess accepts only access tokens. A refresh token presented as a
// bearer token is unsupported.
func (v *Validator) ValidateAccess(token string) (*Claims, error) {
	claims, err := v.validateUse(token, UseAccess)
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, apperr.Wrap(apperr.MalformedToken, errors.New("token has no id claim"))
	}
	return claims, nil
}

func (v *Validator) ValidateRefresh(token string) (*Claims, error) {
	return v.validateUse(token, UseRefresh)
}

func (v *Validator) validateUse(token, use string) (*Claims, error) {
	claims, err := v.Validate(token)
	if err != nil {
		return nil, err
	}
	if claims.Use != use {
		return nil, apperr.Wrap(apperr.UnsupportedToken, fmt.Errorf("token is not a %s token", use))
	}
	return claims, nil
}

func (v *Validator) ExtractUserID(token string) (int64, error) {
	claims, err := v.Validate(token)
	if err != nil {
		return 0, err
	}
	if claims.UserID == 0 {
		return 0, apperr.Wrap(apperr.MalformedToken, errors.New("token has no id claim"))
	}
	return claims.UserID, nil
}

func (v *Validator) ExtractSubjectEmail(token string) (string, error) {
	claims, err := v.Validate(token)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", apperr.Wrap(apperr.MalformedToken, errors.New("token has no subject"))
	}
	return claims.Subject, nil
}
