package jwt

import (
	"encoding/json"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Token uses carried in the typ claim.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// Claims is the payload of both token kinds. Refresh tokens leave UserID and
// Auth empty so only registered claims and typ are written.
type Claims struct {
	UserID int64       `json:"id,omitempty"`
	Auth   Authorities `json:"auth,omitempty"`
	Use    string      `json:"typ,omitempty"`
	jwtlib.RegisteredClaims
}

// Authorities is the role claim. It is written as a comma-joined string and
// read from either that form or a JSON list.
type Authorities []string

func (a Authorities) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.Join(a, ","))
}

func (a *Authorities) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*a = splitRoles(joined)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*a = list
	return nil
}

func splitRoles(s string) Authorities {
	var out Authorities
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
