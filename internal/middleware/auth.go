package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"piq/internal/domain"
	"piq/internal/pkg/apperr"
	"piq/internal/pkg/jwt"
	"piq/internal/pkg/response"
	"piq/internal/repository"
)

const principalKey = "principal"

type TokenValidator interface {
	ValidateAccess(token string) (*jwt.Claims, error)
}

type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Principal is the authenticated caller of one request. Roles come from the
// stored identity, not from the token.
type Principal struct {
	ID    int64
	Email string
	Roles []domain.Role
	User  *domain.User
}

func (p *Principal) HasRole(role domain.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type ctxKey struct{}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(*Principal)
	return p, ok && p != nil
}

func PrincipalFrom(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}

// Authenticate turns a bearer access token into a Principal. Requests on
// public paths skip it entirely and requests without a Bearer scheme continue
// unauthenticated. A blank or invalid token, or an unknown identity, stops the
// chain.
func Authenticate(validator TokenValidator, users UserLookup, public *PublicPaths) gin.HandlerFunc {
	return func(c *gin.Context) {
		if public.Match(c.Request.URL.Path) {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := validator.ValidateAccess(token)
		if err != nil {
			response.Abort(c, err)
			return
		}

		user, err := users.GetByEmail(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				response.Abort(c, apperr.AuthenticationRequired)
				return
			}
			response.Abort(c, err)
			return
		}
		if !user.IsActive {
			response.Abort(c, apperr.DisabledAccount)
			return
		}

		p := &Principal{ID: user.ID, Email: user.Email, Roles: user.Roles, User: user}
		c.Set(principalKey, p)
		c.Set("user_id", user.ID)
		c.Set("email", user.Email)
		c.Set("roles", user.RoleNames())
		c.Request = c.Request.WithContext(ContextWithPrincipal(c.Request.Context(), p))

		c.Next()
	}
}

// RequireAuthenticated rejects requests to non-public paths that carry no
// principal.
func RequireAuthenticated(public *PublicPaths) gin.HandlerFunc {
	return func(c *gin.Context) {
		if public.Match(c.Request.URL.Path) {
			c.Next()
			return
		}
		if _, ok := PrincipalFrom(c); !ok {
			response.Abort(c, apperr.AuthenticationRequired)
			return
		}
		c.Next()
	}
}

// bearerToken reports whether the header uses the Bearer scheme. The returned
// token may be blank.
func bearerToken(header string) (string, bool) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(header), " ")
	if !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}
