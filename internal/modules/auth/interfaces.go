package auth

import (
	"context"

	"piq/internal/domain"
	"piq/internal/pkg/jwt"
)

// UserRepository is the part of the user store the auth service needs.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	AddRole(ctx context.Context, userID int64, role domain.Role) error
}

// RefreshTokenStore keeps at most one refresh token per email.
type RefreshTokenStore interface {
	Save(ctx context.Context, email, token string) error
	Find(ctx context.Context, email string) (string, bool, error)
	Delete(ctx context.Context, email string) error
}

type TokenIssuer interface {
	IssueAccessToken(s jwt.Subject) (string, error)
	IssueRefreshToken(s jwt.Subject) (string, error)
}

type TokenValidator interface {
	ValidateRefresh(token string) (*jwt.Claims, error)
}
