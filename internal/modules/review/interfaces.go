package review

import (
	"context"

	"piq/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	List(ctx context.Context, offset, limit int) ([]domain.Review, int64, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
