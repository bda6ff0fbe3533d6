package user

import (
	"context"

	"piq/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, gender domain.Gender) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type ImageRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.UserImage, error)
	MainImageURLs(ctx context.Context, userIDs []int64) (map[int64]string, error)
}

type RefreshTokenStore interface {
	Delete(ctx context.Context, email string) error
}

type FileRemover interface {
	Delete(ctx context.Context, url string) error
}
