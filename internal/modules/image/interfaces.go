package image

import (
	"context"

	"piq/internal/domain"
)

type ImageRepository interface {
	Create(ctx context.Context, img *domain.UserImage) error
	GetByID(ctx context.Context, id int64) (*domain.UserImage, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	HasMain(ctx context.Context, userID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	SetMain(ctx context.Context, userID, imageID int64) error
	PromoteOldest(ctx context.Context, userID int64) (bool, error)
}
