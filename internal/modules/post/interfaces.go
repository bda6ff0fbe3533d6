package post

import (
	"context"

	"piq/internal/domain"
)

type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	UpdateContent(ctx context.Context, id int64, title, content string) (*domain.Post, error)
	List(ctx context.Context, offset, limit int) ([]domain.Post, int64, error)
}
