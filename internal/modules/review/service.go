package review

import (
	"context"
	"errors"
	"strings"

	"piq/internal/domain"
	"piq/internal/pkg/apperr"
	"piq/internal/repository"
)

const DefaultPageSize = 10

type Service struct {
	reviews ReviewRepository
	users   UserReader
}

func NewService(reviews ReviewRepository, users UserReader) *Service {
	return &Service{reviews: reviews, users: users}
}

// Create stores a review written by userID. The author's nickname becomes the
// review's userName.
func (s *Service) Create(ctx context.Context, userID int64, req CreateReviewRequest) (*domain.Review, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || req.Rate < 1 || req.Rate > 5 {
		return nil, apperr.ValidationFailed
	}

	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.UserNotFound
		}
		return nil, err
	}

	rv := &domain.Review{
		UserID:         author.ID,
		AuthorNickname: author.Nickname,
		Title:          title,
		Content:        strings.TrimSpace(req.Content),
		Rate:           req.Rate,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// List returns one page of reviews, newest first.
func (s *Service) List(ctx context.Context, page, size int) (domain.Page[ReviewResponse], error) {
	items, total, err := s.reviews.List(ctx, page*size, size)
	if err != nil {
		return domain.Page[ReviewResponse]{}, err
	}

	out := make([]ReviewResponse, 0, len(items))
	for _, rv := range items {
		out = append(out, toReviewResponse(rv))
	}
	return domain.NewPage(out, page, size, total), nil
}
