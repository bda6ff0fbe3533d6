package post

import (
	"context"
	"errors"
	"strings"
	"time"

	"piq/internal/domain"
	"piq/internal/pkg/apperr"
	"piq/internal/repository"
)

const DefaultPageSize = 20

type Service struct {
	posts PostRepository
}

func NewService(posts PostRepository) *Service {
	return &Service{posts: posts}
}

func (s *Service) CreateAnnouncement(ctx context.Context, authorID int64, req AnnouncementRequest) (*domain.Post, error) {
	p := &domain.Post{
		UserID:  authorID,
		Title:   strings.TrimSpace(req.Title),
		Content: req.Content,
		Type:    domain.PostAnnouncement,
	}
	if p.Title == "" {
		return nil, apperr.WithMessage(apperr.ValidationFailed, "title is required")
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateEvent stores an event post. Both dates are required and the start may
// not be after the end.
func (s *Service) CreateEvent(ctx context.Context, authorID int64, req EventRequest) (*domain.Post, error) {
	start, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(req.StartDate), time.UTC)
	if err != nil {
		return nil, apperr.WithMessage(apperr.ValidationFailed, "startDate must use "+DateTimeLayout)
	}
	end, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(req.EndDate), time.UTC)
	if err != nil {
		return nil, apperr.WithMessage(apperr.ValidationFailed, "endDate must use "+DateTimeLayout)
	}
	if start.After(end) {
		return nil, apperr.WithMessage(apperr.ValidationFailed, "startDate is after endDate")
	}

	p := &domain.Post{
		UserID:    authorID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Type:      domain.PostEvent,
		StartDate: &start,
		EndDate:   &end,
	}
	if p.Title == "" {
		return nil, apperr.WithMessage(apperr.ValidationFailed, "title is required")
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.PostNotFound
		}
		return nil, err
	}
	return p, nil
}

// UpdateAnnouncement rewrites an announcement. Other post types are reported
// as missing.
func (s *Service) UpdateAnnouncement(ctx context.Context, id int64, req AnnouncementRequest) (*domain.Post, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Type != domain.PostAnnouncement {
		return nil, apperr.PostNotFound
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.WithMessage(apperr.ValidationFailed, "title is required")
	}

	updated, err := s.posts.UpdateContent(ctx, id, title, req.Content)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.PostNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) List(ctx context.Context, page, size int) (domain.Page[PostResponse], error) {
	items, total, err := s.posts.List(ctx, page*size, size)
	if err != nil {
		return domain.Page[PostResponse]{}, err
	}

	out := make([]PostResponse, 0, len(items))
	for i := range items {
		out = append(out, toPostResponse(&items[i]))
	}
	return domain.NewPage(out, page, size, total), nil
}
