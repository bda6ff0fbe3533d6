package user

import (
	"context"
	"errors"

	"piq/internal/domain"
	"piq/internal/logging"
	"piq/internal/pkg/apperr"
	"piq/internal/repository"
)

type Service struct {
	users  UserRepository
	images ImageRepository
	tokens RefreshTokenStore
	files  FileRemover
	logger logging.Logger
}

func NewService(users UserRepository, images ImageRepository, tokens RefreshTokenStore, files FileRemover, logger logging.Logger) *Service {
	return &Service{users: users, images: images, tokens: tokens, files: files, logger: logger}
}

// ListProfiles returns all members, optionally of one gender, each with the
// URL of their main image.
func (s *Service) ListProfiles(ctx context.Context, gender string) (*ProfileList, error) {
	var g domain.Gender
	if gender != "" {
		parsed, ok := domain.ParseGender(gender)
		if !ok {
			return nil, apperr.WithMessage(apperr.ValidationFailed, "gender must be MALE or FEMALE")
		}
		g = parsed
	}

	users, err := s.users.List(ctx, g)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	mains, err := s.images.MainImageURLs(ctx, ids)
	if err != nil {
		return nil, err
	}

	list := make([]ProfileSummary, 0, len(users))
	for _, u := range users {
		list = append(list, ProfileSummary{
			ID:           u.ID,
			Nickname:     u.Nickname,
			Age:          u.Age,
			Gender:       u.Gender,
			MBTI:         u.MBTI,
			Score:        u.Score,
			IsActive:     u.IsActive,
			MainImageURL: mains[u.ID],
		})
	}
	return &ProfileList{TotalCount: len(list), List: list}, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.User, ImageList, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ImageList{}, apperr.UserNotFound
		}
		return nil, ImageList{}, err
	}
	images, err := s.images.ListByUser(ctx, id)
	if err != nil {
		return nil, ImageList{}, err
	}
	return u, toImageList(images), nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*MyProfile, error) {
	u, images, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MyProfile{
		ID:          u.ID,
		Nickname:    u.Nickname,
		Email:       u.Email,
		Age:         u.Age,
		Gender:      u.Gender,
		MBTI:        u.MBTI,
		Introduce:   u.Introduce,
		KakaoTalkID: u.KakaoTalkID,
		InstagramID: u.InstagramID,
		PQPoint:     u.PQPoint,
		Score:       u.Score,
		IsActive:    u.IsActive,
		UserImages:  images,
	}, nil
}

func (s *Service) Profile(ctx context.Context, id int64) (*PublicProfile, error) {
	u, images, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PublicProfile{
		ID:          u.ID,
		KakaoTalkID: u.KakaoTalkID,
		InstagramID: u.InstagramID,
		Age:         u.Age,
		Gender:      u.Gender,
		MBTI:        u.MBTI,
		Score:       u.Score,
		Introduce:   u.Introduce,
		UserImages:  images,
	}, nil
}

// DeleteAccount removes the member's files, rows and refresh token. File
// removal is best effort; the rows go in a single transaction.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.UserNotFound
		}
		return err
	}

	images, err := s.images.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := s.files.Delete(ctx, img.URL); err != nil {
			s.logger.Warn(ctx, "image file not removed", "user_id", userID, "url", img.URL, "error", err)
		}
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.UserNotFound
		}
		return err
	}

	if err := s.tokens.Delete(ctx, u.Email); err != nil {
		s.logger.Error(ctx, "refresh token not removed", "user_id", userID, "error", err)
		return err
	}

	s.logger.Info(ctx, "account deleted", "user_id", userID)
	return nil
}
