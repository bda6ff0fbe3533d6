package image

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"piq/internal/domain"
	"piq/internal/logging"
	"piq/internal/pkg/apperr"
	"piq/internal/repository"
	"piq/internal/storage"
)

// sniffLen is the number of leading bytes http.DetectContentType considers.
const sniffLen = 512

type Service struct {
	images   ImageRepository
	uploader storage.Uploader
	logger   logging.Logger
	now      func() time.Time
}

func NewService(images ImageRepository, uploader storage.Uploader, logger logging.Logger) *Service {
	return &Service{images: images, uploader: uploader, logger: logger, now: time.Now}
}

// Upload stores an image for userID. The first image of a user without a main
// image becomes the main one. The stored file is removed again when the row
// cannot be written.
func (s *Service) Upload(ctx context.Context, userID int64, r io.Reader, size int64) (*domain.UserImage, error) {
	if size <= 0 {
		return nil, apperr.EmptyFile
	}

	count, err := s.images.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= domain.MaxUserImages {
		return nil, apperr.ImageLimitExceeded
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apperr.Wrap(apperr.FileUploadFailed, err)
	}
	if n == 0 {
		return nil, apperr.EmptyFile
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperr.NotAnImage
	}

	key := storage.NewImageKey(s.now().UTC(), storage.ExtForContentType(contentType))
	url, err := s.uploader.Upload(ctx, key, io.MultiReader(bytes.NewReader(head), r), size, contentType)
	if err != nil {
		return nil, apperr.Wrap(apperr.FileUploadFailed, err)
	}

	hasMain, err := s.images.HasMain(ctx, userID)
	if err != nil {
		s.discard(ctx, url)
		return nil, err
	}

	img := &domain.UserImage{UserID: userID, URL: url, IsMain: !hasMain}
	if err := s.images.Create(ctx, img); err != nil {
		s.discard(ctx, url)
		return nil, err
	}

	s.logger.Info(ctx, "image uploaded", "user_id", userID, "image_id", img.ID, "main", img.IsMain)
	return img, nil
}

func (s *Service) discard(ctx context.Context, url string) {
	if err := s.uploader.Delete(ctx, url); err != nil {
		s.logger.Warn(ctx, "orphaned upload", "url", url, "error", err)
	}
}

func (s *Service) owned(ctx context.Context, userID, imageID int64) (*domain.UserImage, error) {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ImageNotFound
		}
		return nil, err
	}
	if img.UserID != userID {
		return nil, apperr.NotImageOwner
	}
	return img, nil
}

// Delete removes the file and the row. When the main image goes, the oldest
// remaining image takes its place.
func (s *Service) Delete(ctx context.Context, userID, imageID int64) error {
	img, err := s.owned(ctx, userID, imageID)
	if err != nil {
		return err
	}

	if err := s.uploader.Delete(ctx, img.URL); err != nil {
		return apperr.Wrap(apperr.FileDeleteFailed, err)
	}
	if err := s.images.Delete(ctx, img.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ImageNotFound
		}
		return err
	}

	if img.IsMain {
		if _, err := s.images.PromoteOldest(ctx, userID); err != nil {
			return err
		}
	}
	return nil
}

// SetMain makes imageID the user's only main image.
func (s *Service) SetMain(ctx context.Context, userID, imageID int64) error {
	if _, err := s.owned(ctx, userID, imageID); err != nil {
		return err
	}
	if err := s.images.SetMain(ctx, userID, imageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ImageNotFound
		}
		return err
	}
	return nil
}
