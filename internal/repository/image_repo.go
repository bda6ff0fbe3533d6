package repository

import (
	"context"
	"errors"
	"time"

	"piq/internal/domain"

	"gorm.io/gorm"
)

type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

type imageModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	URL       string    `gorm:"column:url;type:text;not null"`
	IsMain    bool      `gorm:"column:is_main;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (imageModel) TableName() string { return "user_images" }

func toDomainImage(m imageModel) *domain.UserImage {
	return &domain.UserImage{
		ID:        m.ID,
		UserID:    m.UserID,
		URL:       m.URL,
		IsMain:    m.IsMain,
		CreatedAt: m.CreatedAt,
	}
}

func (r *ImageRepository) Create(ctx context.Context, img *domain.UserImage) error {
	m := imageModel{UserID: img.UserID, URL: img.URL, IsMain: img.IsMain}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*img = *toDomainImage(m)
	return nil
}

func (r *ImageRepository) GetByID(ctx context.Context, id int64) (*domain.UserImage, error) {
	var m imageModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return toDomainImage(m), nil
}

func (r *ImageRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&imageModel{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ListByUser returns the user's images oldest first.
func (r *ImageRepository) ListByUser(ctx context.Context, userID int64) ([]domain.UserImage, error) {
	var models []imageModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.UserImage, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainImage(m))
	}
	return out, nil
}

func (r *ImageRepository) HasMain(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&imageModel{}).
		Where("user_id = ? AND is_main = ?", userID, true).
		Count(&count).Error
	return count > 0, err
}

// MainImageURLs maps user id to main image url for the given users.
func (r *ImageRepository) MainImageURLs(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var models []imageModel
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND is_main = ?", userIDs, true).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	for _, m := range models {
		out[m.UserID] = m.URL
	}
	return out, nil
}

func (r *ImageRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&imageModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetMain makes imageID the only main image of userID.
func (r *ImageRepository) SetMain(ctx context.Context, userID, imageID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&imageModel{}).
			Where("user_id = ? AND is_main = ?", userID, true).
			Update("is_main", false).Error; err != nil {
			return err
		}
		res := tx.Model(&imageModel{}).
			Where("id = ? AND user_id = ?", imageID, userID).
			Update("is_main", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// PromoteOldest marks the oldest image of userID as main when none is.
// It reports whether an image was promoted.
func (r *ImageRepository) PromoteOldest(ctx context.Context, userID int64) (bool, error) {
	promoted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&imageModel{}).
			Where("user_id = ? AND is_main = ?", userID, true).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		var oldest imageModel
		err := tx.Where("user_id = ?", userID).Order("created_at ASC").Order("id ASC").First(&oldest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&imageModel{}).Where("id = ?", oldest.ID).Update("is_main", true).Error; err != nil {
			return err
		}
		promoted = true
		return nil
	})
	return promoted, err
}
