package repository

import (
	"context"
	"time"

	"piq/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Title     string    `gorm:"column:title;size:50;not null"`
	Content   string    `gorm:"column:content;size:255"`
	Rate      int       `gorm:"column:rate;not null"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

type reviewRow struct {
	reviewModel
	AuthorNickname string `gorm:"column:author_nickname"`
}

func toDomainReview(m reviewModel, nickname string) *domain.Review {
	return &domain.Review{
		ID:             m.ID,
		UserID:         m.UserID,
		AuthorNickname: nickname,
		Title:          m.Title,
		Content:        m.Content,
		Rate:           m.Rate,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// Create inserts the review. AuthorNickname is left as provided by the caller.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := reviewModel{
		UserID:  rv.UserID,
		Title:   rv.Title,
		Content: rv.Content,
		Rate:    rv.Rate,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*rv = *toDomainReview(m, rv.AuthorNickname)
	return nil
}

// List returns reviews newest first with the author's nickname.
func (r *ReviewRepository) List(ctx context.Context, offset, limit int) ([]domain.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&reviewModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []reviewRow
	err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.*, users.nickname AS author_nickname").
		Joins("JOIN users ON users.id = reviews.user_id").
		Order("reviews.created_at DESC").Order("reviews.id DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, *toDomainReview(row.reviewModel, row.AuthorNickname))
	}
	return out, total, nil
}
