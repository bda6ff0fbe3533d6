package repository

import (
	"context"
	"time"

	"piq/internal/domain"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

type postModel struct {
	ID        int64      `gorm:"column:id;primaryKey"`
	UserID    int64      `gorm:"column:user_id;not null;index"`
	Title     string     `gorm:"column:title;size:50;not null"`
	Content   string     `gorm:"column:content;type:text;not null"`
	Type      string     `gorm:"column:type;size:20;not null"`
	StartDate *time.Time `gorm:"column:start_date"`
	EndDate   *time.Time `gorm:"column:end_date"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (postModel) TableName() string { return "posts" }

func toDomainPost(m postModel) *domain.Post {
	return &domain.Post{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Content:   m.Content,
		Type:      domain.PostType(m.Type),
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toPostModel(p *domain.Post) postModel {
	return postModel{
		ID:        p.ID,
		UserID:    p.UserID,
		Title:     p.Title,
		Content:   p.Content,
		Type:      string(p.Type),
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	m := toPostModel(p)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*p = *toDomainPost(m)
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	var m postModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return toDomainPost(m), nil
}

// UpdateContent rewrites title and content of an existing post.
func (r *PostRepository) UpdateContent(ctx context.Context, id int64, title, content string) (*domain.Post, error) {
	tx := r.db.WithContext(ctx).Model(&postModel{}).Where("id = ?", id).
		Updates(map[string]any{"title": title, "content": content, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// List returns posts newest first and the total count.
func (r *PostRepository) List(ctx context.Context, offset, limit int) ([]domain.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&postModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []postModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Post, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainPost(m))
	}
	return out, total, nil
}
