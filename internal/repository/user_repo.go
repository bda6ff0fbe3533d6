package repository

import (
	"context"
	"fmt"
	"time"

	"piq/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64           `gorm:"column:id;primaryKey"`
	Email        string          `gorm:"column:email;size:255;uniqueIndex;not null"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Nickname     string          `gorm:"column:nickname;size:10;not null"`
	KakaoTalkID  string          `gorm:"column:kakao_talk_id;size:100;not null"`
	InstagramID  *string         `gorm:"column:instagram_id;size:100"`
	Age          int             `gorm:"column:age;not null"`
	Gender       string          `gorm:"column:gender;size:10;not null;index"`
	MBTI         *string         `gorm:"column:mbti;size:4"`
	Introduce    string          `gorm:"column:introduce;type:text;not null"`
	Score        float64         `gorm:"column:score;not null;default:0"`
	PQPoint      int             `gorm:"column:pq_point;not null;default:0"`
	IsActive     bool            `gorm:"column:is_active;not null"`
	Roles        []userRoleModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type userRoleModel struct {
	UserID int64  `gorm:"column:user_id;primaryKey"`
	Role   string `gorm:"column:role;primaryKey;size:32"`
}

func (userRoleModel) TableName() string { return "user_roles" }

func toDomainUser(m userModel) *domain.User {
	var instagram, mbti string
	if m.InstagramID != nil {
		instagram = *m.InstagramID
	}
	if m.MBTI != nil {
		mbti = *m.MBTI
	}

	roles := make([]domain.Role, 0, len(m.Roles))
	for _, r := range m.Roles {
		roles = append(roles, domain.Role(r.Role))
	}

	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Nickname:     m.Nickname,
		KakaoTalkID:  m.KakaoTalkID,
		InstagramID:  instagram,
		Age:          m.Age,
		Gender:       domain.Gender(m.Gender),
		MBTI:         mbti,
		Introduce:    m.Introduce,
		Score:        m.Score,
		PQPoint:      m.PQPoint,
		IsActive:     m.IsActive,
		Roles:        roles,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var instagram, mbti *string
	if u.InstagramID != "" {
		v := u.InstagramID
		instagram = &v
	}
	if u.MBTI != "" {
		v := u.MBTI
		mbti = &v
	}

	roles := make([]userRoleModel, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, userRoleModel{UserID: u.ID, Role: string(r)})
	}

	return userModel{
		ID:           u.ID,
		Email:        domain.NormalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		Nickname:     u.Nickname,
		KakaoTalkID:  u.KakaoTalkID,
		InstagramID:  instagram,
		Age:          u.Age,
		Gender:       string(u.Gender),
		MBTI:         mbti,
		Introduce:    u.Introduce,
		Score:        u.Score,
		PQPoint:      u.PQPoint,
		IsActive:     u.IsActive,
		Roles:        roles,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// roleOrder keeps ROLE_USER ahead of ROLE_ADMIN regardless of insert order.
func roleOrder(db *gorm.DB) *gorm.DB {
	return db.Order("role DESC")
}

// Create inserts the user with its roles. A taken email yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return ErrDuplicate
		}
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Preload("Roles", roleOrder).
		Where("email = ?", domain.NormalizeEmail(email)).
		First(&m)
	if tx.Error != nil {
		return nil, mapNotFound(tx.Error)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).Preload("Roles", roleOrder).First(&m, id)
	if tx.Error != nil {
		return nil, mapNotFound(tx.Error)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("email = ?", domain.NormalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

// List returns users ordered by id, optionally filtered by gender.
func (r *UserRepository) List(ctx context.Context, gender domain.Gender) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Preload("Roles", roleOrder).Order("id ASC")
	if gender != "" {
		q = q.Where("gender = ?", string(gender))
	}

	var models []userModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainUser(m))
	}
	return out, nil
}

func (r *UserRepository) AddRole(ctx context.Context, userID int64, role domain.Role) error {
	err := r.db.WithContext(ctx).Create(&userRoleModel{UserID: userID, Role: string(role)}).Error
	if isUniqueViolation(err) {
		return nil
	}
	return err
}

// Delete removes the user together with roles, images, reviews and posts.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&userRoleModel{}, &imageModel{}, &reviewModel{}, &postModel{}} {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("delete %T: %w", model, err)
			}
		}
		res := tx.Delete(&userModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
