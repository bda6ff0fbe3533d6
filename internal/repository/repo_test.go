package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"piq/internal/database"
	"piq/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db, Models()...))
	return db
}

func newTestUser(email string, gender domain.Gender) *domain.User {
	return &domain.User{
		Email:        email,
		PasswordHash: "hash",
		Nickname:     "nick",
		KakaoTalkID:  "kakao",
		Age:          25,
		Gender:       gender,
		Introduce:    "hello",
		IsActive:     true,
		Roles:        []domain.Role{domain.RoleUser},
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u := newTestUser("  Alice@Example.COM ", domain.GenderFemale)
	u.MBTI = "INTJ"
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)

	got, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, []domain.Role{domain.RoleUser}, got.Roles)
	assert.Equal(t, "INTJ", got.MBTI)
	assert.Empty(t, got.InstagramID)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
}

func TestUserRepository_GetMissing(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(ctx, newTestUser("dup@example.com", domain.GenderMale)))
	err := repo.Create(ctx, newTestUser("DUP@example.com", domain.GenderMale))
	assert.ErrorIs(t, err, ErrDuplicate)

	var count int64
	require.NoError(t, db.Model(&userModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_AddRoleKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u := newTestUser("admin@example.com", domain.GenderMale)
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.AddRole(ctx, u.ID, domain.RoleAdmin))
	require.NoError(t, repo.AddRole(ctx, u.ID, domain.RoleAdmin))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{domain.RoleUser, domain.RoleAdmin}, got.Roles)
	assert.True(t, got.HasRole(domain.RoleAdmin))
}

func TestUserRepository_ListByGender(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, newTestUser("m1@example.com", domain.GenderMale)))
	require.NoError(t, repo.Create(ctx, newTestUser("f1@example.com", domain.GenderFemale)))
	require.NoError(t, repo.Create(ctx, newTestUser("m2@example.com", domain.GenderMale)))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	males, err := repo.List(ctx, domain.GenderMale)
	require.NoError(t, err)
	require.Len(t, males, 2)
	assert.Equal(t, "m1@example.com", males[0].Email)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	images := NewImageRepository(db)
	reviews := NewReviewRepository(db)
	posts := NewPostRepository(db)

	u := newTestUser("gone@example.com", domain.GenderMale)
	require.NoError(t, users.Create(ctx, u))
	other := newTestUser("stay@example.com", domain.GenderFemale)
	require.NoError(t, users.Create(ctx, other))

	require.NoError(t, images.Create(ctx, &domain.UserImage{UserID: u.ID, URL: "/uploads/a.png", IsMain: true}))
	require.NoError(t, reviews.Create(ctx, &domain.Review{UserID: u.ID, Title: "t", Rate: 5}))
	require.NoError(t, posts.Create(ctx, &domain.Post{UserID: u.ID, Title: "t", Content: "c", Type: domain.PostAnnouncement}))
	require.NoError(t, reviews.Create(ctx, &domain.Review{UserID: other.ID, Title: "kept", Rate: 4}))

	require.NoError(t, users.Delete(ctx, u.ID))

	_, err := users.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, model := range []any{&userRoleModel{}, &imageModel{}, &reviewModel{}, &postModel{}} {
		var count int64
		require.NoError(t, db.Model(model).Where("user_id = ?", u.ID).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}

	list, total, err := reviews.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "kept", list[0].Title)

	assert.ErrorIs(t, users.Delete(ctx, u.ID), ErrNotFound)
}

func TestPostRepository_PagingNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)

	admin := newTestUser("admin@example.com", domain.GenderMale)
	require.NoError(t, users.Create(ctx, admin))

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		p := &domain.Post{
			UserID:    admin.ID,
			Title:     string(rune('a' + i)),
			Content:   "c",
			Type:      domain.PostAnnouncement,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, posts.Create(ctx, p))
	}

	page, total, err := posts.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, "e", page[0].Title)
	assert.Equal(t, "d", page[1].Title)

	last, _, err := posts.List(ctx, 4, 2)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "a", last[0].Title)
}

func TestPostRepository_UpdateContent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)

	admin := newTestUser("admin@example.com", domain.GenderMale)
	require.NoError(t, users.Create(ctx, admin))

	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	p := &domain.Post{UserID: admin.ID, Title: "old", Content: "old", Type: domain.PostEvent, StartDate: &start, EndDate: &end}
	require.NoError(t, posts.Create(ctx, p))

	updated, err := posts.UpdateContent(ctx, p.ID, "new", "body")
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "body", updated.Content)
	require.NotNil(t, updated.StartDate)
	assert.True(t, start.Equal(*updated.StartDate))

	_, err = posts.UpdateContent(ctx, 999, "x", "y")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewRepository_ListWithNickname(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	reviews := NewReviewRepository(db)

	u := newTestUser("r@example.com", domain.GenderFemale)
	u.Nickname = "reviewer"
	require.NoError(t, users.Create(ctx, u))

	require.NoError(t, reviews.Create(ctx, &domain.Review{UserID: u.ID, Title: "first", Rate: 3}))
	require.NoError(t, reviews.Create(ctx, &domain.Review{UserID: u.ID, Title: "second", Content: "nice", Rate: 5}))

	list, total, err := reviews.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	assert.Equal(t, "reviewer", list[0].AuthorNickname)
	assert.Equal(t, "nice", list[0].Content)
}

func TestImageRepository_MainImageLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	images := NewImageRepository(db)

	u := newTestUser("img@example.com", domain.GenderMale)
	require.NoError(t, users.Create(ctx, u))

	first := &domain.UserImage{UserID: u.ID, URL: "/uploads/1.png", IsMain: true}
	second := &domain.UserImage{UserID: u.ID, URL: "/uploads/2.png"}
	require.NoError(t, images.Create(ctx, first))
	require.NoError(t, images.Create(ctx, second))

	count, err := images.CountByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, images.SetMain(ctx, u.ID, second.ID))
	urls, err := images.MainImageURLs(ctx, []int64{u.ID})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/2.png", urls[u.ID])

	require.NoError(t, images.Delete(ctx, second.ID))
	has, err := images.HasMain(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, has)

	promoted, err := images.PromoteOldest(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, promoted)

	got, err := images.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.IsMain)

	promoted, err = images.PromoteOldest(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, promoted)
}

func TestImageRepository_SetMainOtherUsersImage(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	images := NewImageRepository(db)

	owner := newTestUser("owner@example.com", domain.GenderMale)
	require.NoError(t, users.Create(ctx, owner))
	intruder := newTestUser("intruder@example.com", domain.GenderMale)
	require.NoError(t, users.Create(ctx, intruder))

	mine := &domain.UserImage{UserID: intruder.ID, URL: "/uploads/mine.png", IsMain: true}
	require.NoError(t, images.Create(ctx, mine))
	theirs := &domain.UserImage{UserID: owner.ID, URL: "/uploads/theirs.png"}
	require.NoError(t, images.Create(ctx, theirs))

	err := images.SetMain(ctx, intruder.ID, theirs.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// rolled back: the intruder's own main survives
	has, err := images.HasMain(ctx, intruder.ID)
	require.NoError(t, err)
	assert.True(t, has)
}
