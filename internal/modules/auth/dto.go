package auth

import "piq/internal/domain"

type SignUpRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	Nickname    string `json:"nickname" binding:"required,min=2,max=10"`
	Password    string `json:"password" binding:"required,password"`
	KakaoTalkID string `json:"kakaoTalkId" binding:"required,max=100"`
	InstagramID string `json:"instagramId" binding:"omitempty,max=100"`
	Age         int    `json:"age" binding:"required,gt=0"`
	Gender      string `json:"gender" binding:"required,gender"`
	MBTI        string `json:"mbti" binding:"omitempty,mbti"`
	Introduce   string `json:"introduce" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type UserResponse struct {
	ID       int64    `json:"id"`
	Email    string   `json:"email"`
	Nickname string   `json:"nickname"`
	Gender   string   `json:"gender"`
	Roles    []string `json:"roles"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		Gender:   string(u.Gender),
		Roles:    u.RoleNames(),
	}
}
