package user

import "piq/internal/domain"

type ProfileSummary struct {
	ID           int64         `json:"id"`
	Nickname     string        `json:"nickname"`
	Age          int           `json:"age"`
	Gender       domain.Gender `json:"gender"`
	MBTI         string        `json:"mbti"`
	Score        float64       `json:"score"`
	IsActive     bool          `json:"isActive"`
	MainImageURL string        `json:"mainImageUrl"`
}

type ProfileList struct {
	TotalCount int              `json:"totalCount"`
	List       []ProfileSummary `json:"list"`
}

type ImageItem struct {
	ImageID     int64  `json:"imageId"`
	ImageURL    string `json:"imageUrl"`
	IsMainImage bool   `json:"isMainImage"`
}

type ImageList struct {
	TotalCount int         `json:"totalCount"`
	List       []ImageItem `json:"list"`
}

type MyProfile struct {
	ID          int64         `json:"id"`
	Nickname    string        `json:"nickname"`
	Email       string        `json:"email"`
	Age         int           `json:"age"`
	Gender      domain.Gender `json:"gender"`
	MBTI        string        `json:"mbti"`
	Introduce   string        `json:"introduce"`
	KakaoTalkID string        `json:"kakaoTalkId"`
	InstagramID string        `json:"instagramId"`
	PQPoint     int           `json:"pqPoint"`
	Score       float64       `json:"score"`
	IsActive    bool          `json:"isActive"`
	UserImages  ImageList     `json:"userImages"`
}

// PublicProfile is what other members see. Email and point balance stay
// private.
type PublicProfile struct {
	ID          int64         `json:"id"`
	KakaoTalkID string        `json:"kakaoTalkId"`
	InstagramID string        `json:"instagramId"`
	Age         int           `json:"age"`
	Gender      domain.Gender `json:"gender"`
	MBTI        string        `json:"mbti"`
	Score       float64       `json:"score"`
	Introduce   string        `json:"introduce"`
	UserImages  ImageList     `json:"userImages"`
}

func toImageList(images []domain.UserImage) ImageList {
	list := make([]ImageItem, 0, len(images))
	for _, img := range images {
		list = append(list, ImageItem{ImageID: img.ID, ImageURL: img.URL, IsMainImage: img.IsMain})
	}
	return ImageList{TotalCount: len(list), List: list}
}
