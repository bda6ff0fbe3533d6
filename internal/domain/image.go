package domain

import "time"

// MaxUserImages is the number of profile images a user may keep.
const MaxUserImages = 6

type UserImage struct {
	ID        int64     `json:"imageId"`
	UserID    int64     `json:"userId"`
	URL       string    `json:"imageUrl"`
	IsMain    bool      `json:"isMainImage"`
	CreatedAt time.Time `json:"createdAt"`
}
