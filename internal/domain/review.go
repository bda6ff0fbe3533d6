package domain

import "time"

type Review struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	AuthorNickname string    `json:"userName"`
	Title          string    `json:"title"`
	Content        string    `json:"content,omitempty"`
	Rate           int       `json:"rate"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
