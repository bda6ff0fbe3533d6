package domain

import "time"

type PostType string

const (
	PostAnnouncement PostType = "ANNOUNCEMENT"
	PostEvent        PostType = "EVENT"
)

type Post struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Type      PostType   `json:"type"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
