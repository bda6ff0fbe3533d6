package post

import (
	"time"

	"piq/internal/domain"
)

const (
	// DateTimeLayout is the wire format of event start and end dates.
	DateTimeLayout = "2006-01-02 15:04"
	dateLayout     = "2006-01-02"
)

type AnnouncementRequest struct {
	Title   string `json:"title" binding:"required,max=50"`
	Content string `json:"content" binding:"required"`
}

type EventRequest struct {
	Title     string `json:"title" binding:"required,max=50"`
	Content   string `json:"content" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

type PostResponse struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Type      domain.PostType `json:"type"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	CreatedAt string          `json:"createdAt"`
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(DateTimeLayout)
}

func toPostResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Type:      p.Type,
		StartDate: formatOptional(p.StartDate),
		EndDate:   formatOptional(p.EndDate),
		CreatedAt: p.CreatedAt.Format(dateLayout),
	}
}
