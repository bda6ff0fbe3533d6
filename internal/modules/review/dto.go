package review

import "piq/internal/domain"

const dateLayout = "2006-01-02"

type CreateReviewRequest struct {
	Title   string `json:"title" binding:"required,max=50"`
	Content string `json:"content" binding:"omitempty,max=255"`
	Rate    int    `json:"rate" binding:"required,gte=1,lte=5"`
}

type ReviewResponse struct {
	ReviewID  int64  `json:"reviewId"`
	UserName  string `json:"userName"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Rate      int    `json:"rate"`
	CreatedAt string `json:"createdAt"`
}

func toReviewResponse(rv domain.Review) ReviewResponse {
	return ReviewResponse{
		ReviewID:  rv.ID,
		UserName:  rv.AuthorNickname,
		Title:     rv.Title,
		Content:   rv.Content,
		Rate:      rv.Rate,
		CreatedAt: rv.CreatedAt.Format(dateLayout),
	}
}
