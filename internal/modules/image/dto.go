package image

import "piq/internal/domain"

// FormField is the multipart field carrying the uploaded file.
const FormField = "imageFile"

type ImageResponse struct {
	ImageID     int64  `json:"imageId"`
	ImageURL    string `json:"imageUrl"`
	IsMainImage bool   `json:"isMainImage"`
}

func toImageResponse(img *domain.UserImage) ImageResponse {
	return ImageResponse{ImageID: img.ID, ImageURL: img.URL, IsMainImage: img.IsMain}
}
