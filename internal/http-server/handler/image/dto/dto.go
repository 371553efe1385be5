package dto

import (
	"time"

	"interior-media/internal/domain"
)

type PresignRequest struct {
	FileName               string `json:"file_name" validate:"required"`
	ContentType            string `json:"content_type" validate:"required,startswith=image/"`
	PropertyID             string `json:"property_id,omitempty"`
	RoomID                 string `json:"room_id,omitempty"`
	ProductID              string `json:"product_id,omitempty"`
	ProductSpecificationID string `json:"product_specification_id,omitempty"`
	DrawingID              string `json:"drawing_id,omitempty"`
	ImageType              string `json:"image_type" validate:"required,oneof=MAIN SUB PAID"`
}

type PresignResponse struct {
	ImageID   string `json:"image_id"`
	UploadURL string `json:"upload_url"`
	ImageURL  string `json:"image_url"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed"`
}

type TypeRequest struct {
	ImageType string `json:"image_type" validate:"required,oneof=MAIN SUB PAID"`
}

type ImageResponse struct {
	ID                     string    `json:"id"`
	URL                    string    `json:"url"`
	ImageType              string    `json:"image_type"`
	Status                 string    `json:"status"`
	PropertyID             string    `json:"property_id,omitempty"`
	RoomID                 string    `json:"room_id,omitempty"`
	ProductID              string    `json:"product_id,omitempty"`
	ProductSpecificationID string    `json:"product_specification_id,omitempty"`
	DrawingID              string    `json:"drawing_id,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func FromImage(img *domain.Image) ImageResponse {
	return ImageResponse{
		ID:                     img.ID,
		URL:                    img.URL,
		ImageType:              string(img.ImageType),
		Status:                 string(img.Status),
		PropertyID:             img.PropertyID,
		RoomID:                 img.RoomID,
		ProductID:              img.ProductID,
		ProductSpecificationID: img.ProductSpecificationID,
		DrawingID:              img.DrawingID,
		CreatedAt:              img.CreatedAt,
	}
}
