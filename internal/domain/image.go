package domain

import "time"

type ImageType string

const (
	TypeMain ImageType = "MAIN"
	TypeSub  ImageType = "SUB"
	TypePaid ImageType = "PAID"
)

type ImageStatus string

const (
	StatusPending   ImageStatus = "pending"
	StatusCompleted ImageStatus = "completed"
)

// Image is the server-owned record of one uploaded picture. Scope references
// reflect the owning-entity hierarchy: broader ids may be populated alongside
// the most specific one (a room image also carries its property id).
type Image struct {
	ID                     string      `json:"id"`
	URL                    string      `json:"url"`
	ImageType              ImageType   `json:"image_type"`
	Status                 ImageStatus `json:"status"`
	PropertyID             string      `json:"property_id,omitempty"`
	RoomID                 string      `json:"room_id,omitempty"`
	ProductID              string      `json:"product_id,omitempty"`
	ProductSpecificationID string      `json:"product_specification_id,omitempty"`
	DrawingID              string      `json:"drawing_id,omitempty"`
	CreatedAt              time.Time   `json:"created_at"`
}

// UploadTicket is the server's answer to a presigned-URL request: a pending
// Image record plus a time-limited capability URL for the byte transfer.
type UploadTicket struct {
	ImageID   string `json:"image_id"`
	UploadURL string `json:"upload_url"`
	ImageURL  string `json:"image_url"`
}

func (i *Image) Scope() ImageScope {
	return ImageScope{
		PropertyID:             i.PropertyID,
		RoomID:                 i.RoomID,
		ProductID:              i.ProductID,
		ProductSpecificationID: i.ProductSpecificationID,
		DrawingID:              i.DrawingID,
	}
}

const (
	// MaxUploadSize bounds a single file; anything larger is rejected
	// locally before any network call.
	MaxUploadSize = 10 << 20

	ImageMimePrefix = "image/"
)
