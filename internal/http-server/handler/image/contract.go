package image

import (
	"context"

	"interior-media/internal/domain"
	"interior-media/internal/repository/image/db/postgres"
	image_uc "interior-media/internal/usecase/image"
)

type imageUsecase interface {
	CreatePresignedUpload(ctx context.Context, params image_uc.PresignParams) (*domain.UploadTicket, error)
	UpdateStatus(ctx context.Context, id string, status domain.ImageStatus) error
	UpdateType(ctx context.Context, id string, imageType domain.ImageType) error
	DeleteImage(ctx context.Context, id string) error
	ListImages(ctx context.Context, filter postgres.ListFilter) ([]domain.Image, error)
}
