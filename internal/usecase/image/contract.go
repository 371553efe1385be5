package image

import (
	"context"

	"interior-media/internal/domain"
	"interior-media/internal/repository/image/db/postgres"

	"github.com/wb-go/wbf/retry"
)

type imageRepository interface {
	Save(ctx context.Context, img *domain.Image, objectKey string) error
	UpdateStatus(ctx context.Context, id string, status domain.ImageStatus) error
	UpdateType(ctx context.Context, id string, imageType domain.ImageType) error
	Delete(ctx context.Context, id string) error
	GetObjectKey(ctx context.Context, id string) (string, error)
	List(ctx context.Context, filter postgres.ListFilter) ([]domain.Image, error)
}

type fileRepository interface {
	PresignedPut(ctx context.Context, objectKey string) (string, error)
	PublicURL(objectKey string) string
	DeleteObject(ctx context.Context, objectKey string) error
}

type statusProducer interface {
	Send(ctx context.Context, strategy retry.Strategy, key, value []byte) error
}
