package image

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"interior-media/internal/domain"
	repoImage "interior-media/internal/repository/image"
	"interior-media/internal/repository/image/db/postgres"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// PresignParams is everything the caller supplies when requesting an upload
// ticket. The role is resolved client-side; the server records it as given.
type PresignParams struct {
	FileName               string
	ContentType            string
	PropertyID             string
	RoomID                 string
	ProductID              string
	ProductSpecificationID string
	DrawingID              string
	ImageType              domain.ImageType
}

type ImageUsecase struct {
	repo     imageRepository
	fileRepo fileRepository
	producer statusProducer
	logger   *zlog.Zerolog
	retries  retry.Strategy
}

func NewImageUsecase(repo imageRepository, fileRepo fileRepository, producer statusProducer, logger *zlog.Zerolog, retries retry.Strategy) *ImageUsecase {
	return &ImageUsecase{
		repo:     repo,
		fileRepo: fileRepo,
		producer: producer,
		logger:   logger,
		retries:  retries,
	}
}

// CreatePresignedUpload mints an image id, records a pending Image row and
// returns the upload ticket. The record is not bound to any bytes until the
// status is finalized.
func (u *ImageUsecase) CreatePresignedUpload(ctx context.Context, params PresignParams) (*domain.UploadTicket, error) {
	scope := domain.ImageScope{
		PropertyID:             params.PropertyID,
		RoomID:                 params.RoomID,
		ProductID:              params.ProductID,
		ProductSpecificationID: params.ProductSpecificationID,
		DrawingID:              params.DrawingID,
	}
	if scope.IsZero() {
		return nil, ErrInvalidScope
	}

	imageID := uuid.New().String()
	objectKey := imageID + filepath.Ext(params.FileName)

	uploadURL, err := u.fileRepo.PresignedPut(ctx, objectKey)
	if err != nil {
		u.logger.Error().Err(err).Str("file_name", params.FileName).Msg("Failed to presign upload")
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	img := &domain.Image{
		ID:                     imageID,
		URL:                    u.fileRepo.PublicURL(objectKey),
		ImageType:              params.ImageType,
		Status:                 domain.StatusPending,
		PropertyID:             params.PropertyID,
		RoomID:                 params.RoomID,
		ProductID:              params.ProductID,
		ProductSpecificationID: params.ProductSpecificationID,
		DrawingID:              params.DrawingID,
		CreatedAt:              time.Now(),
	}

	if err := u.repo.Save(ctx, img, objectKey); err != nil {
		return nil, fmt.Errorf("failed to save image record: %w", err)
	}

	u.publishStatus(ctx, imageID, domain.StatusPending)

	u.logger.Info().
		Str("image_id", imageID).
		Str("image_type", string(params.ImageType)).
		Msg("Presigned upload created")

	return &domain.UploadTicket{
		ImageID:   imageID,
		UploadURL: uploadURL,
		ImageURL:  img.URL,
	}, nil
}

// UpdateStatus marks the record completed (or back to pending). Completion
// is published to the broker so collaborators can refetch listings.
func (u *ImageUsecase) UpdateStatus(ctx context.Context, id string, status domain.ImageStatus) error {
	if err := u.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repoImage.ErrImageNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to update status: %w", err)
	}

	u.publishStatus(ctx, id, status)

	u.logger.Info().Str("image_id", id).Str("status", string(status)).Msg("Image status updated")
	return nil
}

// UpdateType changes only the image's role. A previously existing MAIN in
// the same scope is left untouched.
func (u *ImageUsecase) UpdateType(ctx context.Context, id string, imageType domain.ImageType) error {
	if err := u.repo.UpdateType(ctx, id, imageType); err != nil {
		if errors.Is(err, repoImage.ErrImageNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to update type: %w", err)
	}

	u.logger.Info().Str("image_id", id).Str("image_type", string(imageType)).Msg("Image type updated")
	return nil
}

// DeleteImage removes the storage object, then hard-deletes the record.
func (u *ImageUsecase) DeleteImage(ctx context.Context, id string) error {
	objectKey, err := u.repo.GetObjectKey(ctx, id)
	if err != nil {
		if errors.Is(err, repoImage.ErrImageNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to get image for deletion: %w", err)
	}

	if err := u.fileRepo.DeleteObject(ctx, objectKey); err != nil {
		u.logger.Error().Err(err).Str("object_key", objectKey).Msg("Failed to delete storage object")
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repoImage.ErrImageNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to delete image: %w", err)
	}

	u.logger.Info().Str("image_id", id).Msg("Image deleted")
	return nil
}

func (u *ImageUsecase) ListImages(ctx context.Context, filter postgres.ListFilter) ([]domain.Image, error) {
	images, err := u.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// publishStatus is advisory: a broker failure is logged, never surfaced.
func (u *ImageUsecase) publishStatus(ctx context.Context, imageID string, status domain.ImageStatus) {
	event := domain.StatusEvent{
		ImageID:   imageID,
		Status:    status,
		Timestamp: time.Now().Unix(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		u.logger.Error().Err(err).Str("image_id", imageID).Msg("Failed to encode status event")
		return
	}

	if err := u.producer.Send(ctx, u.retries, []byte(imageID), value); err != nil {
		u.logger.Error().Err(err).Str("image_id", imageID).Msg("Failed to publish status event")
	}
}
