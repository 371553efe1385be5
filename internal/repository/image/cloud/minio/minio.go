package minio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"interior-media/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/zlog"
)

// FileRepository mints time-limited presigned PUT URLs and removes objects.
// The service itself never proxies image bytes; clients talk to storage
// directly through the capability URL.
type FileRepository struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
	presignExpiry time.Duration
	logger        *zlog.Zerolog
}

func NewMinIORepository(cfg *config.Config, logger *zlog.Zerolog) (*FileRepository, error) {
	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &FileRepository{
		client:        client,
		bucket:        cfg.Storage.Bucket,
		publicBaseURL: strings.TrimRight(cfg.Storage.PublicBaseURL, "/"),
		presignExpiry: cfg.Storage.PresignExpiry,
		logger:        logger,
	}, nil
}

// EnsureBucket creates the bucket when missing. Called once at startup.
func (r *FileRepository) EnsureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	r.logger.Info().Str("bucket", r.bucket).Msg("Bucket created")
	return nil
}

// PresignedPut returns a capability URL authorizing a single direct PUT of
// the object, valid for the configured expiry.
func (r *FileRepository) PresignedPut(ctx context.Context, objectKey string) (string, error) {
	u, err := r.client.PresignedPutObject(ctx, r.bucket, objectKey, r.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign put: %w", err)
	}
	return u.String(), nil
}

// PublicURL is where the object resolves once uploaded.
func (r *FileRepository) PublicURL(objectKey string) string {
	return r.publicBaseURL + "/" + objectKey
}

func (r *FileRepository) DeleteObject(ctx context.Context, objectKey string) error {
	if err := r.client.RemoveObject(ctx, r.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}
