package uploader

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"interior-media/internal/domain"

	"github.com/wb-go/wbf/zlog"
)

// File is one locally selected payload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Result is the terminal outcome of one file's pipeline.
type Result struct {
	FileID string
	Image  *domain.Image
	Err    error
}

// Uploader drives one pipeline per selected file: validate, resolve the
// image role, request a presigned URL, transfer with retry, finalize. Files
// in one selection run as independent concurrent pipelines with isolated
// failure domains.
type Uploader struct {
	api        *Client
	transfer   *TransferEngine
	retrier    *RetryCoordinator
	store      *ProgressStore
	logger     *zlog.Zerolog
	onComplete func(domain.Image)
}

func NewUploader(api *Client, transfer *TransferEngine, retrier *RetryCoordinator, store *ProgressStore, logger *zlog.Zerolog) *Uploader {
	return &Uploader{
		api:      api,
		transfer: transfer,
		retrier:  retrier,
		store:    store,
		logger:   logger,
	}
}

// OnComplete registers the completion callback invoked once per successfully
// uploaded image, before its task leaves the store. Collaborators typically
// refetch the affected listing from here.
func (u *Uploader) OnComplete(fn func(domain.Image)) {
	u.onComplete = fn
}

func (u *Uploader) Store() *ProgressStore {
	return u.store
}

// UploadAll fans out one pipeline per file and blocks until every pipeline
// reaches a terminal state. The listing snapshot used for role resolution is
// fetched once, up front; it is not refreshed as sibling pipelines complete.
func (u *Uploader) UploadAll(ctx context.Context, token string, scope domain.ImageScope, forced domain.ImageType, files []File) []Result {
	existing, err := u.api.ListImages(ctx, listQueryForScope(scope))
	if err != nil {
		u.logger.Warn().Err(err).Msg("Failed to fetch listing snapshot, resolving roles against an empty scope")
		existing = nil
	}

	results := make([]Result, len(files))
	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = u.uploadOne(ctx, token, scope, forced, files[i], existing)
		}(i)
	}
	wg.Wait()
	return results
}

func (u *Uploader) uploadOne(ctx context.Context, token string, scope domain.ImageScope, forced domain.ImageType, file File, existing []domain.Image) Result {
	if err := validateFile(file); err != nil {
		u.logger.Warn().Str("file", file.Name).Err(err).Msg("File rejected by local validation")
		return Result{Err: err}
	}

	fileID := newFileID(file.Name)
	u.store.Register(domain.UploadTask{
		FileID:      fileID,
		FileName:    file.Name,
		ContentType: file.ContentType,
		Size:        int64(len(file.Data)),
		Status:      domain.TaskValidating,
	})

	imageType := ResolveImageType(scope, existing, forced)

	u.setStatus(fileID, domain.TaskRequestingURL)
	ticket, err := u.api.CreatePresignedURL(ctx, token, PresignRequest{
		FileName:               file.Name,
		ContentType:            file.ContentType,
		PropertyID:             scope.PropertyID,
		RoomID:                 scope.RoomID,
		ProductID:              scope.ProductID,
		ProductSpecificationID: scope.ProductSpecificationID,
		DrawingID:              scope.DrawingID,
		ImageType:              imageType,
	})
	if err != nil {
		return u.fail(fileID, file.Name, err)
	}

	u.setStatus(fileID, domain.TaskUploading)
	_, err = u.retrier.Do(ctx, func(ctx context.Context) error {
		return u.transfer.Upload(ctx, ticket.UploadURL, file.ContentType, file.Data, func(ratio float64) {
			u.store.Update(fileID, func(t *domain.UploadTask) {
				t.Status = domain.TaskUploading
				if ratio > t.Progress {
					t.Progress = ratio
				}
			})
		})
	}, func(n int) {
		// Progress is deliberately left where the failed attempt ended.
		u.store.Update(fileID, func(t *domain.UploadTask) {
			t.Status = domain.TaskProcessing
			t.RetryCount = n
			t.Error = fmt.Sprintf("retrying (%d/%d)", n, u.retrier.maxRetries)
		})
	})
	if err != nil {
		return u.fail(fileID, file.Name, err)
	}

	u.setStatus(fileID, domain.TaskFinalizing)
	if err := u.api.FinalizeStatus(ctx, token, ticket.ImageID, domain.StatusCompleted); err != nil {
		// The bytes landed but the record stays pending server-side;
		// the orphan is reported, not reconciled, here.
		return u.fail(fileID, file.Name, err)
	}

	u.store.Update(fileID, func(t *domain.UploadTask) {
		t.Status = domain.TaskCompleted
		t.Progress = 1
		t.Error = ""
	})

	img := domain.Image{
		ID:                     ticket.ImageID,
		URL:                    ticket.ImageURL,
		ImageType:              imageType,
		Status:                 domain.StatusCompleted,
		PropertyID:             scope.PropertyID,
		RoomID:                 scope.RoomID,
		ProductID:              scope.ProductID,
		ProductSpecificationID: scope.ProductSpecificationID,
		DrawingID:              scope.DrawingID,
	}
	if u.onComplete != nil {
		u.onComplete(img)
	}
	u.store.Remove(fileID)

	u.logger.Info().
		Str("file_id", fileID).
		Str("image_id", img.ID).
		Str("image_type", string(img.ImageType)).
		Msg("Upload completed")

	return Result{FileID: fileID, Image: &img}
}

func (u *Uploader) setStatus(fileID string, status domain.TaskStatus) {
	u.store.Update(fileID, func(t *domain.UploadTask) {
		t.Status = status
	})
}

// fail moves the task to its terminal error state. The entry stays in the
// store for user visibility; recovery requires re-selecting the file.
func (u *Uploader) fail(fileID, fileName string, err error) Result {
	u.store.Update(fileID, func(t *domain.UploadTask) {
		t.Status = domain.TaskError
		t.Error = err.Error()
	})
	u.logger.Error().Str("file_id", fileID).Str("file", fileName).Err(err).Msg("Upload failed")
	return Result{FileID: fileID, Err: err}
}

func validateFile(file File) error {
	if int64(len(file.Data)) > domain.MaxUploadSize {
		return &ValidationError{Reason: fmt.Sprintf("file exceeds %d MB limit", domain.MaxUploadSize/(1024*1024))}
	}
	if !strings.HasPrefix(file.ContentType, domain.ImageMimePrefix) {
		return &ValidationError{Reason: "file must be an image"}
	}
	return nil
}

func newFileID(name string) string {
	return name + "-" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

func listQueryForScope(scope domain.ImageScope) ListQuery {
	return ListQuery{
		PropertyID: scope.PropertyID,
		RoomID:     scope.RoomID,
		ProductID:  scope.ProductID,
	}
}
