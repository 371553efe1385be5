package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"interior-media/internal/domain"
	"interior-media/internal/repository/image"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

type ListFilter struct {
	PropertyID string
	RoomID     string
	ProductID  string
	Skip       int
	Limit      int
}

type ImagesRepository struct {
	db      *dbpg.DB
	retries retry.Strategy
}

func NewImagesRepository(db *dbpg.DB, retries retry.Strategy) *ImagesRepository {
	return &ImagesRepository{
		db:      db,
		retries: retries,
	}
}

func (r *ImagesRepository) Save(ctx context.Context, img *domain.Image, objectKey string) error {
	query := `
		INSERT INTO images (
			id, url, image_type, status,
			property_id, room_id, product_id, product_specification_id, drawing_id,
			object_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecWithRetry(ctx, r.retries, query,
		img.ID,
		img.URL,
		img.ImageType,
		img.Status,
		nullable(img.PropertyID),
		nullable(img.RoomID),
		nullable(img.ProductID),
		nullable(img.ProductSpecificationID),
		nullable(img.DrawingID),
		objectKey,
		img.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	return nil
}

func (r *ImagesRepository) UpdateStatus(ctx context.Context, id string, status domain.ImageStatus) error {
	query := `UPDATE images SET status = $1 WHERE id = $2`

	result, err := r.db.ExecWithRetry(ctx, r.retries, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	return requireAffected(result)
}

// UpdateType patches only the role column. Uniqueness of MAIN within a scope
// is advisory and creation-time only; no prior MAIN is demoted here.
func (r *ImagesRepository) UpdateType(ctx context.Context, id string, imageType domain.ImageType) error {
	query := `UPDATE images SET image_type = $1 WHERE id = $2`

	result, err := r.db.ExecWithRetry(ctx, r.retries, query, imageType, id)
	if err != nil {
		return fmt.Errorf("failed to update image type: %w", err)
	}

	return requireAffected(result)
}

// Delete removes the row outright. No soft delete.
func (r *ImagesRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM images WHERE id = $1`

	result, err := r.db.ExecWithRetry(ctx, r.retries, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return requireAffected(result)
}

func (r *ImagesRepository) GetObjectKey(ctx context.Context, id string) (string, error) {
	query := `SELECT object_key FROM images WHERE id = $1`

	row, err := r.db.QueryRowWithRetry(ctx, r.retries, query, id)
	if err != nil {
		return "", fmt.Errorf("failed to query object key: %w", err)
	}

	var key string
	err = row.Scan(&key)
	if err == sql.ErrNoRows {
		return "", image.ErrImageNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to scan object key: %w", err)
	}

	return key, nil
}

// List returns images in insertion order (created_at ascending).
func (r *ImagesRepository) List(ctx context.Context, filter ListFilter) ([]domain.Image, error) {
	var (
		conds []string
		args  []interface{}
	)

	addCond := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, column+" = $"+strconv.Itoa(len(args)))
	}
	addCond("property_id", filter.PropertyID)
	addCond("room_id", filter.RoomID)
	addCond("product_id", filter.ProductID)

	query := selectColumns + ` FROM images`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at ASC"

	args = append(args, filter.Limit)
	query += " LIMIT $" + strconv.Itoa(len(args))
	args = append(args, filter.Skip)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.QueryWithRetry(ctx, r.retries, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	var images []domain.Image
	for rows.Next() {
		img, err := scanImage(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, *img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating images: %w", err)
	}

	return images, nil
}

const selectColumns = `
	SELECT id, url, image_type, status,
	       property_id, room_id, product_id, product_specification_id, drawing_id,
	       created_at`

func scanImage(scan func(dest ...interface{}) error) (*domain.Image, error) {
	var (
		img                                              domain.Image
		propertyID, roomID, productID, specID, drawingID sql.NullString
	)

	err := scan(
		&img.ID,
		&img.URL,
		&img.ImageType,
		&img.Status,
		&propertyID,
		&roomID,
		&productID,
		&specID,
		&drawingID,
		&img.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	img.PropertyID = propertyID.String
	img.RoomID = roomID.String
	img.ProductID = productID.String
	img.ProductSpecificationID = specID.String
	img.DrawingID = drawingID.String

	return &img, nil
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return image.ErrImageNotFound
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
