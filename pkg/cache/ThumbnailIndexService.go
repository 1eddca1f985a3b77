package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type ThumbnailIndexServicer interface {
	Get(ctx context.Context, imageID, size int) (*models.Thumbnail, error)
	Save(ctx context.Context, thumbnail models.Thumbnail) error
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]models.Thumbnail, error)
	Delete(ctx context.Context, imageID, size int) error
}

type ThumbnailIndexServiceConfig struct {
	DB *sqlz.DB
}

/*
ThumbnailIndexService records which thumbnails exist in the object store,
keyed by image and edge size.
*/
type ThumbnailIndexService struct {
	db *sqlz.DB
}

func NewThumbnailIndexService(config ThumbnailIndexServiceConfig) ThumbnailIndexService {
	return ThumbnailIndexService{
		db: config.DB,
	}
}

/*
Get returns ErrThumbnailNotFound when nothing was indexed for the pair.
*/
func (s ThumbnailIndexService) Get(ctx context.Context, imageID, size int) (*models.Thumbnail, error) {
	var (
		err error
	)

	result := &models.Thumbnail{}

	sql := `
SELECT
	image_id
	, size
	, object_key
	, content_type
	, created_at
FROM thumbnails
WHERE 1=1
	AND image_id=?
	AND size=?
	`

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql, imageID, size); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, ErrThumbnailNotFound
		}

		return nil, fmt.Errorf("error querying for thumbnail of image %d, size %d: %w", imageID, size, err)
	}

	return result, nil
}

func (s ThumbnailIndexService) Save(ctx context.Context, thumbnail models.Thumbnail) error {
	var (
		err error
	)

	if thumbnail.CreatedAt == 0 {
		thumbnail.CreatedAt = time.Now().Unix()
	}

	sql := `
INSERT INTO thumbnails (
	image_id,
	size,
	object_key,
	content_type,
	created_at
) VALUES (?, ?, ?, ?, ?)
ON CONFLICT (image_id, size) DO UPDATE SET
	object_key=excluded.object_key,
	content_type=excluded.content_type,
	created_at=excluded.created_at
`

	params := []any{
		thumbnail.ImageID,
		thumbnail.Size,
		thumbnail.ObjectKey,
		thumbnail.ContentType,
		thumbnail.CreatedAt,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error saving thumbnail of image %d, size %d: %w", thumbnail.ImageID, thumbnail.Size, err)
	}

	return nil
}

func (s ThumbnailIndexService) ListOlderThan(ctx context.Context, cutoff time.Time) ([]models.Thumbnail, error) {
	var (
		err error
	)

	result := []models.Thumbnail{}

	sql := `
SELECT
	image_id
	, size
	, object_key
	, content_type
	, created_at
FROM thumbnails
WHERE 1=1
	AND created_at < ?
ORDER BY created_at ASC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql, cutoff.Unix()); err != nil {
		return result, fmt.Errorf("error querying for thumbnails older than %s: %w", cutoff.Format(time.RFC3339), err)
	}

	return result, nil
}

func (s ThumbnailIndexService) Delete(ctx context.Context, imageID, size int) error {
	var (
		err error
	)

	sql := `
DELETE FROM thumbnails
WHERE 1=1
	AND image_id = ?
	AND size = ?
`

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, imageID, size); err != nil {
		return fmt.Errorf("error removing thumbnail of image %d, size %d: %w", imageID, size, err)
	}

	return nil
}
