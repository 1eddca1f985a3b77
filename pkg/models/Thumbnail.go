package models

type Thumbnail struct {
	ImageID     int    `db:"image_id"`
	Size        int    `db:"size"`
	ObjectKey   string `db:"object_key"`
	ContentType string `db:"content_type"`
	CreatedAt   int64  `db:"created_at"`
}
