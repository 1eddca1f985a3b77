package cache

import (
	"fmt"
)

var (
	ErrThumbnailNotFound  = fmt.Errorf("thumbnail not found")
	ErrThumbnailForbidden = fmt.Errorf("not allowed to view this image")
	ErrUnsupportedImage   = fmt.Errorf("unsupported image type")
)
