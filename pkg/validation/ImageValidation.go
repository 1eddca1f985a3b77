package validation

import (
	"bytes"
	"fmt"

	"github.com/adampresley/adamgokit/slices"
)

const (
	MaxImageSize int64 = 1024 * 1024 * 100
)

var (
	ErrImageMissing     = fmt.Errorf("Image not uploaded or empty.")
	ErrImageTooLarge    = fmt.Errorf("Image is too large. Maximum allowed size is 100 MB.")
	ErrImageInvalidType = fmt.Errorf("Invalid image type. Only JPG, JPEG, PNG or WEBP images are allowed.")

	AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/jpg"}
)

/*
ValidateImageFile checks the selected file before its content is read.
The returned error's message is meant to be shown to the user as is.
*/
func ValidateImageFile(present bool, size int64, mimeType string) error {
	if !present {
		return ErrImageMissing
	}

	if size > MaxImageSize {
		return ErrImageTooLarge
	}

	if !slices.IsInSlice(mimeType, AllowedImageTypes) {
		return ErrImageInvalidType
	}

	return nil
}

/*
DetectImageMimeType sniffs the magic bytes of JPEG, PNG and WEBP content.
An empty string means the content is none of those.
*/
func DetectImageMimeType(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"

	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return "image/png"

	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	}

	return ""
}

func ExtensionForMimeType(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpeg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}

	return ""
}
