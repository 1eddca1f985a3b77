package views

import (
	"fmt"
	"strconv"
)

const (
	HomeHash = "#home"
)

func AlbumHash(albumID, page int) string {
	return fmt.Sprintf("#album?albumId=%d&page=%d", albumID, page)
}

/*
ImageURL is the relative address the browser loads a full size image from.
*/
func ImageURL(imageID int) string {
	return "./uploads?imageId=" + strconv.Itoa(imageID)
}

func ThumbnailURL(imageID int) string {
	return "./thumbnails?imageId=" + strconv.Itoa(imageID)
}
