package models

type Album struct {
	AlbumID      int    `json:"albumId"`
	AlbumCreator string `json:"albumCreator"`
	AlbumTitle   string `json:"albumTitle"`
	AlbumDate    string `json:"albumDate,omitempty"`
}

/*
AlbumDetails is the album as returned by GET ./album, carrying its images
in the viewer's saved order.
*/
type AlbumDetails struct {
	Album

	Images []Image `json:"images"`
}
