package views

import (
	"github.com/adampresley/imagegallery/pkg/models"
)

type AlbumLink struct {
	AlbumID int
	Title   string
	Creator string
	Href    string
}

type HomeView struct {
	Username         string
	Email            string
	UserAlbumID      int
	MyAlbums         []AlbumLink
	OtherAlbums      []AlbumLink
	SelectableAlbums []AlbumLink
	Stats            models.UserStats
}

/*
ImageSlot is one cell of the album grid. Empty slots keep the grid the
same size on the last page.
*/
type ImageSlot struct {
	Empty        bool
	Index        int
	ImageID      int
	Title        string
	ThumbnailURL string
}

type OrderItem struct {
	ImageID int
	Title   string
}

type AlbumView struct {
	Pagination

	AlbumID  int
	Title    string
	Creator  string
	Date     string
	Slots    []ImageSlot
	Order    []OrderItem
	PrevHash string
	NextHash string
}

type CommentView struct {
	Author string
	Text   string
}

type ImageModalView struct {
	AlbumID     int
	ImageID     int
	Title       string
	Description string
	Uploader    string
	Date        string
	ImageURL    string
	Comments    []CommentView
}
