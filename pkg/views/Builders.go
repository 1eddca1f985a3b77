/*
Package views renders the HTML fragments the single page app swaps into
its root element. Server data is first mapped onto typed view models, and
html/template escapes every user supplied string on the way out.
*/
package views

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"

	"github.com/adampresley/imagegallery/pkg/models"
)

const (
	ErrorLoadingPage = "Error loading page."
)

var (
	//go:embed templates
	templateFS embed.FS

	templates = template.Must(template.New("views").ParseFS(templateFS, "templates/*.html"))
)

/*
BuildHome renders the home page panels. A payload missing the user, either
album list or the stats yields the error fragment.
*/
func BuildHome(data *models.HomePageData) string {
	if data == nil || data.User == nil || data.MyAlbums == nil || data.OtherAlbums == nil || data.UserStats == nil {
		return BuildError(ErrorLoadingPage)
	}

	view := HomeView{
		Username:         data.User.Username,
		Email:            data.User.Email,
		UserAlbumID:      data.UserAlbumID,
		MyAlbums:         albumLinks(data.MyAlbums),
		OtherAlbums:      albumLinks(data.OtherAlbums),
		SelectableAlbums: []AlbumLink{},
		Stats:            *data.UserStats,
	}

	for _, link := range view.MyAlbums {
		if link.AlbumID != data.UserAlbumID {
			view.SelectableAlbums = append(view.SelectableAlbums, link)
		}
	}

	return render("home", view)
}

/*
BuildAlbum renders one page of an album. page is clamped into the album's
range before anything is sliced.
*/
func BuildAlbum(data *models.AlbumPageData, page int) string {
	if data == nil || data.Album == nil || data.PageSize <= 0 {
		return BuildError(ErrorLoadingPage)
	}

	album := data.Album
	pagination := Paginate(len(album.Images), data.PageSize, page)

	view := AlbumView{
		Pagination: pagination,
		AlbumID:    album.AlbumID,
		Title:      album.AlbumTitle,
		Creator:    album.AlbumCreator,
		Date:       album.AlbumDate,
		Slots:      make([]ImageSlot, 0, data.PageSize),
		Order:      make([]OrderItem, 0, len(album.Images)),
	}

	if pagination.HasPrev {
		view.PrevHash = AlbumHash(album.AlbumID, pagination.Page-1)
	}

	if pagination.HasNext {
		view.NextHash = AlbumHash(album.AlbumID, pagination.Page+1)
	}

	for index := pagination.Start; index < pagination.End; index++ {
		image := album.Images[index]

		view.Slots = append(view.Slots, ImageSlot{
			Index:        index,
			ImageID:      image.ImageID,
			Title:        image.ImageTitle,
			ThumbnailURL: ThumbnailURL(image.ImageID),
		})
	}

	for range pagination.Placeholders {
		view.Slots = append(view.Slots, ImageSlot{Empty: true})
	}

	for _, image := range album.Images {
		view.Order = append(view.Order, OrderItem{
			ImageID: image.ImageID,
			Title:   image.ImageTitle,
		})
	}

	return render("album", view)
}

func BuildImageModal(albumID int, image models.Image) string {
	view := ImageModalView{
		AlbumID:     albumID,
		ImageID:     image.ImageID,
		Title:       image.ImageTitle,
		Description: image.ImageText,
		Uploader:    image.ImageUploader,
		Date:        image.ImageDate,
		ImageURL:    ImageURL(image.ImageID),
		Comments:    make([]CommentView, 0, len(image.Comments)),
	}

	for _, comment := range image.Comments {
		view.Comments = append(view.Comments, CommentView{
			Author: comment.CommentAuthor,
			Text:   comment.CommentText,
		})
	}

	return render("image-modal", view)
}

func BuildLoading() string {
	return BuildError("Loading...")
}

func BuildError(message string) string {
	return "<p>" + template.HTMLEscapeString(message) + "</p>"
}

func render(name string, view any) string {
	var (
		err error
		buf bytes.Buffer
	)

	if err = templates.ExecuteTemplate(&buf, name, view); err != nil {
		slog.Error("error rendering view", "template", name, "error", err)
		return BuildError(ErrorLoadingPage)
	}

	return buf.String()
}

func albumLinks(albums []models.Album) []AlbumLink {
	result := make([]AlbumLink, 0, len(albums))

	for _, album := range albums {
		result = append(result, AlbumLink{
			AlbumID: album.AlbumID,
			Title:   album.AlbumTitle,
			Creator: album.AlbumCreator,
			Href:    AlbumHash(album.AlbumID, 0),
		})
	}

	return result
}
