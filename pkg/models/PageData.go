package models

/*
HomePageData is the payload of GET ./home. Slices are nil when the
server omitted them, which the page builder treats as a malformed payload.
*/
type HomePageData struct {
	User        *User      `json:"user"`
	MyAlbums    []Album    `json:"myAlbums"`
	OtherAlbums []Album    `json:"otherAlbums"`
	UserStats   *UserStats `json:"userStats"`
	UserAlbumID int        `json:"userAlbumId"`
}

/*
AlbumPageData is the payload of GET ./album?albumId=N.
*/
type AlbumPageData struct {
	Album    *AlbumDetails `json:"album"`
	PageSize int           `json:"pageSize"`
}
