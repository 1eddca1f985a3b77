package models

type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserStats struct {
	NumAlbums   int `json:"numAlbums"`
	NumImages   int `json:"numImages"`
	NumComments int `json:"numComments"`
}
