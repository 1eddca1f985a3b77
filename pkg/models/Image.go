package models

type Image struct {
	ImageID       int       `json:"imageId"`
	ImageUploader string    `json:"imageUploader"`
	ImageTitle    string    `json:"imageTitle"`
	ImageDate     string    `json:"imageDate"`
	ImageText     string    `json:"imageText"`
	ImagePath     string    `json:"imagePath,omitempty"`
	Comments      []Comment `json:"comments"`
}

type Comment struct {
	CommentID     int    `json:"commentId,omitempty"`
	ImageID       int    `json:"imageId,omitempty"`
	CommentAuthor string `json:"commentAuthor"`
	CommentText   string `json:"commentText"`
}
