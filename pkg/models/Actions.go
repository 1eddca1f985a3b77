package models

/*
ActionResponse is the JSON body every POST action answers with, on
success and on failure alike.
*/
type ActionResponse struct {
	Message         string `json:"message,omitempty"`
	Redirect        string `json:"redirect,omitempty"`
	IsUsernameTaken bool   `json:"isUsernameTaken,omitempty"`
}

/*
ActionEnvelope is embedded in every action payload. Its tag is encoded
next to the payload's own fields, so {"action": <tag>, ...fields} is
written in a single pass.
*/
type ActionEnvelope struct {
	Action string `json:"action"`
}

func (e *ActionEnvelope) SetAction(action string) {
	e.Action = action
}

type ActionPayload interface {
	SetAction(action string)
}

type SignUpRequest struct {
	ActionEnvelope
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

type SignInRequest struct {
	ActionEnvelope
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
AddImageRequest carries the image content base64 encoded, without the
data URL prefix.
*/
type AddImageRequest struct {
	ActionEnvelope
	ImageTitle    string `json:"imageTitle"`
	ImageText     string `json:"imageText"`
	ImageFile     string `json:"imageFile"`
	ImageMimeType string `json:"imageMimeType"`
	AlbumSelect   []int  `json:"albumSelect"`
}

type UsernameRequest struct {
	ActionEnvelope
	Username string `json:"username"`
}

type CreateAlbumRequest struct {
	ActionEnvelope
	AlbumTitle string `json:"albumTitle"`
}

type SaveOrderRequest struct {
	ActionEnvelope
	SortedImageIDs []int `json:"sortedImageIds"`
}

type AddCommentRequest struct {
	ActionEnvelope
	CommentText string `json:"commentText"`
}
