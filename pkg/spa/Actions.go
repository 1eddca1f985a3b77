package spa

import (
	"context"
	"encoding/base64"
	"errors"
	"slices"

	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/adampresley/imagegallery/pkg/services"
	"github.com/adampresley/imagegallery/pkg/validation"
	"github.com/adampresley/imagegallery/pkg/views"
)

type actionHandler func(a *App, ctx context.Context, event Event)

/*
actions maps the data-action attribute of a page element to what happens
when the user triggers it. Elements are found by delegation from a stable
root, so nothing is bound per render.
*/
var actions = map[string]actionHandler{
	"signUp":        (*App).signUp,
	"signIn":        (*App).signIn,
	"checkUsername": (*App).checkUsername,
	"createAlbum":   (*App).createAlbum,
	"addImage":      (*App).addImage,
	"logoutHome":    (*App).logoutHome,
	"logoutAlbum":   (*App).logoutAlbum,
	"returnToHome":  (*App).returnToHome,
	"openImage":     (*App).openImage,
	"closeImage":    (*App).closeImage,
	"addComment":    (*App).addComment,
	"deleteImage":   (*App).deleteImage,
	"editOrder":     (*App).editOrder,
	"saveOrder":     (*App).saveOrder,
	"dragStart":     (*App).dragStart,
	"dragOver":      (*App).dragOver,
	"dragEnd":       (*App).dragEnd,
}

func HasAction(action string) bool {
	_, ok := actions[action]
	return ok
}

/*
Handle runs the action named by event.Action. Unknown actions are ignored.
*/
func (a *App) Handle(ctx context.Context, event Event) {
	handler, ok := actions[event.Action]
	if !ok {
		a.logger.Debug("ignoring unknown action", "action", event.Action)
		return
	}

	handler(a, ctx, event)
}

/*
Dispatch runs the action on its own goroutine and returns a channel that is
closed once it finishes. Actions carry no deadline, so an upload of the
largest allowed image can take as long as the link needs.
*/
func (a *App) Dispatch(event Event) <-chan struct{} {
	done := make(chan struct{})

	if !HasAction(event.Action) {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		a.Handle(context.Background(), event)
	}()

	return done
}

func (a *App) signUp(ctx context.Context, event Event) {
	request := models.SignUpRequest{
		Email:     event.TrimmedField("email"),
		Username:  event.TrimmedField("username"),
		Password1: event.Field("password1"),
		Password2: event.Field("password2"),
	}

	a.view.ClearMessage(targetSignUpError)
	a.view.ClearMessage(targetSignUpSuccess)

	switch {
	case !validation.IsValidEmail(request.Email):
		a.view.ShowMessage(targetSignUpError, MsgInvalidEmail)
		return

	case !validation.IsValidUsername(request.Username):
		a.view.ShowMessage(targetSignUpError, MsgInvalidUsername)
		return

	case !validation.IsValidPassword(request.Password1):
		a.view.ShowMessage(targetSignUpError, MsgInvalidPassword)
		return

	case request.Password1 != request.Password2:
		a.view.ShowMessage(targetSignUpError, MsgPasswordsDontMatch)
		return
	}

	response, err := a.client.SignUp(ctx, request)
	if err != nil {
		a.showActionError(targetSignUpError, err, MsgSignUpFailed)
		return
	}

	if response.Redirect != "" {
		a.location.Assign(response.Redirect)
	}
}

func (a *App) signIn(ctx context.Context, event Event) {
	request := models.SignInRequest{
		Email:    event.TrimmedField("email"),
		Password: event.Field("password"),
	}

	a.view.ClearMessage(targetSignInError)

	if !validation.IsValidEmail(request.Email) {
		a.view.ShowMessage(targetSignInError, MsgInvalidEmail)
		return
	}

	if !validation.IsValidPassword(request.Password) {
		a.view.ShowMessage(targetSignInError, MsgInvalidPassword)
		return
	}

	response, err := a.client.SignIn(ctx, request)
	if err != nil {
		a.showActionError(targetSignInError, err, MsgSignInFailed)
		return
	}

	if response.Redirect != "" {
		a.location.Assign(response.Redirect)
	}
}

/*
checkUsername runs when the sign up username field loses focus.
*/
func (a *App) checkUsername(ctx context.Context, event Event) {
	username := event.TrimmedField("username")

	a.view.ClearMessage(targetSignUpError)
	a.view.ClearMessage(targetSignUpSuccess)

	if username == "" {
		return
	}

	taken, err := a.client.CheckUsernameAvailability(ctx, username)
	if err != nil {
		a.logger.Error("error checking username availability", "error", err, "username", username)
		a.view.ShowMessage(targetSignUpError, MsgServerError)
		return
	}

	if taken {
		a.view.ShowMessage(targetSignUpError, MsgUsernameTaken)
		return
	}

	a.view.ShowMessage(targetSignUpSuccess, MsgUsernameAvailable)
}

func (a *App) createAlbum(ctx context.Context, event Event) {
	albumTitle := event.Field("albumTitle")

	a.view.ClearMessage(targetCreateAlbumError)

	if !validation.IsValidTitle(albumTitle) {
		a.view.ShowMessage(targetCreateAlbumError, MsgInvalidAlbumTitle)
		return
	}

	response, err := a.client.CreateAlbum(ctx, albumTitle)
	if err != nil {
		a.showActionError(targetCreateAlbumError, err, MsgCreateAlbumFailed)
		return
	}

	a.succeeded(ctx, FlashCreateAlbumSuccess, response)
}

/*
addImage checks the title, the description and the chosen file before the
file is read at all. The content goes to the server base64 encoded.
*/
func (a *App) addImage(ctx context.Context, event Event) {
	var (
		err      error
		content  []byte
		response models.ActionResponse
	)

	imageTitle := event.Field("imageTitle")
	imageText := event.Field("imageText")

	a.view.ClearMessage(targetAddImageError)

	if !validation.IsValidTitle(imageTitle) {
		a.view.ShowMessage(targetAddImageError, MsgInvalidImageTitle)
		return
	}

	if !validation.IsValidText(imageText) {
		a.view.ShowMessage(targetAddImageError, MsgInvalidImageText)
		return
	}

	file := event.File
	if file == nil {
		file = &File{}
	}

	if err = validation.ValidateImageFile(file.Read != nil && file.Size > 0, file.Size, file.Type); err != nil {
		a.view.ShowMessage(targetAddImageError, err.Error())
		return
	}

	if content, err = file.Read(ctx); err != nil {
		a.logger.Error("error reading image file", "error", err, "file", file.Name)
		a.view.ShowMessage(targetAddImageError, MsgImageReadError)
		return
	}

	albumSelect := event.FieldInts("albumSelect")

	if userAlbumID, ok := event.DataInt("userAlbumId"); ok && !slices.Contains(albumSelect, userAlbumID) {
		albumSelect = append([]int{userAlbumID}, albumSelect...)
	}

	response, err = a.client.AddImage(ctx, models.AddImageRequest{
		ImageTitle:    imageTitle,
		ImageText:     imageText,
		ImageFile:     base64.StdEncoding.EncodeToString(content),
		ImageMimeType: file.Type,
		AlbumSelect:   albumSelect,
	})

	if err != nil {
		a.showActionError(targetAddImageError, err, MsgAddImageFailed)
		return
	}

	a.succeeded(ctx, FlashAddImageSuccess, response)
}

func (a *App) logoutHome(ctx context.Context, event Event) {
	response, err := a.client.LogoutHome(ctx)
	a.leave(response, err)
}

func (a *App) logoutAlbum(ctx context.Context, event Event) {
	response, err := a.client.LogoutAlbum(ctx, a.albumID(event))
	a.leave(response, err)
}

func (a *App) returnToHome(ctx context.Context, event Event) {
	response, err := a.client.ReturnToHome(ctx, a.albumID(event))
	if err != nil {
		a.logger.Error("error returning to home", "error", err)
		return
	}

	if response.Redirect != "" {
		a.ForceNavigate(ctx, response.Redirect)
	}
}

func (a *App) openImage(ctx context.Context, event Event) {
	index, ok := event.DataInt("imageIndex")
	if !ok {
		return
	}

	a.lock.Lock()
	album := a.state.Album
	a.lock.Unlock()

	if album == nil || index < 0 || index >= len(album.Images) {
		return
	}

	a.view.ShowModal(views.BuildImageModal(album.AlbumID, album.Images[index]))
}

func (a *App) closeImage(ctx context.Context, event Event) {
	a.view.HideModal()
}

func (a *App) addComment(ctx context.Context, event Event) {
	albumID, albumOK := event.DataInt("albumId")
	imageID, imageOK := event.DataInt("imageId")
	commentText := event.TrimmedField("commentText")

	a.view.ClearMessage(targetAddCommentError)

	if !albumOK || !imageOK {
		a.view.ShowMessage(targetAddCommentError, MsgAddCommentFailed)
		return
	}

	if !validation.IsValidText(commentText) {
		a.view.ShowMessage(targetAddCommentError, MsgInvalidCommentText)
		return
	}

	response, err := a.client.AddComment(ctx, albumID, imageID, commentText)
	if err != nil {
		a.showActionError(targetAddCommentError, err, MsgAddCommentFailed)
		return
	}

	a.succeeded(ctx, FlashAddCommentSuccess, response)
}

func (a *App) deleteImage(ctx context.Context, event Event) {
	albumID, albumOK := event.DataInt("albumId")
	imageID, imageOK := event.DataInt("imageId")

	a.view.ClearMessage(targetDeleteImageError)

	if !albumOK || !imageOK {
		a.view.ShowMessage(targetDeleteImageError, MsgDeleteImageFailed)
		return
	}

	response, err := a.client.DeleteImage(ctx, albumID, imageID)
	if err != nil {
		a.showActionError(targetDeleteImageError, err, MsgDeleteImageFailed)
		return
	}

	a.succeeded(ctx, FlashDeleteImageSuccess, response)
}

func (a *App) editOrder(ctx context.Context, event Event) {
	a.lock.Lock()
	sorter := a.state.Sorter
	if sorter != nil {
		sorter.Edit()
	}
	a.lock.Unlock()

	if sorter == nil {
		return
	}

	a.view.ClearMessage(targetSaveOrderError)
	a.view.SetSortable(true)
}

func (a *App) saveOrder(ctx context.Context, event Event) {
	var (
		order []int
	)

	a.lock.Lock()
	sorter := a.state.Sorter
	editing := sorter != nil && sorter.Editing()
	if editing {
		order = sorter.Save()
	}
	a.lock.Unlock()

	a.view.ClearMessage(targetSaveOrderError)

	if !editing {
		a.view.ShowMessage(targetSaveOrderError, MsgSaveOrderNotEditing)
		return
	}

	a.view.SetSortable(false)

	response, err := a.client.SaveOrder(ctx, a.albumID(event), order)
	if err != nil {
		a.showActionError(targetSaveOrderError, err, MsgSaveOrderFailed)
		return
	}

	a.succeeded(ctx, FlashSaveOrderSuccess, response)
}

func (a *App) dragStart(ctx context.Context, event Event) {
	imageID, ok := event.DataInt("imageId")
	if !ok {
		return
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	if a.state.Sorter != nil {
		a.state.Sorter.DragStart(imageID)
	}
}

func (a *App) dragOver(ctx context.Context, event Event) {
	var (
		move  Move
		moved bool
	)

	overID, ok := event.DataInt("imageId")
	if !ok {
		return
	}

	a.lock.Lock()
	if a.state.Sorter != nil {
		move, moved = a.state.Sorter.DragOver(overID, event.Drag.PointerY, event.Drag.Top, event.Drag.Height)
	}
	a.lock.Unlock()

	if moved {
		a.view.MoveItem(move)
	}
}

func (a *App) dragEnd(ctx context.Context, event Event) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.state.Sorter != nil {
		a.state.Sorter.DragEnd()
	}
}

/*
succeeded stashes the server's message for the next render and follows
the redirect inside the app.
*/
func (a *App) succeeded(ctx context.Context, flashKey string, response models.ActionResponse) {
	if response.Message != "" {
		a.flash.Set(flashKey, response.Message)
	}

	if response.Redirect != "" {
		a.ForceNavigate(ctx, response.Redirect)
	}
}

/*
leave follows a logout redirect with a full page load. Failures are only
logged.
*/
func (a *App) leave(response models.ActionResponse, err error) {
	if err != nil {
		a.logger.Error("error logging out", "error", err)
		return
	}

	if response.Redirect != "" {
		a.location.Assign(response.Redirect)
	}
}

func (a *App) showActionError(targetID string, err error, fallback string) {
	var (
		apiErr *services.APIError
	)

	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = fallback
		}

		a.view.ShowMessage(targetID, message)
		return
	}

	a.logger.Error("error calling gallery server", "target", targetID, "error", err)
	a.view.ShowMessage(targetID, MsgServerError)
}

func (a *App) albumID(event Event) int {
	if albumID, ok := event.DataInt("albumId"); ok {
		return albumID
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	return a.state.Route.AlbumID
}
