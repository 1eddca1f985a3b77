package spa

const (
	MsgServerError = "Server error."

	MsgHomeLoadError  = "Error loading home page. Please try again."
	MsgAlbumLoadError = "Error loading album page. Please try again."

	MsgInvalidEmail        = "Invalid email."
	MsgInvalidUsername     = "Invalid username."
	MsgInvalidPassword     = "Invalid password."
	MsgPasswordsDontMatch  = "Passwords don't match."
	MsgUsernameTaken       = "Username is already taken."
	MsgUsernameAvailable   = "Username available."
	MsgInvalidAlbumTitle   = "Invalid album title."
	MsgInvalidImageTitle   = "Invalid image title."
	MsgInvalidImageText    = "Invalid image description."
	MsgInvalidCommentText  = "Invalid comment text."
	MsgImageReadError      = "Error reading image file."
	MsgSignUpFailed        = "Error during sign up."
	MsgSignInFailed        = "Error during sign in."
	MsgCreateAlbumFailed   = "Error creating album."
	MsgAddImageFailed      = "Error adding image."
	MsgAddCommentFailed    = "Error adding comment."
	MsgDeleteImageFailed   = "Error deleting image."
	MsgSaveOrderFailed     = "Error saving order."
	MsgSaveOrderNotEditing = "Select Edit Order before saving."
)

const (
	targetSignUpError      = "signUpError"
	targetSignUpSuccess    = "signUpSuccess"
	targetSignInError      = "signInError"
	targetCreateAlbumError = "createAlbumError"
	targetAddImageError    = "addImageError"
	targetAddCommentError  = "addCommentError"
	targetDeleteImageError = "deleteImageError"
	targetSaveOrderError   = "saveOrderError"
)
