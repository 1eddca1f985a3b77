package viewmodels

/*
SignInPage is the landing page with the sign up and sign in forms. Both
forms are handled by the wasm app, so the page only needs to load it.
*/
type SignInPage struct {
	BaseViewModel
	WasmPath string
}

/*
GalleryPage is the shell the single page app renders into.
*/
type GalleryPage struct {
	BaseViewModel
	WasmPath          string
	PrewarmThumbnails bool
}
