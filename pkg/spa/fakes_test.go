package spa

import (
	"context"
	"sync"

	"github.com/adampresley/imagegallery/pkg/models"
)

type fakeView struct {
	lock     sync.Mutex
	renders  []string
	messages map[string]string
	modal    string
	sortable bool
	moves    []Move
}

func newFakeView() *fakeView {
	return &fakeView{messages: map[string]string{}}
}

func (v *fakeView) Render(html string) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.renders = append(v.renders, html)
}

func (v *fakeView) ShowMessage(targetID, message string) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.messages[targetID] = message
}

func (v *fakeView) ClearMessage(targetID string) {
	v.lock.Lock()
	defer v.lock.Unlock()
	delete(v.messages, targetID)
}

func (v *fakeView) ShowModal(html string) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.modal = html
}

func (v *fakeView) HideModal() {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.modal = ""
}

func (v *fakeView) SetSortable(enabled bool) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.sortable = enabled
}

func (v *fakeView) MoveItem(move Move) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.moves = append(v.moves, move)
}

func (v *fakeView) lastRender() string {
	v.lock.Lock()
	defer v.lock.Unlock()

	if len(v.renders) == 0 {
		return ""
	}

	return v.renders[len(v.renders)-1]
}

func (v *fakeView) message(targetID string) string {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.messages[targetID]
}

/*
fakeLocation behaves like window.location: setting a different hash fires
onChange, setting the same hash does nothing.
*/
type fakeLocation struct {
	lock     sync.Mutex
	hash     string
	assigned []string
	onChange func()
}

func (l *fakeLocation) Hash() string {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.hash
}

func (l *fakeLocation) SetHash(hash string) {
	l.lock.Lock()
	changed := l.hash != hash
	l.hash = hash
	onChange := l.onChange
	l.lock.Unlock()

	if changed && onChange != nil {
		onChange()
	}
}

func (l *fakeLocation) Assign(url string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.assigned = append(l.assigned, url)
}

type fakeGallery struct {
	lock  sync.Mutex
	calls []string

	home    *models.HomePageData
	homeErr error

	albums    map[int]*models.AlbumPageData
	albumErr  error
	albumGate chan struct{}
	entered   chan int

	response models.ActionResponse
	err      error
	taken    bool

	signUp   models.SignUpRequest
	addImage models.AddImageRequest
	deadline bool
	order    []int
	comment  string
	prewarm  []int
}

func (g *fakeGallery) record(call string) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.calls = append(g.calls, call)
}

func (g *fakeGallery) called(call string) int {
	g.lock.Lock()
	defer g.lock.Unlock()

	count := 0
	for _, c := range g.calls {
		if c == call {
			count++
		}
	}

	return count
}

func (g *fakeGallery) GetHomeData(ctx context.Context) (*models.HomePageData, error) {
	g.record("home")
	return g.home, g.homeErr
}

func (g *fakeGallery) GetAlbumData(ctx context.Context, albumID int) (*models.AlbumPageData, error) {
	g.record("album")

	if g.entered != nil {
		g.entered <- albumID
	}

	if g.albumGate != nil {
		<-g.albumGate
	}

	if g.albumErr != nil {
		return nil, g.albumErr
	}

	return g.albums[albumID], nil
}

func (g *fakeGallery) SignUp(ctx context.Context, request models.SignUpRequest) (models.ActionResponse, error) {
	g.record("signUp")
	g.signUp = request
	return g.response, g.err
}

func (g *fakeGallery) SignIn(ctx context.Context, request models.SignInRequest) (models.ActionResponse, error) {
	g.record("signIn")
	return g.response, g.err
}

func (g *fakeGallery) CheckUsernameAvailability(ctx context.Context, username string) (bool, error) {
	g.record("checkUsername")
	return g.taken, g.err
}

func (g *fakeGallery) CreateAlbum(ctx context.Context, albumTitle string) (models.ActionResponse, error) {
	g.record("createAlbum")
	return g.response, g.err
}

func (g *fakeGallery) AddImage(ctx context.Context, request models.AddImageRequest) (models.ActionResponse, error) {
	g.record("addImage")
	g.addImage = request
	_, g.deadline = ctx.Deadline()
	return g.response, g.err
}

func (g *fakeGallery) LogoutHome(ctx context.Context) (models.ActionResponse, error) {
	g.record("logoutHome")
	return g.response, g.err
}

func (g *fakeGallery) LogoutAlbum(ctx context.Context, albumID int) (models.ActionResponse, error) {
	g.record("logoutAlbum")
	return g.response, g.err
}

func (g *fakeGallery) ReturnToHome(ctx context.Context, albumID int) (models.ActionResponse, error) {
	g.record("returnToHome")
	return g.response, g.err
}

func (g *fakeGallery) SaveOrder(ctx context.Context, albumID int, sortedImageIDs []int) (models.ActionResponse, error) {
	g.record("saveOrder")
	g.order = sortedImageIDs
	return g.response, g.err
}

func (g *fakeGallery) AddComment(ctx context.Context, albumID, imageID int, commentText string) (models.ActionResponse, error) {
	g.record("addComment")
	g.comment = commentText
	return g.response, g.err
}

func (g *fakeGallery) DeleteImage(ctx context.Context, albumID, imageID int) (models.ActionResponse, error) {
	g.record("deleteImage")
	return g.response, g.err
}

func (g *fakeGallery) PrewarmThumbnails(ctx context.Context, imageIDs []int) error {
	g.record("prewarm")
	g.lock.Lock()
	defer g.lock.Unlock()
	g.prewarm = imageIDs
	return nil
}

func testHomeData() *models.HomePageData {
	return &models.HomePageData{
		User:        &models.User{Username: "alice", Email: "alice@example.com"},
		MyAlbums:    []models.Album{{AlbumID: 1, AlbumTitle: "alice", AlbumCreator: "alice"}, {AlbumID: 2, AlbumTitle: "Beach Trip", AlbumCreator: "alice"}},
		OtherAlbums: []models.Album{},
		UserStats:   &models.UserStats{NumAlbums: 2},
		UserAlbumID: 1,
	}
}

func testAlbumData(albumID, imageCount int) *models.AlbumPageData {
	album := &models.AlbumDetails{
		Album:  models.Album{AlbumID: albumID, AlbumTitle: "Beach Trip", AlbumCreator: "alice"},
		Images: []models.Image{},
	}

	for i := 1; i <= imageCount; i++ {
		album.Images = append(album.Images, models.Image{
			ImageID:    i * 10,
			ImageTitle: "image",
			Comments:   []models.Comment{},
		})
	}

	return &models.AlbumPageData{Album: album, PageSize: 5}
}

/*
newTestApp wires an App to fakes. Hash changes route synchronously, the
way the browser's hashchange listener would.
*/
func newTestApp(gallery *fakeGallery, hash string) (*App, *fakeView, *fakeLocation) {
	view := newFakeView()
	location := &fakeLocation{hash: hash}

	app := NewApp(AppConfig{
		Client:   gallery,
		View:     view,
		Location: location,
	})

	location.onChange = func() {
		app.Route(context.Background())
	}

	return app, view, location
}
