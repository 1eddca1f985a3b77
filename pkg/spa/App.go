/*
Package spa is the client side of the gallery: it routes location hashes
to page loads, renders the fetched data through the views package, and
reacts to the user's clicks, submits and drags.
*/
package spa

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/adampresley/imagegallery/pkg/services"
	"github.com/adampresley/imagegallery/pkg/views"
)

type AppConfig struct {
	Client            services.GalleryServicer
	View              View
	Location          Location
	Flash             FlashStore
	Logger            *slog.Logger
	PrewarmThumbnails bool
}

/*
AppState is what the app remembers between events. Each successful page
load replaces it as a whole.
*/
type AppState struct {
	Route    Route
	Home     *models.HomePageData
	Album    *models.AlbumDetails
	PageSize int
	Sorter   *Sorter
}

/*
App owns the page. Every Route call starts a new navigation and cancels
the previous one. A page load only touches the view while its navigation
is still the latest, so a slow response can never overwrite a newer page.
*/
type App struct {
	client   services.GalleryServicer
	view     View
	location Location
	flash    FlashStore
	logger   *slog.Logger
	prewarm  bool

	lock   sync.Mutex
	token  uint64
	cancel context.CancelFunc
	state  AppState
}

func NewApp(config AppConfig) *App {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	flash := config.Flash
	if flash == nil {
		flash = NewMemoryFlashStore()
	}

	return &App{
		client:   config.Client,
		view:     config.View,
		location: config.Location,
		flash:    flash,
		logger:   logger,
		prewarm:  config.PrewarmThumbnails,
	}
}

func (a *App) State() AppState {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.state
}

/*
Route loads the page named by the current location hash. Invalid and
unknown hashes are rewritten to the home route, which comes back here
through the hash change.
*/
func (a *App) Route(ctx context.Context) {
	ctx, token := a.beginNavigation(ctx)
	hash := a.location.Hash()

	route, err := ParseRoute(hash)
	if err != nil {
		a.logger.Debug("redirecting to home", "hash", hash, "error", err)
		a.location.SetHash(views.HomeHash)
		return
	}

	switch route.Name {
	case RouteAlbum:
		a.loadAlbum(ctx, token, route)

	default:
		a.loadHome(ctx, token, route)
	}
}

/*
ForceNavigate moves to target, a hash or a server path, and routes even
when the location already shows it.
*/
func (a *App) ForceNavigate(ctx context.Context, target string) {
	hash := ToHash(target)

	if a.location.Hash() == hash {
		a.Route(ctx)
		return
	}

	a.location.SetHash(hash)
}

func (a *App) loadHome(ctx context.Context, token uint64, route Route) {
	a.commit(token, func() {
		a.view.Render(views.BuildLoading())
	})

	data, err := a.client.GetHomeData(ctx)
	if err != nil {
		a.loadFailed(ctx, token, err, MsgHomeLoadError)
		return
	}

	a.commit(token, func() {
		a.state = AppState{Route: route, Home: data}
		a.view.Render(views.BuildHome(data))
		a.showFlash(RouteHome)
	})
}

func (a *App) loadAlbum(ctx context.Context, token uint64, route Route) {
	var (
		nextPageIDs []int
	)

	a.commit(token, func() {
		a.view.Render(views.BuildLoading())
	})

	data, err := a.client.GetAlbumData(ctx, route.AlbumID)
	if err != nil {
		a.loadFailed(ctx, token, err, MsgAlbumLoadError)
		return
	}

	committed := a.commit(token, func() {
		if data.Album == nil || data.PageSize <= 0 {
			a.state = AppState{Route: route}
			a.view.Render(views.BuildAlbum(data, route.Page))
			return
		}

		imageIDs := make([]int, 0, len(data.Album.Images))
		for _, image := range data.Album.Images {
			imageIDs = append(imageIDs, image.ImageID)
		}

		pagination := views.Paginate(len(imageIDs), data.PageSize, route.Page)
		route.Page = pagination.Page

		if pagination.HasNext {
			nextPageIDs = imageIDs[pagination.End:min(pagination.End+data.PageSize, len(imageIDs))]
		}

		a.state = AppState{
			Route:    route,
			Album:    data.Album,
			PageSize: data.PageSize,
			Sorter:   NewSorter(imageIDs),
		}

		a.view.Render(views.BuildAlbum(data, route.Page))
		a.showFlash(RouteAlbum)
	})

	if committed && a.prewarm && len(nextPageIDs) > 0 {
		if err = a.client.PrewarmThumbnails(ctx, nextPageIDs); err != nil {
			a.logger.Debug("error prewarming thumbnails", "albumID", route.AlbumID, "error", err)
		}
	}
}

/*
loadFailed follows a redirect carried by the error when it leads
somewhere new. Otherwise it shows the server's message, or fallback.
*/
func (a *App) loadFailed(ctx context.Context, token uint64, err error, fallback string) {
	var (
		apiErr *services.APIError
	)

	if ctx.Err() != nil || !a.isCurrent(token) {
		return
	}

	message := fallback

	if errors.As(err, &apiErr) {
		if apiErr.Redirect != "" {
			if hash := ToHash(apiErr.Redirect); hash != a.location.Hash() {
				a.location.SetHash(hash)
				return
			}
		}

		if apiErr.Message != "" {
			message = apiErr.Message
		}
	}

	a.logger.Error("error loading page", "error", err)

	a.commit(token, func() {
		a.view.Render(views.BuildError(message))
	})
}

func (a *App) showFlash(page RouteName) {
	for _, key := range FlashKeys[page] {
		if message, ok := TakeFlash(a.flash, key); ok {
			a.view.ShowMessage(key, message)
		}
	}
}

func (a *App) beginNavigation(ctx context.Context) (context.Context, uint64) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.cancel != nil {
		a.cancel()
	}

	a.token++
	ctx, a.cancel = context.WithCancel(ctx)

	return ctx, a.token
}

func (a *App) isCurrent(token uint64) bool {
	a.lock.Lock()
	defer a.lock.Unlock()

	return token == a.token
}

/*
commit runs fn under the app lock if token is still the latest navigation,
and reports whether it ran.
*/
func (a *App) commit(token uint64, fn func()) bool {
	a.lock.Lock()
	defer a.lock.Unlock()

	if token != a.token {
		return false
	}

	fn()
	return true
}
