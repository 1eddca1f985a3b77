package spa

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/adampresley/imagegallery/pkg/views"
)

type RouteName string

const (
	RouteHome  RouteName = "home"
	RouteAlbum RouteName = "album"
)

var (
	ErrInvalidAlbumID = fmt.Errorf("invalid album id")
	ErrUnknownRoute   = fmt.Errorf("unknown route")
)

/*
Route is a parsed location hash. AlbumID and Page are only meaningful for
the album route.
*/
type Route struct {
	Name    RouteName
	AlbumID int
	Page    int
}

/*
ParseRoute turns a location hash into a Route. An empty hash is the home
route. Album routes need a positive albumId, and a page that is missing,
malformed or negative becomes 0. Both error results mean the caller
should go to the home route instead.
*/
func ParseRoute(hash string) (Route, error) {
	hash = strings.TrimPrefix(strings.TrimSpace(hash), "#")
	name, rawQuery, _ := strings.Cut(hash, "?")

	switch RouteName(name) {
	case "", RouteHome:
		return Route{Name: RouteHome}, nil

	case RouteAlbum:
		query, _ := url.ParseQuery(rawQuery)

		albumID, err := strconv.Atoi(query.Get("albumId"))
		if err != nil || albumID <= 0 {
			return Route{}, fmt.Errorf("%w: '%s'", ErrInvalidAlbumID, query.Get("albumId"))
		}

		page, err := strconv.Atoi(query.Get("page"))
		if err != nil || page < 0 {
			page = 0
		}

		return Route{Name: RouteAlbum, AlbumID: albumID, Page: page}, nil
	}

	return Route{}, fmt.Errorf("%w: '#%s'", ErrUnknownRoute, hash)
}

func (r Route) Hash() string {
	if r.Name == RouteAlbum {
		return views.AlbumHash(r.AlbumID, r.Page)
	}

	return views.HomeHash
}

/*
ToHash maps a redirect from the server onto an in-app hash. Hashes pass
through. Paths such as "/home" or "./album?albumId=3&page=0" keep their
last segment and query.
*/
func ToHash(redirect string) string {
	redirect = strings.TrimSpace(redirect)

	if strings.HasPrefix(redirect, "#") {
		return redirect
	}

	if u, err := url.Parse(redirect); err == nil && u.Fragment != "" {
		return "#" + u.Fragment
	}

	path, query, hasQuery := strings.Cut(redirect, "?")
	path = strings.TrimSuffix(path, "/")

	if index := strings.LastIndex(path, "/"); index >= 0 {
		path = path[index+1:]
	}

	if path == "" || path == "." || path == ".." {
		path = string(RouteHome)
	}

	if hasQuery {
		return "#" + path + "?" + query
	}

	return "#" + path
}
