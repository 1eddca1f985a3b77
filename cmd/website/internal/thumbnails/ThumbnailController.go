package thumbnails

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/imagegallery/pkg/cache"
	"github.com/adampresley/imagegallery/pkg/services"
	"github.com/goccy/go-json"
)

const (
	maxPrewarmImages = 50
	maxPrewarmBody   = 1024 * 64
)

type ThumbnailHandlers interface {
	GetThumbnail(w http.ResponseWriter, r *http.Request)
	Prewarm(w http.ResponseWriter, r *http.Request)
}

type ThumbnailControllerConfig struct {
	DefaultSize      int
	ThumbnailService cache.ThumbnailServicer
}

type ThumbnailController struct {
	defaultSize      int
	thumbnailService cache.ThumbnailServicer
}

func NewThumbnailController(config ThumbnailControllerConfig) ThumbnailController {
	return ThumbnailController{
		defaultSize:      config.DefaultSize,
		thumbnailService: config.ThumbnailService,
	}
}

/*
GET /thumbnails?imageId=&size=
*/
func (c ThumbnailController) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	var (
		err       error
		thumbnail cache.ThumbnailImage
	)

	imageID, err := strconv.Atoi(r.URL.Query().Get("imageId"))
	if err != nil || imageID <= 0 {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid image id")
		return
	}

	size := c.defaultSize
	if rawSize := r.URL.Query().Get("size"); rawSize != "" {
		if size, err = strconv.Atoi(rawSize); err != nil {
			httphelpers.WriteText(w, http.StatusBadRequest, "invalid size")
			return
		}
	}

	thumbnail, err = c.thumbnailService.GetThumbnail(r.Context(), cache.ThumbnailRequest{
		ImageID: imageID,
		Size:    size,
		Cookies: r.Cookies(),
	})

	if err != nil {
		status, message := errorStatus(err)

		if status >= http.StatusInternalServerError {
			slog.Error("error getting thumbnail", "error", err, "imageID", imageID, "size", size)
		}

		httphelpers.WriteText(w, status, message)
		return
	}

	cacheStatus := "miss"
	if thumbnail.Cached {
		cacheStatus = "hit"
	}

	w.Header().Set("Content-Type", thumbnail.ContentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(thumbnail.Body)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Header().Set("X-Thumbnail-Cache", cacheStatus)

	_, _ = w.Write(thumbnail.Body)
}

/*
POST /thumbnails/prewarm
*/
func (c ThumbnailController) Prewarm(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		body    []byte
		request cache.PrewarmRequest
	)

	if body, err = io.ReadAll(io.LimitReader(r.Body, maxPrewarmBody)); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "unable to read request")
		return
	}

	if err = json.Unmarshal(body, &request); err != nil {
		httphelpers.WriteText(w, http.StatusBadRequest, "invalid request")
		return
	}

	if len(request.ImageIDs) > maxPrewarmImages {
		request.ImageIDs = request.ImageIDs[:maxPrewarmImages]
	}

	if request.Size == 0 {
		request.Size = c.defaultSize
	}

	request.Cookies = r.Cookies()
	result := c.thumbnailService.Prewarm(r.Context(), request)

	slog.Debug("thumbnails prewarmed", "requested", len(request.ImageIDs), "cached", result.Cached, "generated", result.Generated, "failed", result.Failed)

	response, _ := json.Marshal(result)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write(response)
}

func errorStatus(err error) (int, string) {
	var (
		apiErr *services.APIError
	)

	switch {
	case errors.Is(err, cache.ErrThumbnailForbidden):
		return http.StatusForbidden, "not allowed to view this image"

	case errors.Is(err, cache.ErrThumbnailNotFound):
		return http.StatusNotFound, "image not found"

	case errors.Is(err, cache.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType, "unsupported image"

	case errors.Is(err, services.ErrServerUnreachable), errors.As(err, &apiErr):
		return http.StatusBadGateway, "gallery server error"
	}

	return http.StatusInternalServerError, "error creating thumbnail"
}
