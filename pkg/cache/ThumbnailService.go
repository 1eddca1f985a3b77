package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/imagegallery/pkg/models"
	"github.com/adampresley/imagegallery/pkg/services"
	"github.com/adampresley/imagegallery/pkg/validation"
	"github.com/alitto/pond/v2"
	"github.com/nfnt/resize"
)

const (
	DefaultThumbnailSize = 300
	MaxThumbnailSize     = 1200
)

type ThumbnailServicer interface {
	GetThumbnail(ctx context.Context, request ThumbnailRequest) (ThumbnailImage, error)
	Prewarm(ctx context.Context, request PrewarmRequest) PrewarmResult
	CleanupExpired(ctx context.Context) (int, error)
	StartCleanupRoutine(interval time.Duration)
	StopCleanupRoutine()
}

type ThumbnailServiceConfig struct {
	BackendURL     string
	HTTPClient     *http.Client
	Index          ThumbnailIndexServicer
	Store          ObjectStorer
	Folder         string
	ExpirationDays int
	MaxWorkers     int
}

/*
ThumbnailRequest carries the caller's cookies so the gallery server can
decide whether they may see the image at all.
*/
type ThumbnailRequest struct {
	ImageID int
	Size    int
	Cookies []*http.Cookie
}

type ThumbnailImage struct {
	ContentType string
	Body        []byte
	Cached      bool
}

type PrewarmRequest struct {
	ImageIDs []int          `json:"imageIds"`
	Size     int            `json:"size"`
	Cookies  []*http.Cookie `json:"-"`
}

type PrewarmResult struct {
	Cached    int `json:"cached"`
	Generated int `json:"generated"`
	Failed    int `json:"failed"`
}

/*
ThumbnailService serves downsized copies of uploaded images. Thumbnails
live in object storage and are indexed in the database. Originals are
fetched from the gallery server on a miss.
*/
type ThumbnailService struct {
	backendURL     string
	httpClient     *http.Client
	index          ThumbnailIndexServicer
	store          ObjectStorer
	folder         string
	expirationDays int
	maxWorkers     int

	stopCleanup chan struct{}
	stopOnce    *sync.Once
	wg          *sync.WaitGroup
	running     *atomic.Bool
}

func NewThumbnailService(config ThumbnailServiceConfig) ThumbnailService {
	backendURL := config.BackendURL
	if !strings.HasSuffix(backendURL, "/") {
		backendURL += "/"
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if config.ExpirationDays <= 0 {
		config.ExpirationDays = 30
	}

	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 4
	}

	return ThumbnailService{
		backendURL:     backendURL,
		httpClient:     httpClient,
		index:          config.Index,
		store:          config.Store,
		folder:         strings.Trim(config.Folder, "/"),
		expirationDays: config.ExpirationDays,
		maxWorkers:     config.MaxWorkers,
		stopCleanup:    make(chan struct{}),
		stopOnce:       &sync.Once{},
		wg:             &sync.WaitGroup{},
		running:        &atomic.Bool{},
	}
}

func ClampThumbnailSize(size int) int {
	if size <= 0 {
		return DefaultThumbnailSize
	}

	if size > MaxThumbnailSize {
		return MaxThumbnailSize
	}

	return size
}

func (s ThumbnailService) GetThumbnail(ctx context.Context, request ThumbnailRequest) (ThumbnailImage, error) {
	var (
		err       error
		thumbnail *models.Thumbnail
		body      []byte
		original  []byte
		result    ThumbnailImage
	)

	size := ClampThumbnailSize(request.Size)

	if err = s.authorize(ctx, request.ImageID, request.Cookies); err != nil {
		return result, err
	}

	thumbnail, err = s.index.Get(ctx, request.ImageID, size)

	switch {
	case err == nil:
		if body, err = s.store.Get(ctx, thumbnail.ObjectKey); err == nil {
			return ThumbnailImage{ContentType: thumbnail.ContentType, Body: body, Cached: true}, nil
		}

		slog.Error("indexed thumbnail missing from storage. regenerating", "error", err, "imageID", request.ImageID, "key", thumbnail.ObjectKey)

	case !errors.Is(err, ErrThumbnailNotFound):
		slog.Error("error looking up thumbnail index. regenerating", "error", err, "imageID", request.ImageID, "size", size)
	}

	if original, err = s.fetchOriginal(ctx, request.ImageID, request.Cookies); err != nil {
		return result, err
	}

	if result.ContentType, result.Body, err = renderThumbnail(original, size); err != nil {
		return result, fmt.Errorf("error creating thumbnail for image %d: %w", request.ImageID, err)
	}

	key := s.objectKey(request.ImageID, size, result.ContentType)

	/*
	 * A storage failure still serves the freshly rendered bytes.
	 */
	if err = s.store.Put(key, bytes.NewReader(result.Body)); err != nil {
		slog.Error("error storing thumbnail", "error", err, "imageID", request.ImageID, "key", key)
		return result, nil
	}

	err = s.index.Save(ctx, models.Thumbnail{
		ImageID:     request.ImageID,
		Size:        size,
		ObjectKey:   key,
		ContentType: result.ContentType,
		CreatedAt:   time.Now().Unix(),
	})

	if err != nil {
		slog.Error("error indexing thumbnail", "error", err, "imageID", request.ImageID, "key", key)
	}

	return result, nil
}

/*
Prewarm renders the thumbnails of the given images on a worker pool so
the next album page loads from cache.
*/
func (s ThumbnailService) Prewarm(ctx context.Context, request PrewarmRequest) PrewarmResult {
	var (
		cached    atomic.Int64
		generated atomic.Int64
		failed    atomic.Int64
	)

	imageIDs := []int{}
	seen := map[int]struct{}{}

	for _, imageID := range request.ImageIDs {
		if _, ok := seen[imageID]; ok || imageID <= 0 {
			continue
		}

		seen[imageID] = struct{}{}
		imageIDs = append(imageIDs, imageID)
	}

	pool := pond.NewPool(s.maxWorkers, pond.WithContext(ctx))

	for _, imageID := range imageIDs {
		pool.Submit(func() {
			thumbnail, err := s.GetThumbnail(ctx, ThumbnailRequest{
				ImageID: imageID,
				Size:    request.Size,
				Cookies: request.Cookies,
			})

			if err != nil {
				slog.Error("error prewarming thumbnail", "error", err, "imageID", imageID)
				failed.Add(1)
				return
			}

			if thumbnail.Cached {
				cached.Add(1)
				return
			}

			generated.Add(1)
		})
	}

	_ = pool.Stop().Wait()

	return PrewarmResult{
		Cached:    int(cached.Load()),
		Generated: int(generated.Load()),
		Failed:    int(failed.Load()),
	}
}

/*
CleanupExpired removes thumbnails older than the expiration period from
storage and from the index, including stored objects the index lost
track of. It returns the number of objects removed.
*/
func (s ThumbnailService) CleanupExpired(ctx context.Context) (int, error) {
	var (
		err     error
		indexed []models.Thumbnail
		orphans []string
	)

	l := slog.With("function", "CleanupExpired")
	cutoff := time.Now().AddDate(0, 0, -s.expirationDays)

	if indexed, err = s.index.ListOlderThan(ctx, cutoff); err != nil {
		return 0, fmt.Errorf("error listing expired thumbnails: %w", err)
	}

	if orphans, err = s.store.ListOlderThan(s.folder, cutoff); err != nil {
		return 0, fmt.Errorf("error listing expired thumbnail objects: %w", err)
	}

	keys := make([]string, 0, len(indexed)+len(orphans))

	for _, thumbnail := range indexed {
		keys = append(keys, thumbnail.ObjectKey)
	}

	for _, key := range orphans {
		if !slices.IsInSlice(key, keys) {
			keys = append(keys, key)
		}
	}

	if err = s.store.Delete(keys); err != nil {
		return 0, fmt.Errorf("error removing expired thumbnails: %w", err)
	}

	for _, thumbnail := range indexed {
		if err = s.index.Delete(ctx, thumbnail.ImageID, thumbnail.Size); err != nil {
			l.Error("error removing expired thumbnail from index", "error", err, "imageID", thumbnail.ImageID, "size", thumbnail.Size)
		}
	}

	l.Info("completed cleanup of expired thumbnails", "removed", len(keys))
	return len(keys), nil
}

func (s ThumbnailService) StartCleanupRoutine(interval time.Duration) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}

	ticker := time.NewTicker(interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := s.CleanupExpired(context.Background()); err != nil {
					slog.Error("error cleaning up thumbnails", "error", err)
				}

			case <-s.stopCleanup:
				return
			}
		}
	}()

	slog.Info("thumbnail cleanup routine started", "interval", interval)
}

func (s ThumbnailService) StopCleanupRoutine() {
	if !s.running.Load() {
		return
	}

	s.stopOnce.Do(func() {
		close(s.stopCleanup)
	})

	s.wg.Wait()
	slog.Info("thumbnail cleanup routine stopped")
}

/*
HEAD ./uploads?imageId=N
*/
func (s ThumbnailService) authorize(ctx context.Context, imageID int, cookies []*http.Cookie) error {
	response, err := s.backendRequest(ctx, http.MethodHead, imageID, cookies)
	if err != nil {
		return err
	}

	response.Body.Close()
	return nil
}

/*
GET ./uploads?imageId=N
*/
func (s ThumbnailService) fetchOriginal(ctx context.Context, imageID int, cookies []*http.Cookie) ([]byte, error) {
	var (
		err      error
		response *http.Response
		b        []byte
	)

	if response, err = s.backendRequest(ctx, http.MethodGet, imageID, cookies); err != nil {
		return nil, err
	}

	defer response.Body.Close()

	if b, err = io.ReadAll(io.LimitReader(response.Body, validation.MaxImageSize+1)); err != nil {
		return nil, fmt.Errorf("%w: error reading image %d: %w", services.ErrServerUnreachable, imageID, err)
	}

	if int64(len(b)) > validation.MaxImageSize {
		return nil, fmt.Errorf("%w: image %d is larger than %d bytes", ErrUnsupportedImage, imageID, validation.MaxImageSize)
	}

	return b, nil
}

func (s ThumbnailService) backendRequest(ctx context.Context, method string, imageID int, cookies []*http.Cookie) (*http.Response, error) {
	var (
		err      error
		request  *http.Request
		response *http.Response
	)

	u := s.backendURL + "uploads?" + uploadsQuery(imageID)

	if request, err = http.NewRequestWithContext(ctx, method, u, nil); err != nil {
		return nil, fmt.Errorf("error building request for image %d: %w", imageID, err)
	}

	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}

	if response, err = s.httpClient.Do(request); err != nil {
		return nil, fmt.Errorf("%w: %w", services.ErrServerUnreachable, err)
	}

	switch {
	case response.StatusCode >= 200 && response.StatusCode < 300:
		return response, nil

	case response.StatusCode == http.StatusUnauthorized, response.StatusCode == http.StatusForbidden:
		response.Body.Close()
		return nil, ErrThumbnailForbidden

	case response.StatusCode == http.StatusNotFound, response.StatusCode == http.StatusBadRequest:
		response.Body.Close()
		return nil, ErrThumbnailNotFound
	}

	response.Body.Close()
	return nil, &services.APIError{StatusCode: response.StatusCode}
}

func (s ThumbnailService) objectKey(imageID, size int, contentType string) string {
	ext := validation.ExtensionForMimeType(contentType)
	return path.Join(s.folder, fmt.Sprintf("%d-%d%s", imageID, size, ext))
}

/*
renderThumbnail resizes JPEG and PNG originals to a JPEG whose longest edge
is size. WEBP has no decoder here and is passed through untouched.
*/
func renderThumbnail(original []byte, size int) (string, []byte, error) {
	var (
		err error
		img image.Image
		buf bytes.Buffer
	)

	mimeType := validation.DetectImageMimeType(original)

	switch mimeType {
	case "image/webp":
		return mimeType, original, nil

	case "image/jpeg", "image/png":
		if img, _, err = image.Decode(bytes.NewReader(original)); err != nil {
			return "", nil, fmt.Errorf("error decoding image: %w", err)
		}

		if err = jpeg.Encode(&buf, resizeToLongestEdge(img, uint(size)), &jpeg.Options{Quality: 85}); err != nil {
			return "", nil, fmt.Errorf("error encoding thumbnail: %w", err)
		}

		return "image/jpeg", buf.Bytes(), nil
	}

	return "", nil, ErrUnsupportedImage
}

func resizeToLongestEdge(img image.Image, maxSize uint) image.Image {
	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	// never upscale
	if width <= maxSize && height <= maxSize {
		return img
	}

	var newWidth, newHeight uint

	if width > height {
		newWidth = maxSize
		newHeight = uint(float64(height) * (float64(maxSize) / float64(width)))
	} else {
		newHeight = maxSize
		newWidth = uint(float64(width) * (float64(maxSize) / float64(height)))
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}

func uploadsQuery(imageID int) string {
	return fmt.Sprintf("imageId=%d", imageID)
}
