package cache

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adampresley/imagegallery/pkg/models"
)

type fakeThumbnailIndex struct {
	mu      sync.Mutex
	entries map[[2]int]models.Thumbnail
}

func newFakeThumbnailIndex() *fakeThumbnailIndex {
	return &fakeThumbnailIndex{entries: map[[2]int]models.Thumbnail{}}
}

func (f *fakeThumbnailIndex) Get(ctx context.Context, imageID, size int) (*models.Thumbnail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	thumbnail, ok := f.entries[[2]int{imageID, size}]
	if !ok {
		return nil, ErrThumbnailNotFound
	}

	return &thumbnail, nil
}

func (f *fakeThumbnailIndex) Save(ctx context.Context, thumbnail models.Thumbnail) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[[2]int{thumbnail.ImageID, thumbnail.Size}] = thumbnail
	return nil
}

func (f *fakeThumbnailIndex) ListOlderThan(ctx context.Context, cutoff time.Time) ([]models.Thumbnail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := []models.Thumbnail{}

	for _, thumbnail := range f.entries {
		if thumbnail.CreatedAt < cutoff.Unix() {
			result = append(result, thumbnail)
		}
	}

	return result, nil
}

func (f *fakeThumbnailIndex) Delete(ctx context.Context, imageID, size int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.entries, [2]int{imageID, size})
	return nil
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	old     []string
	deleted []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) EnsureBucket() error {
	return nil
}

func (f *fakeObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}

	return b, nil
}

func (f *fakeObjectStore) Put(key string, body io.Reader) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.objects[key] = b
	return nil
}

func (f *fakeObjectStore) Delete(keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		delete(f.objects, key)
		f.deleted = append(f.deleted, key)
	}

	return nil
}

func (f *fakeObjectStore) ListOlderThan(prefix string, cutoff time.Time) ([]string, error) {
	return f.old, nil
}

type fakeBackend struct {
	images   map[int][]byte
	forbid   bool
	heads    atomic.Int64
	gets     atomic.Int64
	cookieOK atomic.Bool
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/uploads" {
		http.NotFound(w, r)
		return
	}

	if cookie, err := r.Cookie("JSESSIONID"); err == nil && cookie.Value == "abc" {
		b.cookieOK.Store(true)
	}

	if b.forbid {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	imageID, _ := strconv.Atoi(r.URL.Query().Get("imageId"))
	content, ok := b.images[imageID]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if r.Method == http.MethodHead {
		b.heads.Add(1)
		w.WriteHeader(http.StatusOK)
		return
	}

	b.gets.Add(1)
	_, _ = w.Write(content)
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	buf := bytes.Buffer{}
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	return buf.Bytes()
}

func newTestThumbnailService(t *testing.T, backend *fakeBackend) (ThumbnailService, *fakeThumbnailIndex, *fakeObjectStore) {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	index := newFakeThumbnailIndex()
	store := newFakeObjectStore()

	service := NewThumbnailService(ThumbnailServiceConfig{
		BackendURL:     server.URL,
		HTTPClient:     server.Client(),
		Index:          index,
		Store:          store,
		Folder:         "/thumbnails/",
		ExpirationDays: 7,
		MaxWorkers:     2,
	})

	return service, index, store
}

func TestThumbnailService(t *testing.T) {
	cookies := []*http.Cookie{{Name: "JSESSIONID", Value: "abc"}}

	t.Run("Generates Then Serves From Cache", func(t *testing.T) {
		backend := &fakeBackend{images: map[int][]byte{1: testPNG(t, 800, 400)}}
		service, index, store := newTestThumbnailService(t, backend)

		thumbnail, err := service.GetThumbnail(context.Background(), ThumbnailRequest{ImageID: 1, Size: 300, Cookies: cookies})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if thumbnail.Cached {
			t.Error("expected the first request to render a new thumbnail")
		}
		if thumbnail.ContentType != "image/jpeg" {
			t.Errorf("expected image/jpeg, got %q", thumbnail.ContentType)
		}

		decoded, err := jpeg.Decode(bytes.NewReader(thumbnail.Body))
		if err != nil {
			t.Fatalf("thumbnail is not a jpeg: %v", err)
		}
		if decoded.Bounds().Dx() != 300 || decoded.Bounds().Dy() != 150 {
			t.Errorf("expected 300x150, got %v", decoded.Bounds())
		}

		if _, ok := store.objects["thumbnails/1-300.jpeg"]; !ok {
			t.Errorf("expected stored object, got %v", store.objects)
		}
		if entry, err := index.Get(context.Background(), 1, 300); err != nil || entry.ObjectKey != "thumbnails/1-300.jpeg" {
			t.Errorf("expected index entry, got %+v (%v)", entry, err)
		}
		if !backend.cookieOK.Load() {
			t.Error("expected caller cookies to be forwarded")
		}

		thumbnail, err = service.GetThumbnail(context.Background(), ThumbnailRequest{ImageID: 1, Size: 300, Cookies: cookies})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !thumbnail.Cached {
			t.Error("expected the second request to be served from cache")
		}
		if backend.gets.Load() != 1 {
			t.Errorf("expected one original download, got %d", backend.gets.Load())
		}
		if backend.heads.Load() != 2 {
			t.Errorf("expected every request to be authorized, got %d checks", backend.heads.Load())
		}
	})

	t.Run("Forbidden Image", func(t *testing.T) {
		backend := &fakeBackend{images: map[int][]byte{1: testPNG(t, 10, 10)}, forbid: true}
		service, _, store := newTestThumbnailService(t, backend)

		_, err := service.GetThumbnail(context.Background(), ThumbnailRequest{ImageID: 1})
		if !errors.Is(err, ErrThumbnailForbidden) {
			t.Fatalf("expected ErrThumbnailForbidden, got %v", err)
		}
		if len(store.objects) != 0 {
			t.Errorf("expected nothing stored, got %v", store.objects)
		}
	})

	t.Run("Unknown Image", func(t *testing.T) {
		backend := &fakeBackend{images: map[int][]byte{}}
		service, _, _ := newTestThumbnailService(t, backend)

		_, err := service.GetThumbnail(context.Background(), ThumbnailRequest{ImageID: 4})
		if !errors.Is(err, ErrThumbnailNotFound) {
			t.Fatalf("expected ErrThumbnailNotFound, got %v", err)
		}
	})

	t.Run("WEBP Passes Through", func(t *testing.T) {
		webp := append([]byte("RIFF\x00\x00\x00\x00WEBP"), []byte("VP8 rest")...)
		backend := &fakeBackend{images: map[int][]byte{2: webp}}
		service, _, store := newTestThumbnailService(t, backend)

		thumbnail, err := service.GetThumbnail(context.Background(), ThumbnailRequest{ImageID: 2, Size: 5000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if thumbnail.ContentType != "image/webp" || !bytes.Equal(thumbnail.Body, webp) {
			t.Errorf("expected untouched webp, got %q", thumbnail.ContentType)
		}
		if _, ok := store.objects["thumbnails/2-1200.webp"]; !ok {
			t.Errorf("expected size clamped into the key, got %v", store.objects)
		}
	})

	t.Run("Unsupported Content", func(t *testing.T) {
		backend := &fakeBackend{images: map[int][]byte{3: []byte("GIF89a")}}
		service, _, _ := newTestThumbnailService(t, backend)

		_, err := service.GetThumbnail(context.Background(), ThumbnailRequest{ImageID: 3})
		if !errors.Is(err, ErrUnsupportedImage) {
			t.Fatalf("expected ErrUnsupportedImage, got %v", err)
		}
	})

	t.Run("Prewarm", func(t *testing.T) {
		backend := &fakeBackend{images: map[int][]byte{
			1: testPNG(t, 40, 20),
			2: testPNG(t, 20, 40),
		}}
		service, _, _ := newTestThumbnailService(t, backend)

		result := service.Prewarm(context.Background(), PrewarmRequest{ImageIDs: []int{1, 2, 2, 9, -1}, Cookies: cookies})

		if result.Generated != 2 || result.Failed != 1 || result.Cached != 0 {
			t.Errorf("unexpected first prewarm result %+v", result)
		}

		result = service.Prewarm(context.Background(), PrewarmRequest{ImageIDs: []int{1, 2}, Cookies: cookies})

		if result.Cached != 2 || result.Generated != 0 {
			t.Errorf("unexpected second prewarm result %+v", result)
		}
	})

	t.Run("Cleanup Expired", func(t *testing.T) {
		service, index, store := newTestThumbnailService(t, &fakeBackend{})

		old := time.Now().AddDate(0, 0, -30).Unix()

		_ = index.Save(context.Background(), models.Thumbnail{ImageID: 1, Size: 300, ObjectKey: "thumbnails/1-300.jpeg", CreatedAt: old})
		_ = index.Save(context.Background(), models.Thumbnail{ImageID: 2, Size: 300, ObjectKey: "thumbnails/2-300.jpeg", CreatedAt: time.Now().Unix()})
		store.objects["thumbnails/1-300.jpeg"] = []byte("a")
		store.objects["thumbnails/2-300.jpeg"] = []byte("b")
		store.objects["thumbnails/orphan.jpeg"] = []byte("c")
		store.old = []string{"thumbnails/1-300.jpeg", "thumbnails/orphan.jpeg"}

		removed, err := service.CleanupExpired(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if removed != 2 {
			t.Errorf("expected 2 removed, got %d (%v)", removed, store.deleted)
		}
		if _, ok := store.objects["thumbnails/2-300.jpeg"]; !ok {
			t.Error("expected fresh thumbnail to survive")
		}
		if _, err := index.Get(context.Background(), 1, 300); !errors.Is(err, ErrThumbnailNotFound) {
			t.Errorf("expected expired index entry removed, got %v", err)
		}
	})
}

func TestResizeToLongestEdge(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		maxSize        uint
		expectedWidth  int
		expectedHeight int
	}{
		{name: "Landscape", width: 1000, height: 500, maxSize: 200, expectedWidth: 200, expectedHeight: 100},
		{name: "Portrait", width: 500, height: 1000, maxSize: 200, expectedWidth: 100, expectedHeight: 200},
		{name: "Square", width: 600, height: 600, maxSize: 300, expectedWidth: 300, expectedHeight: 300},
		{name: "Smaller Than Max", width: 50, height: 20, maxSize: 300, expectedWidth: 50, expectedHeight: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.width, tt.height))
			got := resizeToLongestEdge(img, tt.maxSize).Bounds()

			if got.Dx() != tt.expectedWidth || got.Dy() != tt.expectedHeight {
				t.Errorf("expected %dx%d, got %dx%d", tt.expectedWidth, tt.expectedHeight, got.Dx(), got.Dy())
			}
		})
	}
}

func TestClampThumbnailSize(t *testing.T) {
	if got := ClampThumbnailSize(0); got != DefaultThumbnailSize {
		t.Errorf("expected default size, got %d", got)
	}
	if got := ClampThumbnailSize(-5); got != DefaultThumbnailSize {
		t.Errorf("expected default size, got %d", got)
	}
	if got := ClampThumbnailSize(5000); got != MaxThumbnailSize {
		t.Errorf("expected max size, got %d", got)
	}
	if got := ClampThumbnailSize(150); got != 150 {
		t.Errorf("expected 150, got %d", got)
	}
}
