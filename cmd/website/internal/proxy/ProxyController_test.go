package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestProxyController(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gallery/home":
			cookie, err := r.Cookie("JSESSIONID")
			if err != nil || cookie.Value != "abc" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"message":"Album created.","redirect":"/gallery/home"}`))

		case "/gallery/":
			http.Redirect(w, r, "/gallery/spa", http.StatusFound)

		case "/gallery/uploads":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("png"))

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer backend.Close()

	controller, err := NewProxyController(ProxyControllerConfig{BackendURL: backend.URL + "/gallery"})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	t.Run("JSON Redirect Is Rewritten", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/home", strings.NewReader(`{"action":"createAlbum"}`))
		request.AddCookie(&http.Cookie{Name: "JSESSIONID", Value: "abc"})
		recorder := httptest.NewRecorder()

		controller.Forward(recorder, request)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}

		if body["redirect"] != "/home" || body["message"] != "Album created." {
			t.Errorf("unexpected body %v", body)
		}
	})

	t.Run("Location Header Is Rewritten", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		controller.Forward(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		if got := recorder.Header().Get("Location"); got != "/spa" {
			t.Errorf("expected /spa, got %q", got)
		}
	})

	t.Run("Other Content Passes Through", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		controller.Forward(recorder, httptest.NewRequest(http.MethodGet, "/uploads?imageId=1", nil))

		body, _ := io.ReadAll(recorder.Body)
		if string(body) != "png" || recorder.Header().Get("Content-Type") != "image/png" {
			t.Errorf("unexpected response %q %q", body, recorder.Header().Get("Content-Type"))
		}
	})

	t.Run("Missing Session Is Forwarded As Is", func(t *testing.T) {
		recorder := httptest.NewRecorder()

		controller.Forward(recorder, httptest.NewRequest(http.MethodGet, "/home", nil))

		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", recorder.Code)
		}
	})
}

func TestProxyControllerBackendDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	backendURL := backend.URL
	backend.Close()

	controller, err := NewProxyController(ProxyControllerConfig{BackendURL: backendURL})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	recorder := httptest.NewRecorder()
	controller.Forward(recorder, httptest.NewRequest(http.MethodGet, "/home", nil))

	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", recorder.Code)
	}

	if !strings.Contains(recorder.Body.String(), "Server error.") {
		t.Errorf("unexpected body %q", recorder.Body.String())
	}
}

func TestLocalPath(t *testing.T) {
	controller, _ := NewProxyController(ProxyControllerConfig{BackendURL: "http://backend:8080/gallery/"})

	tests := []struct {
		redirect string
		want     string
	}{
		{redirect: "/gallery/spa", want: "/spa"},
		{redirect: "/gallery", want: "/"},
		{redirect: "/gallery/", want: "/"},
		{redirect: "#album?albumId=1&page=0", want: "#album?albumId=1&page=0"},
		{redirect: "http://backend:8080/gallery/home", want: "/home"},
		{redirect: "https://elsewhere.example.com/x", want: "https://elsewhere.example.com/x"},
		{redirect: "./home", want: "./home"},
	}

	for _, tt := range tests {
		if got := controller.localPath(tt.redirect); got != tt.want {
			t.Errorf("localPath(%q) = %q, want %q", tt.redirect, got, tt.want)
		}
	}
}
