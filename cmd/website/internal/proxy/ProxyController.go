package proxy

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

type ProxyHandlers interface {
	Forward(w http.ResponseWriter, r *http.Request)
}

type ProxyControllerConfig struct {
	BackendURL string
	Transport  http.RoundTripper
}

/*
ProxyController forwards the gallery's JSON API and image uploads to the
gallery server. Cookies travel both ways untouched, so the server's
session is the browser's session.
*/
type ProxyController struct {
	backend *url.URL
	proxy   *httputil.ReverseProxy
}

func NewProxyController(config ProxyControllerConfig) (ProxyController, error) {
	backend, err := url.Parse(config.BackendURL)
	if err != nil {
		return ProxyController{}, fmt.Errorf("error parsing backend URL '%s': %w", config.BackendURL, err)
	}

	if !strings.HasSuffix(backend.Path, "/") {
		backend.Path += "/"
	}

	c := ProxyController{backend: backend}

	c.proxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(backend)
			r.SetXForwarded()
		},
		Transport:      config.Transport,
		ModifyResponse: c.rewriteRedirect,
		ErrorHandler:   c.backendUnavailable,
	}

	return c, nil
}

/*
POST /, GET|POST /home, GET|POST /album, POST /image, GET /uploads
*/
func (c ProxyController) Forward(w http.ResponseWriter, r *http.Request) {
	c.proxy.ServeHTTP(w, r)
}

/*
rewriteRedirect maps redirects that point into the gallery server's
context path back onto this site's root, in Location headers and in the
redirect field of JSON bodies.
*/
func (c ProxyController) rewriteRedirect(response *http.Response) error {
	var (
		err  error
		body []byte
		data map[string]any
	)

	if location := response.Header.Get("Location"); location != "" {
		response.Header.Set("Location", c.localPath(location))
	}

	if !strings.HasPrefix(response.Header.Get("Content-Type"), "application/json") {
		return nil
	}

	if body, err = io.ReadAll(response.Body); err != nil {
		return fmt.Errorf("error reading backend response: %w", err)
	}

	_ = response.Body.Close()

	if err = json.Unmarshal(body, &data); err == nil {
		if redirect, ok := data["redirect"].(string); ok && redirect != "" {
			data["redirect"] = c.localPath(redirect)

			if rewritten, err := json.Marshal(data); err == nil {
				body = rewritten
			}
		}
	}

	response.Body = io.NopCloser(bytes.NewReader(body))
	response.ContentLength = int64(len(body))
	response.Header.Set("Content-Length", strconv.Itoa(len(body)))

	return nil
}

func (c ProxyController) localPath(redirect string) string {
	if strings.HasPrefix(redirect, "#") {
		return redirect
	}

	prefix := c.backend.Path

	if u, err := url.Parse(redirect); err == nil && u.IsAbs() {
		if u.Host != c.backend.Host {
			return redirect
		}

		redirect = u.RequestURI()
	}

	if prefix != "/" && strings.HasPrefix(redirect, prefix) {
		return "/" + strings.TrimPrefix(redirect, prefix)
	}

	if prefix != "/" && redirect == strings.TrimSuffix(prefix, "/") {
		return "/"
	}

	return redirect
}

func (c ProxyController) backendUnavailable(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("error forwarding request to gallery server", "error", err, "method", r.Method, "path", r.URL.Path)

	body, _ := json.Marshal(map[string]string{"message": "Server error."})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write(body)
}
