package home

import (
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/imagegallery/cmd/website/internal/configuration"
	"github.com/adampresley/imagegallery/cmd/website/internal/viewmodels"
)

const (
	wasmPath       = "/static/wasm/galleryapp.wasm"
	wasmExecScript = "/static/js/wasm_exec.js"
	loaderScript   = "/static/js/load-galleryapp.js"
)

type HomeHandlers interface {
	SignInPage(w http.ResponseWriter, r *http.Request)
	GalleryPage(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	Config   *configuration.Config
	Renderer rendering.TemplateRenderer
}

type HomeController struct {
	config   *configuration.Config
	renderer rendering.TemplateRenderer
}

func NewHomeController(config HomeControllerConfig) HomeController {
	return HomeController{
		config:   config.Config,
		renderer: config.Renderer,
	}
}

/*
GET /
*/
func (c HomeController) SignInPage(w http.ResponseWriter, r *http.Request) {
	viewData := viewmodels.SignInPage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx:             httphelpers.IsHtmx(r),
			JavascriptIncludes: galleryAppScripts(),
		},
		WasmPath: wasmPath,
	}

	c.renderer.Render("pages/sign-in", viewData, w)
}

/*
GET /spa
*/
func (c HomeController) GalleryPage(w http.ResponseWriter, r *http.Request) {
	viewData := viewmodels.GalleryPage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx:             httphelpers.IsHtmx(r),
			JavascriptIncludes: galleryAppScripts(),
		},
		WasmPath:          wasmPath,
		PrewarmThumbnails: c.config.PrewarmThumbnails,
	}

	c.renderer.Render("pages/gallery", viewData, w)
}

func galleryAppScripts() []rendering.JavascriptInclude {
	return []rendering.JavascriptInclude{
		{Src: wasmExecScript},
		{Type: "module", Src: loaderScript},
	}
}
