//go:build js && wasm

/*
galleryapp is the browser side of the gallery, compiled to WebAssembly and
loaded by the sign in page and the SPA shell. Build it with

	GOOS=js GOARCH=wasm go build -o ../website/app/static/wasm/galleryapp.wasm .
*/
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"syscall/js"

	"github.com/adampresley/imagegallery/pkg/services"
	"github.com/adampresley/imagegallery/pkg/spa"
	"github.com/charmbracelet/log"
)

var (
	Version string = "development"

	document = js.Global().Get("document")
	window   = js.Global().Get("window")

	app *spa.App
)

func main() {
	done := make(chan struct{})

	setupLogger()

	root := document.Call("getElementById", "spa")

	app = spa.NewApp(spa.AppConfig{
		Client: services.NewGalleryService(services.GalleryServiceConfig{
			BaseURL: baseURL(),
		}),
		View:              newDOMView(root),
		Location:          browserLocation{},
		Flash:             sessionFlashStore{},
		Logger:            slog.Default(),
		PrewarmThumbnails: root.Truthy() && root.Get("dataset").Get("prewarm").String() == "true",
	})

	bindListeners()

	if root.Truthy() {
		go app.Route(context.Background())
	}

	slog.Debug("gallery app started", "version", Version)
	<-done
}

func setupLogger() {
	level := log.InfoLevel
	if Version == "development" {
		level = log.DebugLevel
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:     level,
		Prefix:    "galleryapp",
		Formatter: log.TextFormatter,
	})

	slog.SetDefault(slog.New(handler))
}

/*
baseURL is the directory of the current page. The API endpoints are
relative to it, the same way the page's forms are.
*/
func baseURL() string {
	location := window.Get("location")
	href := location.Get("origin").String() + location.Get("pathname").String()

	if index := strings.LastIndex(href, "/"); index >= 0 {
		href = href[:index+1]
	}

	return href
}

/*
bindListeners installs one listener per event type on the document. The
element carrying data-action is looked up when the event fires, so
rendering new content never needs new bindings.
*/
func bindListeners() {
	document.Call("addEventListener", "submit", js.FuncOf(onSubmit))
	document.Call("addEventListener", "click", js.FuncOf(onClick))
	document.Call("addEventListener", "focusout", js.FuncOf(onFocusOut))
	document.Call("addEventListener", "dragstart", js.FuncOf(onDrag))
	document.Call("addEventListener", "dragover", js.FuncOf(onDrag))
	document.Call("addEventListener", "dragend", js.FuncOf(onDrag))

	window.Call("addEventListener", "hashchange", js.FuncOf(func(this js.Value, args []js.Value) any {
		if document.Call("getElementById", "spa").Truthy() {
			go app.Route(context.Background())
		}

		return nil
	}))
}

func onSubmit(this js.Value, args []js.Value) any {
	domEvent := args[0]
	form := actionElement(domEvent)

	if !form.Truthy() || form.Get("tagName").String() != "FORM" {
		return nil
	}

	domEvent.Call("preventDefault")
	dispatch(formEvent(form))
	return nil
}

func onClick(this js.Value, args []js.Value) any {
	domEvent := args[0]
	element := actionElement(domEvent)

	if !element.Truthy() {
		return nil
	}

	switch element.Get("tagName").String() {
	case "FORM", "INPUT", "TEXTAREA", "SELECT":
		return nil
	}

	domEvent.Call("preventDefault")
	dispatch(elementEvent(element))
	return nil
}

func onFocusOut(this js.Value, args []js.Value) any {
	element := args[0].Get("target")

	if !element.Truthy() || element.Get("dataset").Get("action").String() != "checkUsername" {
		return nil
	}

	event := elementEvent(element)
	event.Fields.Set(element.Get("name").String(), element.Get("value").String())

	dispatch(event)
	return nil
}

/*
onDrag handles the drag events of the order list synchronously, since
their order matters and none of them touch the network.
*/
func onDrag(this js.Value, args []js.Value) any {
	domEvent := args[0]
	item := domEvent.Get("target").Call("closest", "li.order-item")

	if !item.Truthy() {
		return nil
	}

	event := elementEvent(item)

	switch domEvent.Get("type").String() {
	case "dragstart":
		event.Action = "dragStart"
		domEvent.Get("dataTransfer").Set("effectAllowed", "move")

	case "dragover":
		domEvent.Call("preventDefault")
		event.Action = "dragOver"
		rect := item.Call("getBoundingClientRect")
		event.Drag = spa.DragPosition{
			PointerY: domEvent.Get("clientY").Float(),
			Top:      rect.Get("top").Float(),
			Height:   rect.Get("height").Float(),
		}

	case "dragend":
		event.Action = "dragEnd"
	}

	app.Handle(context.Background(), event)
	return nil
}

/*
dispatch runs the action off the JS event loop. Anything that talks to
the server blocks, and blocking inside a js.Func callback deadlocks.
*/
func dispatch(event spa.Event) {
	app.Dispatch(event)
}

func actionElement(domEvent js.Value) js.Value {
	target := domEvent.Get("target")
	if !target.Truthy() || target.Get("closest").Type() != js.TypeFunction {
		return js.Null()
	}

	return target.Call("closest", "[data-action]")
}
