//go:build js && wasm

package main

import (
	"context"
	"fmt"
	"net/url"
	"syscall/js"

	"github.com/adampresley/imagegallery/pkg/spa"
)

/*
formEvent collects a submitted form: every named control's value, checked
boxes only (disabled ones included), and the first file of a file input.
*/
func formEvent(form js.Value) spa.Event {
	event := elementEvent(form)
	elements := form.Get("elements")

	for index := 0; index < elements.Get("length").Int(); index++ {
		control := elements.Index(index)
		name := control.Get("name").String()

		if name == "" {
			continue
		}

		switch control.Get("type").String() {
		case "checkbox", "radio":
			if control.Get("checked").Bool() {
				event.Fields.Add(name, control.Get("value").String())
			}

		case "file":
			event.File = fileFromInput(control)

		case "submit", "button":
			continue

		default:
			event.Fields.Add(name, control.Get("value").String())
		}
	}

	return event
}

/*
elementEvent builds an event from an element's data attributes. The
dataset keys are already camel cased by the browser.
*/
func elementEvent(element js.Value) spa.Event {
	dataset := element.Get("dataset")
	keys := js.Global().Get("Object").Call("keys", dataset)

	event := spa.Event{
		Action: dataset.Get("action").String(),
		Fields: url.Values{},
		Data:   map[string]string{},
	}

	if dataset.Get("action").IsUndefined() {
		event.Action = ""
	}

	for index := 0; index < keys.Get("length").Int(); index++ {
		key := keys.Index(index).String()
		event.Data[key] = dataset.Get(key).String()
	}

	return event
}

func fileFromInput(input js.Value) *spa.File {
	files := input.Get("files")
	if !files.Truthy() || files.Get("length").Int() == 0 {
		return nil
	}

	file := files.Index(0)

	return &spa.File{
		Name: file.Get("name").String(),
		Size: int64(file.Get("size").Int()),
		Type: file.Get("type").String(),
		Read: func(ctx context.Context) ([]byte, error) {
			return readFile(ctx, file)
		},
	}
}

/*
readFile waits for the file's arrayBuffer promise and copies the bytes
into Go memory. The callbacks release themselves since the promise may
settle after ctx is done.
*/
func readFile(ctx context.Context, file js.Value) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}

	resultCh := make(chan result, 1)

	var onResolve, onReject js.Func

	onResolve = js.FuncOf(func(this js.Value, args []js.Value) any {
		bytes := js.Global().Get("Uint8Array").New(args[0])
		data := make([]byte, bytes.Get("length").Int())
		js.CopyBytesToGo(data, bytes)

		resultCh <- result{data: data}
		onResolve.Release()
		onReject.Release()
		return nil
	})

	onReject = js.FuncOf(func(this js.Value, args []js.Value) any {
		resultCh <- result{err: fmt.Errorf("error reading file '%s': %s", file.Get("name").String(), args[0].Call("toString").String())}
		onResolve.Release()
		onReject.Release()
		return nil
	})

	file.Call("arrayBuffer").Call("then", onResolve, onReject)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()

	case r := <-resultCh:
		return r.data, r.err
	}
}
