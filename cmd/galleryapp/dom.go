//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/adampresley/imagegallery/pkg/spa"
)

const (
	modalID     = "imageModal"
	orderListID = "imageOrderList"
)

type domView struct {
	root js.Value
}

func newDOMView(root js.Value) domView {
	return domView{root: root}
}

func (v domView) Render(html string) {
	if v.root.Truthy() {
		v.root.Set("innerHTML", html)
	}
}

func (v domView) ShowMessage(targetID, message string) {
	element := byID(targetID)
	if !element.Truthy() {
		return
	}

	element.Set("textContent", message)
	element.Get("classList").Call("remove", "hidden")
}

func (v domView) ClearMessage(targetID string) {
	element := byID(targetID)
	if !element.Truthy() {
		return
	}

	element.Set("textContent", "")
	element.Get("classList").Call("add", "hidden")
}

func (v domView) ShowModal(html string) {
	modal := byID(modalID)
	if !modal.Truthy() {
		return
	}

	modal.Set("innerHTML", html)
	modal.Get("style").Set("display", "block")
}

func (v domView) HideModal() {
	modal := byID(modalID)
	if !modal.Truthy() {
		return
	}

	modal.Get("style").Set("display", "none")
	modal.Set("innerHTML", "")
}

/*
SetSortable toggles the draggable attribute of every order item and
swaps which of the edit and save buttons is usable.
*/
func (v domView) SetSortable(enabled bool) {
	list := byID(orderListID)
	if !list.Truthy() {
		return
	}

	items := list.Call("querySelectorAll", "li.order-item")
	for index := 0; index < items.Get("length").Int(); index++ {
		items.Index(index).Set("draggable", enabled)
	}

	list.Get("classList").Call("toggle", "sortable", enabled)

	if button := byID("saveOrderButton"); button.Truthy() {
		button.Set("disabled", !enabled)
	}

	if button := byID("editOrderButton"); button.Truthy() {
		button.Set("disabled", enabled)
	}
}

func (v domView) MoveItem(move spa.Move) {
	list := byID(orderListID)
	if !list.Truthy() {
		return
	}

	item := list.Call("querySelector", orderItemSelector(move.ImageID))
	target := list.Call("querySelector", orderItemSelector(move.TargetID))

	if !item.Truthy() || !target.Truthy() {
		return
	}

	if move.Before {
		list.Call("insertBefore", item, target)
		return
	}

	list.Call("insertBefore", item, target.Get("nextSibling"))
}

func orderItemSelector(imageID int) string {
	return fmt.Sprintf(`li.order-item[data-image-id="%d"]`, imageID)
}

func byID(id string) js.Value {
	return document.Call("getElementById", id)
}

type browserLocation struct{}

func (browserLocation) Hash() string {
	return window.Get("location").Get("hash").String()
}

func (browserLocation) SetHash(hash string) {
	window.Get("location").Set("hash", hash)
}

func (browserLocation) Assign(url string) {
	window.Get("location").Call("assign", url)
}

/*
sessionFlashStore keeps flash messages in sessionStorage so they survive
the navigation they were written before.
*/
type sessionFlashStore struct{}

func (sessionFlashStore) Get(key string) (string, bool) {
	value := window.Get("sessionStorage").Call("getItem", key)
	if value.IsNull() || value.IsUndefined() {
		return "", false
	}

	return value.String(), true
}

func (sessionFlashStore) Set(key, value string) {
	window.Get("sessionStorage").Call("setItem", key, value)
}

func (sessionFlashStore) Remove(key string) {
	window.Get("sessionStorage").Call("removeItem", key)
}
