package spa

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

/*
Event is a user interaction forwarded from the page. Action comes from the
data-action attribute of the element the event was delegated to. Fields
holds form values (repeated for checked checkboxes), Data holds the
element's data attributes in camel case.
*/
type Event struct {
	Action string
	Fields url.Values
	Data   map[string]string
	File   *File
	Drag   DragPosition
}

/*
File is a file picked in a file input. Read is only called once the file
passed validation.
*/
type File struct {
	Name string
	Size int64
	Type string
	Read func(ctx context.Context) ([]byte, error)
}

// DragPosition is the pointer and hovered element geometry of a dragover.
type DragPosition struct {
	PointerY float64
	Top      float64
	Height   float64
}

func (e Event) Field(name string) string {
	return e.Fields.Get(name)
}

func (e Event) TrimmedField(name string) string {
	return strings.TrimSpace(e.Fields.Get(name))
}

func (e Event) DataInt(name string) (int, bool) {
	value, err := strconv.Atoi(e.Data[name])
	if err != nil {
		return 0, false
	}

	return value, true
}

/*
FieldInts parses every value of a repeated field, skipping anything that
is not a number.
*/
func (e Event) FieldInts(name string) []int {
	result := []int{}

	for _, raw := range e.Fields[name] {
		if value, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			result = append(result, value)
		}
	}

	return result
}
