package spa

import "slices"

/*
Move tells the view where to put the dragged item: immediately before
TargetID when Before is set, immediately after it otherwise.
*/
type Move struct {
	ImageID  int
	TargetID int
	Before   bool
}

/*
Sorter tracks the manual image order of an album while the user drags
items around. Dragging is only possible between Edit and Save.
*/
type Sorter struct {
	order    []int
	editing  bool
	dragging int
}

func NewSorter(imageIDs []int) *Sorter {
	return &Sorter{
		order: slices.Clone(imageIDs),
	}
}

func (s *Sorter) Edit() {
	s.editing = true
	s.dragging = 0
}

func (s *Sorter) Editing() bool {
	return s.editing
}

func (s *Sorter) Order() []int {
	return slices.Clone(s.order)
}

func (s *Sorter) DragStart(imageID int) bool {
	if !s.editing || !slices.Contains(s.order, imageID) {
		return false
	}

	s.dragging = imageID
	return true
}

/*
DragOver repositions the dragged item relative to the hovered one: before
it when the pointer is above the hovered item's vertical midpoint, after
it otherwise. It reports false when nothing moved.
*/
func (s *Sorter) DragOver(overID int, pointerY, top, height float64) (Move, bool) {
	if !s.editing || s.dragging == 0 || overID == s.dragging {
		return Move{}, false
	}

	from := slices.Index(s.order, s.dragging)
	if from < 0 || !slices.Contains(s.order, overID) {
		return Move{}, false
	}

	before := pointerY < top+height/2

	remaining := slices.Delete(slices.Clone(s.order), from, from+1)
	to := slices.Index(remaining, overID)

	if !before {
		to++
	}

	next := slices.Insert(remaining, to, s.dragging)

	if slices.Equal(next, s.order) {
		return Move{}, false
	}

	s.order = next

	return Move{
		ImageID:  s.dragging,
		TargetID: overID,
		Before:   before,
	}, true
}

func (s *Sorter) DragEnd() {
	s.dragging = 0
}

/*
Save leaves edit mode and returns the order to persist.
*/
func (s *Sorter) Save() []int {
	s.editing = false
	s.dragging = 0

	return s.Order()
}
