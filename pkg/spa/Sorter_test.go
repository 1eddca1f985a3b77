package spa

import (
	"slices"
	"testing"
)

func TestSorter(t *testing.T) {
	t.Run("Dragging Needs Edit Mode", func(t *testing.T) {
		sorter := NewSorter([]int{1, 2, 3})

		if sorter.DragStart(1) {
			t.Fatal("expected drag start to be refused outside edit mode")
		}

		if _, moved := sorter.DragOver(3, 100, 0, 10); moved {
			t.Error("expected no move outside edit mode")
		}
	})

	t.Run("Above Midpoint Moves Before", func(t *testing.T) {
		sorter := NewSorter([]int{1, 2, 3})
		sorter.Edit()
		sorter.DragStart(3)

		move, moved := sorter.DragOver(1, 104, 100, 20)

		if !moved || move != (Move{ImageID: 3, TargetID: 1, Before: true}) {
			t.Fatalf("unexpected move %+v (%v)", move, moved)
		}
		if got := sorter.Order(); !slices.Equal(got, []int{3, 1, 2}) {
			t.Errorf("expected [3 1 2], got %v", got)
		}
	})

	t.Run("Below Midpoint Moves After", func(t *testing.T) {
		sorter := NewSorter([]int{1, 2, 3})
		sorter.Edit()
		sorter.DragStart(1)

		move, moved := sorter.DragOver(3, 115, 100, 20)

		if !moved || move.Before {
			t.Fatalf("expected an after move, got %+v (%v)", move, moved)
		}
		if got := sorter.Order(); !slices.Equal(got, []int{2, 3, 1}) {
			t.Errorf("expected [2 3 1], got %v", got)
		}
	})

	t.Run("No Op Moves Are Not Reported", func(t *testing.T) {
		sorter := NewSorter([]int{1, 2, 3})
		sorter.Edit()
		sorter.DragStart(1)

		if _, moved := sorter.DragOver(2, 100, 100, 20); moved {
			t.Error("expected placing 1 before 2 to be a no-op")
		}
		if _, moved := sorter.DragOver(1, 100, 100, 20); moved {
			t.Error("expected hovering the dragged item itself to be a no-op")
		}
		if _, moved := sorter.DragOver(99, 100, 100, 20); moved {
			t.Error("expected unknown items to be ignored")
		}
	})

	t.Run("Drag End Stops Moves", func(t *testing.T) {
		sorter := NewSorter([]int{1, 2, 3})
		sorter.Edit()
		sorter.DragStart(1)
		sorter.DragEnd()

		if _, moved := sorter.DragOver(3, 200, 100, 20); moved {
			t.Error("expected no move after drag end")
		}
	})

	t.Run("Save Returns Order And Leaves Edit Mode", func(t *testing.T) {
		ids := []int{4, 5, 6}
		sorter := NewSorter(ids)
		sorter.Edit()
		sorter.DragStart(6)
		sorter.DragOver(4, 0, 0, 10)

		order := sorter.Save()

		if !slices.Equal(order, []int{6, 4, 5}) {
			t.Errorf("expected [6 4 5], got %v", order)
		}
		if sorter.Editing() {
			t.Error("expected edit mode to end on save")
		}
		if !slices.Equal(ids, []int{4, 5, 6}) {
			t.Errorf("expected the input slice untouched, got %v", ids)
		}
	})
}
