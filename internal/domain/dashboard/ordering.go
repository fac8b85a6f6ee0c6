package dashboard

import "github.com/google/uuid"

// MoveWidget returns a new ordering with the dragged widget removed
// from its current index and reinserted at the target's former index;
// widgets between the two positions shift by one. It returns the input
// unchanged with moved=false when either widget cannot be located or
// source equals target.
func MoveWidget(widgets []Widget, draggedID, targetID uuid.UUID) (ordered []Widget, moved bool) {
	if draggedID == targetID {
		return widgets, false
	}

	from, to := -1, -1
	for i := range widgets {
		switch widgets[i].ID {
		case draggedID:
			from = i
		case targetID:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return widgets, false
	}

	ordered = make([]Widget, 0, len(widgets))
	ordered = append(ordered, widgets[:from]...)
	ordered = append(ordered, widgets[from+1:]...)
	ordered = append(ordered[:to], append([]Widget{widgets[from]}, ordered[to:]...)...)

	for i := range ordered {
		ordered[i].Position = i
	}
	return ordered, true
}

// NormalizePositions rewrites Position fields to match slice order
func NormalizePositions(widgets []Widget) {
	for i := range widgets {
		widgets[i].Position = i
	}
}
