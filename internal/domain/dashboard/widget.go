package dashboard

import (
	"github.com/google/uuid"
	"github.com/programmatrix/backend/internal/domain/shared"
)

// WidgetKind identifies what a dashboard tile renders
type WidgetKind string

const (
	WidgetKindChart    WidgetKind = "chart"
	WidgetKindProgress WidgetKind = "progress"
)

// Valid reports whether the widget kind is known
func (k WidgetKind) Valid() bool {
	return k == WidgetKindChart || k == WidgetKindProgress
}

// WidgetSize is the grid footprint of a widget
type WidgetSize string

const (
	WidgetSizeSmall  WidgetSize = "small"
	WidgetSizeMedium WidgetSize = "medium"
	WidgetSizeLarge  WidgetSize = "large"
)

// Valid reports whether the widget size is known
func (s WidgetSize) Valid() bool {
	switch s {
	case WidgetSizeSmall, WidgetSizeMedium, WidgetSizeLarge:
		return true
	}
	return false
}

// Widget is a dashboard tile bound to one data source and widget kind.
// Position is the widget's index in the dashboard order.
type Widget struct {
	shared.OrgAggregateRoot
	Title    string     `json:"title"`
	Kind     WidgetKind `json:"kind"`
	Source   string     `json:"source"`
	Size     WidgetSize `json:"size"`
	Position int        `json:"position"`
}

// NewWidget creates a widget at the end of the dashboard order
func NewWidget(orgID uuid.UUID, title string, kind WidgetKind, source string, size WidgetSize, position int) *Widget {
	return &Widget{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Title:            title,
		Kind:             kind,
		Source:           source,
		Size:             size,
		Position:         position,
	}
}

// Resize changes the widget's grid footprint
func (w *Widget) Resize(size WidgetSize) error {
	if !size.Valid() {
		return ErrInvalidWidgetSize
	}
	if w.Size == size {
		return nil
	}
	w.Size = size
	w.AddDomainEvent(NewWidgetResizedEvent(w))
	return nil
}
