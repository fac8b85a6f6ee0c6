package dashboard

import (
	"github.com/google/uuid"
	"github.com/programmatrix/backend/internal/domain/shared"
)

// Event types published by the dashboard domain
const (
	EventTypeWidgetsReordered = "dashboard.widgets.reordered"
	EventTypeWidgetResized    = "dashboard.widget.resized"
)

const aggregateTypeWidget = "Widget"

// WidgetsReorderedEvent is published after a drag-and-drop reorder is
// accepted by the store.
type WidgetsReorderedEvent struct {
	shared.BaseDomainEvent
	Order []uuid.UUID `json:"order"`
}

// NewWidgetsReorderedEvent creates a WidgetsReorderedEvent
func NewWidgetsReorderedEvent(orgID uuid.UUID, widgets []Widget) *WidgetsReorderedEvent {
	order := make([]uuid.UUID, len(widgets))
	for i, w := range widgets {
		order[i] = w.ID
	}
	return &WidgetsReorderedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWidgetsReordered, aggregateTypeWidget, uuid.New(), orgID),
		Order:           order,
	}
}

// WidgetResizedEvent is published when a widget's size changes
type WidgetResizedEvent struct {
	shared.BaseDomainEvent
	Size WidgetSize `json:"size"`
}

// NewWidgetResizedEvent creates a WidgetResizedEvent
func NewWidgetResizedEvent(widget *Widget) *WidgetResizedEvent {
	return &WidgetResizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWidgetResized, aggregateTypeWidget, widget.ID, widget.OrgID),
		Size:            widget.Size,
	}
}
