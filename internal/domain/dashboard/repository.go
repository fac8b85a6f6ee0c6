package dashboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/programmatrix/backend/internal/domain/shared"
)

// Dashboard domain errors
var (
	ErrInvalidWidgetSize = shared.NewDomainError("INVALID_WIDGET_SIZE", "Unknown widget size")
	ErrWidgetNotFound    = shared.NewDomainError("WIDGET_NOT_FOUND", "Widget not found")
)

// WidgetRepository persists dashboard widgets and their order
type WidgetRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Widget, error)
	// FindAllForOrg returns the organization's widgets in dashboard
	// order (ascending position).
	FindAllForOrg(ctx context.Context, orgID uuid.UUID) ([]Widget, error)
	Save(ctx context.Context, widget *Widget) error
	// SaveOrder persists the given ordering (positions already
	// normalized) and echoes the accepted order back.
	SaveOrder(ctx context.Context, orgID uuid.UUID, widgets []Widget) ([]Widget, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}
