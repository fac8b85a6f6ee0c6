package dashboard

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/programmatrix/backend/internal/domain/dashboard"
	"github.com/programmatrix/backend/internal/domain/shared"
)

// WidgetService manages dashboard widgets: CRUD, drag-and-drop
// reordering, and resizing. Reorder and resize are applied
// optimistically; when persistence fails, the previous state is
// restored and the error surfaced.
type WidgetService struct {
	repo      dashboard.WidgetRepository
	publisher shared.EventPublisher
	logger    *zap.Logger

	mu    sync.Mutex
	drags map[uuid.UUID]uuid.UUID // orgID -> widget currently being dragged
}

// NewWidgetService creates a new WidgetService
func NewWidgetService(repo dashboard.WidgetRepository, publisher shared.EventPublisher, logger *zap.Logger) *WidgetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WidgetService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		drags:     make(map[uuid.UUID]uuid.UUID),
	}
}

// CreateWidget appends a widget at the end of the organization's
// dashboard order.
func (s *WidgetService) CreateWidget(ctx context.Context, orgID uuid.UUID, title string, kind dashboard.WidgetKind, source string, size dashboard.WidgetSize) (*dashboard.Widget, error) {
	if !kind.Valid() {
		return nil, shared.ErrInvalidInput
	}
	if !size.Valid() {
		return nil, dashboard.ErrInvalidWidgetSize
	}

	existing, err := s.repo.FindAllForOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	widget := dashboard.NewWidget(orgID, title, kind, source, size, len(existing))
	if err := s.repo.Save(ctx, widget); err != nil {
		return nil, err
	}
	return widget, nil
}

// ListWidgets returns the organization's widgets in dashboard order
func (s *WidgetService) ListWidgets(ctx context.Context, orgID uuid.UUID) ([]dashboard.Widget, error) {
	return s.repo.FindAllForOrg(ctx, orgID)
}

// StartDrag records the widget being dragged for the organization.
// Only one drag is tracked per org; starting a new drag replaces the
// previous slot.
func (s *WidgetService) StartDrag(ctx context.Context, orgID, widgetID uuid.UUID) error {
	if _, err := s.repo.FindByIDForOrg(ctx, orgID, widgetID); err != nil {
		return err
	}
	s.mu.Lock()
	s.drags[orgID] = widgetID
	s.mu.Unlock()
	return nil
}

// EndDrag clears the organization's drag slot without reordering
func (s *WidgetService) EndDrag(orgID uuid.UUID) {
	s.mu.Lock()
	delete(s.drags, orgID)
	s.mu.Unlock()
}

// DropOn completes a drag by dropping onto the target widget. The
// dragged widget takes the target's former position and intermediate
// widgets shift by one. Dropping a widget onto itself, or when no drag
// is active, leaves the order untouched without hitting persistence.
// The new order is returned as accepted by the store; on persistence
// failure the previous order is restored.
func (s *WidgetService) DropOn(ctx context.Context, orgID, targetID uuid.UUID) ([]dashboard.Widget, error) {
	s.mu.Lock()
	draggedID, active := s.drags[orgID]
	delete(s.drags, orgID)
	s.mu.Unlock()

	current, err := s.repo.FindAllForOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !active {
		return current, nil
	}

	ordered, moved := dashboard.MoveWidget(current, draggedID, targetID)
	if !moved {
		return current, nil
	}

	accepted, err := s.repo.SaveOrder(ctx, orgID, ordered)
	if err != nil {
		s.logger.Warn("widget reorder rejected, restoring previous order",
			zap.String("org_id", orgID.String()),
			zap.String("dragged_id", draggedID.String()),
			zap.String("target_id", targetID.String()),
			zap.Error(err))
		return current, err
	}

	s.publish(ctx, dashboard.NewWidgetsReorderedEvent(orgID, accepted))
	return accepted, nil
}

// Resize changes a widget's grid footprint. The change is written
// through immediately; when the store rejects it, the widget keeps its
// previous size and the error is returned.
func (s *WidgetService) Resize(ctx context.Context, orgID, widgetID uuid.UUID, size dashboard.WidgetSize) (*dashboard.Widget, error) {
	widget, err := s.repo.FindByIDForOrg(ctx, orgID, widgetID)
	if err != nil {
		return nil, err
	}

	previous := widget.Size
	if err := widget.Resize(size); err != nil {
		return nil, err
	}
	if widget.Size == previous {
		return widget, nil
	}

	if err := s.repo.Save(ctx, widget); err != nil {
		s.logger.Warn("widget resize rejected, restoring previous size",
			zap.String("org_id", orgID.String()),
			zap.String("widget_id", widgetID.String()),
			zap.String("size", string(previous)),
			zap.Error(err))
		widget.Size = previous
		widget.ClearDomainEvents()
		return nil, err
	}

	s.publishDomainEvents(ctx, widget)
	return widget, nil
}

// DeleteWidget removes a widget and renumbers the remaining order
func (s *WidgetService) DeleteWidget(ctx context.Context, orgID, widgetID uuid.UUID) error {
	if err := s.repo.Delete(ctx, orgID, widgetID); err != nil {
		return err
	}

	remaining, err := s.repo.FindAllForOrg(ctx, orgID)
	if err != nil {
		return err
	}
	dashboard.NormalizePositions(remaining)
	_, err = s.repo.SaveOrder(ctx, orgID, remaining)
	return err
}

func (s *WidgetService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish dashboard events", zap.Error(err))
	}
}

func (s *WidgetService) publishDomainEvents(ctx context.Context, widget *dashboard.Widget) {
	events := widget.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	s.publish(ctx, events...)
	widget.ClearDomainEvents()
}
