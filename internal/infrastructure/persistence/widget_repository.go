package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/programmatrix/backend/internal/domain/dashboard"
	"github.com/programmatrix/backend/internal/domain/shared"
	"github.com/programmatrix/backend/internal/infrastructure/persistence/models"
)

// GormWidgetRepository implements dashboard.WidgetRepository using GORM
type GormWidgetRepository struct {
	db *gorm.DB
}

// NewGormWidgetRepository creates a new GormWidgetRepository
func NewGormWidgetRepository(db *gorm.DB) *GormWidgetRepository {
	return &GormWidgetRepository{db: db}
}

// FindByIDForOrg finds a widget by ID within an organization
func (r *GormWidgetRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*dashboard.Widget, error) {
	var model models.WidgetModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dashboard.ErrWidgetNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg returns the organization's widgets in dashboard order
func (r *GormWidgetRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID) ([]dashboard.Widget, error) {
	var widgetModels []models.WidgetModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("position ASC").
		Find(&widgetModels).Error; err != nil {
		return nil, err
	}

	widgets := make([]dashboard.Widget, len(widgetModels))
	for i := range widgetModels {
		widgets[i] = *widgetModels[i].ToDomain()
	}
	return widgets, nil
}

// Save persists a widget
func (r *GormWidgetRepository) Save(ctx context.Context, widget *dashboard.Widget) error {
	var model models.WidgetModel
	model.FromDomain(widget)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveOrder persists the given ordering in one transaction and echoes
// the accepted order back.
func (r *GormWidgetRepository) SaveOrder(ctx context.Context, orgID uuid.UUID, widgets []dashboard.Widget) ([]dashboard.Widget, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range widgets {
			result := tx.Model(&models.WidgetModel{}).
				Where("org_id = ? AND id = ?", orgID, widgets[i].ID).
				Update("position", widgets[i].Position)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return dashboard.ErrWidgetNotFound
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindAllForOrg(ctx, orgID)
}

// Delete removes a widget
func (r *GormWidgetRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&models.WidgetModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
