package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/programmatrix/backend/internal/domain/program"
	"github.com/programmatrix/backend/internal/domain/shared"
	"github.com/programmatrix/backend/internal/infrastructure/persistence/models"
)

// GormRiskRepository implements program.RiskRepository using GORM
type GormRiskRepository struct {
	db *gorm.DB
}

// NewGormRiskRepository creates a new GormRiskRepository
func NewGormRiskRepository(db *gorm.DB) *GormRiskRepository {
	return &GormRiskRepository{db: db}
}

// FindByIDForOrg finds a risk by ID within an organization
func (r *GormRiskRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*program.Risk, error) {
	var model models.RiskModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg returns a page of the organization's risks
func (r *GormRiskRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]program.Risk, error) {
	var riskModels []models.RiskModel
	query := r.db.WithContext(ctx).Where("org_id = ?", orgID)
	if severity, ok := filter.Filters["severity"]; ok {
		query = query.Where("severity = ?", severity)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	query = query.Order("created_at DESC")
	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&riskModels).Error; err != nil {
		return nil, err
	}
	return toDomainRisks(riskModels), nil
}

// FindByProgram returns a program's risks, most severe first
func (r *GormRiskRepository) FindByProgram(ctx context.Context, orgID, programID uuid.UUID) ([]program.Risk, error) {
	var riskModels []models.RiskModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND program_id = ?", orgID, programID).
		Order("created_at ASC").
		Find(&riskModels).Error; err != nil {
		return nil, err
	}
	return toDomainRisks(riskModels), nil
}

// Save persists a risk
func (r *GormRiskRepository) Save(ctx context.Context, risk *program.Risk) error {
	var model models.RiskModel
	model.FromDomain(risk)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a risk
func (r *GormRiskRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&models.RiskModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainRisks(riskModels []models.RiskModel) []program.Risk {
	risks := make([]program.Risk, len(riskModels))
	for i := range riskModels {
		risks[i] = *riskModels[i].ToDomain()
	}
	return risks
}
