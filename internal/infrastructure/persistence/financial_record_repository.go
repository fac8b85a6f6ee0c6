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

// GormFinancialRecordRepository implements program.FinancialRecordRepository using GORM
type GormFinancialRecordRepository struct {
	db *gorm.DB
}

// NewGormFinancialRecordRepository creates a new GormFinancialRecordRepository
func NewGormFinancialRecordRepository(db *gorm.DB) *GormFinancialRecordRepository {
	return &GormFinancialRecordRepository{db: db}
}

// FindByIDForOrg finds a financial record by ID within an organization
func (r *GormFinancialRecordRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*program.FinancialRecord, error) {
	var model models.FinancialRecordModel
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

// FindAllForOrg returns a page of the organization's financial records
func (r *GormFinancialRecordRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]program.FinancialRecord, error) {
	var recordModels []models.FinancialRecordModel
	query := r.db.WithContext(ctx).Where("org_id = ?", orgID)
	if category, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", category)
	}
	query = query.Order("recorded_at DESC")
	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toDomainFinancialRecords(recordModels), nil
}

// FindByProgram returns a program's financial records in entry order
func (r *GormFinancialRecordRepository) FindByProgram(ctx context.Context, orgID, programID uuid.UUID) ([]program.FinancialRecord, error) {
	var recordModels []models.FinancialRecordModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND program_id = ?", orgID, programID).
		Order("recorded_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toDomainFinancialRecords(recordModels), nil
}

// Save persists a financial record
func (r *GormFinancialRecordRepository) Save(ctx context.Context, record *program.FinancialRecord) error {
	var model models.FinancialRecordModel
	model.FromDomain(record)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a financial record
func (r *GormFinancialRecordRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&models.FinancialRecordModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainFinancialRecords(recordModels []models.FinancialRecordModel) []program.FinancialRecord {
	records := make([]program.FinancialRecord, len(recordModels))
	for i := range recordModels {
		records[i] = *recordModels[i].ToDomain()
	}
	return records
}
