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

// GormProgramRepository implements program.ProgramRepository using GORM
type GormProgramRepository struct {
	db *gorm.DB
}

// NewGormProgramRepository creates a new GormProgramRepository
func NewGormProgramRepository(db *gorm.DB) *GormProgramRepository {
	return &GormProgramRepository{db: db}
}

// FindByIDForOrg finds a program by ID within an organization
func (r *GormProgramRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*program.Program, error) {
	var model models.ProgramModel
	if err := r.db.WithContext(ctx).
		Preload("Milestones").
		Where("org_id = ? AND id = ?", orgID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg returns a page of the organization's programs
func (r *GormProgramRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]program.Program, error) {
	var programModels []models.ProgramModel
	query := r.db.WithContext(ctx).
		Preload("Milestones").
		Where("org_id = ?", orgID)

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	orderBy := ValidateSortField(filter.OrderBy, ProgramSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&programModels).Error; err != nil {
		return nil, err
	}

	programs := make([]program.Program, len(programModels))
	for i := range programModels {
		programs[i] = *programModels[i].ToDomain()
	}
	return programs, nil
}

// CountForOrg counts the organization's programs
func (r *GormProgramRepository) CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProgramModel{}).
		Where("org_id = ?", orgID).
		Count(&count).Error
	return count, err
}

// Save persists a program and its milestones
func (r *GormProgramRepository) Save(ctx context.Context, p *program.Program) error {
	var model models.ProgramModel
	model.FromDomain(p)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Milestones").Save(&model).Error; err != nil {
			return err
		}
		// Milestones are replaced wholesale; the set is small and
		// ordering is owned by the aggregate.
		if err := tx.Where("program_id = ?", model.ID).
			Delete(&models.MilestoneModel{}).Error; err != nil {
			return err
		}
		if len(model.Milestones) == 0 {
			return nil
		}
		return tx.Create(&model.Milestones).Error
	})
}

// Delete removes a program and its dependent records
func (r *GormProgramRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("org_id = ? AND id = ?", orgID, id).
			Delete(&models.ProgramModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		if err := tx.Where("program_id = ?", id).
			Delete(&models.MilestoneModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("org_id = ? AND program_id = ?", orgID, id).
			Delete(&models.RiskModel{}).Error; err != nil {
			return err
		}
		return tx.Where("org_id = ? AND program_id = ?", orgID, id).
			Delete(&models.FinancialRecordModel{}).Error
	})
}
