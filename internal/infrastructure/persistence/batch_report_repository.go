package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/programmatrix/backend/internal/domain/insight"
	"github.com/programmatrix/backend/internal/domain/shared"
	"github.com/programmatrix/backend/internal/infrastructure/persistence/models"
)

// GormBatchReportRepository implements insight.BatchReportRepository using GORM
type GormBatchReportRepository struct {
	db *gorm.DB
}

// NewGormBatchReportRepository creates a new GormBatchReportRepository
func NewGormBatchReportRepository(db *gorm.DB) *GormBatchReportRepository {
	return &GormBatchReportRepository{db: db}
}

// FindByIDForOrg finds a batch report by ID within an organization
func (r *GormBatchReportRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*insight.BatchReport, error) {
	var model models.BatchReportModel
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

// FindAllForOrg returns a page of the organization's batch reports
func (r *GormBatchReportRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]insight.BatchReport, error) {
	var reportModels []models.BatchReportModel
	query := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at DESC")
	if filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&reportModels).Error; err != nil {
		return nil, err
	}
	return toDomainBatchReports(reportModels), nil
}

// FindPendingForOrg returns the organization's pending reports in
// queue order (oldest first).
func (r *GormBatchReportRepository) FindPendingForOrg(ctx context.Context, orgID uuid.UUID) ([]insight.BatchReport, error) {
	var reportModels []models.BatchReportModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND status = ?", orgID, string(insight.BatchStatusPending)).
		Order("created_at ASC").
		Find(&reportModels).Error; err != nil {
		return nil, err
	}
	return toDomainBatchReports(reportModels), nil
}

// FindDue returns pending reports across all organizations, oldest first
func (r *GormBatchReportRepository) FindDue(ctx context.Context, limit int) ([]insight.BatchReport, error) {
	var reportModels []models.BatchReportModel
	query := r.db.WithContext(ctx).
		Where("status = ?", string(insight.BatchStatusPending)).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reportModels).Error; err != nil {
		return nil, err
	}
	return toDomainBatchReports(reportModels), nil
}

// Save persists a batch report
func (r *GormBatchReportRepository) Save(ctx context.Context, report *insight.BatchReport) error {
	var model models.BatchReportModel
	if err := model.FromDomain(report); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a batch report
func (r *GormBatchReportRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&models.BatchReportModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainBatchReports(reportModels []models.BatchReportModel) []insight.BatchReport {
	reports := make([]insight.BatchReport, len(reportModels))
	for i := range reportModels {
		reports[i] = *reportModels[i].ToDomain()
	}
	return reports
}
