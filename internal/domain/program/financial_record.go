package program

import (
	"time"

	"github.com/google/uuid"
	"github.com/programmatrix/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FinancialCategory buckets spend for budget reporting
type FinancialCategory string

const (
	FinancialCategoryPlanning    FinancialCategory = "Planning"
	FinancialCategoryDevelopment FinancialCategory = "Development"
	FinancialCategoryMarketing   FinancialCategory = "Marketing"
	FinancialCategoryOperations  FinancialCategory = "Operations"
	FinancialCategoryContingency FinancialCategory = "Contingency"
)

// FinancialCategories returns all spend categories in display order
func FinancialCategories() []FinancialCategory {
	return []FinancialCategory{
		FinancialCategoryPlanning,
		FinancialCategoryDevelopment,
		FinancialCategoryMarketing,
		FinancialCategoryOperations,
		FinancialCategoryContingency,
	}
}

// FinancialRecord is one planned-vs-actual spend entry for a program
type FinancialRecord struct {
	shared.OrgAggregateRoot
	ProgramID  uuid.UUID         `json:"program_id"`
	Category   FinancialCategory `json:"category"`
	Planned    decimal.Decimal   `json:"planned"`
	Actual     decimal.Decimal   `json:"actual"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// NewFinancialRecord creates a spend entry
func NewFinancialRecord(orgID, programID uuid.UUID, category FinancialCategory, planned, actual decimal.Decimal, recordedAt time.Time) (*FinancialRecord, error) {
	if planned.IsNegative() || actual.IsNegative() {
		return nil, ErrNegativeBudget
	}
	return &FinancialRecord{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		ProgramID:        programID,
		Category:         category,
		Planned:          planned,
		Actual:           actual,
		RecordedAt:       recordedAt,
	}, nil
}

// Variance returns actual minus planned spend
func (f *FinancialRecord) Variance() decimal.Decimal {
	return f.Actual.Sub(f.Planned)
}
