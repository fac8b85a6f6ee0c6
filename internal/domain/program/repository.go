package program

import (
	"context"

	"github.com/google/uuid"
	"github.com/programmatrix/backend/internal/domain/shared"
)

// Program domain errors
var (
	ErrProgramNameRequired    = shared.NewDomainError("PROGRAM_NAME_REQUIRED", "Program name is required")
	ErrMilestoneTitleRequired = shared.NewDomainError("MILESTONE_TITLE_REQUIRED", "Milestone title is required")
	ErrRiskTitleRequired      = shared.NewDomainError("RISK_TITLE_REQUIRED", "Risk title is required")
	ErrInvalidRiskSeverity    = shared.NewDomainError("INVALID_RISK_SEVERITY", "Unknown risk severity")
	ErrNegativeBudget         = shared.NewDomainError("NEGATIVE_BUDGET", "Budget amounts cannot be negative")
	ErrCompletionOutOfRange   = shared.NewDomainError("COMPLETION_OUT_OF_RANGE", "Completion must be between 0 and 100")
)

// ProgramRepository persists programs and their milestones
type ProgramRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Program, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Program, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
	Save(ctx context.Context, program *Program) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// RiskRepository persists program risks
type RiskRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Risk, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Risk, error)
	FindByProgram(ctx context.Context, orgID, programID uuid.UUID) ([]Risk, error)
	Save(ctx context.Context, risk *Risk) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// FinancialRecordRepository persists planned-vs-actual spend entries
type FinancialRecordRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*FinancialRecord, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]FinancialRecord, error)
	FindByProgram(ctx context.Context, orgID, programID uuid.UUID) ([]FinancialRecord, error)
	Save(ctx context.Context, record *FinancialRecord) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}
