package program

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/programmatrix/backend/internal/domain/program"
	"github.com/programmatrix/backend/internal/domain/shared"
)

// ProgramService manages programs, their milestones, risks and
// financial records. These aggregates feed the reporting backend's
// metric queries.
type ProgramService struct {
	programs   program.ProgramRepository
	risks      program.RiskRepository
	financials program.FinancialRecordRepository
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewProgramService creates a new ProgramService
func NewProgramService(
	programs program.ProgramRepository,
	risks program.RiskRepository,
	financials program.FinancialRecordRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ProgramService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{
		programs:   programs,
		risks:      risks,
		financials: financials,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateProgram creates a new program in planning state
func (s *ProgramService) CreateProgram(ctx context.Context, orgID uuid.UUID, name, description string, startDate time.Time, budget decimal.Decimal) (*program.Program, error) {
	p, err := program.NewProgram(orgID, name, description, startDate, budget)
	if err != nil {
		return nil, err
	}
	if err := s.programs.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProgram fetches a program by ID within the organization
func (s *ProgramService) GetProgram(ctx context.Context, orgID, id uuid.UUID) (*program.Program, error) {
	return s.programs.FindByIDForOrg(ctx, orgID, id)
}

// ListPrograms returns a page of the organization's programs
func (s *ProgramService) ListPrograms(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (shared.Paginated[program.Program], error) {
	items, err := s.programs.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return shared.Paginated[program.Program]{}, err
	}
	total, err := s.programs.CountForOrg(ctx, orgID)
	if err != nil {
		return shared.Paginated[program.Program]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// ActivateProgram transitions a program from planning to active
func (s *ProgramService) ActivateProgram(ctx context.Context, orgID, id uuid.UUID) (*program.Program, error) {
	return s.mutateProgram(ctx, orgID, id, func(p *program.Program) error {
		return p.Activate()
	})
}

// HoldProgram puts an active program on hold
func (s *ProgramService) HoldProgram(ctx context.Context, orgID, id uuid.UUID) (*program.Program, error) {
	return s.mutateProgram(ctx, orgID, id, func(p *program.Program) error {
		return p.Hold()
	})
}

// CompleteProgram marks a program as completed
func (s *ProgramService) CompleteProgram(ctx context.Context, orgID, id uuid.UUID) (*program.Program, error) {
	return s.mutateProgram(ctx, orgID, id, func(p *program.Program) error {
		return p.Complete()
	})
}

// UpdateCompletion records the program's completion percentage
func (s *ProgramService) UpdateCompletion(ctx context.Context, orgID, id uuid.UUID, completion decimal.Decimal) (*program.Program, error) {
	return s.mutateProgram(ctx, orgID, id, func(p *program.Program) error {
		return p.UpdateCompletion(completion)
	})
}

// AddMilestone appends a milestone to the program
func (s *ProgramService) AddMilestone(ctx context.Context, orgID, id uuid.UUID, title string, dueDate time.Time) (*program.Program, error) {
	return s.mutateProgram(ctx, orgID, id, func(p *program.Program) error {
		_, err := p.AddMilestone(title, dueDate)
		return err
	})
}

// CompleteMilestone marks one of the program's milestones as hit
func (s *ProgramService) CompleteMilestone(ctx context.Context, orgID, id, milestoneID uuid.UUID) (*program.Program, error) {
	return s.mutateProgram(ctx, orgID, id, func(p *program.Program) error {
		return p.CompleteMilestone(milestoneID, time.Now())
	})
}

// DeleteProgram removes a program and its dependent records
func (s *ProgramService) DeleteProgram(ctx context.Context, orgID, id uuid.UUID) error {
	return s.programs.Delete(ctx, orgID, id)
}

// RegisterRisk records a new risk against a program
func (s *ProgramService) RegisterRisk(ctx context.Context, orgID, programID uuid.UUID, title string, severity program.RiskSeverity) (*program.Risk, error) {
	if _, err := s.programs.FindByIDForOrg(ctx, orgID, programID); err != nil {
		return nil, err
	}
	r, err := program.NewRisk(orgID, programID, title, severity)
	if err != nil {
		return nil, err
	}
	if err := s.risks.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateRiskMitigation records mitigation progress; reaching 100%
// closes the risk.
func (s *ProgramService) UpdateRiskMitigation(ctx context.Context, orgID, riskID uuid.UUID, progress decimal.Decimal) (*program.Risk, error) {
	r, err := s.risks.FindByIDForOrg(ctx, orgID, riskID)
	if err != nil {
		return nil, err
	}
	if r.Status == program.RiskStatusOpen {
		if err := r.StartMitigation(); err != nil {
			return nil, err
		}
	}
	if err := r.UpdateMitigation(progress); err != nil {
		return nil, err
	}
	if err := s.risks.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRisks returns the risks registered against a program
func (s *ProgramService) ListRisks(ctx context.Context, orgID, programID uuid.UUID) ([]program.Risk, error) {
	return s.risks.FindByProgram(ctx, orgID, programID)
}

// RecordFinancial stores a planned-vs-actual spend entry
func (s *ProgramService) RecordFinancial(ctx context.Context, orgID, programID uuid.UUID, category program.FinancialCategory, planned, actual decimal.Decimal, recordedAt time.Time) (*program.FinancialRecord, error) {
	if _, err := s.programs.FindByIDForOrg(ctx, orgID, programID); err != nil {
		return nil, err
	}
	f, err := program.NewFinancialRecord(orgID, programID, category, planned, actual, recordedAt)
	if err != nil {
		return nil, err
	}
	if err := s.financials.Save(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ListFinancials returns a program's financial records
func (s *ProgramService) ListFinancials(ctx context.Context, orgID, programID uuid.UUID) ([]program.FinancialRecord, error) {
	return s.financials.FindByProgram(ctx, orgID, programID)
}

func (s *ProgramService) mutateProgram(ctx context.Context, orgID, id uuid.UUID, fn func(*program.Program) error) (*program.Program, error) {
	p, err := s.programs.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.programs.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, p)
	return p, nil
}

func (s *ProgramService) publishDomainEvents(ctx context.Context, p *program.Program) {
	events := p.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if s.publisher == nil {
		p.ClearDomainEvents()
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish program events", zap.Error(err))
	}
	p.ClearDomainEvents()
}
