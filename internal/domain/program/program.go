package program

import (
	"time"

	"github.com/google/uuid"
	"github.com/programmatrix/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProgramStatus is the lifecycle state of a program
type ProgramStatus string

const (
	ProgramStatusPlanning  ProgramStatus = "planning"
	ProgramStatusActive    ProgramStatus = "active"
	ProgramStatusOnHold    ProgramStatus = "on_hold"
	ProgramStatusCompleted ProgramStatus = "completed"
)

// ProgramHealth is the current delivery assessment of a program
type ProgramHealth string

const (
	ProgramHealthOnTrack  ProgramHealth = "on_track"
	ProgramHealthAtRisk   ProgramHealth = "at_risk"
	ProgramHealthOffTrack ProgramHealth = "off_track"
)

// Program is a tracked program with goals, milestones and a budget
type Program struct {
	shared.OrgAggregateRoot
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      ProgramStatus   `json:"status"`
	Health      ProgramHealth   `json:"health"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	Budget      decimal.Decimal `json:"budget"`
	Completion  decimal.Decimal `json:"completion"` // 0-100
	Milestones  []Milestone     `json:"milestones"`
}

// Milestone is a dated checkpoint within a program
type Milestone struct {
	shared.BaseEntity
	ProgramID   uuid.UUID  `json:"program_id"`
	Title       string     `json:"title"`
	DueDate     time.Time  `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Done reports whether the milestone has been completed
func (m *Milestone) Done() bool {
	return m.CompletedAt != nil
}

// NewProgram creates a program in planning state
func NewProgram(orgID uuid.UUID, name, description string, startDate time.Time, budget decimal.Decimal) (*Program, error) {
	if name == "" {
		return nil, ErrProgramNameRequired
	}
	if budget.IsNegative() {
		return nil, ErrNegativeBudget
	}
	return &Program{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		Description:      description,
		Status:           ProgramStatusPlanning,
		Health:           ProgramHealthOnTrack,
		StartDate:        startDate,
		Budget:           budget,
		Completion:       decimal.Zero,
	}, nil
}

// Activate moves the program from planning or on-hold to active
func (p *Program) Activate() error {
	if p.Status != ProgramStatusPlanning && p.Status != ProgramStatusOnHold {
		return shared.ErrInvalidState
	}
	p.Status = ProgramStatusActive
	return nil
}

// Hold pauses an active program
func (p *Program) Hold() error {
	if p.Status != ProgramStatusActive {
		return shared.ErrInvalidState
	}
	p.Status = ProgramStatusOnHold
	return nil
}

// Complete finishes the program and pins completion at 100%
func (p *Program) Complete() error {
	if p.Status != ProgramStatusActive {
		return shared.ErrInvalidState
	}
	now := time.Now()
	p.Status = ProgramStatusCompleted
	p.Completion = decimal.NewFromInt(100)
	p.EndDate = &now
	return nil
}

// UpdateCompletion records progress as a percentage in [0, 100]
func (p *Program) UpdateCompletion(completion decimal.Decimal) error {
	if completion.IsNegative() || completion.GreaterThan(decimal.NewFromInt(100)) {
		return ErrCompletionOutOfRange
	}
	p.Completion = completion
	return nil
}

// SetHealth updates the delivery assessment
func (p *Program) SetHealth(health ProgramHealth) {
	p.Health = health
}

// AddMilestone appends a milestone to the program
func (p *Program) AddMilestone(title string, dueDate time.Time) (Milestone, error) {
	if title == "" {
		return Milestone{}, ErrMilestoneTitleRequired
	}
	m := Milestone{
		BaseEntity: shared.NewBaseEntity(),
		ProgramID:  p.ID,
		Title:      title,
		DueDate:    dueDate,
	}
	p.Milestones = append(p.Milestones, m)
	return m, nil
}

// CompleteMilestone marks the milestone with the given ID as done
func (p *Program) CompleteMilestone(milestoneID uuid.UUID, at time.Time) error {
	for i := range p.Milestones {
		if p.Milestones[i].ID == milestoneID {
			p.Milestones[i].CompletedAt = &at
			return nil
		}
	}
	return shared.ErrNotFound
}

// MilestonesHit counts completed milestones
func (p *Program) MilestonesHit() int {
	hit := 0
	for i := range p.Milestones {
		if p.Milestones[i].Done() {
			hit++
		}
	}
	return hit
}
