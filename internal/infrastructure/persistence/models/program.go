package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/programmatrix/backend/internal/domain/program"
)

// ProgramModel is the persistence model for programs
type ProgramModel struct {
	OrgAggregateModel
	Name        string           `gorm:"type:varchar(255);not null;index"`
	Description string           `gorm:"type:text"`
	Status      string           `gorm:"type:varchar(20);not null;index"`
	Health      string           `gorm:"type:varchar(20);not null"`
	StartDate   time.Time        `gorm:"not null"`
	EndDate     *time.Time       ``
	Budget      decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Completion  decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	Milestones  []MilestoneModel `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (ProgramModel) TableName() string {
	return "programs"
}

// ToDomain converts the model to a domain Program
func (m *ProgramModel) ToDomain() *program.Program {
	p := &program.Program{
		Name:        m.Name,
		Description: m.Description,
		Status:      program.ProgramStatus(m.Status),
		Health:      program.ProgramHealth(m.Health),
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Budget:      m.Budget,
		Completion:  m.Completion,
	}
	m.PopulateOrgAggregateRoot(&p.OrgAggregateRoot)
	p.Milestones = make([]program.Milestone, len(m.Milestones))
	for i := range m.Milestones {
		p.Milestones[i] = m.Milestones[i].ToDomain()
	}
	return p
}

// FromDomain populates the model from a domain Program
func (m *ProgramModel) FromDomain(p *program.Program) {
	m.FromDomainOrgAggregateRoot(p.OrgAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.Status = string(p.Status)
	m.Health = string(p.Health)
	m.StartDate = p.StartDate
	m.EndDate = p.EndDate
	m.Budget = p.Budget
	m.Completion = p.Completion
	m.Milestones = make([]MilestoneModel, len(p.Milestones))
	for i := range p.Milestones {
		m.Milestones[i].FromDomain(&p.Milestones[i])
	}
}

// MilestoneModel is the persistence model for program milestones
type MilestoneModel struct {
	BaseModel
	ProgramID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title       string     `gorm:"type:varchar(255);not null"`
	DueDate     time.Time  `gorm:"not null"`
	CompletedAt *time.Time ``
}

// TableName specifies the table name
func (MilestoneModel) TableName() string {
	return "program_milestones"
}

// ToDomain converts the model to a domain Milestone
func (m *MilestoneModel) ToDomain() program.Milestone {
	return program.Milestone{
		BaseEntity:  m.BaseModel.ToDomain(),
		ProgramID:   m.ProgramID,
		Title:       m.Title,
		DueDate:     m.DueDate,
		CompletedAt: m.CompletedAt,
	}
}

// FromDomain populates the model from a domain Milestone
func (m *MilestoneModel) FromDomain(ms *program.Milestone) {
	m.FromDomainBaseEntity(ms.BaseEntity)
	m.ProgramID = ms.ProgramID
	m.Title = ms.Title
	m.DueDate = ms.DueDate
	m.CompletedAt = ms.CompletedAt
}

// RiskModel is the persistence model for program risks
type RiskModel struct {
	OrgAggregateModel
	ProgramID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title              string          `gorm:"type:varchar(255);not null"`
	Severity           string          `gorm:"type:varchar(20);not null;index"`
	Status             string          `gorm:"type:varchar(20);not null;index"`
	MitigationProgress decimal.Decimal `gorm:"type:decimal(5,2);not null"`
}

// TableName specifies the table name
func (RiskModel) TableName() string {
	return "program_risks"
}

// ToDomain converts the model to a domain Risk
func (m *RiskModel) ToDomain() *program.Risk {
	r := &program.Risk{
		ProgramID:          m.ProgramID,
		Title:              m.Title,
		Severity:           program.RiskSeverity(m.Severity),
		Status:             program.RiskStatus(m.Status),
		MitigationProgress: m.MitigationProgress,
	}
	m.PopulateOrgAggregateRoot(&r.OrgAggregateRoot)
	return r
}

// FromDomain populates the model from a domain Risk
func (m *RiskModel) FromDomain(r *program.Risk) {
	m.FromDomainOrgAggregateRoot(r.OrgAggregateRoot)
	m.ProgramID = r.ProgramID
	m.Title = r.Title
	m.Severity = string(r.Severity)
	m.Status = string(r.Status)
	m.MitigationProgress = r.MitigationProgress
}

// FinancialRecordModel is the persistence model for planned-vs-actual
// spend entries.
type FinancialRecordModel struct {
	OrgAggregateModel
	ProgramID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Category   string          `gorm:"type:varchar(30);not null;index"`
	Planned    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Actual     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	RecordedAt time.Time       `gorm:"not null;index"`
}

// TableName specifies the table name
func (FinancialRecordModel) TableName() string {
	return "financial_records"
}

// ToDomain converts the model to a domain FinancialRecord
func (m *FinancialRecordModel) ToDomain() *program.FinancialRecord {
	f := &program.FinancialRecord{
		ProgramID:  m.ProgramID,
		Category:   program.FinancialCategory(m.Category),
		Planned:    m.Planned,
		Actual:     m.Actual,
		RecordedAt: m.RecordedAt,
	}
	m.PopulateOrgAggregateRoot(&f.OrgAggregateRoot)
	return f
}

// FromDomain populates the model from a domain FinancialRecord
func (m *FinancialRecordModel) FromDomain(f *program.FinancialRecord) {
	m.FromDomainOrgAggregateRoot(f.OrgAggregateRoot)
	m.ProgramID = f.ProgramID
	m.Category = string(f.Category)
	m.Planned = f.Planned
	m.Actual = f.Actual
	m.RecordedAt = f.RecordedAt
}
