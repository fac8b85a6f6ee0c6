package program

import (
	"github.com/google/uuid"
	"github.com/programmatrix/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RiskSeverity buckets a risk for aggregation
type RiskSeverity string

const (
	RiskSeverityLow      RiskSeverity = "low"
	RiskSeverityMedium   RiskSeverity = "medium"
	RiskSeverityHigh     RiskSeverity = "high"
	RiskSeverityCritical RiskSeverity = "critical"
)

// Valid reports whether the severity is a known bucket
func (s RiskSeverity) Valid() bool {
	switch s {
	case RiskSeverityLow, RiskSeverityMedium, RiskSeverityHigh, RiskSeverityCritical:
		return true
	}
	return false
}

// RiskStatus is the tracking state of a risk
type RiskStatus string

const (
	RiskStatusOpen       RiskStatus = "open"
	RiskStatusMitigating RiskStatus = "mitigating"
	RiskStatusClosed     RiskStatus = "closed"
)

// Risk is a tracked risk attached to a program
type Risk struct {
	shared.OrgAggregateRoot
	ProgramID          uuid.UUID       `json:"program_id"`
	Title              string          `json:"title"`
	Severity           RiskSeverity    `json:"severity"`
	Status             RiskStatus      `json:"status"`
	MitigationProgress decimal.Decimal `json:"mitigation_progress"` // 0-100
}

// NewRisk creates an open risk for a program
func NewRisk(orgID, programID uuid.UUID, title string, severity RiskSeverity) (*Risk, error) {
	if title == "" {
		return nil, ErrRiskTitleRequired
	}
	if !severity.Valid() {
		return nil, ErrInvalidRiskSeverity
	}
	return &Risk{
		OrgAggregateRoot:   shared.NewOrgAggregateRoot(orgID),
		ProgramID:          programID,
		Title:              title,
		Severity:           severity,
		Status:             RiskStatusOpen,
		MitigationProgress: decimal.Zero,
	}, nil
}

// StartMitigation moves an open risk into mitigation
func (r *Risk) StartMitigation() error {
	if r.Status != RiskStatusOpen {
		return shared.ErrInvalidState
	}
	r.Status = RiskStatusMitigating
	return nil
}

// UpdateMitigation records mitigation progress; reaching 100 closes
// the risk.
func (r *Risk) UpdateMitigation(progress decimal.Decimal) error {
	if r.Status == RiskStatusClosed {
		return shared.ErrInvalidState
	}
	if progress.IsNegative() || progress.GreaterThan(decimal.NewFromInt(100)) {
		return ErrCompletionOutOfRange
	}
	r.MitigationProgress = progress
	if progress.Equal(decimal.NewFromInt(100)) {
		r.Status = RiskStatusClosed
	}
	return nil
}

// Close closes the risk regardless of mitigation progress
func (r *Risk) Close() {
	r.Status = RiskStatusClosed
}
