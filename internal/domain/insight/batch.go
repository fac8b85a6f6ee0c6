package insight

import (
	"github.com/google/uuid"
	"github.com/programmatrix/backend/internal/domain/shared"
)

// BatchStatus is the lifecycle state of a queued batch report
type BatchStatus string

const (
	BatchStatusPending    BatchStatus = "pending"
	BatchStatusGenerating BatchStatus = "generating"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusError      BatchStatus = "error"
)

// Terminal reports whether the status is a terminal state
func (s BatchStatus) Terminal() bool {
	return s == BatchStatusCompleted || s == BatchStatusError
}

// BatchReport is one report configuration queued for sequential
// generation. Status moves pending → generating → completed|error;
// reports with no metrics are skipped and stay pending.
type BatchReport struct {
	shared.OrgAggregateRoot
	Name         string       `json:"name"`
	Config       ReportConfig `json:"config"`
	Status       BatchStatus  `json:"status"`
	Result       *ChartData   `json:"result,omitempty"`
	ErrorMessage string       `json:"error,omitempty"`
}

// NewBatchReport creates an empty pending batch report
func NewBatchReport(orgID uuid.UUID, name string, config ReportConfig) *BatchReport {
	return &BatchReport{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		Config:           config,
		Status:           BatchStatusPending,
	}
}

// Begin transitions the report to generating
func (b *BatchReport) Begin() error {
	if b.Status != BatchStatusPending {
		return ErrReportNotPending
	}
	b.Status = BatchStatusGenerating
	return nil
}

// Complete records the generated chart and terminates the report
func (b *BatchReport) Complete(result ChartData) error {
	if b.Status != BatchStatusGenerating {
		return ErrReportNotGenerating
	}
	b.Status = BatchStatusCompleted
	b.Result = &result
	b.ErrorMessage = ""
	b.AddDomainEvent(NewBatchReportCompletedEvent(b))
	return nil
}

// Fail records the failure message and terminates the report. A
// failing report never aborts its siblings.
func (b *BatchReport) Fail(message string) error {
	if b.Status != BatchStatusGenerating {
		return ErrReportNotGenerating
	}
	b.Status = BatchStatusError
	b.Result = nil
	b.ErrorMessage = message
	b.AddDomainEvent(NewBatchReportFailedEvent(b))
	return nil
}
