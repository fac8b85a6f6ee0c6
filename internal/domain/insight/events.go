package insight

import (
	"github.com/google/uuid"
	"github.com/programmatrix/backend/internal/domain/shared"
)

// Event types published by the insight domain
const (
	EventTypeReportGenerated      = "insight.report.generated"
	EventTypeBatchReportCompleted = "insight.batch_report.completed"
	EventTypeBatchReportFailed    = "insight.batch_report.failed"
)

const aggregateTypeBatchReport = "BatchReport"

// ReportGeneratedEvent is published when an ad-hoc report generation
// produces chart data.
type ReportGeneratedEvent struct {
	shared.BaseDomainEvent
	Metrics       []string  `json:"metrics"`
	Visualization ChartKind `json:"visualization"`
	DatasetCount  int       `json:"dataset_count"`
}

// NewReportGeneratedEvent creates a ReportGeneratedEvent
func NewReportGeneratedEvent(orgID uuid.UUID, config ReportConfig, data ChartData) *ReportGeneratedEvent {
	return &ReportGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReportGenerated, "Report", uuid.New(), orgID),
		Metrics:         config.Metrics,
		Visualization:   config.Visualization,
		DatasetCount:    len(data.Datasets),
	}
}

// BatchReportCompletedEvent is published when a queued report reaches
// the completed state.
type BatchReportCompletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewBatchReportCompletedEvent creates a BatchReportCompletedEvent
func NewBatchReportCompletedEvent(report *BatchReport) *BatchReportCompletedEvent {
	return &BatchReportCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchReportCompleted, aggregateTypeBatchReport, report.ID, report.OrgID),
		Name:            report.Name,
	}
}

// BatchReportFailedEvent is published when a queued report reaches the
// error state.
type BatchReportFailedEvent struct {
	shared.BaseDomainEvent
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// NewBatchReportFailedEvent creates a BatchReportFailedEvent
func NewBatchReportFailedEvent(report *BatchReport) *BatchReportFailedEvent {
	return &BatchReportFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchReportFailed, aggregateTypeBatchReport, report.ID, report.OrgID),
		Name:            report.Name,
		Reason:          report.ErrorMessage,
	}
}
