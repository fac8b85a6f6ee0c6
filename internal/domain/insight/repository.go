package insight

import (
	"context"

	"github.com/google/uuid"
	"github.com/programmatrix/backend/internal/domain/shared"
)

// ReportBackend produces chart data for a report configuration. The
// production implementation aggregates over program records; a sample
// implementation simulates the backend with generated series and
// artificial latency.
type ReportBackend interface {
	GenerateReport(ctx context.Context, orgID uuid.UUID, config ReportConfig) (*ChartData, error)
}

// BatchReportRepository persists queued batch reports
type BatchReportRepository interface {
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*BatchReport, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]BatchReport, error)
	FindPendingForOrg(ctx context.Context, orgID uuid.UUID) ([]BatchReport, error)
	// FindDue returns pending reports across all organizations for the
	// scheduled batch runner, oldest first.
	FindDue(ctx context.Context, limit int) ([]BatchReport, error)
	Save(ctx context.Context, report *BatchReport) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}
