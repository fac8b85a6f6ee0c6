package insight

import "github.com/programmatrix/backend/internal/domain/shared"

// Insight domain errors
var (
	ErrDatasetLengthMismatch = shared.NewDomainError("DATASET_LENGTH_MISMATCH", "Dataset length does not match label count")
	ErrUnknownChartKind      = shared.NewDomainError("UNKNOWN_CHART_KIND", "Unknown chart visualization")
	ErrUnknownDateRange      = shared.NewDomainError("UNKNOWN_DATE_RANGE", "Unknown date range")
	ErrReportNotPending      = shared.NewDomainError("REPORT_NOT_PENDING", "Report generation may only start from pending state")
	ErrReportNotGenerating   = shared.NewDomainError("REPORT_NOT_GENERATING", "Report is not currently generating")
)
