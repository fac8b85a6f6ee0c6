package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/programmatrix/backend/internal/domain/insight"
)

// SampleReportBackend serves generated series instead of querying the
// database. It simulates the latency of a real aggregation pass so the
// pipeline's cancellation and staleness behavior can be exercised in
// development.
type SampleReportBackend struct {
	formatter *insight.Formatter
	latency   time.Duration
	logger    *zap.Logger
}

// NewSampleReportBackend creates a sample backend. A zero latency
// disables the simulated delay.
func NewSampleReportBackend(seed int64, latency time.Duration, logger *zap.Logger) *SampleReportBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SampleReportBackend{
		formatter: insight.NewFormatter(seed),
		latency:   latency,
		logger:    logger,
	}
}

// GenerateReport produces chart data from generated series
func (b *SampleReportBackend) GenerateReport(ctx context.Context, orgID uuid.UUID, config insight.ReportConfig) (*insight.ChartData, error) {
	if b.latency > 0 {
		select {
		case <-time.After(b.latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	metrics := make([]insight.Metric, 0, len(config.Metrics))
	for _, name := range config.Metrics {
		metric, ok := insight.LookupMetric(name)
		if !ok {
			// Metrics created before kinds were explicit carry no
			// catalog entry; backfill from the display name.
			metric = insight.Metric{Name: name, Kind: insight.MetricKindFromName(name)}
		}
		metrics = append(metrics, metric)
	}

	data := b.formatter.Combine(metrics, config.Visualization)
	b.logger.Debug("sample report generated",
		zap.String("org_id", orgID.String()),
		zap.Int("datasets", len(data.Datasets)))
	return &data, nil
}
