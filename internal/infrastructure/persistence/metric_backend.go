package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/programmatrix/backend/internal/domain/insight"
	"github.com/programmatrix/backend/internal/domain/program"
	"github.com/programmatrix/backend/internal/infrastructure/persistence/models"
)

var monthLabels = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var severityLabels = []string{"Low", "Medium", "High", "Critical"}

var quarterLabels = []string{"Q1", "Q2", "Q3", "Q4"}

// GormMetricBackend implements insight.ReportBackend by aggregating
// the organization's program records. Rows are fetched scoped to the
// org and bucketed in Go; month and quarter extraction in SQL is not
// portable across the supported drivers.
type GormMetricBackend struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormMetricBackend creates a new GormMetricBackend
func NewGormMetricBackend(db *gorm.DB, logger *zap.Logger) *GormMetricBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormMetricBackend{db: db, logger: logger}
}

// GenerateReport aggregates the org's records into chart data. Metrics
// without a catalog entry are dropped; the combine rules follow the
// visualization kind (shared time axis for line charts, first metric's
// labels for bar, single dataset for pie).
func (b *GormMetricBackend) GenerateReport(ctx context.Context, orgID uuid.UUID, config insight.ReportConfig) (*insight.ChartData, error) {
	since := rangeStart(config.DateRange, time.Now())

	data := &insight.ChartData{}
	for _, name := range config.Metrics {
		metric, ok := insight.LookupMetric(name)
		if !ok {
			b.logger.Debug("skipping uncataloged metric", zap.String("metric", name))
			continue
		}

		series, err := b.series(ctx, orgID, metric, since, config.Visualization)
		if err != nil {
			return nil, err
		}

		if config.Visualization.IsTimeSeries() {
			if len(data.Labels) == 0 {
				data.Labels = append([]string(nil), monthLabels...)
			}
		} else if len(data.Labels) == 0 {
			// First renderable metric fixes the label sequence.
			data.Labels = series.Labels
		}
		data.Datasets = append(data.Datasets, insight.Dataset{
			Label: metric.Name,
			Data:  alignValues(series, data.Labels),
		})
		if config.Visualization.IsSingleSeries() {
			break
		}
	}
	return data, nil
}

// series dispatches on the metric kind assigned in the catalog
func (b *GormMetricBackend) series(ctx context.Context, orgID uuid.UUID, metric insight.Metric, since time.Time, kind insight.ChartKind) (insight.Series, error) {
	if kind.IsTimeSeries() {
		return b.monthlySeries(ctx, orgID, metric, since)
	}
	switch metric.Kind {
	case insight.MetricKindBudget:
		return b.budgetByCategory(ctx, orgID, metric, since)
	case insight.MetricKindRisk:
		return b.riskBySeverity(ctx, orgID, since)
	default:
		return b.quarterlySeries(ctx, orgID, metric, since)
	}
}

// budgetByCategory sums spend per financial category
func (b *GormMetricBackend) budgetByCategory(ctx context.Context, orgID uuid.UUID, metric insight.Metric, since time.Time) (insight.Series, error) {
	records, err := b.financialRecords(ctx, orgID, since)
	if err != nil {
		return insight.Series{}, err
	}

	categories := program.FinancialCategories()
	labels := make([]string, len(categories))
	values := make([]float64, len(categories))
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		labels[i] = string(c)
		index[string(c)] = i
	}

	variance := metric.Name == "Financial: Cost Variance"
	for _, rec := range records {
		i, ok := index[rec.Category]
		if !ok {
			continue
		}
		if variance {
			values[i] += rec.Actual.Sub(rec.Planned).InexactFloat64()
		} else {
			values[i] += rec.Actual.InexactFloat64()
		}
	}
	return insight.Series{Labels: labels, Values: values}, nil
}

// riskBySeverity counts open risks per severity level
func (b *GormMetricBackend) riskBySeverity(ctx context.Context, orgID uuid.UUID, since time.Time) (insight.Series, error) {
	var riskModels []models.RiskModel
	if err := b.db.WithContext(ctx).
		Where("org_id = ? AND created_at >= ? AND status <> ?", orgID, since, string(program.RiskStatusClosed)).
		Find(&riskModels).Error; err != nil {
		return insight.Series{}, err
	}

	values := make([]float64, len(severityLabels))
	for _, m := range riskModels {
		switch program.RiskSeverity(m.Severity) {
		case program.RiskSeverityLow:
			values[0]++
		case program.RiskSeverityMedium:
			values[1]++
		case program.RiskSeverityHigh:
			values[2]++
		case program.RiskSeverityCritical:
			values[3]++
		}
	}
	return insight.Series{Labels: append([]string(nil), severityLabels...), Values: values}, nil
}

// monthlySeries buckets a metric into calendar months
func (b *GormMetricBackend) monthlySeries(ctx context.Context, orgID uuid.UUID, metric insight.Metric, since time.Time) (insight.Series, error) {
	values := make([]float64, len(monthLabels))

	switch metric.Kind {
	case insight.MetricKindBudget:
		records, err := b.financialRecords(ctx, orgID, since)
		if err != nil {
			return insight.Series{}, err
		}
		variance := metric.Name == "Financial: Cost Variance"
		for _, rec := range records {
			i := int(rec.RecordedAt.Month()) - 1
			if variance {
				values[i] += rec.Actual.Sub(rec.Planned).InexactFloat64()
			} else {
				values[i] += rec.Actual.InexactFloat64()
			}
		}

	case insight.MetricKindRisk:
		var riskModels []models.RiskModel
		if err := b.db.WithContext(ctx).
			Where("org_id = ? AND created_at >= ?", orgID, since).
			Find(&riskModels).Error; err != nil {
			return insight.Series{}, err
		}
		for _, m := range riskModels {
			values[int(m.CreatedAt.Month())-1]++
		}

	default:
		// Percent-style metrics: monthly ratios from spend records for
		// financial sources, completion averages otherwise.
		if metric.Source == insight.DataSourceFinancials {
			records, err := b.financialRecords(ctx, orgID, since)
			if err != nil {
				return insight.Series{}, err
			}
			planned := make([]decimal.Decimal, len(monthLabels))
			actual := make([]decimal.Decimal, len(monthLabels))
			for _, rec := range records {
				i := int(rec.RecordedAt.Month()) - 1
				planned[i] = planned[i].Add(rec.Planned)
				actual[i] = actual[i].Add(rec.Actual)
			}
			for i := range values {
				if planned[i].IsPositive() {
					ratio, _ := actual[i].Div(planned[i]).Mul(decimal.NewFromInt(100)).Float64()
					values[i] = ratio
				}
			}
		} else {
			var programModels []models.ProgramModel
			if err := b.db.WithContext(ctx).
				Where("org_id = ?", orgID).
				Find(&programModels).Error; err != nil {
				return insight.Series{}, err
			}
			counts := make([]int, len(monthLabels))
			for _, m := range programModels {
				i := int(m.UpdatedAt.Month()) - 1
				values[i] += m.Completion.InexactFloat64()
				counts[i]++
			}
			for i := range values {
				if counts[i] > 0 {
					values[i] /= float64(counts[i])
				}
			}
		}
	}
	return insight.Series{Labels: append([]string(nil), monthLabels...), Values: values}, nil
}

// quarterlySeries counts milestone completions per quarter
func (b *GormMetricBackend) quarterlySeries(ctx context.Context, orgID uuid.UUID, metric insight.Metric, since time.Time) (insight.Series, error) {
	var milestoneModels []models.MilestoneModel
	if err := b.db.WithContext(ctx).
		Joins("JOIN programs ON programs.id = program_milestones.program_id").
		Where("programs.org_id = ?", orgID).
		Find(&milestoneModels).Error; err != nil {
		return insight.Series{}, err
	}

	values := make([]float64, len(quarterLabels))
	for _, m := range milestoneModels {
		if m.CompletedAt == nil || m.CompletedAt.Before(since) {
			continue
		}
		values[(int(m.CompletedAt.Month())-1)/3]++
	}
	return insight.Series{Labels: append([]string(nil), quarterLabels...), Values: values}, nil
}

func (b *GormMetricBackend) financialRecords(ctx context.Context, orgID uuid.UUID, since time.Time) ([]models.FinancialRecordModel, error) {
	var records []models.FinancialRecordModel
	err := b.db.WithContext(ctx).
		Where("org_id = ? AND recorded_at >= ?", orgID, since).
		Find(&records).Error
	return records, err
}

// alignValues pads or truncates a series to the chart's label count so
// every dataset carries exactly one value per label.
func alignValues(series insight.Series, labels []string) []float64 {
	if len(series.Values) == len(labels) {
		return series.Values
	}
	aligned := make([]float64, len(labels))
	copy(aligned, series.Values)
	return aligned
}

// rangeStart maps a reporting period to its inclusive start time
func rangeStart(r insight.DateRange, now time.Time) time.Time {
	switch r {
	case insight.DateRangeLast30Days:
		return now.AddDate(0, 0, -30)
	case insight.DateRangeLastQuarter:
		return now.AddDate(0, -3, 0)
	case insight.DateRangeLastYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -6, 0)
	}
}
