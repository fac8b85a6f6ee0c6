package insight

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/programmatrix/backend/internal/domain/insight"
	"github.com/programmatrix/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ResultCache caches generated chart data by config fingerprint
type ResultCache interface {
	Get(ctx context.Context, key string) (*insight.ChartData, bool)
	Set(ctx context.Context, key string, data *insight.ChartData, ttl time.Duration)
}

// ReportService orchestrates the reporting pipeline: it reconciles the
// configuration against the catalog, delegates to the report backend,
// and guards against stale asynchronous responses.
type ReportService struct {
	backend   insight.ReportBackend
	cache     ResultCache
	publisher shared.EventPublisher
	logger    *zap.Logger

	mu          sync.Mutex
	generations map[uuid.UUID]uint64
}

// NewReportService creates a new ReportService
func NewReportService(backend insight.ReportBackend, cache ResultCache, publisher shared.EventPublisher, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		backend:     backend,
		cache:       cache,
		publisher:   publisher,
		logger:      logger,
		generations: make(map[uuid.UUID]uint64),
	}
}

// ResolveMetrics returns the metric names selectable for the given
// data sources, in catalog order.
func (s *ReportService) ResolveMetrics(dataSources []insight.DataSource) []string {
	return insight.ResolveMetrics(dataSources, insight.MetricCatalogNames())
}

// Reconcile repairs the metric selection after a data-source change
func (s *ReportService) Reconcile(config insight.ReportConfig) insight.ReportConfig {
	return insight.Reconcile(config, s.ResolveMetrics(config.DataSources))
}

// Generate produces chart data for the given configuration. The config
// must carry at least one metric; callers are expected to disable
// submission otherwise. A response that completes after the config has
// changed again is discarded rather than applied.
func (s *ReportService) Generate(ctx context.Context, orgID uuid.UUID, config insight.ReportConfig) (*insight.ChartData, error) {
	config = s.Reconcile(config)
	if !config.HasMetrics() {
		return nil, shared.ErrEmptyMetrics
	}
	if !config.Visualization.Valid() {
		return nil, insight.ErrUnknownChartKind
	}

	key := configFingerprint(orgID, config)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached, nil
		}
	}

	token := s.nextGeneration(orgID)

	data, err := s.backend.GenerateReport(ctx, orgID, config)
	if err != nil {
		s.logger.Warn("report generation failed",
			zap.String("org_id", orgID.String()),
			zap.Strings("metrics", config.Metrics),
			zap.Error(err))
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	if !s.generationCurrent(orgID, token) {
		s.logger.Debug("discarding stale report response",
			zap.Uint64("generation", token))
		return nil, shared.ErrStaleResponse
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, data, 5*time.Minute)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, insight.NewReportGeneratedEvent(orgID, config, *data)); err != nil {
			s.logger.Warn("failed to publish report generated event", zap.Error(err))
		}
	}
	return data, nil
}

// GenerateBatch processes queued reports strictly sequentially in list
// order. Each report's configuration is reconciled against the catalog
// just before generation, so a report queued under an older catalog
// never generates from metrics its sources no longer resolve. Reports
// left with no metrics are skipped and remain pending; every other
// report reaches a terminal state before the next one starts, and one
// failure never aborts its siblings.
func (s *ReportService) GenerateBatch(ctx context.Context, reports []*insight.BatchReport) []*insight.BatchReport {
	for _, report := range reports {
		if report == nil {
			continue
		}
		report.Config = s.Reconcile(report.Config)
		if !report.Config.HasMetrics() {
			continue
		}
		if err := report.Begin(); err != nil {
			continue
		}

		data, err := s.backend.GenerateReport(ctx, report.OrgID, report.Config)
		if err == nil {
			err = data.Validate()
		}
		if err != nil {
			_ = report.Fail(err.Error())
		} else {
			_ = report.Complete(*data)
		}

		s.publishReportEvents(ctx, report)
	}
	return reports
}

func (s *ReportService) publishReportEvents(ctx context.Context, report *insight.BatchReport) {
	if s.publisher == nil {
		return
	}
	events := report.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish batch report events",
			zap.String("report", report.Name), zap.Error(err))
	}
	report.ClearDomainEvents()
}

// Generation tokens are tracked per organization: only the most
// recently requested configuration for an org may publish its result.
func (s *ReportService) nextGeneration(orgID uuid.UUID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[orgID]++
	return s.generations[orgID]
}

func (s *ReportService) generationCurrent(orgID uuid.UUID, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[orgID] == token
}

// configFingerprint derives a stable cache key from the org and the
// canonical JSON form of the configuration.
func configFingerprint(orgID uuid.UUID, config insight.ReportConfig) string {
	payload, _ := json.Marshal(struct {
		OrgID  uuid.UUID            `json:"org_id"`
		Config insight.ReportConfig `json:"config"`
	}{orgID, config})
	sum := sha256.Sum256(payload)
	return "insight:report:" + hex.EncodeToString(sum[:16])
}
