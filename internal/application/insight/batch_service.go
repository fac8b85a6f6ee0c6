package insight

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/programmatrix/backend/internal/domain/insight"
	"github.com/programmatrix/backend/internal/domain/shared"
)

// QueuedReport is one named report configuration submitted for
// deferred generation.
type QueuedReport struct {
	Name   string
	Config insight.ReportConfig
}

// BatchService manages the persisted batch queue. Reports are saved
// as pending and picked up oldest-first by the scheduled batch
// runner; configurations are reconciled again at run time, so a
// report whose metrics stop resolving simply stays pending until its
// sources offer them again.
type BatchService struct {
	repo    insight.BatchReportRepository
	reports *ReportService
	logger  *zap.Logger
}

// NewBatchService creates a new BatchService
func NewBatchService(repo insight.BatchReportRepository, reports *ReportService, logger *zap.Logger) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{
		repo:    repo,
		reports: reports,
		logger:  logger,
	}
}

// Enqueue persists the submitted reports as pending, in submission
// order. Configurations are reconciled against the catalog before
// saving; a report left with no metrics still queues, since the
// runner skips it until the catalog resolves its metrics again.
func (s *BatchService) Enqueue(ctx context.Context, orgID uuid.UUID, queued []QueuedReport) ([]*insight.BatchReport, error) {
	out := make([]*insight.BatchReport, 0, len(queued))
	for _, q := range queued {
		report := insight.NewBatchReport(orgID, q.Name, s.reports.Reconcile(q.Config))
		if err := s.repo.Save(ctx, report); err != nil {
			s.logger.Error("failed to queue batch report",
				zap.String("org_id", orgID.String()),
				zap.String("name", q.Name),
				zap.Error(err))
			return nil, err
		}
		out = append(out, report)
	}
	s.logger.Info("queued batch reports",
		zap.String("org_id", orgID.String()),
		zap.Int("count", len(out)))
	return out, nil
}

// Get fetches one queued report by ID within the organization
func (s *BatchService) Get(ctx context.Context, orgID, id uuid.UUID) (*insight.BatchReport, error) {
	return s.repo.FindByIDForOrg(ctx, orgID, id)
}

// List returns the organization's queued reports, newest first
func (s *BatchService) List(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]insight.BatchReport, error) {
	return s.repo.FindAllForOrg(ctx, orgID, filter)
}

// ListPending returns the organization's reports still awaiting a run
func (s *BatchService) ListPending(ctx context.Context, orgID uuid.UUID) ([]insight.BatchReport, error) {
	return s.repo.FindPendingForOrg(ctx, orgID)
}

// Delete removes a queued report from the organization's queue
func (s *BatchService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return s.repo.Delete(ctx, orgID, id)
}
