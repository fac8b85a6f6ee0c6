package insight

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/programmatrix/backend/internal/domain/insight"
	"github.com/programmatrix/backend/internal/domain/shared"
)

// fakeQueueRepo is an in-memory insight.BatchReportRepository
type fakeQueueRepo struct {
	reports []insight.BatchReport
	saveErr error
}

func (r *fakeQueueRepo) Save(ctx context.Context, report *insight.BatchReport) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	for i := range r.reports {
		if r.reports[i].ID == report.ID {
			r.reports[i] = *report
			return nil
		}
	}
	r.reports = append(r.reports, *report)
	return nil
}

func (r *fakeQueueRepo) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*insight.BatchReport, error) {
	for i := range r.reports {
		if r.reports[i].ID == id && r.reports[i].OrgID == orgID {
			report := r.reports[i]
			return &report, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeQueueRepo) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]insight.BatchReport, error) {
	out := make([]insight.BatchReport, 0, len(r.reports))
	for _, report := range r.reports {
		if report.OrgID == orgID {
			out = append(out, report)
		}
	}
	return out, nil
}

func (r *fakeQueueRepo) FindPendingForOrg(ctx context.Context, orgID uuid.UUID) ([]insight.BatchReport, error) {
	out := make([]insight.BatchReport, 0, len(r.reports))
	for _, report := range r.reports {
		if report.OrgID == orgID && report.Status == insight.BatchStatusPending {
			out = append(out, report)
		}
	}
	return out, nil
}

func (r *fakeQueueRepo) FindDue(ctx context.Context, limit int) ([]insight.BatchReport, error) {
	out := make([]insight.BatchReport, 0, limit)
	for _, report := range r.reports {
		if report.Status == insight.BatchStatusPending && len(out) < limit {
			out = append(out, report)
		}
	}
	return out, nil
}

func (r *fakeQueueRepo) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	for i := range r.reports {
		if r.reports[i].ID == id && r.reports[i].OrgID == orgID {
			r.reports = append(r.reports[:i], r.reports[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func newBatchService(repo insight.BatchReportRepository) *BatchService {
	reports := NewReportService(new(MockReportBackend), nil, nil, zap.NewNop())
	return NewBatchService(repo, reports, zap.NewNop())
}

func TestBatchService_Enqueue(t *testing.T) {
	orgID := uuid.New()

	t.Run("persists reports as pending in submission order", func(t *testing.T) {
		repo := &fakeQueueRepo{}
		service := newBatchService(repo)

		queued, err := service.Enqueue(context.Background(), orgID, []QueuedReport{
			{Name: "Weekly Spend", Config: barConfig("Financial: Budget Spend")},
			{Name: "Cost Review", Config: barConfig("Financial: Cost Variance")},
		})

		require.NoError(t, err)
		require.Len(t, queued, 2)
		require.Len(t, repo.reports, 2)
		assert.Equal(t, "Weekly Spend", repo.reports[0].Name)
		assert.Equal(t, "Cost Review", repo.reports[1].Name)
		for _, report := range repo.reports {
			assert.Equal(t, insight.BatchStatusPending, report.Status)
			assert.Equal(t, orgID, report.OrgID)
		}
	})

	t.Run("reconciles configurations before saving", func(t *testing.T) {
		repo := &fakeQueueRepo{}
		service := newBatchService(repo)

		// Risk metric against Financials-only sources does not resolve
		_, err := service.Enqueue(context.Background(), orgID, []QueuedReport{
			{Name: "Mixed", Config: barConfig("Financial: Budget Spend", "Risk: Level")},
		})

		require.NoError(t, err)
		require.Len(t, repo.reports, 1)
		assert.Equal(t, []string{"Financial: Budget Spend"}, repo.reports[0].Config.Metrics)
	})

	t.Run("empty-metric reports still queue", func(t *testing.T) {
		repo := &fakeQueueRepo{}
		service := newBatchService(repo)

		// The runner skips them, so they stay pending until their
		// sources resolve the metrics again.
		queued, err := service.Enqueue(context.Background(), orgID, []QueuedReport{
			{Name: "Empty", Config: barConfig()},
		})

		require.NoError(t, err)
		require.Len(t, queued, 1)
		assert.Equal(t, insight.BatchStatusPending, queued[0].Status)
	})

	t.Run("save failure surfaces", func(t *testing.T) {
		repo := &fakeQueueRepo{saveErr: errors.New("connection reset")}
		service := newBatchService(repo)

		_, err := service.Enqueue(context.Background(), orgID, []QueuedReport{
			{Name: "Doomed", Config: barConfig("Financial: Budget Spend")},
		})

		assert.EqualError(t, err, "connection reset")
	})
}

func TestBatchService_QueueLifecycle(t *testing.T) {
	orgID := uuid.New()
	repo := &fakeQueueRepo{}
	service := newBatchService(repo)

	queued, err := service.Enqueue(context.Background(), orgID, []QueuedReport{
		{Name: "Weekly Spend", Config: barConfig("Financial: Budget Spend")},
		{Name: "Cost Review", Config: barConfig("Financial: Cost Variance")},
	})
	require.NoError(t, err)
	require.Len(t, queued, 2)

	// Simulate the runner completing the first report
	first := queued[0]
	require.NoError(t, first.Begin())
	require.NoError(t, first.Complete(*sampleChartData()))
	require.NoError(t, repo.Save(context.Background(), first))

	t.Run("pending listing excludes processed reports", func(t *testing.T) {
		pending, err := service.ListPending(context.Background(), orgID)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "Cost Review", pending[0].Name)
	})

	t.Run("full listing includes processed reports", func(t *testing.T) {
		all, err := service.List(context.Background(), orgID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("get returns the stored result", func(t *testing.T) {
		report, err := service.Get(context.Background(), orgID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, insight.BatchStatusCompleted, report.Status)
		require.NotNil(t, report.Result)
	})

	t.Run("get is org scoped", func(t *testing.T) {
		_, err := service.Get(context.Background(), uuid.New(), first.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete removes the report", func(t *testing.T) {
		require.NoError(t, service.Delete(context.Background(), orgID, first.ID))

		_, err := service.Get(context.Background(), orgID, first.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
