package insight

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/programmatrix/backend/internal/domain/insight"
)

// cancelAwareBackend fails generation when its context has been cancelled
type cancelAwareBackend struct {
	data *insight.ChartData
}

func (b *cancelAwareBackend) GenerateReport(ctx context.Context, _ uuid.UUID, _ insight.ReportConfig) (*insight.ChartData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.data, nil
}

func TestDebouncer_ConfigChanged(t *testing.T) {
	orgID := uuid.New()

	t.Run("rapid changes coalesce into one generation", func(t *testing.T) {
		backend := new(MockReportBackend)
		service := NewReportService(backend, nil, nil, zap.NewNop())
		debouncer := NewDebouncer(service, 30*time.Millisecond)

		data := sampleChartData()
		final := barConfig("Financial: Budget Spend", "Financial: ROI (%)")
		backend.On("GenerateReport", mock.Anything, orgID, mock.Anything).Return(data, nil).Once()

		debouncer.ConfigChanged(context.Background(), orgID, barConfig("Financial: Budget Spend"))
		debouncer.ConfigChanged(context.Background(), orgID, final)

		select {
		case result := <-debouncer.Results():
			require.NoError(t, result.Err)
			assert.Equal(t, final.Metrics, result.Config.Metrics)
			assert.Equal(t, data, result.Data)
		case <-time.After(2 * time.Second):
			t.Fatal("debounced generation never fired")
		}
		backend.AssertNumberOfCalls(t, "GenerateReport", 1)
	})

	t.Run("distinct organizations debounce independently", func(t *testing.T) {
		backend := new(MockReportBackend)
		service := NewReportService(backend, nil, nil, zap.NewNop())
		debouncer := NewDebouncer(service, 20*time.Millisecond)

		otherOrg := uuid.New()
		data := sampleChartData()
		backend.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything).Return(data, nil)

		debouncer.ConfigChanged(context.Background(), orgID, barConfig("Financial: Budget Spend"))
		debouncer.ConfigChanged(context.Background(), otherOrg, barConfig("Financial: ROI (%)"))

		seen := map[uuid.UUID]bool{}
		for i := 0; i < 2; i++ {
			select {
			case result := <-debouncer.Results():
				require.NoError(t, result.Err)
				seen[result.OrgID] = true
			case <-time.After(2 * time.Second):
				t.Fatal("debounced generation never fired")
			}
		}
		assert.True(t, seen[orgID])
		assert.True(t, seen[otherOrg])
	})

	t.Run("survives cancellation of the arming context", func(t *testing.T) {
		backend := &cancelAwareBackend{data: sampleChartData()}
		service := NewReportService(backend, nil, nil, zap.NewNop())
		debouncer := NewDebouncer(service, 20*time.Millisecond)

		// An HTTP request context is cancelled the moment the handler
		// returns, long before the quiet window elapses.
		ctx, cancel := context.WithCancel(context.Background())
		debouncer.ConfigChanged(ctx, orgID, barConfig("Financial: Budget Spend"))
		cancel()

		select {
		case result := <-debouncer.Results():
			require.NoError(t, result.Err)
			assert.Equal(t, backend.data, result.Data)
		case <-time.After(2 * time.Second):
			t.Fatal("debounced generation never fired")
		}
	})

	t.Run("flush cancels pending windows", func(t *testing.T) {
		backend := new(MockReportBackend)
		service := NewReportService(backend, nil, nil, zap.NewNop())
		debouncer := NewDebouncer(service, 50*time.Millisecond)

		debouncer.ConfigChanged(context.Background(), orgID, barConfig("Financial: Budget Spend"))
		debouncer.Flush()

		select {
		case <-debouncer.Results():
			t.Fatal("flushed window should not generate")
		case <-time.After(150 * time.Millisecond):
		}
		backend.AssertNotCalled(t, "GenerateReport")
	})
}
