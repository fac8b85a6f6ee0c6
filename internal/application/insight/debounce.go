package insight

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/programmatrix/backend/internal/domain/insight"
)

// GenerateResult carries the outcome of a debounced generation
type GenerateResult struct {
	OrgID  uuid.UUID
	Config insight.ReportConfig
	Data   *insight.ChartData
	Err    error
}

// Debouncer coalesces rapid report-config changes into a single
// pipeline invocation per organization: each call resets the quiet
// window, and only the last configuration submitted within the window
// is generated.
type Debouncer struct {
	service *ReportService
	window  time.Duration
	results chan GenerateResult

	mu      sync.Mutex
	pending map[uuid.UUID]*time.Timer
}

// NewDebouncer creates a debouncer around the report service. Results
// are delivered on the Results channel; the channel is buffered so a
// slow consumer does not block the timer goroutines.
func NewDebouncer(service *ReportService, window time.Duration) *Debouncer {
	if window <= 0 {
		window = 300 * time.Millisecond
	}
	return &Debouncer{
		service: service,
		window:  window,
		results: make(chan GenerateResult, 16),
		pending: make(map[uuid.UUID]*time.Timer),
	}
}

// Results returns the channel debounced generation outcomes arrive on
func (d *Debouncer) Results() <-chan GenerateResult {
	return d.results
}

// ConfigChanged registers a new configuration for the org, resetting
// any pending quiet window.
func (d *Debouncer) ConfigChanged(ctx context.Context, orgID uuid.UUID, config insight.ReportConfig) {
	// The quiet window outlives the caller: an HTTP request context is
	// cancelled as soon as the handler returns, which would fail the
	// generation when the timer fires. Keep the context values but drop
	// its cancellation.
	ctx = context.WithoutCancel(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.pending[orgID]; ok {
		timer.Stop()
	}
	d.pending[orgID] = time.AfterFunc(d.window, func() {
		d.fire(ctx, orgID, config)
	})
}

// Flush cancels any pending windows without generating
func (d *Debouncer) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for orgID, timer := range d.pending {
		timer.Stop()
		delete(d.pending, orgID)
	}
}

func (d *Debouncer) fire(ctx context.Context, orgID uuid.UUID, config insight.ReportConfig) {
	d.mu.Lock()
	delete(d.pending, orgID)
	d.mu.Unlock()

	data, err := d.service.Generate(ctx, orgID, config)
	select {
	case d.results <- GenerateResult{OrgID: orgID, Config: config, Data: data, Err: err}:
	default:
		// Consumer fell behind; drop rather than block.
	}
}
