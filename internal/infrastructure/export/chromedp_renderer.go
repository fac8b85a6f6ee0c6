// Package export renders chart data to downloadable images using a
// headless browser.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	insightapp "github.com/programmatrix/backend/internal/application/insight"
	"github.com/programmatrix/backend/internal/domain/insight"
)

const defaultRenderTimeout = 30 * time.Second

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// DefaultTimeout for rendering operations
	DefaultTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional).
	// If empty, chromedp launches a new browser instance.
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpRenderer renders chart data to PNG using the Chrome DevTools
// Protocol. The chart is drawn onto a canvas in a blank page and the
// canvas element is captured as an image.
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a new chromedp-based chart renderer
func NewChromedpRenderer(config *ChromedpConfig) (*ChromedpRenderer, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultRenderTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer := &ChromedpRenderer{
		config: config,
		logger: logger,
	}
	renderer.initAllocator()

	return renderer, nil
}

func (r *ChromedpRenderer) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)

	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
	} else {
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
}

// RenderPNG draws the chart in a headless browser and captures it as PNG
func (r *ChromedpRenderer) RenderPNG(ctx context.Context, title string, kind insight.ChartKind, data *insight.ChartData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("chart data is required")
	}

	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.config.DefaultTimeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	html, err := buildChartHTML(title, kind, data)
	if err != nil {
		return nil, fmt.Errorf("failed to build chart document: %w", err)
	}

	var pngData []byte

	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		// The template sets data-rendered when the chart animation
		// completes; waiting on it avoids capturing a blank canvas.
		chromedp.WaitVisible(`#chart[data-rendered="true"]`, chromedp.ByQuery),
		chromedp.Screenshot("#chart", &pngData, chromedp.NodeVisible),
	)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("chart rendering timed out after %v: %w", r.config.DefaultTimeout, err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}

	if len(pngData) == 0 {
		return nil, fmt.Errorf("rendered chart image is empty")
	}

	r.logger.Info("chart rendered",
		zap.String("title", title),
		zap.String("kind", string(kind)),
		zap.Int("bytes", len(pngData)),
		zap.Duration("duration", time.Since(startTime)))

	return pngData, nil
}

// Close releases resources held by the renderer
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

var _ insightapp.ChartRenderer = (*ChromedpRenderer)(nil)
