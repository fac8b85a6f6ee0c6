package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/programmatrix/backend/internal/domain/insight"
	"github.com/programmatrix/backend/internal/domain/shared"
)

// ChartRenderer turns chart data into a rendered PNG image
type ChartRenderer interface {
	RenderPNG(ctx context.Context, title string, kind insight.ChartKind, data *insight.ChartData) ([]byte, error)
}

// ObjectStorage persists export artifacts for later download
type ObjectStorage interface {
	Put(ctx context.Context, key string, contentType string, body []byte) (string, error)
}

// ExportArtifact is a serialized report ready for download
type ExportArtifact struct {
	Filename    string
	ContentType string
	Body        []byte
	StorageURL  string
}

// ExportService serializes report data into downloadable artifacts
type ExportService struct {
	renderer ChartRenderer
	storage  ObjectStorage
	logger   *zap.Logger
}

// ExportServiceOption configures the export service
type ExportServiceOption func(*ExportService)

// WithChartRenderer sets the PNG renderer
func WithChartRenderer(r ChartRenderer) ExportServiceOption {
	return func(s *ExportService) { s.renderer = r }
}

// WithObjectStorage enables artifact upload after serialization
func WithObjectStorage(st ObjectStorage) ExportServiceOption {
	return func(s *ExportService) { s.storage = st }
}

// NewExportService creates an export service
func NewExportService(logger *zap.Logger, opts ...ExportServiceOption) *ExportService {
	s := &ExportService{logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ToCSV serializes chart data as CSV text. Cells are joined with a bare
// comma and are not quoted or escaped; labels containing commas will
// shift columns. Callers that need RFC 4180 quoting should post-process
// the output.
func (s *ExportService) ToCSV(data *insight.ChartData) (string, error) {
	if data == nil || data.IsEmpty() {
		return "", shared.ErrNoDataToExport
	}

	var b strings.Builder

	header := make([]string, 0, len(data.Datasets)+1)
	header = append(header, "Category")
	for _, ds := range data.Datasets {
		header = append(header, ds.Label)
	}
	b.WriteString(strings.Join(header, ","))

	for i, label := range data.Labels {
		row := make([]string, 0, len(data.Datasets)+1)
		row = append(row, label)
		for _, ds := range data.Datasets {
			if i < len(ds.Data) {
				row = append(row, formatCSVNumber(ds.Data[i]))
			} else {
				row = append(row, "")
			}
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(row, ","))
	}

	return b.String(), nil
}

// ExportCSV serializes the data and wraps it as a named artifact,
// uploading it when object storage is configured.
func (s *ExportService) ExportCSV(ctx context.Context, orgID uuid.UUID, title string, data *insight.ChartData) (*ExportArtifact, error) {
	csv, err := s.ToCSV(data)
	if err != nil {
		return nil, err
	}

	artifact := &ExportArtifact{
		Filename:    sanitizeFilename(title) + ".csv",
		ContentType: "text/csv;charset=utf-8",
		Body:        []byte(csv),
	}
	if err := s.upload(ctx, orgID, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

// ExportPNG renders the chart and wraps it as a named artifact,
// uploading it when object storage is configured.
func (s *ExportService) ExportPNG(ctx context.Context, orgID uuid.UUID, title string, kind insight.ChartKind, data *insight.ChartData) (*ExportArtifact, error) {
	if data == nil || data.IsEmpty() {
		return nil, shared.ErrNoChartToExport
	}
	if s.renderer == nil {
		return nil, shared.ErrRendererUnavailable
	}

	png, err := s.renderer.RenderPNG(ctx, title, kind, data)
	if err != nil {
		s.logger.Error("chart render failed",
			zap.String("org_id", orgID.String()),
			zap.String("title", title),
			zap.Error(err))
		return nil, fmt.Errorf("render chart: %w", err)
	}

	artifact := &ExportArtifact{
		Filename:    sanitizeFilename(title) + ".png",
		ContentType: "image/png",
		Body:        png,
	}
	if err := s.upload(ctx, orgID, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

func (s *ExportService) upload(ctx context.Context, orgID uuid.UUID, artifact *ExportArtifact) error {
	if s.storage == nil {
		return nil
	}
	key := fmt.Sprintf("exports/%s/%s", orgID, artifact.Filename)
	url, err := s.storage.Put(ctx, key, artifact.ContentType, artifact.Body)
	if err != nil {
		s.logger.Error("artifact upload failed",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("upload artifact: %w", err)
	}
	artifact.StorageURL = url
	return nil
}

// formatCSVNumber prints whole values without a decimal point so that
// integer series round-trip as integers.
func formatCSVNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func sanitizeFilename(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "report"
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-")
	return replacer.Replace(title)
}
