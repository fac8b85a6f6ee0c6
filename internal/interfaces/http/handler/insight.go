package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	insightapp "github.com/programmatrix/backend/internal/application/insight"
	"github.com/programmatrix/backend/internal/domain/insight"
	"github.com/programmatrix/backend/internal/domain/shared"
	"github.com/programmatrix/backend/internal/interfaces/http/dto"
)

// InsightHandler handles reporting and export API endpoints
type InsightHandler struct {
	BaseHandler
	reportService *insightapp.ReportService
	exportService *insightapp.ExportService
	batchService  *insightapp.BatchService
	debouncer     *insightapp.Debouncer
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(reportService *insightapp.ReportService, exportService *insightapp.ExportService) *InsightHandler {
	return &InsightHandler{
		reportService: reportService,
		exportService: exportService,
	}
}

// SetDebouncer enables debounced generation for config-change requests
func (h *InsightHandler) SetDebouncer(debouncer *insightapp.Debouncer) {
	h.debouncer = debouncer
}

// SetBatchService enables the persisted batch queue endpoints
func (h *InsightHandler) SetBatchService(batchService *insightapp.BatchService) {
	h.batchService = batchService
}

// ===================== Request DTOs =====================

// MetricsRequest filters the metric catalog by data source
type MetricsRequest struct {
	DataSources string `form:"data_sources" example:"Programs,Financials"`
}

// ReportConfigRequest is the wire form of a report configuration
type ReportConfigRequest struct {
	Metrics       []string `json:"metrics"`
	DateRange     string   `json:"date_range" binding:"required" example:"Last 30 Days"`
	Visualization string   `json:"visualization" binding:"required" example:"Bar Chart"`
	DataSources   []string `json:"data_sources" binding:"required,min=1"`
}

// GenerateReportRequest asks the pipeline for chart data
type GenerateReportRequest struct {
	Config ReportConfigRequest `json:"config" binding:"required"`
}

// BatchReportRequest is one named report in a batch run
type BatchReportRequest struct {
	Name   string              `json:"name" binding:"required" example:"Q3 Portfolio Review"`
	Config ReportConfigRequest `json:"config" binding:"required"`
}

// GenerateBatchRequest queues several reports for sequential generation
type GenerateBatchRequest struct {
	Reports []BatchReportRequest `json:"reports" binding:"required,min=1"`
}

// ExportCSVRequest serializes chart data to CSV
type ExportCSVRequest struct {
	Title string            `json:"title" binding:"required" example:"Portfolio Overview"`
	Data  insight.ChartData `json:"data" binding:"required"`
}

// ExportPNGRequest renders chart data to a PNG snapshot
type ExportPNGRequest struct {
	Title string            `json:"title" binding:"required" example:"Portfolio Overview"`
	Kind  string            `json:"kind" binding:"required" example:"Bar Chart"`
	Data  insight.ChartData `json:"data" binding:"required"`
}

// ===================== Response DTOs =====================

// MetricsResponse lists the metrics resolvable from the requested sources
type MetricsResponse struct {
	DataSources []insight.DataSource `json:"data_sources"`
	Metrics     []string             `json:"metrics"`
}

// BatchReportResponse is the outcome of one report in a batch run
type BatchReportResponse struct {
	Name   string             `json:"name"`
	Status string             `json:"status"`
	Result *insight.ChartData `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// QueuedReportResponse is one persisted report in the batch queue
type QueuedReportResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Status    string             `json:"status"`
	Result    *insight.ChartData `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
	CreatedAt string             `json:"created_at"`
}

// QueuedListRequest filters the batch queue listing
type QueuedListRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=pending" example:"pending"`
}

// ExportResponse carries a serialized artifact. Content is base64 in
// the JSON envelope.
type ExportResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
	StorageURL  string `json:"storage_url,omitempty"`
}

// ===================== Endpoints =====================

// GetMetrics returns the metric names selectable for the given data
// sources, in catalog order. Unknown sources contribute nothing.
func (h *InsightHandler) GetMetrics(c *gin.Context) {
	var req MetricsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	sources := parseDataSources(req.DataSources)
	metrics := h.reportService.ResolveMetrics(sources)

	h.Success(c, MetricsResponse{
		DataSources: sources,
		Metrics:     metrics,
	})
}

// GenerateReport reconciles the submitted configuration against the
// resolvable metric set and runs the report pipeline.
func (h *InsightHandler) GenerateReport(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	config, err := toReportConfig(req.Config)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	config = h.reportService.Reconcile(config)

	data, err := h.reportService.Generate(c.Request.Context(), orgID, config)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, data)
}

// GenerateBatch runs the submitted reports strictly in order. Reports
// without metrics are skipped and stay pending; a failing report never
// aborts its siblings.
func (h *InsightHandler) GenerateBatch(c *gin.Context) {
	var req GenerateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	reports := make([]*insight.BatchReport, 0, len(req.Reports))
	for _, r := range req.Reports {
		config, err := toReportConfig(r.Config)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		reports = append(reports, insight.NewBatchReport(orgID, r.Name, h.reportService.Reconcile(config)))
	}

	results := h.reportService.GenerateBatch(c.Request.Context(), reports)

	out := make([]BatchReportResponse, 0, len(results))
	for _, r := range results {
		out = append(out, BatchReportResponse{
			Name:   r.Name,
			Status: string(r.Status),
			Result: r.Result,
			Error:  r.ErrorMessage,
		})
	}

	h.Success(c, out)
}

// ExportCSV serializes the submitted chart data as a CSV artifact
func (h *InsightHandler) ExportCSV(c *gin.Context) {
	var req ExportCSVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	artifact, err := h.exportService.ExportCSV(c.Request.Context(), orgID, req.Title, &req.Data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toExportResponse(artifact))
}

// ExportPNG renders the submitted chart data as a PNG artifact
func (h *InsightHandler) ExportPNG(c *gin.Context) {
	var req ExportPNGRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	kind := insight.ChartKind(req.Kind)
	if !kind.Valid() {
		h.HandleError(c, insight.ErrUnknownChartKind)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	artifact, err := h.exportService.ExportPNG(c.Request.Context(), orgID, req.Title, kind, &req.Data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toExportResponse(artifact))
}

// ConfigChanged registers a report configuration with the debouncer.
// Rapid successive calls within the quiet window collapse into one
// pipeline invocation; the request returns immediately.
func (h *InsightHandler) ConfigChanged(c *gin.Context) {
	if h.debouncer == nil {
		h.InternalError(c, "debounced generation is not configured")
		return
	}

	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	config, err := toReportConfig(req.Config)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	h.debouncer.ConfigChanged(c.Request.Context(), orgID, h.reportService.Reconcile(config))
	h.Success(c, gin.H{"accepted": true})
}

// QueueBatch persists the submitted reports as pending queue entries.
// The scheduled batch runner picks them up oldest-first; the response
// carries the queued IDs for later polling.
func (h *InsightHandler) QueueBatch(c *gin.Context) {
	if h.batchService == nil {
		h.InternalError(c, "batch queueing is not configured")
		return
	}

	var req GenerateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	queued := make([]insightapp.QueuedReport, 0, len(req.Reports))
	for _, r := range req.Reports {
		config, err := toReportConfig(r.Config)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		queued = append(queued, insightapp.QueuedReport{Name: r.Name, Config: config})
	}

	reports, err := h.batchService.Enqueue(c.Request.Context(), orgID, queued)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]QueuedReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, toQueuedReportResponse(r))
	}
	h.Created(c, out)
}

// ListQueued returns the organization's batch queue, paginated.
// Passing status=pending restricts the listing to reports still
// awaiting a run.
func (h *InsightHandler) ListQueued(c *gin.Context) {
	if h.batchService == nil {
		h.InternalError(c, "batch queueing is not configured")
		return
	}

	req := QueuedListRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	var reports []insight.BatchReport
	if req.Status == string(insight.BatchStatusPending) {
		reports, err = h.batchService.ListPending(c.Request.Context(), orgID)
	} else {
		filter := shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
		}
		reports, err = h.batchService.List(c.Request.Context(), orgID, filter)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]QueuedReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, toQueuedReportResponse(&reports[i]))
	}
	h.Success(c, out)
}

// GetQueued returns one queued report, including its result once the
// runner has processed it
func (h *InsightHandler) GetQueued(c *gin.Context) {
	if h.batchService == nil {
		h.InternalError(c, "batch queueing is not configured")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	report, err := h.batchService.Get(c.Request.Context(), orgID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toQueuedReportResponse(report))
}

// DeleteQueued removes a report from the organization's queue
func (h *InsightHandler) DeleteQueued(c *gin.Context) {
	if h.batchService == nil {
		h.InternalError(c, "batch queueing is not configured")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	if err := h.batchService.Delete(c.Request.Context(), orgID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers insight routes on the given group
func (h *InsightHandler) RegisterRoutes(rg *gin.RouterGroup) {
	insights := rg.Group("/insights")
	{
		insights.GET("/metrics", h.GetMetrics)
		insights.POST("/reports/generate", h.GenerateReport)
		insights.POST("/reports/config-changed", h.ConfigChanged)
		insights.POST("/reports/batch", h.GenerateBatch)
		insights.POST("/reports/queue", h.QueueBatch)
		insights.GET("/reports/queue", h.ListQueued)
		insights.GET("/reports/queue/:id", h.GetQueued)
		insights.DELETE("/reports/queue/:id", h.DeleteQueued)
		insights.POST("/export/csv", h.ExportCSV)
		insights.POST("/export/png", h.ExportPNG)
	}
}

// ===================== Helpers =====================

// parseDataSources splits a comma-separated data source list
func parseDataSources(raw string) []insight.DataSource {
	if raw == "" {
		return []insight.DataSource{}
	}
	parts := strings.Split(raw, ",")
	sources := make([]insight.DataSource, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sources = append(sources, insight.DataSource(p))
		}
	}
	return sources
}

// toReportConfig validates and converts the wire form of a report config
func toReportConfig(req ReportConfigRequest) (insight.ReportConfig, error) {
	dateRange := insight.DateRange(req.DateRange)
	if !dateRange.Valid() {
		return insight.ReportConfig{}, insight.ErrUnknownDateRange
	}

	kind := insight.ChartKind(req.Visualization)
	if !kind.Valid() {
		return insight.ReportConfig{}, insight.ErrUnknownChartKind
	}

	sources := make([]insight.DataSource, 0, len(req.DataSources))
	for _, s := range req.DataSources {
		sources = append(sources, insight.DataSource(s))
	}

	return insight.ReportConfig{
		Metrics:       req.Metrics,
		DateRange:     dateRange,
		Visualization: kind,
		DataSources:   sources,
	}, nil
}

// toQueuedReportResponse maps a queued report into its wire form
func toQueuedReportResponse(report *insight.BatchReport) QueuedReportResponse {
	return QueuedReportResponse{
		ID:        report.ID.String(),
		Name:      report.Name,
		Status:    string(report.Status),
		Result:    report.Result,
		Error:     report.ErrorMessage,
		CreatedAt: report.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// toExportResponse maps an export artifact into its wire form
func toExportResponse(artifact *insightapp.ExportArtifact) ExportResponse {
	return ExportResponse{
		Filename:    artifact.Filename,
		ContentType: artifact.ContentType,
		Content:     artifact.Body,
		StorageURL:  artifact.StorageURL,
	}
}
