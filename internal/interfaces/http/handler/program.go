package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	programapp "github.com/programmatrix/backend/internal/application/program"
	"github.com/programmatrix/backend/internal/domain/program"
	"github.com/programmatrix/backend/internal/domain/shared"
	"github.com/programmatrix/backend/internal/interfaces/http/dto"
)

// ProgramHandler handles program management API endpoints
type ProgramHandler struct {
	BaseHandler
	programService *programapp.ProgramService
}

// NewProgramHandler creates a new ProgramHandler
func NewProgramHandler(programService *programapp.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// ===================== Request DTOs =====================

// CreateProgramRequest creates a new program in planning state
type CreateProgramRequest struct {
	Name        string  `json:"name" binding:"required" example:"Apollo Replatform"`
	Description string  `json:"description" example:"Migrate billing to the new platform"`
	StartDate   string  `json:"start_date" binding:"required" example:"2026-01-01"`
	Budget      float64 `json:"budget" binding:"gte=0" example:"250000"`
}

// UpdateCompletionRequest sets a program's completion percentage
type UpdateCompletionRequest struct {
	Completion float64 `json:"completion" binding:"gte=0,lte=100" example:"62.5"`
}

// AddMilestoneRequest appends a milestone to a program
type AddMilestoneRequest struct {
	Title   string `json:"title" binding:"required" example:"Beta launch"`
	DueDate string `json:"due_date" binding:"required" example:"2026-06-30"`
}

// RegisterRiskRequest attaches a risk to a program
type RegisterRiskRequest struct {
	Title    string `json:"title" binding:"required" example:"Vendor lock-in"`
	Severity string `json:"severity" binding:"required,oneof=low medium high critical" example:"high"`
}

// UpdateMitigationRequest advances a risk's mitigation progress
type UpdateMitigationRequest struct {
	Progress float64 `json:"progress" binding:"gte=0,lte=100" example:"40"`
}

// RecordFinancialRequest records planned vs actual spend for a category
type RecordFinancialRequest struct {
	Category   string  `json:"category" binding:"required" example:"Development"`
	Planned    float64 `json:"planned" binding:"gte=0" example:"80000"`
	Actual     float64 `json:"actual" binding:"gte=0" example:"72500"`
	RecordedAt string  `json:"recorded_at" example:"2026-03-31"`
}

// ===================== Endpoints =====================

// CreateProgram creates a new program in planning state
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.BadRequest(c, "start_date must be YYYY-MM-DD")
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	p, err := h.programService.CreateProgram(c.Request.Context(), orgID, req.Name, req.Description, startDate, toDecimal(req.Budget))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, p)
}

// GetProgram returns one program with its milestones
func (h *ProgramHandler) GetProgram(c *gin.Context) {
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

	p, err := h.programService.GetProgram(c.Request.Context(), orgID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// ListPrograms returns the org's programs, paginated
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	page, err := h.programService.ListPrograms(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ActivateProgram moves a program from planning or hold to active
func (h *ProgramHandler) ActivateProgram(c *gin.Context) {
	h.mutateProgram(c, h.programService.ActivateProgram)
}

// HoldProgram puts an active program on hold
func (h *ProgramHandler) HoldProgram(c *gin.Context) {
	h.mutateProgram(c, h.programService.HoldProgram)
}

// CompleteProgram marks an active program completed
func (h *ProgramHandler) CompleteProgram(c *gin.Context) {
	h.mutateProgram(c, h.programService.CompleteProgram)
}

// UpdateCompletion sets a program's completion percentage
func (h *ProgramHandler) UpdateCompletion(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindingError(c, err)
		return
	}

	var req UpdateCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	p, err := h.programService.UpdateCompletion(c.Request.Context(), orgID, uuid.MustParse(uri.ID), toDecimal(req.Completion))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// AddMilestone appends a milestone to a program
func (h *ProgramHandler) AddMilestone(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindingError(c, err)
		return
	}

	var req AddMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		h.BadRequest(c, "due_date must be YYYY-MM-DD")
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	p, err := h.programService.AddMilestone(c.Request.Context(), orgID, uuid.MustParse(uri.ID), req.Title, dueDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// CompleteMilestone marks a program milestone done
func (h *ProgramHandler) CompleteMilestone(c *gin.Context) {
	var uri struct {
		ID          string `uri:"id" binding:"required,uuid"`
		MilestoneID string `uri:"milestone_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	p, err := h.programService.CompleteMilestone(c.Request.Context(), orgID, uuid.MustParse(uri.ID), uuid.MustParse(uri.MilestoneID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// DeleteProgram removes a program and its attached records
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
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

	if err := h.programService.DeleteProgram(c.Request.Context(), orgID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRisk attaches a risk to a program
func (h *ProgramHandler) RegisterRisk(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindingError(c, err)
		return
	}

	var req RegisterRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	risk, err := h.programService.RegisterRisk(c.Request.Context(), orgID, uuid.MustParse(uri.ID), req.Title, program.RiskSeverity(req.Severity))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, risk)
}

// ListRisks returns the risks attached to a program
func (h *ProgramHandler) ListRisks(c *gin.Context) {
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

	risks, err := h.programService.ListRisks(c.Request.Context(), orgID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, risks)
}

// UpdateRiskMitigation advances a risk's mitigation progress
func (h *ProgramHandler) UpdateRiskMitigation(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindingError(c, err)
		return
	}

	var req UpdateMitigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	risk, err := h.programService.UpdateRiskMitigation(c.Request.Context(), orgID, uuid.MustParse(uri.ID), toDecimal(req.Progress))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, risk)
}

// RecordFinancial records planned vs actual spend for a category
func (h *ProgramHandler) RecordFinancial(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindingError(c, err)
		return
	}

	var req RecordFinancialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	recordedAt := time.Now()
	if req.RecordedAt != "" {
		parsed, err := time.Parse("2006-01-02", req.RecordedAt)
		if err != nil {
			h.BadRequest(c, "recorded_at must be YYYY-MM-DD")
			return
		}
		recordedAt = parsed
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	record, err := h.programService.RecordFinancial(
		c.Request.Context(),
		orgID,
		uuid.MustParse(uri.ID),
		program.FinancialCategory(req.Category),
		toDecimal(req.Planned),
		toDecimal(req.Actual),
		recordedAt,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, record)
}

// ListFinancials returns a program's financial records
func (h *ProgramHandler) ListFinancials(c *gin.Context) {
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

	records, err := h.programService.ListFinancials(c.Request.Context(), orgID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// mutateProgram runs a lifecycle transition identified by the path ID
func (h *ProgramHandler) mutateProgram(c *gin.Context, fn func(ctx context.Context, orgID, id uuid.UUID) (*program.Program, error)) {
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

	p, err := fn(c.Request.Context(), orgID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// RegisterRoutes registers program routes on the given group
func (h *ProgramHandler) RegisterRoutes(rg *gin.RouterGroup) {
	programs := rg.Group("/programs")
	{
		programs.POST("", h.CreateProgram)
		programs.GET("", h.ListPrograms)
		programs.GET("/:id", h.GetProgram)
		programs.DELETE("/:id", h.DeleteProgram)
		programs.POST("/:id/activate", h.ActivateProgram)
		programs.POST("/:id/hold", h.HoldProgram)
		programs.POST("/:id/complete", h.CompleteProgram)
		programs.PUT("/:id/completion", h.UpdateCompletion)
		programs.POST("/:id/milestones", h.AddMilestone)
		programs.PUT("/:id/milestones/:milestone_id/complete", h.CompleteMilestone)
		programs.POST("/:id/risks", h.RegisterRisk)
		programs.GET("/:id/risks", h.ListRisks)
		programs.POST("/:id/financials", h.RecordFinancial)
		programs.GET("/:id/financials", h.ListFinancials)
	}

	risks := rg.Group("/risks")
	{
		risks.PUT("/:id/mitigation", h.UpdateRiskMitigation)
	}
}

// toDecimal lifts a float64 from the JSON boundary into the decimal
// type the domain uses for money and percentages.
func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
