package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	dashboardapp "github.com/programmatrix/backend/internal/application/dashboard"
	"github.com/programmatrix/backend/internal/domain/dashboard"
	"github.com/programmatrix/backend/internal/interfaces/http/dto"
)

// DashboardHandler handles dashboard widget API endpoints
type DashboardHandler struct {
	BaseHandler
	widgetService *dashboardapp.WidgetService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(widgetService *dashboardapp.WidgetService) *DashboardHandler {
	return &DashboardHandler{widgetService: widgetService}
}

// ===================== Request DTOs =====================

// CreateWidgetRequest adds a widget at the end of the dashboard order
type CreateWidgetRequest struct {
	Title  string `json:"title" binding:"required" example:"Budget Overview"`
	Kind   string `json:"kind" binding:"required,oneof=chart progress" example:"chart"`
	Source string `json:"source" binding:"required" example:"Financials"`
	Size   string `json:"size" binding:"required,oneof=small medium large" example:"medium"`
}

// ReorderWidgetsRequest moves the source widget to the target's slot
type ReorderWidgetsRequest struct {
	SourceID string `json:"source_id" binding:"required,uuid"`
	TargetID string `json:"target_id" binding:"required,uuid"`
}

// ResizeWidgetRequest changes a widget's grid footprint
type ResizeWidgetRequest struct {
	Size string `json:"size" binding:"required,oneof=small medium large" example:"large"`
}

// ===================== Endpoints =====================

// ListWidgets returns the org's widgets in dashboard order
func (h *DashboardHandler) ListWidgets(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	widgets, err := h.widgetService.ListWidgets(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, widgets)
}

// CreateWidget adds a widget at the end of the dashboard order
func (h *DashboardHandler) CreateWidget(c *gin.Context) {
	var req CreateWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	widget, err := h.widgetService.CreateWidget(
		c.Request.Context(),
		orgID,
		req.Title,
		dashboard.WidgetKind(req.Kind),
		req.Source,
		dashboard.WidgetSize(req.Size),
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, widget)
}

// ReorderWidgets performs a full drag-and-drop cycle: the source
// widget is removed from its slot and reinserted at the target's
// index. Unknown IDs and source==target leave the order untouched.
func (h *DashboardHandler) ReorderWidgets(c *gin.Context) {
	var req ReorderWidgetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		h.BadRequest(c, "invalid source widget ID")
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		h.BadRequest(c, "invalid target widget ID")
		return
	}

	ctx := c.Request.Context()
	if err := h.widgetService.StartDrag(ctx, orgID, sourceID); err != nil {
		h.HandleError(c, err)
		return
	}
	defer h.widgetService.EndDrag(orgID)

	widgets, err := h.widgetService.DropOn(ctx, orgID, targetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, widgets)
}

// ResizeWidget changes a widget's grid footprint
func (h *DashboardHandler) ResizeWidget(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindingError(c, err)
		return
	}

	var req ResizeWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "invalid organization ID")
		return
	}

	widget, err := h.widgetService.Resize(c.Request.Context(), orgID, uuid.MustParse(uri.ID), dashboard.WidgetSize(req.Size))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, widget)
}

// DeleteWidget removes a widget from the dashboard
func (h *DashboardHandler) DeleteWidget(c *gin.Context) {
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

	if err := h.widgetService.DeleteWidget(c.Request.Context(), orgID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers dashboard routes on the given group
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	widgets := rg.Group("/dashboard/widgets")
	{
		widgets.GET("", h.ListWidgets)
		widgets.POST("", h.CreateWidget)
		widgets.PUT("/order", h.ReorderWidgets)
		widgets.PUT("/:id/size", h.ResizeWidget)
		widgets.DELETE("/:id", h.DeleteWidget)
	}
}
