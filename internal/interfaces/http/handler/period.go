package handler

import (
	"context"
	"time"

	appfiscal "github.com/awqaf/backend/internal/application/fiscal"
	"github.com/awqaf/backend/internal/domain/fiscal"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/awqaf/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodService is the period lifecycle surface consumed by the handler
type PeriodService interface {
	CreatePeriod(ctx context.Context, name string, startDate, endDate time.Time) (*fiscal.FiscalPeriod, error)
	ActivatePeriod(ctx context.Context, periodID uuid.UUID) (*fiscal.FiscalPeriod, error)
	GetPeriod(ctx context.Context, periodID uuid.UUID) (*fiscal.FiscalPeriod, error)
	GetActivePeriod(ctx context.Context) (*fiscal.FiscalPeriod, error)
	ListPeriods(ctx context.Context, filter fiscal.FiscalPeriodFilter) ([]fiscal.FiscalPeriod, int64, error)
}

// ClosingService is the closing surface consumed by the handler
type ClosingService interface {
	PreviewClosing(ctx context.Context, periodID uuid.UUID, req appfiscal.ClosePeriodRequest) (*appfiscal.ClosingPreview, error)
	ClosePeriod(ctx context.Context, periodID uuid.UUID, req appfiscal.ClosePeriodRequest) (*fiscal.ClosingRecord, error)
	PublishClosing(ctx context.Context, periodID uuid.UUID) (*fiscal.FiscalPeriod, error)
	GetClosing(ctx context.Context, periodID uuid.UUID) (*fiscal.ClosingRecord, error)
}

// PeriodHandler serves fiscal period and closing endpoints
type PeriodHandler struct {
	BaseHandler
	periods PeriodService
	closing ClosingService
}

// NewPeriodHandler creates a new PeriodHandler
func NewPeriodHandler(periods PeriodService, closing ClosingService) *PeriodHandler {
	return &PeriodHandler{periods: periods, closing: closing}
}

// RegisterRoutes registers period routes on the router group
func (h *PeriodHandler) RegisterRoutes(rg *gin.RouterGroup) {
	periods := rg.Group("/fiscal-periods")
	{
		periods.POST("", h.Create)
		periods.GET("", h.List)
		periods.GET("/active", h.GetActive)
		periods.GET("/:id", h.Get)
		periods.POST("/:id/activate", h.Activate)
		periods.POST("/:id/closing/preview", h.PreviewClosing)
		periods.POST("/:id/closing", h.Close)
		periods.GET("/:id/closing", h.GetClosing)
		periods.POST("/:id/publish", h.Publish)
	}
}

// CreatePeriodRequest is the payload for creating a fiscal period
type CreatePeriodRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// Create handles POST /fiscal-periods
func (h *PeriodHandler) Create(c *gin.Context) {
	var req CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	period, err := h.periods.CreatePeriod(c.Request.Context(), req.Name, req.StartDate, req.EndDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, period)
}

// List handles GET /fiscal-periods
func (h *PeriodHandler) List(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq.Normalize()

	filter := fiscal.FiscalPeriodFilter{
		Filter: shared.Filter{
			Page:     listReq.Page,
			PageSize: listReq.PageSize,
			OrderBy:  listReq.OrderBy,
			OrderDir: listReq.OrderDir,
		},
	}
	if v, ok := c.GetQuery("is_closed"); ok {
		closed := v == "true"
		filter.IsClosed = &closed
	}
	if v, ok := c.GetQuery("is_published"); ok {
		published := v == "true"
		filter.IsPublished = &published
	}

	periods, total, err := h.periods.ListPeriods(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, periods, total, listReq.Page, listReq.PageSize)
}

// Get handles GET /fiscal-periods/:id
func (h *PeriodHandler) Get(c *gin.Context) {
	periodID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid period id")
		return
	}

	period, err := h.periods.GetPeriod(c.Request.Context(), periodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, period)
}

// GetActive handles GET /fiscal-periods/active
func (h *PeriodHandler) GetActive(c *gin.Context) {
	period, err := h.periods.GetActivePeriod(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, period)
}

// Activate handles POST /fiscal-periods/:id/activate
func (h *PeriodHandler) Activate(c *gin.Context) {
	periodID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid period id")
		return
	}

	period, err := h.periods.ActivatePeriod(c.Request.Context(), periodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, period)
}

// ClosePeriodRequest is the payload for closing or previewing a period
type ClosePeriodRequest struct {
	Deductions     fiscal.DeductionConfig `json:"deductions"`
	OpeningBalance decimal.Decimal        `json:"opening_balance"`
}

func (r ClosePeriodRequest) toServiceRequest() appfiscal.ClosePeriodRequest {
	return appfiscal.ClosePeriodRequest{
		Deductions:     r.Deductions,
		OpeningBalance: r.OpeningBalance,
	}
}

// PreviewClosing handles POST /fiscal-periods/:id/closing/preview
func (h *PeriodHandler) PreviewClosing(c *gin.Context) {
	periodID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid period id")
		return
	}

	var req ClosePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	preview, err := h.closing.PreviewClosing(c.Request.Context(), periodID, req.toServiceRequest())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// Close handles POST /fiscal-periods/:id/closing
func (h *PeriodHandler) Close(c *gin.Context) {
	periodID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid period id")
		return
	}

	var req ClosePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.closing.ClosePeriod(c.Request.Context(), periodID, req.toServiceRequest())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// GetClosing handles GET /fiscal-periods/:id/closing
func (h *PeriodHandler) GetClosing(c *gin.Context) {
	periodID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid period id")
		return
	}

	record, err := h.closing.GetClosing(c.Request.Context(), periodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Publish handles POST /fiscal-periods/:id/publish
func (h *PeriodHandler) Publish(c *gin.Context) {
	periodID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid period id")
		return
	}

	period, err := h.closing.PublishClosing(c.Request.Context(), periodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, period)
}
