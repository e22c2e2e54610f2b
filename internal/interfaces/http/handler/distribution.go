package handler

import (
	"context"

	appdistribution "github.com/awqaf/backend/internal/application/distribution"
	"github.com/awqaf/backend/internal/domain/distribution"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/awqaf/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DistributionService is the batch lifecycle surface consumed by the
// handler
type DistributionService interface {
	CreateBatch(ctx context.Context, req appdistribution.CreateBatchRequest) (*distribution.DistributionBatch, error)
	SubmitBatch(ctx context.Context, batchID, submittedBy uuid.UUID) (*distribution.DistributionBatch, error)
	ExecuteBatch(ctx context.Context, batchID uuid.UUID) (*distribution.DistributionBatch, error)
	GetBatch(ctx context.Context, batchID uuid.UUID) (*distribution.DistributionBatch, error)
	ListBatchesByPeriod(ctx context.Context, periodID uuid.UUID) ([]distribution.DistributionBatch, error)
	ListBatchesByStatus(ctx context.Context, status distribution.BatchStatus, filter shared.Filter) ([]distribution.DistributionBatch, error)
}

// DistributionHandler serves distribution batch endpoints
type DistributionHandler struct {
	BaseHandler
	service DistributionService
}

// NewDistributionHandler creates a new DistributionHandler
func NewDistributionHandler(service DistributionService) *DistributionHandler {
	return &DistributionHandler{service: service}
}

// RegisterRoutes registers distribution routes on the router group
func (h *DistributionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	batches := rg.Group("/distribution-batches")
	{
		batches.POST("", h.Create)
		batches.GET("", h.List)
		batches.GET("/:id", h.Get)
		batches.POST("/:id/submit", h.Submit)
		batches.POST("/:id/execute", h.Execute)
	}
}

// BlendComponentRequest is one constituent of a hybrid allocation
type BlendComponentRequest struct {
	Pattern string          `json:"pattern" binding:"required,allocation_pattern"`
	Ratio   decimal.Decimal `json:"ratio" binding:"required"`
}

// CreateBatchRequest is the payload for one allocation run
type CreateBatchRequest struct {
	FiscalPeriodID uuid.UUID                  `json:"fiscal_period_id" binding:"required"`
	Amount         decimal.Decimal            `json:"amount" binding:"required"`
	Pattern        string                     `json:"pattern" binding:"required,allocation_pattern"`
	CustomWeights  map[string]decimal.Decimal `json:"custom_weights,omitempty"`
	Blend          []BlendComponentRequest    `json:"blend,omitempty"`
}

func (r CreateBatchRequest) toServiceRequest() (appdistribution.CreateBatchRequest, error) {
	req := appdistribution.CreateBatchRequest{
		FiscalPeriodID: r.FiscalPeriodID,
		Amount:         r.Amount,
		Pattern:        distribution.AllocationPattern(r.Pattern),
	}

	if len(r.CustomWeights) > 0 {
		req.CustomWeights = make(map[uuid.UUID]decimal.Decimal, len(r.CustomWeights))
		for raw, weight := range r.CustomWeights {
			id, err := uuid.Parse(raw)
			if err != nil {
				return appdistribution.CreateBatchRequest{}, err
			}
			req.CustomWeights[id] = weight
		}
	}

	for _, b := range r.Blend {
		req.Blend = append(req.Blend, distribution.BlendComponent{
			Pattern: distribution.AllocationPattern(b.Pattern),
			Ratio:   b.Ratio,
		})
	}
	return req, nil
}

// Create handles POST /distribution-batches
func (h *DistributionHandler) Create(c *gin.Context) {
	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	serviceReq, err := req.toServiceRequest()
	if err != nil {
		h.BadRequest(c, "custom_weights keys must be beneficiary uuids")
		return
	}

	batch, err := h.service.CreateBatch(c.Request.Context(), serviceReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, batch)
}

// List handles GET /distribution-batches filtered by period or status
func (h *DistributionHandler) List(c *gin.Context) {
	if raw, ok := c.GetQuery("period_id"); ok {
		periodID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid period_id")
			return
		}
		batches, err := h.service.ListBatchesByPeriod(c.Request.Context(), periodID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, batches)
		return
	}

	status, ok := c.GetQuery("status")
	if !ok {
		h.BadRequest(c, "period_id or status query parameter is required")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq.Normalize()

	batches, err := h.service.ListBatchesByStatus(c.Request.Context(),
		distribution.BatchStatus(status),
		shared.Filter{Page: listReq.Page, PageSize: listReq.PageSize, OrderBy: listReq.OrderBy, OrderDir: listReq.OrderDir})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}

// Get handles GET /distribution-batches/:id
func (h *DistributionHandler) Get(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid batch id")
		return
	}

	batch, err := h.service.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Submit handles POST /distribution-batches/:id/submit
func (h *DistributionHandler) Submit(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid batch id")
		return
	}

	submitter, err := actorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.service.SubmitBatch(c.Request.Context(), batchID, submitter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Execute handles POST /distribution-batches/:id/execute
func (h *DistributionHandler) Execute(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid batch id")
		return
	}

	batch, err := h.service.ExecuteBatch(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}
