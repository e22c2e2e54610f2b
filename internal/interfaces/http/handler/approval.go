package handler

import (
	"context"

	"github.com/awqaf/backend/internal/domain/approval"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/awqaf/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ApprovalService is the approval surface consumed by the handler
type ApprovalService interface {
	Submit(ctx context.Context, subjectType approval.SubjectType, subjectID, submittedBy uuid.UUID) (*approval.ApprovalRequest, error)
	Decide(ctx context.Context, requestID, deciderID uuid.UUID, verdict approval.Verdict, comment string) (*approval.ApprovalRequest, error)
	GetByID(ctx context.Context, requestID uuid.UUID) (*approval.ApprovalRequest, error)
	GetBySubject(ctx context.Context, subjectType approval.SubjectType, subjectID uuid.UUID) (*approval.ApprovalRequest, error)
	ListPending(ctx context.Context, filter shared.Filter) ([]approval.ApprovalRequest, error)
}

// ApprovalHandler serves approval workflow endpoints
type ApprovalHandler struct {
	BaseHandler
	service ApprovalService
}

// NewApprovalHandler creates a new ApprovalHandler
func NewApprovalHandler(service ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{service: service}
}

// RegisterRoutes registers approval routes on the router group
func (h *ApprovalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	approvals := rg.Group("/approvals")
	{
		approvals.POST("", h.Submit)
		approvals.GET("/pending", h.ListPending)
		approvals.GET("/:id", h.Get)
		approvals.POST("/:id/decisions", h.Decide)
		approvals.GET("/subject/:type/:subjectId", h.GetBySubject)
	}
}

// SubmitApprovalRequest is the payload for opening an approval request
type SubmitApprovalRequest struct {
	SubjectType string    `json:"subject_type" binding:"required,oneof=closing_record distribution_batch"`
	SubjectID   uuid.UUID `json:"subject_id" binding:"required"`
}

// Submit handles POST /approvals
func (h *ApprovalHandler) Submit(c *gin.Context) {
	var req SubmitApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	submitter, err := actorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	request, err := h.service.Submit(c.Request.Context(),
		approval.SubjectType(req.SubjectType), req.SubjectID, submitter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, request)
}

// DecisionRequest is the payload for one reviewer verdict
type DecisionRequest struct {
	Verdict string `json:"verdict" binding:"required,oneof=approve reject"`
	Comment string `json:"comment"`
}

// Decide handles POST /approvals/:id/decisions
func (h *ApprovalHandler) Decide(c *gin.Context) {
	requestID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid request id")
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	decider, err := actorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	request, err := h.service.Decide(c.Request.Context(), requestID, decider,
		approval.Verdict(req.Verdict), req.Comment)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// Get handles GET /approvals/:id
func (h *ApprovalHandler) Get(c *gin.Context) {
	requestID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "invalid request id")
		return
	}

	request, err := h.service.GetByID(c.Request.Context(), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// GetBySubject handles GET /approvals/subject/:type/:subjectId
func (h *ApprovalHandler) GetBySubject(c *gin.Context) {
	subjectType := approval.SubjectType(c.Param("type"))
	if !subjectType.IsValid() {
		h.BadRequest(c, "unknown subject type")
		return
	}

	subjectID, ok := parseUUIDParam(c, "subjectId")
	if !ok {
		h.BadRequest(c, "invalid subject id")
		return
	}

	request, err := h.service.GetBySubject(c.Request.Context(), subjectType, subjectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if request == nil {
		h.HandleError(c, shared.NewDomainError("REQUEST_NOT_FOUND", "no approval request for this subject"))
		return
	}
	h.Success(c, request)
}

// ListPending handles GET /approvals/pending
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	listReq.Normalize()

	requests, err := h.service.ListPending(c.Request.Context(), shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, requests)
}
