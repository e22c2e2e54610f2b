package distribution

import (
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Distribution event types
const (
	EventTypeBatchCreated   = "distribution.batch.created"
	EventTypeBatchSubmitted = "distribution.batch.submitted"
	EventTypeBatchApproved  = "distribution.batch.approved"
	EventTypeBatchRejected  = "distribution.batch.rejected"
	EventTypeBatchExecuted  = "distribution.batch.executed"
)

// BatchCreatedEvent is raised when an allocation run produces a batch
type BatchCreatedEvent struct {
	shared.BaseDomainEvent
	FiscalPeriodID uuid.UUID         `json:"fiscal_period_id"`
	Pattern        AllocationPattern `json:"pattern"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	LineCount      int               `json:"line_count"`
}

// NewBatchCreatedEvent creates a BatchCreatedEvent
func NewBatchCreatedEvent(b *DistributionBatch) *BatchCreatedEvent {
	return &BatchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCreated, "DistributionBatch", b.ID),
		FiscalPeriodID:  b.FiscalPeriodID,
		Pattern:         b.Pattern,
		TotalAmount:     b.TotalAmount,
		LineCount:       len(b.Details),
	}
}

// BatchSubmittedEvent is raised when a batch enters the approval pipeline
type BatchSubmittedEvent struct {
	shared.BaseDomainEvent
	FiscalPeriodID uuid.UUID       `json:"fiscal_period_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// NewBatchSubmittedEvent creates a BatchSubmittedEvent
func NewBatchSubmittedEvent(b *DistributionBatch) *BatchSubmittedEvent {
	return &BatchSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchSubmitted, "DistributionBatch", b.ID),
		FiscalPeriodID:  b.FiscalPeriodID,
		TotalAmount:     b.TotalAmount,
	}
}

// BatchApprovedEvent is raised on final approval of a batch
type BatchApprovedEvent struct {
	shared.BaseDomainEvent
	FiscalPeriodID uuid.UUID `json:"fiscal_period_id"`
	ApprovedBy     uuid.UUID `json:"approved_by"`
}

// NewBatchApprovedEvent creates a BatchApprovedEvent
func NewBatchApprovedEvent(b *DistributionBatch, approverID uuid.UUID) *BatchApprovedEvent {
	return &BatchApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchApproved, "DistributionBatch", b.ID),
		FiscalPeriodID:  b.FiscalPeriodID,
		ApprovedBy:      approverID,
	}
}

// BatchRejectedEvent is raised when a batch is rejected
type BatchRejectedEvent struct {
	shared.BaseDomainEvent
	FiscalPeriodID uuid.UUID `json:"fiscal_period_id"`
	Reason         string    `json:"reason"`
}

// NewBatchRejectedEvent creates a BatchRejectedEvent
func NewBatchRejectedEvent(b *DistributionBatch, reason string) *BatchRejectedEvent {
	return &BatchRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchRejected, "DistributionBatch", b.ID),
		FiscalPeriodID:  b.FiscalPeriodID,
		Reason:          reason,
	}
}

// BatchExecutedEvent is raised when a batch is handed to disbursement
type BatchExecutedEvent struct {
	shared.BaseDomainEvent
	FiscalPeriodID uuid.UUID       `json:"fiscal_period_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// NewBatchExecutedEvent creates a BatchExecutedEvent
func NewBatchExecutedEvent(b *DistributionBatch) *BatchExecutedEvent {
	return &BatchExecutedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchExecuted, "DistributionBatch", b.ID),
		FiscalPeriodID:  b.FiscalPeriodID,
		TotalAmount:     b.TotalAmount,
	}
}
