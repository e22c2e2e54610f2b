package distribution

import (
	"fmt"
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStatus is the lifecycle state of a distribution batch
type BatchStatus string

const (
	BatchStatusDraft           BatchStatus = "DRAFT"
	BatchStatusPendingApproval BatchStatus = "PENDING_APPROVAL"
	BatchStatusApproved        BatchStatus = "APPROVED"
	BatchStatusRejected        BatchStatus = "REJECTED"
	BatchStatusExecuted        BatchStatus = "EXECUTED"
)

// IsTerminal reports whether no further transition is allowed
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusRejected || s == BatchStatusExecuted
}

// PaymentStatus tracks the disbursement state of one distribution line
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// DistributionDetail is one beneficiary's line inside a batch.
// ShareBasis records the normalized weight actually applied so the
// computation is auditable after the fact.
type DistributionDetail struct {
	ID                  uuid.UUID       `json:"id" gorm:"type:uuid;primary_key"`
	DistributionBatchID uuid.UUID       `json:"distribution_batch_id" gorm:"type:uuid;not null;index"`
	BeneficiaryID       uuid.UUID       `json:"beneficiary_id" gorm:"type:uuid;not null;index"`
	ShareAmount         decimal.Decimal `json:"share_amount" gorm:"type:decimal(18,2);not null"`
	ShareBasis          decimal.Decimal `json:"share_basis" gorm:"type:decimal(12,6);not null"`
	PaymentStatus       PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// TableName specifies the database table name
func (DistributionDetail) TableName() string {
	return "distribution_details"
}

// DistributionBatch groups the per-beneficiary lines produced by one
// allocation run over one fiscal period.
type DistributionBatch struct {
	shared.BaseAggregateRoot
	FiscalPeriodID uuid.UUID            `json:"fiscal_period_id" gorm:"type:uuid;not null;index"`
	Pattern        AllocationPattern    `json:"pattern" gorm:"type:varchar(20);not null"`
	TotalAmount    decimal.Decimal      `json:"total_amount" gorm:"type:decimal(18,2);not null"`
	Status         BatchStatus          `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Details        []DistributionDetail `json:"details" gorm:"foreignKey:DistributionBatchID"`
	SubmittedAt    *time.Time           `json:"submitted_at"`
	ApprovedAt     *time.Time           `json:"approved_at"`
	ApprovedBy     *uuid.UUID           `json:"approved_by" gorm:"type:uuid"`
	RejectedAt     *time.Time           `json:"rejected_at"`
	RejectReason   string               `json:"reject_reason" gorm:"type:text"`
	ExecutedAt     *time.Time           `json:"executed_at"`
}

// TableName specifies the database table name
func (DistributionBatch) TableName() string {
	return "distribution_batches"
}

// NewDistributionBatch creates a draft batch from an allocation result.
// The detail amounts must sum to totalAmount exactly; a batch that does
// not reconcile is never constructed.
func NewDistributionBatch(
	fiscalPeriodID uuid.UUID,
	pattern AllocationPattern,
	totalAmount decimal.Decimal,
	details []DistributionDetail,
) (*DistributionBatch, error) {
	if fiscalPeriodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "fiscal period id is required")
	}
	if !pattern.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("unknown allocation pattern %q", pattern))
	}
	if len(details) == 0 {
		return nil, shared.NewDomainError(shared.CodeNoEligibleBeneficiaries,
			"a distribution batch requires at least one detail line")
	}

	sum := decimal.Zero
	for _, d := range details {
		if d.ShareAmount.IsNegative() {
			return nil, shared.NewDomainError(shared.CodeAllocationOverflow,
				fmt.Sprintf("share for beneficiary %s is negative", d.BeneficiaryID))
		}
		sum = sum.Add(d.ShareAmount)
	}
	if !sum.Equal(totalAmount) {
		return nil, shared.NewDomainError(shared.CodeAllocationOverflow,
			fmt.Sprintf("detail lines sum to %s which differs from batch total %s",
				sum.String(), totalAmount.String()))
	}

	batch := &DistributionBatch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FiscalPeriodID:    fiscalPeriodID,
		Pattern:           pattern,
		TotalAmount:       totalAmount,
		Status:            BatchStatusDraft,
	}

	now := time.Now()
	batch.Details = make([]DistributionDetail, len(details))
	for i, d := range details {
		d.ID = uuid.New()
		d.DistributionBatchID = batch.ID
		if d.PaymentStatus == "" {
			d.PaymentStatus = PaymentStatusPending
		}
		d.CreatedAt = now
		d.UpdatedAt = now
		batch.Details[i] = d
	}

	batch.AddDomainEvent(NewBatchCreatedEvent(batch))
	return batch, nil
}

// SubmitForApproval moves a draft batch into the approval pipeline
func (b *DistributionBatch) SubmitForApproval() error {
	if b.Status != BatchStatusDraft {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("only draft batches can be submitted, current status is %s", b.Status))
	}
	now := time.Now()
	b.Status = BatchStatusPendingApproval
	b.SubmittedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()
	b.AddDomainEvent(NewBatchSubmittedEvent(b))
	return nil
}

// Approve records the final approval decision on the batch
func (b *DistributionBatch) Approve(approverID uuid.UUID) error {
	if b.Status != BatchStatusPendingApproval {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("only pending batches can be approved, current status is %s", b.Status))
	}
	now := time.Now()
	b.Status = BatchStatusApproved
	b.ApprovedAt = &now
	b.ApprovedBy = &approverID
	b.UpdatedAt = now
	b.IncrementVersion()
	b.AddDomainEvent(NewBatchApprovedEvent(b, approverID))
	return nil
}

// Reject closes the batch without execution
func (b *DistributionBatch) Reject(reason string) error {
	if b.Status != BatchStatusPendingApproval {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("only pending batches can be rejected, current status is %s", b.Status))
	}
	now := time.Now()
	b.Status = BatchStatusRejected
	b.RejectedAt = &now
	b.RejectReason = reason
	b.UpdatedAt = now
	b.IncrementVersion()
	b.AddDomainEvent(NewBatchRejectedEvent(b, reason))
	return nil
}

// Execute marks an approved batch as handed to disbursement. Payment
// status of individual lines is owned by the payment subsystem.
func (b *DistributionBatch) Execute() error {
	if b.Status != BatchStatusApproved {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("only approved batches can be executed, current status is %s", b.Status))
	}
	now := time.Now()
	b.Status = BatchStatusExecuted
	b.ExecutedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()
	b.AddDomainEvent(NewBatchExecutedEvent(b))
	return nil
}
