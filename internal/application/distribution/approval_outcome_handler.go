package distribution

import (
	"context"
	"fmt"

	"github.com/awqaf/backend/internal/domain/approval"
	"github.com/awqaf/backend/internal/domain/distribution"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApprovalOutcomeHandler projects terminal approval outcomes onto
// distribution batches: a finally approved request approves its batch,
// a rejection or a stalled chain closes it. Closing record approvals
// are ignored here; the fiscal side reads approval state directly at
// publish time.
type ApprovalOutcomeHandler struct {
	batchRepo distribution.DistributionBatchRepository
	eventBus  shared.EventPublisher
	logger    *zap.Logger
}

// NewApprovalOutcomeHandler creates a new ApprovalOutcomeHandler
func NewApprovalOutcomeHandler(
	batchRepo distribution.DistributionBatchRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ApprovalOutcomeHandler {
	return &ApprovalOutcomeHandler{
		batchRepo: batchRepo,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// EventTypes returns the terminal approval events the handler consumes
func (h *ApprovalOutcomeHandler) EventTypes() []string {
	return []string{
		approval.EventTypeRequestApproved,
		approval.EventTypeRequestRejected,
		approval.EventTypeRequestStalled,
	}
}

// Handle applies one terminal approval outcome to its batch. Replayed
// events hit a batch already past PENDING_APPROVAL and are dropped.
func (h *ApprovalOutcomeHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *approval.RequestApprovedEvent:
		if e.SubjectType != approval.SubjectDistributionBatch {
			return nil
		}
		return h.apply(ctx, e.SubjectID, func(b *distribution.DistributionBatch) error {
			return b.Approve(e.DecidedBy)
		})
	case *approval.RequestRejectedEvent:
		if e.SubjectType != approval.SubjectDistributionBatch {
			return nil
		}
		return h.apply(ctx, e.SubjectID, func(b *distribution.DistributionBatch) error {
			return b.Reject(e.Comment)
		})
	case *approval.RequestStalledEvent:
		if e.SubjectType != approval.SubjectDistributionBatch {
			return nil
		}
		return h.apply(ctx, e.SubjectID, func(b *distribution.DistributionBatch) error {
			return b.Reject(fmt.Sprintf("approval chain expired at level %d without resolution", e.Level))
		})
	default:
		return nil
	}
}

func (h *ApprovalOutcomeHandler) apply(ctx context.Context, batchID uuid.UUID, transition func(*distribution.DistributionBatch) error) error {
	batch, err := h.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to load distribution batch: %w", err)
	}
	if batch == nil {
		h.logger.Warn("approval outcome for unknown batch", zap.String("batch_id", batchID.String()))
		return nil
	}

	if err := transition(batch); err != nil {
		if shared.IsCode(err, "INVALID_STATUS") {
			h.logger.Debug("batch already past approval, dropping outcome",
				zap.String("batch_id", batch.ID.String()),
				zap.String("status", string(batch.Status)))
			return nil
		}
		return err
	}

	if err := h.batchRepo.SaveWithLock(ctx, batch); err != nil {
		return fmt.Errorf("failed to save distribution batch: %w", err)
	}

	events := batch.GetDomainEvents()
	if len(events) > 0 {
		if err := h.eventBus.Publish(ctx, events...); err != nil {
			h.logger.Warn("failed to publish batch events", zap.Error(err))
		}
		batch.ClearDomainEvents()
	}

	h.logger.Info("approval outcome applied to batch",
		zap.String("batch_id", batch.ID.String()),
		zap.String("status", string(batch.Status)))
	return nil
}
