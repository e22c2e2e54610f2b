package distribution

import (
	"context"
	"fmt"

	"github.com/awqaf/backend/internal/domain/approval"
	"github.com/awqaf/backend/internal/domain/distribution"
	"github.com/awqaf/backend/internal/domain/fiscal"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/awqaf/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ApprovalGateway opens and reads approval requests for batches
type ApprovalGateway interface {
	Submit(ctx context.Context, subjectType approval.SubjectType, subjectID, submittedBy uuid.UUID) (*approval.ApprovalRequest, error)
	GetBySubject(ctx context.Context, subjectType approval.SubjectType, subjectID uuid.UUID) (*approval.ApprovalRequest, error)
}

// DistributionService runs the allocation engine over the beneficiary
// register and manages the distribution batch lifecycle
type DistributionService struct {
	batchRepo       distribution.DistributionBatchRepository
	beneficiaryRepo distribution.BeneficiaryRepository
	periodRepo      fiscal.FiscalPeriodRepository
	approvals       ApprovalGateway
	engine          *distribution.Engine
	eventBus        shared.EventPublisher
	logger          *zap.Logger
}

// NewDistributionService creates a new DistributionService
func NewDistributionService(
	batchRepo distribution.DistributionBatchRepository,
	beneficiaryRepo distribution.BeneficiaryRepository,
	periodRepo fiscal.FiscalPeriodRepository,
	approvals ApprovalGateway,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *DistributionService {
	return &DistributionService{
		batchRepo:       batchRepo,
		beneficiaryRepo: beneficiaryRepo,
		periodRepo:      periodRepo,
		approvals:       approvals,
		engine:          distribution.NewEngine(),
		eventBus:        eventBus,
		logger:          logger,
	}
}

// CreateBatchRequest carries the inputs of one allocation run
type CreateBatchRequest struct {
	FiscalPeriodID uuid.UUID
	Amount         decimal.Decimal
	Pattern        distribution.AllocationPattern
	CustomWeights  map[uuid.UUID]decimal.Decimal
	Blend          []distribution.BlendComponent
	NeedScoring    *distribution.NeedScoringConfig
}

// CreateBatch allocates the amount across active beneficiaries and
// saves the resulting draft batch
func (s *DistributionService) CreateBatch(ctx context.Context, req CreateBatchRequest) (*distribution.DistributionBatch, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "distribution", "create_batch")
	defer span.End()

	telemetry.SetAttributes(span,
		"period_id", req.FiscalPeriodID.String(),
		"pattern", string(req.Pattern),
		"amount", req.Amount.String(),
	)

	period, err := s.periodRepo.FindByID(ctx, req.FiscalPeriodID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load fiscal period: %w", err)
	}
	if period == nil {
		err := shared.NewDomainError("PERIOD_NOT_FOUND",
			fmt.Sprintf("fiscal period %s not found", req.FiscalPeriodID))
		telemetry.RecordError(span, err)
		return nil, err
	}
	if period.IsClosed {
		err := shared.NewDomainError(shared.CodePeriodAlreadyClosed,
			fmt.Sprintf("Fiscal period %s is closed; no further distributions", period.Name))
		telemetry.RecordError(span, err)
		return nil, err
	}

	beneficiaries, err := s.beneficiaryRepo.FindActive(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load beneficiaries: %w", err)
	}

	details, err := s.engine.Allocate(req.Amount, beneficiaries, req.Pattern, s.allocationOptions(req))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	batch, err := distribution.NewDistributionBatch(req.FiscalPeriodID, req.Pattern, req.Amount, details)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.batchRepo.Save(ctx, batch); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save distribution batch: %w", err)
	}

	s.publishEvents(ctx, batch)

	s.logger.Info("distribution batch created",
		zap.String("batch_id", batch.ID.String()),
		zap.String("pattern", string(batch.Pattern)),
		zap.String("total", batch.TotalAmount.String()),
		zap.Int("lines", len(batch.Details)))

	return batch, nil
}

// SubmitBatch moves a draft batch into the approval pipeline and opens
// its approval request
func (s *DistributionService) SubmitBatch(ctx context.Context, batchID, submittedBy uuid.UUID) (*distribution.DistributionBatch, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "distribution", "submit_batch")
	defer span.End()

	batch, err := s.loadBatch(ctx, batchID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := batch.SubmitForApproval(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.batchRepo.SaveWithLock(ctx, batch); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save distribution batch: %w", err)
	}

	if _, err := s.approvals.Submit(ctx, approval.SubjectDistributionBatch, batch.ID, submittedBy); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to open approval request: %w", err)
	}

	s.publishEvents(ctx, batch)
	return batch, nil
}

// ExecuteBatch hands an approved batch to disbursement. The batch's
// approval request must have resolved APPROVED; the batch status alone
// is not trusted.
func (s *DistributionService) ExecuteBatch(ctx context.Context, batchID uuid.UUID) (*distribution.DistributionBatch, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "distribution", "execute_batch")
	defer span.End()

	batch, err := s.loadBatch(ctx, batchID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	request, err := s.approvals.GetBySubject(ctx, approval.SubjectDistributionBatch, batch.ID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load approval request: %w", err)
	}
	if request == nil || request.Status != approval.RequestStatusApproved {
		err := shared.NewDomainError("APPROVAL_REQUIRED",
			fmt.Sprintf("distribution batch %s is not approved and cannot be executed", batch.ID))
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := batch.Execute(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.batchRepo.SaveWithLock(ctx, batch); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save distribution batch: %w", err)
	}

	s.publishEvents(ctx, batch)

	s.logger.Info("distribution batch executed",
		zap.String("batch_id", batch.ID.String()),
		zap.String("total", batch.TotalAmount.String()))

	return batch, nil
}

// GetBatch loads one batch with its detail lines
func (s *DistributionService) GetBatch(ctx context.Context, batchID uuid.UUID) (*distribution.DistributionBatch, error) {
	return s.loadBatch(ctx, batchID)
}

// ListBatchesByPeriod returns all batches of a fiscal period
func (s *DistributionService) ListBatchesByPeriod(ctx context.Context, periodID uuid.UUID) ([]distribution.DistributionBatch, error) {
	return s.batchRepo.FindByPeriodID(ctx, periodID)
}

// ListBatchesByStatus returns batches in the given lifecycle state
func (s *DistributionService) ListBatchesByStatus(ctx context.Context, status distribution.BatchStatus, filter shared.Filter) ([]distribution.DistributionBatch, error) {
	return s.batchRepo.FindByStatus(ctx, status, filter)
}

func (s *DistributionService) loadBatch(ctx context.Context, batchID uuid.UUID) (*distribution.DistributionBatch, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load distribution batch: %w", err)
	}
	if batch == nil {
		return nil, shared.NewDomainError("BATCH_NOT_FOUND",
			fmt.Sprintf("distribution batch %s not found", batchID))
	}
	return batch, nil
}

// allocationOptions assembles per-pattern collaborators. The reference
// share table and need scorer are injected here so the engine stays
// pure arithmetic.
func (s *DistributionService) allocationOptions(req CreateBatchRequest) distribution.AllocationOptions {
	opts := distribution.AllocationOptions{
		CustomWeights: req.CustomWeights,
		Blend:         req.Blend,
	}

	needsTable := req.Pattern == distribution.PatternShariah
	needsScorer := req.Pattern == distribution.PatternNeedBased
	for _, c := range req.Blend {
		needsTable = needsTable || c.Pattern == distribution.PatternShariah
		needsScorer = needsScorer || c.Pattern == distribution.PatternNeedBased
	}

	if needsTable {
		opts.ShareTable = distribution.ReferenceShareTable()
	}
	if needsScorer {
		cfg := distribution.DefaultNeedScoringConfig()
		if req.NeedScoring != nil {
			cfg = *req.NeedScoring
		}
		opts.Scorer = distribution.NewDefaultNeedScorer(cfg)
	}
	return opts
}

func (s *DistributionService) publishEvents(ctx context.Context, batch *distribution.DistributionBatch) {
	events := batch.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish distribution events", zap.Error(err))
	}
	batch.ClearDomainEvents()
}
