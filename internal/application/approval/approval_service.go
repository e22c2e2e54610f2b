package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/awqaf/backend/internal/domain/approval"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/awqaf/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ApprovalService walks closing records and distribution batches
// through their configured approval chains and runs the escalation
// sweep over pending requests.
type ApprovalService struct {
	requestRepo approval.ApprovalRequestRepository
	configRepo  approval.LevelConfigRepository
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(
	requestRepo approval.ApprovalRequestRepository,
	configRepo approval.LevelConfigRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ApprovalService {
	return &ApprovalService{
		requestRepo: requestRepo,
		configRepo:  configRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Submit opens an approval request at level one for the given subject.
// A subject with a request still pending cannot be submitted again.
func (s *ApprovalService) Submit(
	ctx context.Context,
	subjectType approval.SubjectType,
	subjectID, submittedBy uuid.UUID,
) (*approval.ApprovalRequest, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval", "submit")
	defer span.End()

	telemetry.SetAttributes(span,
		"subject_type", string(subjectType),
		"subject_id", subjectID.String(),
	)

	existing, err := s.requestRepo.FindBySubject(ctx, subjectType, subjectID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to look up existing request: %w", err)
	}
	if existing != nil && existing.Status == approval.RequestStatusPending {
		err := shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("%s %s already has a pending approval request", subjectType, subjectID))
		telemetry.RecordError(span, err)
		return nil, err
	}

	request, err := approval.NewApprovalRequest(subjectType, subjectID, submittedBy)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, request); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save approval request: %w", err)
	}

	s.publishEvents(ctx, request)

	s.logger.Info("approval request opened",
		zap.String("request_id", request.ID.String()),
		zap.String("subject_type", string(subjectType)),
		zap.String("subject_id", subjectID.String()))

	return request, nil
}

// Decide applies one reviewer verdict to a pending request
func (s *ApprovalService) Decide(
	ctx context.Context,
	requestID, deciderID uuid.UUID,
	verdict approval.Verdict,
	comment string,
) (*approval.ApprovalRequest, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval", "decide")
	defer span.End()

	telemetry.SetAttributes(span,
		"request_id", requestID.String(),
		"verdict", string(verdict),
	)

	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load approval request: %w", err)
	}
	if request == nil {
		err := shared.NewDomainError("REQUEST_NOT_FOUND",
			fmt.Sprintf("approval request %s not found", requestID))
		telemetry.RecordError(span, err)
		return nil, err
	}

	cfg, err := s.chainFor(ctx, request.SubjectType)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := request.Decide(cfg, deciderID, verdict, comment); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.requestRepo.SaveWithLock(ctx, request); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save approval request: %w", err)
	}

	s.publishEvents(ctx, request)

	telemetry.AddEvent(span, "decision_recorded",
		"status", string(request.Status),
		"current_level", request.CurrentLevel,
	)

	return request, nil
}

// GetByID loads one approval request with its audit trails
func (s *ApprovalService) GetByID(ctx context.Context, requestID uuid.UUID) (*approval.ApprovalRequest, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load approval request: %w", err)
	}
	if request == nil {
		return nil, shared.NewDomainError("REQUEST_NOT_FOUND",
			fmt.Sprintf("approval request %s not found", requestID))
	}
	return request, nil
}

// GetBySubject loads the most recent request covering the given subject
func (s *ApprovalService) GetBySubject(
	ctx context.Context,
	subjectType approval.SubjectType,
	subjectID uuid.UUID,
) (*approval.ApprovalRequest, error) {
	return s.requestRepo.FindBySubject(ctx, subjectType, subjectID)
}

// ListPending returns pending requests, oldest level clock first
func (s *ApprovalService) ListPending(ctx context.Context, filter shared.Filter) ([]approval.ApprovalRequest, error) {
	return s.requestRepo.FindPending(ctx, filter)
}

// SweepOverdue escalates every pending request whose current level SLA
// has lapsed at the given instant and returns how many requests moved.
// A request another process resolved mid-sweep is skipped, not failed:
// the next sweep sees its final state and does nothing.
func (s *ApprovalService) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval", "sweep_overdue")
	defer span.End()

	pending, err := s.requestRepo.FindPendingStartedBefore(ctx, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, fmt.Errorf("failed to load pending requests: %w", err)
	}

	moved := 0
	for i := range pending {
		request := &pending[i]

		cfg, err := s.chainFor(ctx, request.SubjectType)
		if err != nil {
			telemetry.RecordError(span, err)
			return moved, err
		}

		changed, err := request.CheckSLA(cfg, now)
		if err != nil {
			telemetry.RecordError(span, err)
			return moved, err
		}
		if !changed {
			continue
		}

		if err := s.requestRepo.SaveWithLock(ctx, request); err != nil {
			if shared.IsCode(err, shared.CodeConcurrentModification) {
				s.logger.Warn("request changed during sweep, skipping",
					zap.String("request_id", request.ID.String()))
				continue
			}
			telemetry.RecordError(span, err)
			return moved, fmt.Errorf("failed to save escalated request: %w", err)
		}

		s.publishEvents(ctx, request)
		moved++

		s.logger.Info("approval request escalated",
			zap.String("request_id", request.ID.String()),
			zap.String("subject_type", string(request.SubjectType)),
			zap.String("status", string(request.Status)),
			zap.Int("current_level", request.CurrentLevel))
	}

	telemetry.SetAttributes(span, "requests_checked", len(pending), "requests_moved", moved)
	return moved, nil
}

// chainFor loads the configured approval chain for a subject type,
// falling back to the built-in chain when none is stored
func (s *ApprovalService) chainFor(ctx context.Context, subjectType approval.SubjectType) (*approval.LevelConfig, error) {
	cfg, err := s.configRepo.FindBySubjectType(ctx, subjectType)
	if err != nil {
		return nil, fmt.Errorf("failed to load level config: %w", err)
	}
	if cfg != nil {
		return cfg, nil
	}

	switch subjectType {
	case approval.SubjectClosingRecord:
		return approval.DefaultClosingLevelConfig(), nil
	case approval.SubjectDistributionBatch:
		return approval.DefaultDistributionLevelConfig(), nil
	default:
		return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
			fmt.Sprintf("no approval chain for subject type %q", subjectType))
	}
}

func (s *ApprovalService) publishEvents(ctx context.Context, request *approval.ApprovalRequest) {
	events := request.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish approval events", zap.Error(err))
	}
	request.ClearDomainEvents()
}
