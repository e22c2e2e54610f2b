package approval

import (
	"context"
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ApprovalRequestRepository persists approval requests with their
// decision and escalation trails
type ApprovalRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ApprovalRequest, error)
	FindBySubject(ctx context.Context, subjectType SubjectType, subjectID uuid.UUID) (*ApprovalRequest, error)
	FindPending(ctx context.Context, filter shared.Filter) ([]ApprovalRequest, error)
	FindPendingStartedBefore(ctx context.Context, cutoff time.Time) ([]ApprovalRequest, error)
	Save(ctx context.Context, request *ApprovalRequest) error
	SaveWithLock(ctx context.Context, request *ApprovalRequest) error
	Count(ctx context.Context) (int64, error)
}

// LevelConfigRepository loads the approval chain per subject type
type LevelConfigRepository interface {
	FindBySubjectType(ctx context.Context, subjectType SubjectType) (*LevelConfig, error)
	Save(ctx context.Context, config *LevelConfig) error
}
