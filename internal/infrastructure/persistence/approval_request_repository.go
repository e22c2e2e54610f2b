package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/awqaf/backend/internal/domain/approval"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormApprovalRequestRepository implements ApprovalRequestRepository using GORM
type GormApprovalRequestRepository struct {
	db *gorm.DB
}

// NewGormApprovalRequestRepository creates a new GormApprovalRequestRepository
func NewGormApprovalRequestRepository(db *gorm.DB) *GormApprovalRequestRepository {
	return &GormApprovalRequestRepository{db: db}
}

var _ approval.ApprovalRequestRepository = (*GormApprovalRequestRepository)(nil)

// FindByID finds an approval request by ID
func (r *GormApprovalRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*approval.ApprovalRequest, error) {
	var request approval.ApprovalRequest
	if err := r.db.WithContext(ctx).
		Preload("Decisions").
		Preload("Escalations").
		First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// FindBySubject finds the most recent request covering a subject
func (r *GormApprovalRequestRepository) FindBySubject(ctx context.Context, subjectType approval.SubjectType, subjectID uuid.UUID) (*approval.ApprovalRequest, error) {
	var request approval.ApprovalRequest
	if err := r.db.WithContext(ctx).
		Preload("Decisions").
		Preload("Escalations").
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Order("created_at DESC").
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// FindPending finds pending requests with pagination
func (r *GormApprovalRequestRepository) FindPending(ctx context.Context, filter shared.Filter) ([]approval.ApprovalRequest, error) {
	var requests []approval.ApprovalRequest
	query := r.db.WithContext(ctx).Where("status = ?", approval.RequestStatusPending)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	if err := query.Order("level_started_at ASC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindPendingStartedBefore returns pending requests whose current level
// started before the cutoff. Used by the SLA sweep to narrow the
// candidate set before the precise in-domain deadline check.
func (r *GormApprovalRequestRepository) FindPendingStartedBefore(ctx context.Context, cutoff time.Time) ([]approval.ApprovalRequest, error) {
	var requests []approval.ApprovalRequest
	if err := r.db.WithContext(ctx).
		Where("status = ? AND level_started_at < ?", approval.RequestStatusPending, cutoff).
		Order("level_started_at ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Save creates or updates a request together with its trails
func (r *GormApprovalRequestRepository) Save(ctx context.Context, request *approval.ApprovalRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormApprovalRequestRepository) SaveWithLock(ctx context.Context, request *approval.ApprovalRequest) error {
	result := r.db.WithContext(ctx).
		Model(request).
		Where("id = ? AND version = ?", request.ID, request.Version-1).
		Updates(request)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.CodeConcurrentModification,
			"approval request was modified concurrently, reload and retry")
	}

	// Updates only touches the root row; upsert the audit trails too.
	if len(request.Decisions) > 0 {
		if err := r.db.WithContext(ctx).Save(&request.Decisions).Error; err != nil {
			return err
		}
	}
	if len(request.Escalations) > 0 {
		if err := r.db.WithContext(ctx).Save(&request.Escalations).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count counts all approval requests
func (r *GormApprovalRequestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&approval.ApprovalRequest{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
