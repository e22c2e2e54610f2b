package approval

import (
	"fmt"
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubjectType identifies what kind of artifact an approval request
// covers
type SubjectType string

const (
	SubjectClosingRecord     SubjectType = "closing_record"
	SubjectDistributionBatch SubjectType = "distribution_batch"
)

// IsValid reports whether the subject type is a recognized one
func (s SubjectType) IsValid() bool {
	return s == SubjectClosingRecord || s == SubjectDistributionBatch
}

// escalationReason is the audit-trail reason recorded on every SLA
// escalation. The lapsed level travels on the escalation row and event.
const escalationReason = "SLA exceeded"

// RequestStatus is the lifecycle state of an approval request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusEscalated RequestStatus = "ESCALATED"
)

// IsTerminal reports whether the request can no longer change
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected || s == RequestStatusEscalated
}

// Verdict is a single reviewer's decision at one level
type Verdict string

const (
	VerdictApprove Verdict = "approve"
	VerdictReject  Verdict = "reject"
)

// Decision records one reviewer action in the audit trail
type Decision struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ApprovalRequestID uuid.UUID `json:"approval_request_id" gorm:"type:uuid;not null;index"`
	Level             int       `json:"level" gorm:"not null"`
	Role              string    `json:"role" gorm:"type:varchar(50);not null"`
	DeciderID         uuid.UUID `json:"decider_id" gorm:"type:uuid;not null"`
	Verdict           Verdict   `json:"verdict" gorm:"type:varchar(10);not null"`
	Comment           string    `json:"comment" gorm:"type:text"`
	DecidedAt         time.Time `json:"decided_at" gorm:"not null"`
}

// TableName specifies the database table name
func (Decision) TableName() string {
	return "approval_decisions"
}

// Escalation records one SLA breach in the audit trail
type Escalation struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ApprovalRequestID uuid.UUID `json:"approval_request_id" gorm:"type:uuid;not null;index"`
	FromLevel         int       `json:"from_level" gorm:"not null"`
	ToLevel           int       `json:"to_level" gorm:"not null"`
	Reason            string    `json:"reason" gorm:"type:text"`
	EscalatedAt       time.Time `json:"escalated_at" gorm:"not null"`
}

// TableName specifies the database table name
func (Escalation) TableName() string {
	return "approval_escalations"
}

// ApprovalRequest walks an artifact through an ordered approval chain.
// Level timing restarts whenever the request changes level, whether by
// approval or escalation. Once the final level's SLA lapses the
// request locks in ESCALATED and only a fresh request can revive the
// subject; an expired chain never silently approves.
type ApprovalRequest struct {
	shared.BaseAggregateRoot
	SubjectType    SubjectType   `json:"subject_type" gorm:"type:varchar(30);not null;index"`
	SubjectID      uuid.UUID     `json:"subject_id" gorm:"type:uuid;not null;index"`
	Status         RequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	CurrentLevel   int           `json:"current_level" gorm:"not null;default:1"`
	LevelStartedAt time.Time     `json:"level_started_at" gorm:"not null"`
	SubmittedBy    uuid.UUID     `json:"submitted_by" gorm:"type:uuid;not null"`
	ResolvedAt     *time.Time    `json:"resolved_at"`
	Decisions      []Decision    `json:"decisions" gorm:"foreignKey:ApprovalRequestID"`
	Escalations    []Escalation  `json:"escalations" gorm:"foreignKey:ApprovalRequestID"`
}

// TableName specifies the database table name
func (ApprovalRequest) TableName() string {
	return "approval_requests"
}

// NewApprovalRequest opens a request at level one of the chain
func NewApprovalRequest(subjectType SubjectType, subjectID, submittedBy uuid.UUID) (*ApprovalRequest, error) {
	if !subjectType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("unknown approval subject type %q", subjectType))
	}
	if subjectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "approval subject id is required")
	}
	if submittedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "submitter id is required")
	}

	req := &ApprovalRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SubjectType:       subjectType,
		SubjectID:         subjectID,
		Status:            RequestStatusPending,
		CurrentLevel:      1,
		LevelStartedAt:    time.Now(),
		SubmittedBy:       submittedBy,
	}
	req.AddDomainEvent(NewRequestSubmittedEvent(req))
	return req, nil
}

// Decide applies one reviewer verdict at the request's current level.
// An approval at the final level resolves the request; an approval at
// any earlier level advances it and restarts the level clock. A
// rejection resolves the request immediately at any level.
func (r *ApprovalRequest) Decide(cfg *LevelConfig, deciderID uuid.UUID, verdict Verdict, comment string) error {
	if r.Status != RequestStatusPending {
		return shared.NewDomainError("INVALID_STATUS",
			fmt.Sprintf("request is %s and accepts no further decisions", r.Status))
	}
	if cfg.SubjectType != r.SubjectType {
		return shared.NewDomainError(shared.CodeInvalidConfiguration,
			fmt.Sprintf("level config is for %s, request subject is %s", cfg.SubjectType, r.SubjectType))
	}

	level, err := cfg.LevelAt(r.CurrentLevel)
	if err != nil {
		return err
	}

	now := time.Now()
	r.Decisions = append(r.Decisions, Decision{
		ID:                uuid.New(),
		ApprovalRequestID: r.ID,
		Level:             r.CurrentLevel,
		Role:              level.Role,
		DeciderID:         deciderID,
		Verdict:           verdict,
		Comment:           comment,
		DecidedAt:         now,
	})

	switch verdict {
	case VerdictApprove:
		if r.CurrentLevel >= cfg.MaxLevel() {
			r.Status = RequestStatusApproved
			r.ResolvedAt = &now
			r.AddDomainEvent(NewRequestApprovedEvent(r, deciderID))
		} else {
			r.CurrentLevel++
			r.LevelStartedAt = now
			r.AddDomainEvent(NewRequestAdvancedEvent(r, deciderID))
		}
	case VerdictReject:
		r.Status = RequestStatusRejected
		r.ResolvedAt = &now
		r.AddDomainEvent(NewRequestRejectedEvent(r, deciderID, comment))
	default:
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("unknown verdict %q", verdict))
	}

	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// CheckSLA escalates the request if its current level's SLA has lapsed
// at the given instant. It returns true when a transition happened.
// Calling it on a terminal or in-budget request is a no-op, so sweeps
// are idempotent.
func (r *ApprovalRequest) CheckSLA(cfg *LevelConfig, now time.Time) (bool, error) {
	if r.Status != RequestStatusPending {
		return false, nil
	}
	if cfg.SubjectType != r.SubjectType {
		return false, shared.NewDomainError(shared.CodeInvalidConfiguration,
			fmt.Sprintf("level config is for %s, request subject is %s", cfg.SubjectType, r.SubjectType))
	}

	level, err := cfg.LevelAt(r.CurrentLevel)
	if err != nil {
		return false, err
	}
	deadline := r.LevelStartedAt.Add(level.SLA())
	if !now.After(deadline) {
		return false, nil
	}

	from := r.CurrentLevel
	if r.CurrentLevel >= cfg.MaxLevel() {
		// Final level lapsed: fail closed, never auto-approve.
		r.Status = RequestStatusEscalated
		r.ResolvedAt = &now
		r.Escalations = append(r.Escalations, Escalation{
			ID:                uuid.New(),
			ApprovalRequestID: r.ID,
			FromLevel:         from,
			ToLevel:           from,
			Reason:            escalationReason,
			EscalatedAt:       now,
		})
		r.AddDomainEvent(NewRequestStalledEvent(r, from))
	} else {
		r.CurrentLevel++
		r.LevelStartedAt = now
		r.Escalations = append(r.Escalations, Escalation{
			ID:                uuid.New(),
			ApprovalRequestID: r.ID,
			FromLevel:         from,
			ToLevel:           r.CurrentLevel,
			Reason:            escalationReason,
			EscalatedAt:       now,
		})
		r.AddDomainEvent(NewRequestEscalatedEvent(r, from))
	}

	r.UpdatedAt = now
	r.IncrementVersion()
	return true, nil
}

// IsOverdue reports whether the current level's SLA has lapsed without
// mutating the request.
func (r *ApprovalRequest) IsOverdue(cfg *LevelConfig, now time.Time) bool {
	if r.Status != RequestStatusPending {
		return false
	}
	level, err := cfg.LevelAt(r.CurrentLevel)
	if err != nil {
		return false
	}
	return now.After(r.LevelStartedAt.Add(level.SLA()))
}
