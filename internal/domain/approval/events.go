package approval

import (
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Approval event types
const (
	EventTypeRequestSubmitted = "approval.request.submitted"
	EventTypeRequestAdvanced  = "approval.request.advanced"
	EventTypeRequestApproved  = "approval.request.approved"
	EventTypeRequestRejected  = "approval.request.rejected"
	EventTypeRequestEscalated = "approval.request.escalated"
	EventTypeRequestStalled   = "approval.request.stalled"
)

// RequestSubmittedEvent is raised when a request opens at level one
type RequestSubmittedEvent struct {
	shared.BaseDomainEvent
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   uuid.UUID   `json:"subject_id"`
}

// NewRequestSubmittedEvent creates a RequestSubmittedEvent
func NewRequestSubmittedEvent(r *ApprovalRequest) *RequestSubmittedEvent {
	return &RequestSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestSubmitted, "ApprovalRequest", r.ID),
		SubjectType:     r.SubjectType,
		SubjectID:       r.SubjectID,
	}
}

// RequestAdvancedEvent is raised when an approval moves the request to
// the next level
type RequestAdvancedEvent struct {
	shared.BaseDomainEvent
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   uuid.UUID   `json:"subject_id"`
	NewLevel    int         `json:"new_level"`
	DecidedBy   uuid.UUID   `json:"decided_by"`
}

// NewRequestAdvancedEvent creates a RequestAdvancedEvent
func NewRequestAdvancedEvent(r *ApprovalRequest, deciderID uuid.UUID) *RequestAdvancedEvent {
	return &RequestAdvancedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestAdvanced, "ApprovalRequest", r.ID),
		SubjectType:     r.SubjectType,
		SubjectID:       r.SubjectID,
		NewLevel:        r.CurrentLevel,
		DecidedBy:       deciderID,
	}
}

// RequestApprovedEvent is raised on final approval
type RequestApprovedEvent struct {
	shared.BaseDomainEvent
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   uuid.UUID   `json:"subject_id"`
	DecidedBy   uuid.UUID   `json:"decided_by"`
}

// NewRequestApprovedEvent creates a RequestApprovedEvent
func NewRequestApprovedEvent(r *ApprovalRequest, deciderID uuid.UUID) *RequestApprovedEvent {
	return &RequestApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestApproved, "ApprovalRequest", r.ID),
		SubjectType:     r.SubjectType,
		SubjectID:       r.SubjectID,
		DecidedBy:       deciderID,
	}
}

// RequestRejectedEvent is raised when any level rejects the request
type RequestRejectedEvent struct {
	shared.BaseDomainEvent
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   uuid.UUID   `json:"subject_id"`
	DecidedBy   uuid.UUID   `json:"decided_by"`
	Comment     string      `json:"comment"`
}

// NewRequestRejectedEvent creates a RequestRejectedEvent
func NewRequestRejectedEvent(r *ApprovalRequest, deciderID uuid.UUID, comment string) *RequestRejectedEvent {
	return &RequestRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestRejected, "ApprovalRequest", r.ID),
		SubjectType:     r.SubjectType,
		SubjectID:       r.SubjectID,
		DecidedBy:       deciderID,
		Comment:         comment,
	}
}

// RequestEscalatedEvent is raised when an SLA breach moves the request
// up one level
type RequestEscalatedEvent struct {
	shared.BaseDomainEvent
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   uuid.UUID   `json:"subject_id"`
	FromLevel   int         `json:"from_level"`
	ToLevel     int         `json:"to_level"`
}

// NewRequestEscalatedEvent creates a RequestEscalatedEvent
func NewRequestEscalatedEvent(r *ApprovalRequest, fromLevel int) *RequestEscalatedEvent {
	return &RequestEscalatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestEscalated, "ApprovalRequest", r.ID),
		SubjectType:     r.SubjectType,
		SubjectID:       r.SubjectID,
		FromLevel:       fromLevel,
		ToLevel:         r.CurrentLevel,
	}
}

// RequestStalledEvent is raised when the final level's SLA lapses and
// the request locks pending manual intervention
type RequestStalledEvent struct {
	shared.BaseDomainEvent
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   uuid.UUID   `json:"subject_id"`
	Level       int         `json:"level"`
}

// NewRequestStalledEvent creates a RequestStalledEvent
func NewRequestStalledEvent(r *ApprovalRequest, level int) *RequestStalledEvent {
	return &RequestStalledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestStalled, "ApprovalRequest", r.ID),
		SubjectType:     r.SubjectType,
		SubjectID:       r.SubjectID,
		Level:           level,
	}
}
