package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes for the closing, allocation and approval core.
// Configuration and eligibility errors carry operator-readable messages
// because they are corrigible before a retry.
const (
	CodeDataIncomplete          = "DATA_INCOMPLETE"
	CodeInvalidConfiguration    = "INVALID_CONFIGURATION"
	CodeNoEligibleBeneficiaries = "NO_ELIGIBLE_BENEFICIARIES"
	CodeAllocationOverflow      = "ALLOCATION_OVERFLOW"
	CodePeriodAlreadyClosed     = "PERIOD_ALREADY_CLOSED"
	CodeConcurrentModification  = "CONCURRENT_MODIFICATION"
	CodeReconciliationFailed    = "RECONCILIATION_FAILED"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrentModification, "Resource was modified by another process")
)

// IsCode reports whether err is a DomainError with the given code
func IsCode(err error, code string) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
