package dto

import (
	"net/http"
	"strings"

	"github.com/awqaf/backend/internal/domain/shared"
)

// Transport-level error codes for failures that never reach the domain
const (
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeInvalidJSON = "INVALID_JSON"
	ErrCodeNotFound    = "NOT_FOUND"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall through to the suffix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	shared.CodeConcurrentModification: http.StatusConflict,
	shared.CodePeriodAlreadyClosed:    http.StatusConflict,

	shared.CodeInvalidConfiguration: http.StatusBadRequest,
	"INVALID_INPUT":                 http.StatusBadRequest,
	"INVALID_PERIOD_NAME":           http.StatusBadRequest,
	"INVALID_PERIOD_DATES":          http.StatusBadRequest,
	"INVALID_REFERENCE":             http.StatusBadRequest,
	ErrCodeBadRequest:               http.StatusBadRequest,
	ErrCodeInvalidJSON:              http.StatusBadRequest,

	shared.CodeDataIncomplete:          http.StatusUnprocessableEntity,
	shared.CodeNoEligibleBeneficiaries: http.StatusUnprocessableEntity,
	shared.CodeAllocationOverflow:      http.StatusUnprocessableEntity,
	"CLOSING_IMBALANCE":                http.StatusUnprocessableEntity,
	"UNBALANCED_ENTRY":                 http.StatusUnprocessableEntity,
	"RECONCILIATION_FAILED":            http.StatusUnprocessableEntity,
	"APPROVAL_REQUIRED":                http.StatusUnprocessableEntity,
	"INVALID_STATUS":                   http.StatusUnprocessableEntity,
	"INVALID_STATE":                    http.StatusUnprocessableEntity,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus resolves the HTTP status for an error code. Unmapped
// *_NOT_FOUND codes map to 404; anything else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if code == ErrCodeNotFound || strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
