package dto

import (
	"net/http"
	"testing"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{shared.CodeConcurrentModification, http.StatusConflict},
		{shared.CodePeriodAlreadyClosed, http.StatusConflict},
		{shared.CodeInvalidConfiguration, http.StatusBadRequest},
		{shared.CodeDataIncomplete, http.StatusUnprocessableEntity},
		{shared.CodeNoEligibleBeneficiaries, http.StatusUnprocessableEntity},
		{shared.CodeAllocationOverflow, http.StatusUnprocessableEntity},
		{"CLOSING_IMBALANCE", http.StatusUnprocessableEntity},
		{"APPROVAL_REQUIRED", http.StatusUnprocessableEntity},
		{"PERIOD_NOT_FOUND", http.StatusNotFound},
		{"BATCH_NOT_FOUND", http.StatusNotFound},
		{"REQUEST_NOT_FOUND", http.StatusNotFound},
		{"SOMETHING_UNKNOWN", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 45, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
