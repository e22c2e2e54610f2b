package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/awqaf/backend/internal/domain/approval"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeApprovalService implements ApprovalService with function fields
type fakeApprovalService struct {
	submitFn       func(ctx context.Context, subjectType approval.SubjectType, subjectID, submittedBy uuid.UUID) (*approval.ApprovalRequest, error)
	decideFn       func(ctx context.Context, requestID, deciderID uuid.UUID, verdict approval.Verdict, comment string) (*approval.ApprovalRequest, error)
	getByIDFn      func(ctx context.Context, requestID uuid.UUID) (*approval.ApprovalRequest, error)
	getBySubjectFn func(ctx context.Context, subjectType approval.SubjectType, subjectID uuid.UUID) (*approval.ApprovalRequest, error)
	listPendingFn  func(ctx context.Context, filter shared.Filter) ([]approval.ApprovalRequest, error)
}

func (f *fakeApprovalService) Submit(ctx context.Context, subjectType approval.SubjectType, subjectID, submittedBy uuid.UUID) (*approval.ApprovalRequest, error) {
	return f.submitFn(ctx, subjectType, subjectID, submittedBy)
}

func (f *fakeApprovalService) Decide(ctx context.Context, requestID, deciderID uuid.UUID, verdict approval.Verdict, comment string) (*approval.ApprovalRequest, error) {
	return f.decideFn(ctx, requestID, deciderID, verdict, comment)
}

func (f *fakeApprovalService) GetByID(ctx context.Context, requestID uuid.UUID) (*approval.ApprovalRequest, error) {
	return f.getByIDFn(ctx, requestID)
}

func (f *fakeApprovalService) GetBySubject(ctx context.Context, subjectType approval.SubjectType, subjectID uuid.UUID) (*approval.ApprovalRequest, error) {
	return f.getBySubjectFn(ctx, subjectType, subjectID)
}

func (f *fakeApprovalService) ListPending(ctx context.Context, filter shared.Filter) ([]approval.ApprovalRequest, error) {
	return f.listPendingFn(ctx, filter)
}

func setupApprovalRouter(t *testing.T, svc ApprovalService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewApprovalHandler(svc).RegisterRoutes(api)
	return engine
}

func TestApprovalHandler_Submit(t *testing.T) {
	t.Run("creates a request", func(t *testing.T) {
		subjectID := uuid.New()
		svc := &fakeApprovalService{
			submitFn: func(ctx context.Context, subjectType approval.SubjectType, sid, submittedBy uuid.UUID) (*approval.ApprovalRequest, error) {
				assert.Equal(t, approval.SubjectClosingRecord, subjectType)
				assert.Equal(t, subjectID, sid)
				return approval.NewApprovalRequest(subjectType, sid, submittedBy)
			},
		}
		engine := setupApprovalRouter(t, svc)

		body, _ := json.Marshal(gin.H{
			"subject_type": "closing_record",
			"subject_id":   subjectID,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", uuid.New().String())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				Status       string `json:"status"`
				CurrentLevel int    `json:"current_level"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "PENDING", resp.Data.Status)
		assert.Equal(t, 1, resp.Data.CurrentLevel)
	})

	t.Run("requires the acting user header", func(t *testing.T) {
		engine := setupApprovalRouter(t, &fakeApprovalService{})

		body, _ := json.Marshal(gin.H{
			"subject_type": "closing_record",
			"subject_id":   uuid.New(),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unknown subject types", func(t *testing.T) {
		engine := setupApprovalRouter(t, &fakeApprovalService{})

		body, _ := json.Marshal(gin.H{
			"subject_type": "invoice",
			"subject_id":   uuid.New(),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", uuid.New().String())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestApprovalHandler_Decide(t *testing.T) {
	t.Run("maps domain conflicts to 409", func(t *testing.T) {
		svc := &fakeApprovalService{
			decideFn: func(ctx context.Context, requestID, deciderID uuid.UUID, verdict approval.Verdict, comment string) (*approval.ApprovalRequest, error) {
				return nil, shared.ErrConcurrencyConflict
			},
		}
		engine := setupApprovalRouter(t, svc)

		body, _ := json.Marshal(gin.H{"verdict": "approve"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals/"+uuid.NewString()+"/decisions", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", uuid.New().String())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, shared.CodeConcurrentModification, resp.Error.Code)
	})

	t.Run("maps missing requests to 404", func(t *testing.T) {
		svc := &fakeApprovalService{
			decideFn: func(ctx context.Context, requestID, deciderID uuid.UUID, verdict approval.Verdict, comment string) (*approval.ApprovalRequest, error) {
				return nil, shared.NewDomainError("REQUEST_NOT_FOUND", "approval request not found")
			},
		}
		engine := setupApprovalRouter(t, svc)

		body, _ := json.Marshal(gin.H{"verdict": "reject", "comment": "no"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals/"+uuid.NewString()+"/decisions", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", uuid.New().String())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects verdicts outside the enum", func(t *testing.T) {
		engine := setupApprovalRouter(t, &fakeApprovalService{})

		body, _ := json.Marshal(gin.H{"verdict": "maybe"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals/"+uuid.NewString()+"/decisions", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", uuid.New().String())
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
