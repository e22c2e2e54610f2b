package fiscal

import (
	"context"
	"testing"
	"time"

	"github.com/awqaf/backend/internal/domain/fiscal"
	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPeriodService(t *testing.T) (*PeriodService, *MockFiscalPeriodRepository) {
	t.Helper()
	repo := new(MockFiscalPeriodRepository)
	return NewPeriodService(repo, noopEventBus{}, zap.NewNop()), repo
}

func TestPeriodService_CreatePeriod(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an inactive period", func(t *testing.T) {
		svc, repo := newTestPeriodService(t)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*fiscal.FiscalPeriod")).Return(nil)

		period, err := svc.CreatePeriod(ctx, "FY2026",
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))

		require.NoError(t, err)
		assert.Equal(t, "FY2026", period.Name)
		assert.False(t, period.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("rejects inverted dates without saving", func(t *testing.T) {
		svc, repo := newTestPeriodService(t)

		_, err := svc.CreatePeriod(ctx, "FY2026",
			time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_PERIOD_DATES"))
		repo.AssertNotCalled(t, "Save")
	})
}

func TestPeriodService_ActivatePeriod(t *testing.T) {
	ctx := context.Background()

	t.Run("activates when no other period is active", func(t *testing.T) {
		svc, repo := newTestPeriodService(t)
		period, err := fiscal.NewFiscalPeriod("FY2026",
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		repo.On("FindByID", mock.Anything, period.ID).Return(period, nil)
		repo.On("FindActive", mock.Anything).Return(nil, nil)
		repo.On("SaveWithLock", mock.Anything, period).Return(nil)

		activated, err := svc.ActivatePeriod(ctx, period.ID)

		require.NoError(t, err)
		assert.True(t, activated.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("refuses while another period is active", func(t *testing.T) {
		svc, repo := newTestPeriodService(t)
		current := createActivePeriod(t)
		next, err := fiscal.NewFiscalPeriod("FY2026",
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		repo.On("FindByID", mock.Anything, next.ID).Return(next, nil)
		repo.On("FindActive", mock.Anything).Return(current, nil)

		_, err = svc.ActivatePeriod(ctx, next.ID)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "INVALID_STATE"))
		assert.False(t, next.IsActive)
		repo.AssertNotCalled(t, "SaveWithLock")
	})

	t.Run("unknown period", func(t *testing.T) {
		svc, repo := newTestPeriodService(t)
		repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, nil)

		_, err := svc.ActivatePeriod(ctx, uuid.New())

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "PERIOD_NOT_FOUND"))
	})
}

func TestPeriodService_GetActivePeriod(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the active period", func(t *testing.T) {
		svc, repo := newTestPeriodService(t)
		period := createActivePeriod(t)
		repo.On("FindActive", mock.Anything).Return(period, nil)

		got, err := svc.GetActivePeriod(ctx)

		require.NoError(t, err)
		assert.Equal(t, period.ID, got.ID)
	})

	t.Run("no active period", func(t *testing.T) {
		svc, repo := newTestPeriodService(t)
		repo.On("FindActive", mock.Anything).Return(nil, nil)

		_, err := svc.GetActivePeriod(ctx)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, "PERIOD_NOT_FOUND"))
	})
}

func TestPeriodService_ListPeriods(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestPeriodService(t)

	closed := true
	filter := fiscal.FiscalPeriodFilter{IsClosed: &closed}
	repo.On("FindAll", mock.Anything, filter).Return([]fiscal.FiscalPeriod{*createActivePeriod(t)}, nil)
	repo.On("Count", mock.Anything, filter).Return(int64(7), nil)

	periods, total, err := svc.ListPeriods(ctx, filter)

	require.NoError(t, err)
	assert.Len(t, periods, 1)
	assert.Equal(t, int64(7), total)
}
