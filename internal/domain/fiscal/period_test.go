package fiscal

import (
	"testing"
	"time"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPeriod(t *testing.T) *FiscalPeriod {
	t.Helper()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	p, err := NewFiscalPeriod("FY2025", start, end)
	require.NoError(t, err)
	return p
}

func createActivePeriod(t *testing.T) *FiscalPeriod {
	t.Helper()
	p := createTestPeriod(t)
	require.NoError(t, p.Activate())
	return p
}

func TestNewFiscalPeriod(t *testing.T) {
	t.Run("creates period with valid inputs", func(t *testing.T) {
		p := createTestPeriod(t)
		assert.Equal(t, "FY2025", p.Name)
		assert.False(t, p.IsActive)
		assert.False(t, p.IsClosed)
		assert.False(t, p.IsPublished)
		assert.Equal(t, 1, p.Version)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewFiscalPeriod("", time.Now(), time.Now().AddDate(1, 0, 0))
		require.Error(t, err)
	})

	t.Run("fails when end date is not after start date", func(t *testing.T) {
		start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		_, err := NewFiscalPeriod("FY2025", start, start)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be after start date")
	})
}

func TestFiscalPeriod_Transitions(t *testing.T) {
	t.Run("activate then close then publish", func(t *testing.T) {
		p := createActivePeriod(t)
		assert.True(t, p.IsActive)

		require.NoError(t, p.Close())
		assert.False(t, p.IsActive)
		assert.True(t, p.IsClosed)
		assert.NotNil(t, p.ClosedAt)
		assert.Len(t, p.GetDomainEvents(), 1)

		require.NoError(t, p.Publish())
		assert.True(t, p.IsPublished)
		assert.NotNil(t, p.PublishedAt)
	})

	t.Run("closing twice fails with PERIOD_ALREADY_CLOSED", func(t *testing.T) {
		p := createActivePeriod(t)
		require.NoError(t, p.Close())

		err := p.Close()
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodePeriodAlreadyClosed))
	})

	t.Run("cannot close an inactive period", func(t *testing.T) {
		p := createTestPeriod(t)
		require.Error(t, p.Close())
	})

	t.Run("cannot publish before closing", func(t *testing.T) {
		p := createActivePeriod(t)
		require.Error(t, p.Publish())
	})

	t.Run("cannot reactivate a closed period", func(t *testing.T) {
		p := createActivePeriod(t)
		require.NoError(t, p.Close())

		err := p.Activate()
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodePeriodAlreadyClosed))
	})
}

func TestFiscalPeriod_Contains(t *testing.T) {
	p := createTestPeriod(t)

	assert.True(t, p.Contains(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(p.StartDate))
	assert.True(t, p.Contains(p.EndDate))
	assert.False(t, p.Contains(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}
