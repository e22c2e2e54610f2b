package fiscal

import (
	"testing"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestDeductionConfig_Validate(t *testing.T) {
	t.Run("accepts fractions summing below 100%", func(t *testing.T) {
		cfg := DeductionConfig{
			NazerPercentage:   pct(0.10),
			ReservePercentage: pct(0.05),
		}
		require.NoError(t, cfg.Validate())
	})

	t.Run("accepts fractions summing to exactly 100%", func(t *testing.T) {
		cfg := DeductionConfig{
			NazerPercentage:      pct(0.50),
			WaqfCorpusPercentage: pct(0.50),
		}
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects fractions exceeding 100% with the offending sum", func(t *testing.T) {
		cfg := DeductionConfig{
			NazerPercentage:       pct(0.50),
			ReservePercentage:     pct(0.30),
			DevelopmentPercentage: pct(0.28),
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidConfiguration))
		assert.Contains(t, err.Error(), "1.08")
		assert.Contains(t, err.Error(), "exceeding 100%")
	})

	t.Run("rejects a negative fraction", func(t *testing.T) {
		cfg := DeductionConfig{NazerPercentage: pct(-0.10)}
		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidConfiguration))
	})

	t.Run("rejects a fraction above one", func(t *testing.T) {
		cfg := DeductionConfig{WaqifPercentage: pct(1.2)}
		require.Error(t, cfg.Validate())
	})
}

func TestComputeDeductions(t *testing.T) {
	t.Run("standard configuration on one million", func(t *testing.T) {
		cfg := DeductionConfig{
			NazerPercentage:       pct(0.10),
			ReservePercentage:     pct(0.05),
			DevelopmentPercentage: pct(0.05),
			MaintenancePercentage: pct(0.05),
			WaqfCorpusPercentage:  pct(0.05),
		}

		b, err := ComputeDeductions(decimal.NewFromInt(1_000_000), cfg)
		require.NoError(t, err)

		assert.Equal(t, "100000.00", b.NazerShare.StringFixed(2))
		assert.Equal(t, "50000.00", b.ReserveAmount.StringFixed(2))
		assert.Equal(t, "50000.00", b.DevelopmentAmount.StringFixed(2))
		assert.Equal(t, "50000.00", b.MaintenanceAmount.StringFixed(2))
		assert.Equal(t, "50000.00", b.WaqfCorpusRetained.StringFixed(2))
		assert.Equal(t, "0.00", b.WaqifShare.StringFixed(2))
		assert.Equal(t, "700000.00", b.Distributable.StringFixed(2))
	})

	t.Run("breakdown always reconstructs net income exactly", func(t *testing.T) {
		cfg := DeductionConfig{
			NazerPercentage:       pct(0.0733),
			WaqifPercentage:       pct(0.0151),
			ReservePercentage:     pct(0.0377),
			DevelopmentPercentage: pct(0.021),
			MaintenancePercentage: pct(0.0149),
			WaqfCorpusPercentage:  pct(0.033),
		}

		for _, income := range []string{"1000000", "123456.78", "999.99", "0.07", "33333.33"} {
			netIncome, err := decimal.NewFromString(income)
			require.NoError(t, err)

			b, err := ComputeDeductions(netIncome, cfg)
			require.NoError(t, err)

			total := b.Distributable.Add(b.TotalDeductions())
			assert.True(t, total.Equal(netIncome),
				"net income %s: distributable %s + deductions %s = %s",
				income, b.Distributable, b.TotalDeductions(), total)
		}
	})

	t.Run("sub-cent residue is retained by the corpus", func(t *testing.T) {
		cfg := DeductionConfig{NazerPercentage: pct(0.10)}

		// 100.005 leaves a raw remainder of 90.0045; the beneficiary
		// pool must only ever see whole cents.
		netIncome := decimal.NewFromFloat(100.005)
		b, err := ComputeDeductions(netIncome, cfg)
		require.NoError(t, err)

		assert.Equal(t, "90.00", b.Distributable.StringFixed(2))
		assert.True(t, b.Distributable.Add(b.TotalDeductions()).Equal(netIncome))
		assert.True(t, b.WaqfCorpusRetained.IsPositive())
	})

	t.Run("misconfiguration fails before any computation", func(t *testing.T) {
		cfg := DeductionConfig{NazerPercentage: pct(0.60), ReservePercentage: pct(0.60)}
		_, err := ComputeDeductions(decimal.NewFromInt(1000), cfg)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidConfiguration))
	})

	t.Run("zero config leaves everything distributable", func(t *testing.T) {
		b, err := ComputeDeductions(decimal.NewFromFloat(5000.50), DeductionConfig{})
		require.NoError(t, err)
		assert.Equal(t, "5000.50", b.Distributable.StringFixed(2))
		assert.True(t, b.TotalDeductions().IsZero())
	})
}
