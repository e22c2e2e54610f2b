package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid inputs", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), SAR)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
		assert.Equal(t, SAR, m.Currency())
	})

	t.Run("fails with empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "")
		require.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewSARFromFloat(100.00)
	b := NewSARFromFloat(33.33)

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "133.33", sum.StringFixed(2))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "66.67", diff.StringFixed(2))
	})

	t.Run("add rejects mismatched currencies", func(t *testing.T) {
		usd, err := NewMoney(decimal.NewFromInt(1), USD)
		require.NoError(t, err)
		_, err = a.Add(usd)
		require.Error(t, err)
	})

	t.Run("multiply and round half-up", func(t *testing.T) {
		m := NewSARFromFloat(10.00).Multiply(decimal.NewFromFloat(0.335))
		assert.Equal(t, "3.35", m.Round(2).StringFixed(2))
	})

	t.Run("negate", func(t *testing.T) {
		assert.True(t, a.Negate().IsNegative())
	})
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewSARFromFloat(10)
	b := NewSARFromFloat(20)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	assert.True(t, a.Equals(NewSARFromFloat(10)))
	assert.False(t, a.Equals(b))
	assert.True(t, ZeroSAR().IsZero())
}

func TestMoney_JSON(t *testing.T) {
	m := NewSARFromFloat(1234.56)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"1234.56","currency":"SAR"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	t.Run("scans string value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("99.95"))
		assert.Equal(t, "99.95", m.StringFixed(2))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans nil as zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		require.Error(t, m.Scan(42))
	})
}
