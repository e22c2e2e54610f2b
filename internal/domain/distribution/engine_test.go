package distribution

import (
	"fmt"
	"testing"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBeneficiary(t *testing.T, name string, category HeirCategory) Beneficiary {
	t.Helper()
	return Beneficiary{
		ID:            uuid.New(),
		Name:          name,
		Category:      category,
		Status:        BeneficiaryStatusActive,
		FamilySize:    3,
		MonthlyIncome: decimal.NewFromInt(4000),
	}
}

func createTestPopulation(t *testing.T, n int) []Beneficiary {
	t.Helper()
	beneficiaries := make([]Beneficiary, n)
	for i := range beneficiaries {
		beneficiaries[i] = createTestBeneficiary(t, fmt.Sprintf("Beneficiary %d", i+1), HeirCategorySon)
	}
	return beneficiaries
}

func sumShares(details []DistributionDetail) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range details {
		sum = sum.Add(d.ShareAmount)
	}
	return sum
}

func TestEngineAllocateEqual(t *testing.T) {
	engine := NewEngine()

	t.Run("splits 100.00 across three with one extra cent", func(t *testing.T) {
		beneficiaries := createTestPopulation(t, 3)
		details, err := engine.Allocate(decimal.RequireFromString("100.00"), beneficiaries, PatternEqual, AllocationOptions{})
		require.NoError(t, err)
		require.Len(t, details, 3)

		assert.True(t, sumShares(details).Equal(decimal.RequireFromString("100.00")))

		lowestID := beneficiaries[0].ID
		for _, b := range beneficiaries[1:] {
			if b.ID.String() < lowestID.String() {
				lowestID = b.ID
			}
		}
		for _, d := range details {
			if d.BeneficiaryID == lowestID {
				assert.True(t, d.ShareAmount.Equal(decimal.RequireFromString("33.34")))
			} else {
				assert.True(t, d.ShareAmount.Equal(decimal.RequireFromString("33.33")))
			}
		}
	})

	t.Run("shares sum to the input for many population sizes", func(t *testing.T) {
		amounts := []string{"0.01", "0.03", "1.00", "99.99", "1234.56", "700000.00"}
		for _, raw := range amounts {
			amount := decimal.RequireFromString(raw)
			for n := 1; n <= 13; n++ {
				beneficiaries := createTestPopulation(t, n)
				details, err := engine.Allocate(amount, beneficiaries, PatternEqual, AllocationOptions{})
				require.NoError(t, err)
				assert.True(t, sumShares(details).Equal(amount),
					"amount %s over %d beneficiaries", raw, n)
			}
		}
	})

	t.Run("is deterministic for identical input", func(t *testing.T) {
		beneficiaries := createTestPopulation(t, 7)
		amount := decimal.RequireFromString("1000.01")

		first, err := engine.Allocate(amount, beneficiaries, PatternEqual, AllocationOptions{})
		require.NoError(t, err)
		second, err := engine.Allocate(amount, beneficiaries, PatternEqual, AllocationOptions{})
		require.NoError(t, err)

		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].BeneficiaryID, second[i].BeneficiaryID)
			assert.True(t, first[i].ShareAmount.Equal(second[i].ShareAmount))
			assert.True(t, first[i].ShareBasis.Equal(second[i].ShareBasis))
		}
	})

	t.Run("inactive beneficiaries receive zero and no reconciliation cent", func(t *testing.T) {
		beneficiaries := createTestPopulation(t, 3)
		beneficiaries[1].Status = BeneficiaryStatusInactive

		details, err := engine.Allocate(decimal.RequireFromString("100.01"), beneficiaries, PatternEqual, AllocationOptions{})
		require.NoError(t, err)

		assert.True(t, details[1].ShareAmount.IsZero())
		assert.True(t, details[1].ShareBasis.IsZero())
		assert.True(t, sumShares(details).Equal(decimal.RequireFromString("100.01")))
	})

	t.Run("allocates zero amount as all-zero lines", func(t *testing.T) {
		beneficiaries := createTestPopulation(t, 4)
		details, err := engine.Allocate(decimal.Zero, beneficiaries, PatternEqual, AllocationOptions{})
		require.NoError(t, err)
		for _, d := range details {
			assert.True(t, d.ShareAmount.IsZero())
		}
	})
}

func TestEngineAllocateNeedBased(t *testing.T) {
	engine := NewEngine()

	t.Run("gives larger households with lower income a larger share", func(t *testing.T) {
		needy := createTestBeneficiary(t, "Needy", HeirCategoryOther)
		needy.FamilySize = 8
		needy.MonthlyIncome = decimal.NewFromInt(1500)
		needy.IsHeadOfFamily = true

		comfortable := createTestBeneficiary(t, "Comfortable", HeirCategoryOther)
		comfortable.FamilySize = 1
		comfortable.MonthlyIncome = decimal.NewFromInt(25000)

		details, err := engine.Allocate(decimal.RequireFromString("10000.00"),
			[]Beneficiary{needy, comfortable}, PatternNeedBased, AllocationOptions{})
		require.NoError(t, err)
		assert.True(t, details[0].ShareAmount.GreaterThan(details[1].ShareAmount))
		assert.True(t, sumShares(details).Equal(decimal.RequireFromString("10000.00")))
	})

	t.Run("rejects a scorer returning a negative score", func(t *testing.T) {
		beneficiaries := createTestPopulation(t, 2)
		_, err := engine.Allocate(decimal.RequireFromString("100.00"), beneficiaries,
			PatternNeedBased, AllocationOptions{Scorer: negativeScorer{}})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidConfiguration))
	})
}

type negativeScorer struct{}

func (negativeScorer) Score(Beneficiary) decimal.Decimal {
	return decimal.NewFromInt(-1)
}

func TestEngineAllocateShariah(t *testing.T) {
	engine := NewEngine()

	t.Run("applies the 2:1 son to daughter ratio", func(t *testing.T) {
		son := createTestBeneficiary(t, "Son", HeirCategorySon)
		daughter := createTestBeneficiary(t, "Daughter", HeirCategoryDaughter)

		details, err := engine.Allocate(decimal.RequireFromString("300.00"),
			[]Beneficiary{son, daughter}, PatternShariah,
			AllocationOptions{ShareTable: ReferenceShareTable()})
		require.NoError(t, err)
		assert.True(t, details[0].ShareAmount.Equal(decimal.RequireFromString("200.00")))
		assert.True(t, details[1].ShareAmount.Equal(decimal.RequireFromString("100.00")))
	})

	t.Run("fails without a share table", func(t *testing.T) {
		beneficiaries := createTestPopulation(t, 2)
		_, err := engine.Allocate(decimal.RequireFromString("100.00"), beneficiaries,
			PatternShariah, AllocationOptions{})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidConfiguration))
	})

	t.Run("fails when an heir type is missing from the table", func(t *testing.T) {
		other := createTestBeneficiary(t, "Cousin", HeirCategoryOther)
		_, err := engine.Allocate(decimal.RequireFromString("100.00"),
			[]Beneficiary{other}, PatternShariah,
			AllocationOptions{ShareTable: ReferenceShareTable()})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidConfiguration))
		assert.Contains(t, err.Error(), "other")
	})
}

func TestEngineAllocateCustom(t *testing.T) {
	engine := NewEngine()

	t.Run("applies explicit weights", func(t *testing.T) {
		beneficiaries := createTestPopulation(t, 2)
		weights := map[uuid.UUID]decimal.Decimal{
			beneficiaries[0].ID: decimal.NewFromInt(3),
			beneficiaries[1].ID: decimal.NewFromInt(1),
		}

		details, err := engine.Allocate(decimal.RequireFromString("400.00"),
			beneficiaries, PatternCustom, AllocationOptions{CustomWeights: weights})
		require.NoError(t, err)
		assert.True(t, details[0].ShareAmount.Equal(decimal.RequireFromString("300.00")))
		assert.True(t, details[1].ShareAmount.Equal(decimal.RequireFromString("100.00")))
	})

	t.Run("fails when a beneficiary has no weight", func(t *testing.T) {
		beneficiaries := createTestPopulation(t, 2)
		weights := map[uuid.UUID]decimal.Decimal{
			beneficiaries[0].ID: decimal.NewFromInt(1),
		}

		_, err := engine.Allocate(decimal.RequireFromString("100.00"),
			beneficiaries, PatternCustom, AllocationOptions{CustomWeights: weights})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidConfiguration))
	})

	t.Run("fails on a negative weight", func(t *testing.T) {
		beneficiaries := createTestPopulation(t, 1)
		weights := map[uuid.UUID]decimal.Decimal{
			beneficiaries[0].ID: decimal.NewFromInt(-1),
		}

		_, err := engine.Allocate(decimal.RequireFromString("100.00"),
			beneficiaries, PatternCustom, AllocationOptions{CustomWeights: weights})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidConfiguration))
	})
}

func TestEngineAllocateHybrid(t *testing.T) {
	engine := NewEngine()

	t.Run("blends equal and shariah halves", func(t *testing.T) {
		son := createTestBeneficiary(t, "Son", HeirCategorySon)
		daughter := createTestBeneficiary(t, "Daughter", HeirCategoryDaughter)

		opts := AllocationOptions{
			ShareTable: ReferenceShareTable(),
			Blend: []BlendComponent{
				{Pattern: PatternEqual, Ratio: decimal.NewFromInt(1)},
				{Pattern: PatternShariah, Ratio: decimal.NewFromInt(1)},
			},
		}

		// Half split 50/50 and half split 2:1 yields 7/12 and 5/12.
		details, err := engine.Allocate(decimal.RequireFromString("1200.00"),
			[]Beneficiary{son, daughter}, PatternHybrid, opts)
		require.NoError(t, err)
		assert.True(t, details[0].ShareAmount.Equal(decimal.RequireFromString("700.00")))
		assert.True(t, details[1].ShareAmount.Equal(decimal.RequireFromString("500.00")))
	})

	t.Run("requires at least two components", func(t *testing.T) {
		beneficiaries := createTestPopulation(t, 2)
		opts := AllocationOptions{
			Blend: []BlendComponent{{Pattern: PatternEqual, Ratio: decimal.NewFromInt(1)}},
		}
		_, err := engine.Allocate(decimal.RequireFromString("100.00"), beneficiaries, PatternHybrid, opts)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidConfiguration))
	})

	t.Run("rejects nesting hybrid inside hybrid", func(t *testing.T) {
		beneficiaries := createTestPopulation(t, 2)
		opts := AllocationOptions{
			Blend: []BlendComponent{
				{Pattern: PatternHybrid, Ratio: decimal.NewFromInt(1)},
				{Pattern: PatternEqual, Ratio: decimal.NewFromInt(1)},
			},
		}
		_, err := engine.Allocate(decimal.RequireFromString("100.00"), beneficiaries, PatternHybrid, opts)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidConfiguration))
	})
}

func TestEngineAllocateGuards(t *testing.T) {
	engine := NewEngine()

	t.Run("rejects a negative amount", func(t *testing.T) {
		_, err := engine.Allocate(decimal.RequireFromString("-0.01"),
			createTestPopulation(t, 1), PatternEqual, AllocationOptions{})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeAllocationOverflow))
	})

	t.Run("rejects a sub-cent amount", func(t *testing.T) {
		_, err := engine.Allocate(decimal.RequireFromString("100.005"),
			createTestPopulation(t, 1), PatternEqual, AllocationOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "whole cents")
	})

	t.Run("rejects an empty population", func(t *testing.T) {
		_, err := engine.Allocate(decimal.RequireFromString("100.00"),
			nil, PatternEqual, AllocationOptions{})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeNoEligibleBeneficiaries))
	})

	t.Run("rejects a population with no eligible member", func(t *testing.T) {
		beneficiaries := createTestPopulation(t, 2)
		beneficiaries[0].Status = BeneficiaryStatusInactive
		beneficiaries[1].Status = BeneficiaryStatusInactive

		_, err := engine.Allocate(decimal.RequireFromString("100.00"),
			beneficiaries, PatternEqual, AllocationOptions{})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeNoEligibleBeneficiaries))
	})
}
