package distribution

import "github.com/shopspring/decimal"

// NeedScorer turns a beneficiary's household situation into a
// non-negative allocation weight. Implementations must be pure.
type NeedScorer interface {
	Score(b Beneficiary) decimal.Decimal
}

// NeedScoringConfig tunes the default scorer. All coefficients are
// expected to be non-negative.
type NeedScoringConfig struct {
	FamilySizeWeight  decimal.Decimal `json:"family_size_weight"`
	IncomeScale       decimal.Decimal `json:"income_scale"`
	HeadOfFamilyBonus decimal.Decimal `json:"head_of_family_bonus"`
	BaseScore         decimal.Decimal `json:"base_score"`
}

// DefaultNeedScoringConfig returns the coefficients used when no
// explicit scoring configuration is provided.
func DefaultNeedScoringConfig() NeedScoringConfig {
	return NeedScoringConfig{
		FamilySizeWeight:  decimal.NewFromInt(1),
		IncomeScale:       decimal.NewFromInt(1000),
		HeadOfFamilyBonus: decimal.NewFromInt(2),
		BaseScore:         decimal.NewFromInt(1),
	}
}

// DefaultNeedScorer weighs need as a sum of household size, inverse
// monthly income and a head-of-family bonus:
//
//	score = base + familySize*familyWeight + scale/(scale+income) + bonus
//
// The inverse-income term approaches one as income falls to zero and
// fades toward zero as income grows, so poorer households always score
// strictly higher, all else equal.
type DefaultNeedScorer struct {
	cfg NeedScoringConfig
}

// NewDefaultNeedScorer creates a scorer with the given coefficients
func NewDefaultNeedScorer(cfg NeedScoringConfig) *DefaultNeedScorer {
	return &DefaultNeedScorer{cfg: cfg}
}

var _ NeedScorer = (*DefaultNeedScorer)(nil)

// Score computes the need weight for one beneficiary
func (s *DefaultNeedScorer) Score(b Beneficiary) decimal.Decimal {
	score := s.cfg.BaseScore

	familySize := decimal.NewFromInt(int64(b.FamilySize))
	score = score.Add(familySize.Mul(s.cfg.FamilySizeWeight))

	income := b.MonthlyIncome
	if income.IsNegative() {
		income = decimal.Zero
	}
	if s.cfg.IncomeScale.IsPositive() {
		score = score.Add(s.cfg.IncomeScale.Div(s.cfg.IncomeScale.Add(income)))
	}

	if b.IsHeadOfFamily {
		score = score.Add(s.cfg.HeadOfFamilyBonus)
	}

	return score
}
