package distribution

import (
	"fmt"
	"sort"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/awqaf/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationPattern selects the weight function of an allocation run
type AllocationPattern string

const (
	PatternEqual     AllocationPattern = "equal"
	PatternNeedBased AllocationPattern = "need_based"
	PatternShariah   AllocationPattern = "shariah"
	PatternCustom    AllocationPattern = "custom"
	PatternHybrid    AllocationPattern = "hybrid"
)

// IsValid reports whether the pattern is a recognized one
func (p AllocationPattern) IsValid() bool {
	switch p {
	case PatternEqual, PatternNeedBased, PatternShariah, PatternCustom, PatternHybrid:
		return true
	}
	return false
}

// BlendComponent is one constituent of a hybrid allocation
type BlendComponent struct {
	Pattern AllocationPattern `json:"pattern"`
	Ratio   decimal.Decimal   `json:"ratio"`
}

// AllocationOptions carries the pattern-specific collaborators of a run.
// The shariah table and need scorer are injected data, never derived
// here; this keeps the engine generic arithmetic.
type AllocationOptions struct {
	CustomWeights map[uuid.UUID]decimal.Decimal
	ShareTable    ShareTable
	Scorer        NeedScorer
	Blend         []BlendComponent
}

var cent = decimal.New(1, -2)

// Engine distributes a whole-cent amount across a beneficiary
// population. It is pure and stateless: identical inputs produce
// identical output, and no locking is required.
type Engine struct{}

// NewEngine creates a new allocation Engine
func NewEngine() *Engine {
	return &Engine{}
}

// Allocate computes one distribution line per beneficiary such that the
// line amounts sum to amount exactly. Per-beneficiary rounding residue
// is reconciled with the largest-remainder method: leftover cents go to
// the beneficiaries with the largest fractional remainder, ties broken
// by ascending beneficiary id. Zero-weight beneficiaries receive zero
// and never participate in the reconciliation pool.
func (e *Engine) Allocate(
	amount decimal.Decimal,
	beneficiaries []Beneficiary,
	pattern AllocationPattern,
	opts AllocationOptions,
) ([]DistributionDetail, error) {
	payout := valueobject.NewSAR(amount)
	if payout.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeAllocationOverflow,
			fmt.Sprintf("distributable amount must not be negative, got %s", payout.String()))
	}
	if !amount.Equal(amount.Truncate(2)) {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("distributable amount must be whole cents, got %s", amount.String()))
	}
	if len(beneficiaries) == 0 {
		return nil, shared.NewDomainError(shared.CodeNoEligibleBeneficiaries,
			"allocation requires at least one beneficiary")
	}
	if !pattern.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("unknown allocation pattern %q", pattern))
	}

	weights, err := e.weights(pattern, beneficiaries, opts)
	if err != nil {
		return nil, err
	}

	sumWeights := decimal.Zero
	for _, w := range weights {
		sumWeights = sumWeights.Add(w)
	}
	if !sumWeights.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeNoEligibleBeneficiaries,
			fmt.Sprintf("no beneficiary carries a positive weight under pattern %q", pattern))
	}

	type allocation struct {
		index     int
		remainder decimal.Decimal
	}

	details := make([]DistributionDetail, len(beneficiaries))
	pool := make([]allocation, 0, len(beneficiaries))
	allocated := decimal.Zero

	for i, b := range beneficiaries {
		w := weights[i]
		detail := DistributionDetail{
			BeneficiaryID: b.ID,
			ShareAmount:   decimal.Zero,
			ShareBasis:    decimal.Zero,
			PaymentStatus: PaymentStatusPending,
		}
		if w.IsPositive() {
			raw := amount.Mul(w).Div(sumWeights)
			share := raw.Truncate(2)
			detail.ShareAmount = share
			detail.ShareBasis = w.Div(sumWeights).Round(6)
			allocated = allocated.Add(share)
			pool = append(pool, allocation{index: i, remainder: raw.Sub(share)})
		}
		details[i] = detail
	}

	// Largest-remainder reconciliation: remainder descending, then
	// beneficiary id ascending for a reproducible ordering.
	sort.SliceStable(pool, func(a, b int) bool {
		ra, rb := pool[a].remainder, pool[b].remainder
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		ida := beneficiaries[pool[a].index].ID.String()
		idb := beneficiaries[pool[b].index].ID.String()
		return ida < idb
	})

	step := valueobject.NewSAR(cent)
	residue := valueobject.NewSAR(amount.Sub(allocated))
	for i := 0; residue.IsPositive() && i < len(pool); i++ {
		details[pool[i].index].ShareAmount = details[pool[i].index].ShareAmount.Add(step.Amount())
		next, err := residue.Subtract(step)
		if err != nil {
			return nil, err
		}
		residue = next
	}
	if !residue.IsZero() {
		// Unreachable for whole-cent inputs; guards the sum invariant.
		return nil, shared.NewDomainError(shared.CodeReconciliationFailed,
			fmt.Sprintf("allocation left an unreconciled residue of %s", residue.String()))
	}

	return details, nil
}

// weights computes the raw weight vector for the pattern. Ineligible
// beneficiaries always weigh zero.
func (e *Engine) weights(pattern AllocationPattern, beneficiaries []Beneficiary, opts AllocationOptions) ([]decimal.Decimal, error) {
	switch pattern {
	case PatternEqual:
		return e.equalWeights(beneficiaries), nil
	case PatternNeedBased:
		return e.needWeights(beneficiaries, opts.Scorer)
	case PatternShariah:
		return e.shariahWeights(beneficiaries, opts.ShareTable)
	case PatternCustom:
		return e.customWeights(beneficiaries, opts.CustomWeights)
	case PatternHybrid:
		return e.hybridWeights(beneficiaries, opts)
	}
	return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown allocation pattern %q", pattern))
}

func (e *Engine) equalWeights(beneficiaries []Beneficiary) []decimal.Decimal {
	weights := make([]decimal.Decimal, len(beneficiaries))
	for i, b := range beneficiaries {
		if b.IsEligible() {
			weights[i] = decimal.NewFromInt(1)
		} else {
			weights[i] = decimal.Zero
		}
	}
	return weights
}

func (e *Engine) needWeights(beneficiaries []Beneficiary, scorer NeedScorer) ([]decimal.Decimal, error) {
	if scorer == nil {
		scorer = NewDefaultNeedScorer(DefaultNeedScoringConfig())
	}
	weights := make([]decimal.Decimal, len(beneficiaries))
	for i, b := range beneficiaries {
		if !b.IsEligible() {
			weights[i] = decimal.Zero
			continue
		}
		score := scorer.Score(b)
		if score.IsNegative() {
			return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
				fmt.Sprintf("need score for beneficiary %s is negative (%s)", b.ID, score.String()))
		}
		weights[i] = score
	}
	return weights, nil
}

func (e *Engine) shariahWeights(beneficiaries []Beneficiary, table ShareTable) ([]decimal.Decimal, error) {
	if len(table) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
			"shariah allocation requires a share fraction table")
	}
	weights := make([]decimal.Decimal, len(beneficiaries))
	for i, b := range beneficiaries {
		if !b.IsEligible() {
			weights[i] = decimal.Zero
			continue
		}
		fraction, ok := table[b.Category]
		if !ok {
			return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
				fmt.Sprintf("no share fraction configured for heir type %q", b.Category))
		}
		if fraction.IsNegative() {
			return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
				fmt.Sprintf("share fraction for heir type %q is negative", b.Category))
		}
		weights[i] = fraction
	}
	return weights, nil
}

func (e *Engine) customWeights(beneficiaries []Beneficiary, custom map[uuid.UUID]decimal.Decimal) ([]decimal.Decimal, error) {
	if len(custom) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
			"custom allocation requires an explicit weight per beneficiary")
	}
	weights := make([]decimal.Decimal, len(beneficiaries))
	for i, b := range beneficiaries {
		if !b.IsEligible() {
			weights[i] = decimal.Zero
			continue
		}
		w, ok := custom[b.ID]
		if !ok {
			return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
				fmt.Sprintf("no custom weight supplied for beneficiary %s", b.ID))
		}
		if w.IsNegative() {
			return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
				fmt.Sprintf("custom weight for beneficiary %s is negative", b.ID))
		}
		weights[i] = w
	}
	return weights, nil
}

// hybridWeights blends two or more pattern weight vectors. Each
// component vector is normalized to sum to one before blending so the
// ratios express the intended proportions regardless of scale.
func (e *Engine) hybridWeights(beneficiaries []Beneficiary, opts AllocationOptions) ([]decimal.Decimal, error) {
	if len(opts.Blend) < 2 {
		return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
			"hybrid allocation requires at least two blend components")
	}

	totalRatio := decimal.Zero
	for _, c := range opts.Blend {
		if c.Pattern == PatternHybrid {
			return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
				"hybrid allocation cannot blend itself")
		}
		if !c.Pattern.IsValid() {
			return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
				fmt.Sprintf("unknown blend pattern %q", c.Pattern))
		}
		if !c.Ratio.IsPositive() {
			return nil, shared.NewDomainError(shared.CodeInvalidConfiguration,
				fmt.Sprintf("blend ratio for pattern %q must be positive", c.Pattern))
		}
		totalRatio = totalRatio.Add(c.Ratio)
	}

	combined := make([]decimal.Decimal, len(beneficiaries))
	for i := range combined {
		combined[i] = decimal.Zero
	}

	for _, c := range opts.Blend {
		weights, err := e.weights(c.Pattern, beneficiaries, opts)
		if err != nil {
			return nil, err
		}
		sum := decimal.Zero
		for _, w := range weights {
			sum = sum.Add(w)
		}
		if !sum.IsPositive() {
			return nil, shared.NewDomainError(shared.CodeNoEligibleBeneficiaries,
				fmt.Sprintf("blend component %q produced no positive weights", c.Pattern))
		}
		factor := c.Ratio.Div(totalRatio)
		for i, w := range weights {
			combined[i] = combined[i].Add(w.Div(sum).Mul(factor))
		}
	}

	return combined, nil
}
