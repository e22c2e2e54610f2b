package fiscal

import (
	"fmt"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/awqaf/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// DeductionConfig enumerates the recognized percentage options applied
// to net revenue before distribution. Each value is a fraction in [0,1].
// Loaded from the configuration store; validated before any money is
// touched.
type DeductionConfig struct {
	NazerPercentage       decimal.Decimal `json:"nazer_percentage"`
	WaqifPercentage       decimal.Decimal `json:"waqif_percentage"`
	ReservePercentage     decimal.Decimal `json:"reserve_percentage"`
	DevelopmentPercentage decimal.Decimal `json:"development_percentage"`
	MaintenancePercentage decimal.Decimal `json:"maintenance_percentage"`
	WaqfCorpusPercentage  decimal.Decimal `json:"waqf_corpus_percentage"`
}

// Total returns the sum of all configured fractions
func (c DeductionConfig) Total() decimal.Decimal {
	return c.NazerPercentage.
		Add(c.WaqifPercentage).
		Add(c.ReservePercentage).
		Add(c.DevelopmentPercentage).
		Add(c.MaintenancePercentage).
		Add(c.WaqfCorpusPercentage)
}

// Validate checks each fraction is within [0,1] and the total does not
// exceed 100%. Violations carry the offending figure so an operator can
// correct the configuration before retrying.
func (c DeductionConfig) Validate() error {
	for name, pct := range map[string]decimal.Decimal{
		"nazer_percentage":       c.NazerPercentage,
		"waqif_percentage":       c.WaqifPercentage,
		"reserve_percentage":     c.ReservePercentage,
		"development_percentage": c.DevelopmentPercentage,
		"maintenance_percentage": c.MaintenancePercentage,
		"waqf_corpus_percentage": c.WaqfCorpusPercentage,
	} {
		if pct.IsNegative() || pct.GreaterThan(one) {
			return shared.NewDomainError(shared.CodeInvalidConfiguration,
				fmt.Sprintf("%s must be a fraction between 0 and 1, got %s", name, pct.String()))
		}
	}

	if total := c.Total(); total.GreaterThan(one) {
		return shared.NewDomainError(shared.CodeInvalidConfiguration,
			fmt.Sprintf("deduction percentages sum to %s, exceeding 100%%", total.String()))
	}
	return nil
}

// DeductionBreakdown is the result of applying a DeductionConfig to a
// period's net income. The invariant Distributable + all deduction
// lines == net income holds exactly: the sub-cent residue left after
// rounding every line is folded into WaqfCorpusRetained, never handed
// to a beneficiary.
type DeductionBreakdown struct {
	NazerShare         decimal.Decimal `json:"nazer_share"`
	WaqifShare         decimal.Decimal `json:"waqif_share"`
	ReserveAmount      decimal.Decimal `json:"reserve_amount"`
	DevelopmentAmount  decimal.Decimal `json:"development_amount"`
	MaintenanceAmount  decimal.Decimal `json:"maintenance_amount"`
	WaqfCorpusRetained decimal.Decimal `json:"waqf_corpus_retained"`
	Distributable      decimal.Decimal `json:"distributable"`
}

// TotalDeductions returns the sum of all deduction lines
func (b DeductionBreakdown) TotalDeductions() decimal.Decimal {
	return b.NazerShare.
		Add(b.WaqifShare).
		Add(b.ReserveAmount).
		Add(b.DevelopmentAmount).
		Add(b.MaintenanceAmount).
		Add(b.WaqfCorpusRetained)
}

// ComputeDeductions applies the configured percentages to net income.
// Each line is rounded half-up to whole cents. The distributable
// remainder is truncated to whole cents; the truncated residue is
// retained by the waqf corpus.
func ComputeDeductions(netIncome decimal.Decimal, cfg DeductionConfig) (*DeductionBreakdown, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	net := valueobject.NewSAR(netIncome)
	line := func(pct decimal.Decimal) decimal.Decimal {
		return net.Multiply(pct).Round(2).Amount()
	}

	b := &DeductionBreakdown{
		NazerShare:         line(cfg.NazerPercentage),
		WaqifShare:         line(cfg.WaqifPercentage),
		ReserveAmount:      line(cfg.ReservePercentage),
		DevelopmentAmount:  line(cfg.DevelopmentPercentage),
		MaintenanceAmount:  line(cfg.MaintenancePercentage),
		WaqfCorpusRetained: line(cfg.WaqfCorpusPercentage),
	}

	remainder := netIncome.Sub(b.TotalDeductions())
	b.Distributable = remainder.Truncate(2)

	// Sub-cent rounding drift always favors the corpus.
	if residue := remainder.Sub(b.Distributable); !residue.IsZero() {
		b.WaqfCorpusRetained = b.WaqfCorpusRetained.Add(residue)
	}

	return b, nil
}
