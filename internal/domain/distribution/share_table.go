package distribution

import "github.com/shopspring/decimal"

// ShareTable maps heir types to relative share fractions. The table is
// supplied by the endowment's deed or governance configuration; the
// allocation engine treats it as opaque weights and never hardcodes
// jurisprudential rules.
type ShareTable map[HeirCategory]decimal.Decimal

// ReferenceShareTable returns the commonly used 2:1 descendant split
// with fixed spouse and parent fractions. It is a seed default for new
// endowments and is always overridable per deed.
func ReferenceShareTable() ShareTable {
	return ShareTable{
		HeirCategorySon:      decimal.NewFromInt(2),
		HeirCategoryDaughter: decimal.NewFromInt(1),
		HeirCategoryWife:     decimal.RequireFromString("0.125"),
		HeirCategoryHusband:  decimal.RequireFromString("0.25"),
		HeirCategoryMother:   decimal.RequireFromString("0.1667"),
		HeirCategoryFather:   decimal.RequireFromString("0.1667"),
	}
}
