package distribution

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HeirCategory classifies a beneficiary for Shariah share lookup
type HeirCategory string

const (
	HeirCategorySon      HeirCategory = "son"
	HeirCategoryDaughter HeirCategory = "daughter"
	HeirCategoryWife     HeirCategory = "wife"
	HeirCategoryHusband  HeirCategory = "husband"
	HeirCategoryMother   HeirCategory = "mother"
	HeirCategoryFather   HeirCategory = "father"
	HeirCategoryOther    HeirCategory = "other"
)

// BeneficiaryStatus is the enrollment state of a beneficiary
type BeneficiaryStatus string

const (
	BeneficiaryStatusActive   BeneficiaryStatus = "ACTIVE"
	BeneficiaryStatusInactive BeneficiaryStatus = "INACTIVE"
)

// Beneficiary is the allocation-relevant view of a beneficiary record.
// Owned and mutated by the beneficiary-management subsystem; strictly
// read-only to the allocation engine.
type Beneficiary struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key"`
	Name           string            `gorm:"type:varchar(200);not null"`
	Category       HeirCategory      `gorm:"type:varchar(30);not null;index"`
	Status         BeneficiaryStatus `gorm:"type:varchar(20);not null;index"`
	FamilySize     int               `gorm:"not null;default:1"`
	MonthlyIncome  decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	IsHeadOfFamily bool              `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (Beneficiary) TableName() string {
	return "beneficiaries"
}

// IsEligible reports whether the beneficiary participates in allocation
func (b *Beneficiary) IsEligible() bool {
	return b.Status == BeneficiaryStatusActive
}
