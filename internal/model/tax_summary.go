package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxSummary is the denormalized computation cache: one row per
// (entity, tax type, year, month). Created lazily on first read, rewritten
// wholesale on recalculation, and flagged stale when a source record for
// its window mutates. Concurrent recomputations are last-write-wins — the
// computation is a deterministic function of current source data.
type TaxSummary struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_summary_key,priority:1" json:"entity_id"`
	Entity   *Entity   `gorm:"foreignKey:EntityID" json:"-"`

	TaxType string `gorm:"type:varchar(10);not null;uniqueIndex:idx_summary_key,priority:2" json:"tax_type"`
	Year    int    `gorm:"not null;uniqueIndex:idx_summary_key,priority:3" json:"year"`
	Month   int    `gorm:"not null;default:0;uniqueIndex:idx_summary_key,priority:4" json:"month"` // 0 = annual

	// Raw aggregates.
	GrossIncome        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"gross_income"`
	DeductibleExpenses decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"deductible_expenses"`
	OutputVAT          decimal.Decimal `gorm:"column:output_vat;type:decimal(18,2);not null;default:0" json:"output_vat"`
	InputVAT           decimal.Decimal `gorm:"column:input_vat;type:decimal(18,2);not null;default:0" json:"input_vat"`

	// Computed position.
	TaxableAmount          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"taxable_amount"`
	RateApplied            decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"rate_applied"`
	DevelopmentLevy        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"development_levy"`
	LiabilityBeforeCredits decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"liability_before_credits"`
	WHTCredits             decimal.Decimal `gorm:"column:wht_credits;type:decimal(18,2);not null;default:0" json:"wht_credits"`
	LiabilityAfterCredits  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"liability_after_credits"`
	Remitted               decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"remitted"`
	Pending                decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"pending"`
	VATCredit              decimal.Decimal `gorm:"column:vat_credit;type:decimal(18,2);not null;default:0" json:"vat_credit"`

	// Classification ("small_company"/"large_company") or exemption reason
	// ("no_income", "deductions_only", "below_threshold"), whichever applies.
	Classification  string `gorm:"type:varchar(30)" json:"classification"`
	ExemptionReason string `gorm:"type:varchar(30)" json:"exemption_reason"`

	Status   string    `gorm:"type:varchar(15);not null" json:"status"` // compliant, pending, overdue, no_data
	Deadline time.Time `gorm:"not null" json:"deadline"`

	Stale      bool      `gorm:"not null;default:false;index" json:"-"`
	ComputedAt time.Time `gorm:"not null" json:"computed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
