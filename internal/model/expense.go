package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory enum constants
const (
	ExpenseCategoryRent          = "rent"
	ExpenseCategorySalaries      = "salaries"
	ExpenseCategoryUtilities     = "utilities"
	ExpenseCategorySupplies      = "supplies"
	ExpenseCategoryProfessional  = "professional_services"
	ExpenseCategoryTransport     = "transport"
	ExpenseCategoryEntertainment = "entertainment"
	ExpenseCategoryOther         = "other"
)

// Expense is a cost entry for an entity on a given date. Only rows flagged
// deductible feed the CIT/PIT expense aggregation; input VAT on deductible
// purchases feeds the VAT netting.
type Expense struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntityID uuid.UUID `gorm:"type:uuid;not null;index" json:"entity_id"`
	Entity   *Entity   `gorm:"foreignKey:EntityID" json:"-"`

	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Category    string          `gorm:"type:varchar(30);not null;index" json:"category"`
	Description string          `gorm:"type:text" json:"description"`
	Vendor      string          `gorm:"type:varchar(255)" json:"vendor"`

	// Deductibility against CIT/PIT taxable profit.
	IsDeductible bool `gorm:"default:false" json:"is_deductible"`

	// Input VAT actually paid on the purchase, reclaimable when deductible.
	InputVAT decimal.Decimal `gorm:"column:input_vat;type:decimal(18,2);not null;default:0" json:"input_vat"`

	// WHTCategory classifies the payment for withholding at source
	// (e.g. rent, professional_services). Empty = not WHT-qualifying.
	WHTCategory string          `gorm:"column:wht_category;type:varchar(30);index" json:"wht_category"`
	WHTDeducted decimal.Decimal `gorm:"column:wht_deducted;type:decimal(18,2);not null;default:0" json:"wht_deducted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
