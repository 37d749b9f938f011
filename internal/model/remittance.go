package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Remittance records an amount actually paid to the tax authority for one
// tax type and period. Multiple remittances may exist per period; their sum
// is netted against the computed liability.
type Remittance struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntityID uuid.UUID `gorm:"type:uuid;not null;index:idx_remit_period,priority:1" json:"entity_id"`
	Entity   *Entity   `gorm:"foreignKey:EntityID" json:"-"`

	TaxType string `gorm:"type:varchar(10);not null;index:idx_remit_period,priority:2" json:"tax_type"` // PIT, CIT, VAT, WHT, PAYE
	Year    int    `gorm:"not null;index:idx_remit_period,priority:3" json:"year"`
	Month   int    `gorm:"not null;default:0;index:idx_remit_period,priority:4" json:"month"` // 0 = annual

	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Reference string          `gorm:"type:varchar(100);not null" json:"reference"` // Payment reference / receipt number
	PaidAt    time.Time       `gorm:"not null" json:"paid_at"`
	Note      string          `gorm:"type:text" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
