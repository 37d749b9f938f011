package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants. Only PAID invoices are revenue-recognized;
// CANCELLED invoices never feed an aggregate.
const (
	InvoiceDraft     = "DRAFT"
	InvoicePaid      = "PAID"
	InvoiceCancelled = "CANCELLED"
)

// Invoice is a sales document issued by an entity. Its subtotal feeds the
// revenue aggregation and, unless VAT-exempt, its VAT amount feeds the
// output-VAT aggregation. A WHT category marks the receivable as subject to
// withholding at source by the customer.
type Invoice struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntityID  uuid.UUID `gorm:"type:uuid;not null;index" json:"entity_id"`
	Entity    *Entity   `gorm:"foreignKey:EntityID" json:"-"`
	InvoiceNo string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"`

	CustomerName string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerTIN  string `gorm:"column:customer_tin;type:varchar(20)" json:"customer_tin"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`

	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"` // Sum of line items, pre-tax
	VATExempt   bool            `gorm:"column:vat_exempt;default:false" json:"vat_exempt"`
	VATAmount   decimal.Decimal `gorm:"column:vat_amount;type:decimal(18,2);not null;default:0" json:"vat_amount"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"` // subtotal + vat_amount

	// WHTCategory marks the transaction for withholding (rent,
	// professional_services, ...). Empty = not WHT-qualifying.
	WHTCategory string `gorm:"column:wht_category;type:varchar(30);index" json:"wht_category"`

	Status   string     `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	IssuedAt time.Time  `gorm:"not null;index" json:"issued_at"`
	PaidAt   *time.Time `json:"paid_at"`
	Note     string     `gorm:"type:text" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceItem is one line of an invoice.
type InvoiceItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:1" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"` // quantity * unit_price
}
