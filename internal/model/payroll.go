package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollStatus enum constants
const (
	PayrollDraft     = "DRAFT"
	PayrollFinalized = "FINALIZED"
)

// PayrollRun is one entity's payroll for a (year, month). PAYE computed per
// item sums into the run total, which is the PAYE liability for the period.
type PayrollRun struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payroll_period,priority:1" json:"entity_id"`
	Entity   *Entity   `gorm:"foreignKey:EntityID" json:"-"`
	Year     int       `gorm:"not null;uniqueIndex:idx_payroll_period,priority:2" json:"year"`
	Month    int       `gorm:"not null;uniqueIndex:idx_payroll_period,priority:3" json:"month"`

	Items []PayrollItem `gorm:"foreignKey:PayrollRunID;constraint:OnDelete:CASCADE" json:"items"`

	TotalGross decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_gross"`
	TotalPAYE  decimal.Decimal `gorm:"column:total_paye;type:decimal(18,2);not null;default:0" json:"total_paye"`
	Status     string          `gorm:"type:varchar(20);not null;default:'DRAFT'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PayrollItem is one employee's line in a payroll run.
type PayrollItem struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PayrollRunID uuid.UUID `gorm:"type:uuid;not null;index" json:"payroll_run_id"`

	EmployeeName string `gorm:"type:varchar(255);not null" json:"employee_name"`
	EmployeeTIN  string `gorm:"column:employee_tin;type:varchar(20)" json:"employee_tin"`

	MonthlyGross decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"monthly_gross"`
	Pension      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"pension"`
	NHF          decimal.Decimal `gorm:"column:nhf;type:decimal(18,2);not null;default:0" json:"nhf"`
	NHIS         decimal.Decimal `gorm:"column:nhis;type:decimal(18,2);not null;default:0" json:"nhis"`

	TaxableIncome decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"taxable_income"`
	PAYE          decimal.Decimal `gorm:"column:paye;type:decimal(18,2);not null;default:0" json:"paye"`
}
