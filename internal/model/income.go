package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeSource enum constants
const (
	IncomeSourceSalary     = "salary"
	IncomeSourceTrade      = "trade"
	IncomeSourceRent       = "rent"
	IncomeSourceInvestment = "investment"
	IncomeSourceOther      = "other"
)

// IncomeRecord holds declared gross income for an entity in one tax year
// and optionally one month (month 0 = annual figure). One row per
// (entity, year, month) key — writes go through an upsert.
type IncomeRecord struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EntityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_income_period,priority:1" json:"entity_id"`
	Entity   *Entity   `gorm:"foreignKey:EntityID" json:"-"`
	Year     int       `gorm:"not null;uniqueIndex:idx_income_period,priority:2" json:"year"`
	Month    int       `gorm:"not null;default:0;uniqueIndex:idx_income_period,priority:3" json:"month"` // 0 = annual

	Amount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"` // Non-negative gross income
	Source string          `gorm:"type:varchar(30);not null;default:'other'" json:"source"`

	// Statutory contribution reliefs deductible for PIT/PAYE.
	Pension decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"pension"`
	NHF     decimal.Decimal `gorm:"column:nhf;type:decimal(18,2);not null;default:0" json:"nhf"`
	NHIS    decimal.Decimal `gorm:"column:nhis;type:decimal(18,2);not null;default:0" json:"nhis"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
