package tax

import (
	"fmt"
	"time"
)

// Tax instrument identifiers, shared across the core, models, and API.
const (
	TypePIT  = "PIT"
	TypeCIT  = "CIT"
	TypeVAT  = "VAT"
	TypeWHT  = "WHT"
	TypePAYE = "PAYE"
)

// MinTaxYear is the statutory floor: the Nigeria Tax Act 2025 takes effect
// from the 2026 tax year and earlier years are not computable here.
const MinTaxYear = 2026

// Period scopes an aggregation/computation to a tax year and optionally a
// month. Month == 0 means annual.
type Period struct {
	Year  int
	Month int
}

// NewPeriod validates and constructs a Period. Years before MinTaxYear and
// months outside 0-12 are rejected, not clamped.
func NewPeriod(year, month int) (Period, error) {
	if year < MinTaxYear {
		return Period{}, fmt.Errorf("%w: tax year %d predates the %d statutory floor", ErrInvalidPeriod, year, MinTaxYear)
	}
	if month < 0 || month > 12 {
		return Period{}, fmt.Errorf("%w: month %d must be between 1 and 12", ErrInvalidPeriod, month)
	}
	return Period{Year: year, Month: month}, nil
}

// Annual reports whether the period spans the full calendar year.
func (p Period) Annual() bool {
	return p.Month == 0
}

// Window returns the half-open aggregation window [start, end) in UTC.
// An annual period covers all twelve months, not just the current one.
func (p Period) Window() (time.Time, time.Time) {
	if p.Annual() {
		start := time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	}
	start := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Label renders the period for display and cache keys: "2026" or "2026-03".
func (p Period) Label() string {
	if p.Annual() {
		return fmt.Sprintf("%d", p.Year)
	}
	return fmt.Sprintf("%d-%02d", p.Year, p.Month)
}

// Deadline returns the statutory filing/remittance deadline for a tax type:
// PIT 31 March of the following year, CIT 30 June of the following year,
// VAT and WHT the 21st of the following month, PAYE the 10th.
// For annual VAT/WHT/PAYE periods the deadline follows December.
func (p Period) Deadline(taxType string) time.Time {
	switch taxType {
	case TypePIT:
		return time.Date(p.Year+1, time.March, 31, 23, 59, 59, 0, time.UTC)
	case TypeCIT:
		return time.Date(p.Year+1, time.June, 30, 23, 59, 59, 0, time.UTC)
	case TypePAYE:
		return monthlyDeadline(p, 10)
	default: // VAT, WHT
		return monthlyDeadline(p, 21)
	}
}

func monthlyDeadline(p Period, day int) time.Time {
	month := p.Month
	if p.Annual() {
		month = 12
	}
	// First of the following month plus (day-1) days, end of day.
	return time.Date(p.Year, time.Month(month), 1, 23, 59, 59, 0, time.UTC).AddDate(0, 1, day-1)
}
