package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Company size classification for CIT.
const (
	ClassSmallCompany = "small_company"
	ClassLargeCompany = "large_company"
)

// WHT transaction categories.
const (
	WHTRent                 = "rent"
	WHTProfessionalServices = "professional_services"
	WHTContractSupply       = "contract_supply"
	WHTCommission           = "commission"
	WHTInterest             = "interest"
	WHTDividend             = "dividend"
	WHTDirectorsFees        = "directors_fees"
	WHTConstruction         = "construction"
)

// Band is one step of a progressive ladder: the slice of income up to Width
// is taxed at Rate. A zero Width marks the open-ended top band.
type Band struct {
	Width decimal.Decimal
	Rate  decimal.Decimal
}

// Regime bundles every rate table for one tax year. It is built once at
// process start and passed by reference into the calculators; nothing in
// this package keeps ambient rate state.
type Regime struct {
	Year int

	// PITBands is the progressive ladder for personal income tax, in order.
	PITBands []Band

	// CIT classification and rates.
	SmallCompanyTurnoverCap decimal.Decimal
	SmallCompanyRate        decimal.Decimal
	LargeCompanyRate        decimal.Decimal
	DevelopmentLevyRate     decimal.Decimal

	// VATRate is the flat standard rate on non-exempt supplies.
	VATRate decimal.Decimal

	// WHTRates maps a transaction category to its deduction rate.
	WHTRates map[string]decimal.Decimal
}

// Regimes is the year-indexed set of rate tables the process was started with.
type Regimes struct {
	byYear map[int]*Regime
}

// NewRegimes validates each regime's rates up front so a malformed table
// fails at startup rather than mid-computation.
func NewRegimes(regimes ...*Regime) (*Regimes, error) {
	byYear := make(map[int]*Regime, len(regimes))
	for _, r := range regimes {
		if err := r.validate(); err != nil {
			return nil, err
		}
		byYear[r.Year] = r
	}
	return &Regimes{byYear: byYear}, nil
}

// ForYear returns the regime governing a tax year, or ErrUnsupportedTaxYear
// when no table exists for it.
func (rs *Regimes) ForYear(year int) (*Regime, error) {
	r, ok := rs.byYear[year]
	if !ok {
		return nil, fmt.Errorf("%w: no rate tables for tax year %d", ErrUnsupportedTaxYear, year)
	}
	return r, nil
}

func (r *Regime) validate() error {
	if len(r.PITBands) == 0 {
		return fmt.Errorf("%w: regime %d has no PIT bands", ErrInvalidRate, r.Year)
	}
	for i, b := range r.PITBands {
		if err := checkRate(b.Rate, fmt.Sprintf("PIT band %d", i)); err != nil {
			return err
		}
		if b.Width.IsNegative() {
			return fmt.Errorf("%w: PIT band %d has negative width", ErrInvalidRate, i)
		}
		if b.Width.IsZero() && i != len(r.PITBands)-1 {
			return fmt.Errorf("%w: only the top PIT band may be open-ended", ErrInvalidRate)
		}
	}
	if err := checkRate(r.SmallCompanyRate, "CIT small company"); err != nil {
		return err
	}
	if err := checkRate(r.LargeCompanyRate, "CIT large company"); err != nil {
		return err
	}
	if err := checkRate(r.DevelopmentLevyRate, "development levy"); err != nil {
		return err
	}
	if err := checkRate(r.VATRate, "VAT"); err != nil {
		return err
	}
	for category, rate := range r.WHTRates {
		if err := checkRate(rate, "WHT "+category); err != nil {
			return err
		}
	}
	return nil
}

// checkRate rejects rates outside [0, 1]. A rate is a fraction of the base;
// anything else is a defect in the tables, surfaced loudly.
func checkRate(rate decimal.Decimal, what string) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: %s rate %s is outside [0, 1]", ErrInvalidRate, what, rate.String())
	}
	return nil
}

// whtRate resolves a category's withholding rate, failing loudly on an
// unknown category instead of defaulting to zero.
func (r *Regime) whtRate(category string) (decimal.Decimal, error) {
	rate, ok := r.WHTRates[category]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no WHT rate for category %q in %d regime", ErrInvalidRate, category, r.Year)
	}
	if err := checkRate(rate, "WHT "+category); err != nil {
		return decimal.Decimal{}, err
	}
	return rate, nil
}

// Regime2026 returns the rate tables introduced by the Nigeria Tax Act 2025,
// effective for the 2026 tax year.
func Regime2026() *Regime {
	naira := func(n int64) decimal.Decimal { return decimal.NewFromInt(n) }
	pct := func(p string) decimal.Decimal { return decimal.RequireFromString(p) }

	return &Regime{
		Year: 2026,
		PITBands: []Band{
			{Width: naira(800_000), Rate: pct("0")},
			{Width: naira(2_200_000), Rate: pct("0.15")},
			{Width: naira(9_000_000), Rate: pct("0.18")},
			{Width: naira(13_000_000), Rate: pct("0.21")},
			{Width: naira(25_000_000), Rate: pct("0.23")},
			{Width: decimal.Zero, Rate: pct("0.25")}, // above ₦50,000,000
		},
		SmallCompanyTurnoverCap: naira(50_000_000),
		SmallCompanyRate:        pct("0"),
		LargeCompanyRate:        pct("0.30"),
		DevelopmentLevyRate:     pct("0.04"),
		VATRate:                 pct("0.075"),
		WHTRates: map[string]decimal.Decimal{
			WHTRent:                 pct("0.10"),
			WHTProfessionalServices: pct("0.10"),
			WHTContractSupply:       pct("0.05"),
			WHTCommission:           pct("0.10"),
			WHTInterest:             pct("0.10"),
			WHTDividend:             pct("0.10"),
			WHTDirectorsFees:        pct("0.15"),
			WHTConstruction:         pct("0.05"),
		},
	}
}

// DefaultRegimes is the standard table set for a process serving the current
// statute. Panics only on a malformed built-in table, which is a programming
// error caught by the test suite.
func DefaultRegimes() *Regimes {
	rs, err := NewRegimes(Regime2026())
	if err != nil {
		panic(err)
	}
	return rs
}
