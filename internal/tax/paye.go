package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// PAYEInput is one employee's monthly pay figures.
type PAYEInput struct {
	MonthlyGross decimal.Decimal
	Pension      decimal.Decimal
	NHF          decimal.Decimal
	NHIS         decimal.Decimal
}

// PAYEResult is the employer-withheld monthly tax for one employee.
type PAYEResult struct {
	MonthlyGross    decimal.Decimal
	MonthlyTaxable  decimal.Decimal
	MonthlyTax      decimal.Decimal
	ExemptionReason string
}

// CalculatePAYE annualizes the employee's pay net of contribution reliefs,
// runs it through the PIT bands, and divides the annual tax back to a
// monthly withholding.
func CalculatePAYE(r *Regime, in PAYEInput) (PAYEResult, error) {
	if in.MonthlyGross.IsNegative() || in.Pension.IsNegative() || in.NHF.IsNegative() || in.NHIS.IsNegative() {
		return PAYEResult{}, fmt.Errorf("%w: negative PAYE input", ErrComputationInconsistency)
	}

	annual, err := CalculatePIT(r, PITInput{
		GrossIncome: in.MonthlyGross.Mul(twelve),
		Pension:     in.Pension.Mul(twelve),
		NHF:         in.NHF.Mul(twelve),
		NHIS:        in.NHIS.Mul(twelve),
	})
	if err != nil {
		return PAYEResult{}, err
	}

	return PAYEResult{
		MonthlyGross:    in.MonthlyGross,
		MonthlyTaxable:  annual.TaxableIncome.Div(twelve),
		MonthlyTax:      annual.Tax.Div(twelve),
		ExemptionReason: annual.ExemptionReason,
	}, nil
}
