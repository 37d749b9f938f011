package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Exemption reasons attached to zero liabilities. The reason is user-facing,
// so it is determined before band application, not derived from a zero total
// after the fact.
const (
	ExemptNone           = ""
	ExemptNoIncome       = "no_income"
	ExemptDeductionsOnly = "deductions_only"
	ExemptBelowThreshold = "below_threshold"
)

// PITInput carries the aggregated figures for one entity and period.
// Deductions are the statutory contribution reliefs (pension, NHF, NHIS)
// where supplied.
type PITInput struct {
	GrossIncome decimal.Decimal
	Pension     decimal.Decimal
	NHF         decimal.Decimal
	NHIS        decimal.Decimal
}

// PITResult is the personal income tax position before withholding credits.
type PITResult struct {
	GrossIncome     decimal.Decimal
	TotalDeductions decimal.Decimal
	TaxableIncome   decimal.Decimal
	Tax             decimal.Decimal
	ExemptionReason string
}

// CalculatePIT applies the progressive bands to income net of contribution
// reliefs. Zero liabilities short-circuit with the applicable exemption
// reason; the taxable base never goes negative.
func CalculatePIT(r *Regime, in PITInput) (PITResult, error) {
	if in.GrossIncome.IsNegative() || in.Pension.IsNegative() || in.NHF.IsNegative() || in.NHIS.IsNegative() {
		return PITResult{}, fmt.Errorf("%w: negative PIT input", ErrComputationInconsistency)
	}

	deductions := in.Pension.Add(in.NHF).Add(in.NHIS)
	res := PITResult{
		GrossIncome:     in.GrossIncome,
		TotalDeductions: deductions,
		Tax:             decimal.Zero,
	}

	if in.GrossIncome.IsZero() {
		res.TaxableIncome = decimal.Zero
		res.ExemptionReason = ExemptNoIncome
		return res, nil
	}

	taxable := in.GrossIncome.Sub(deductions)
	if !taxable.IsPositive() {
		res.TaxableIncome = decimal.Zero
		res.ExemptionReason = ExemptDeductionsOnly
		return res, nil
	}
	res.TaxableIncome = taxable

	// Fully within the zero-rate first band: exempt by threshold.
	first := r.PITBands[0]
	if first.Rate.IsZero() && taxable.LessThanOrEqual(first.Width) {
		res.ExemptionReason = ExemptBelowThreshold
		return res, nil
	}

	tax, err := applyBands(r.PITBands, taxable)
	if err != nil {
		return PITResult{}, err
	}
	if tax.IsNegative() {
		return PITResult{}, fmt.Errorf("%w: negative PIT liability", ErrComputationInconsistency)
	}
	res.Tax = tax
	return res, nil
}

// applyBands walks an ordered progressive ladder, taxing each slice of the
// base at its band rate. A zero-width band is open-ended and absorbs the
// remainder.
func applyBands(bands []Band, base decimal.Decimal) (decimal.Decimal, error) {
	tax := decimal.Zero
	remaining := base

	for i, band := range bands {
		if err := checkRate(band.Rate, fmt.Sprintf("band %d", i)); err != nil {
			return decimal.Decimal{}, err
		}
		if !remaining.IsPositive() {
			break
		}

		slice := remaining
		if !band.Width.IsZero() && slice.GreaterThan(band.Width) {
			slice = band.Width
		}
		tax = tax.Add(slice.Mul(band.Rate))
		remaining = remaining.Sub(slice)
	}

	return tax, nil
}
