package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CITInput carries the aggregated figures for one company and period.
// Turnover drives the size classification; revenue and deductible expenses
// form the taxable profit.
type CITInput struct {
	Turnover           decimal.Decimal
	Revenue            decimal.Decimal
	DeductibleExpenses decimal.Decimal
}

// CITResult is the company income tax position before withholding credits.
type CITResult struct {
	Classification  string
	Rate            decimal.Decimal
	LevyRate        decimal.Decimal
	TaxableProfit   decimal.Decimal
	Tax             decimal.Decimal
	DevelopmentLevy decimal.Decimal
	ExemptionReason string
}

// CalculateCIT classifies the company by turnover, selects the applicable
// rate, and applies it to taxable profit (revenue minus deductible expenses,
// floored at zero). Small companies pay 0% and no development levy.
func CalculateCIT(r *Regime, in CITInput) (CITResult, error) {
	if in.Turnover.IsNegative() || in.Revenue.IsNegative() || in.DeductibleExpenses.IsNegative() {
		return CITResult{}, fmt.Errorf("%w: negative CIT input", ErrComputationInconsistency)
	}

	res := CITResult{
		Classification: ClassLargeCompany,
		Rate:           r.LargeCompanyRate,
		LevyRate:       r.DevelopmentLevyRate,
	}
	if in.Turnover.LessThanOrEqual(r.SmallCompanyTurnoverCap) {
		res.Classification = ClassSmallCompany
		res.Rate = r.SmallCompanyRate
		res.LevyRate = decimal.Zero
	}
	if err := checkRate(res.Rate, "CIT"); err != nil {
		return CITResult{}, err
	}

	if in.Revenue.IsZero() && in.DeductibleExpenses.IsZero() {
		res.TaxableProfit = decimal.Zero
		res.Tax = decimal.Zero
		res.DevelopmentLevy = decimal.Zero
		res.ExemptionReason = ExemptNoIncome
		return res, nil
	}

	profit := in.Revenue.Sub(in.DeductibleExpenses)
	if !profit.IsPositive() {
		res.TaxableProfit = decimal.Zero
		res.Tax = decimal.Zero
		res.DevelopmentLevy = decimal.Zero
		res.ExemptionReason = ExemptDeductionsOnly
		return res, nil
	}

	res.TaxableProfit = profit
	res.Tax = profit.Mul(res.Rate)
	res.DevelopmentLevy = profit.Mul(res.LevyRate)
	if res.Tax.IsNegative() || res.DevelopmentLevy.IsNegative() {
		return CITResult{}, fmt.Errorf("%w: negative CIT liability", ErrComputationInconsistency)
	}
	return res, nil
}
