package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// WHTLine is one qualifying transaction category with its aggregated gross
// amount for the period.
type WHTLine struct {
	Category string
	Gross    decimal.Decimal
}

// WHTDeduction is the withholding computed for one category.
type WHTDeduction struct {
	Category   string
	Gross      decimal.Decimal
	Rate       decimal.Decimal
	Deducted   decimal.Decimal
	NetPayment decimal.Decimal
}

// WHTResult is the period's withholding position: per-category deductions
// plus the running withheld/remitted/pending triple.
type WHTResult struct {
	Deductions    []WHTDeduction
	TotalWithheld decimal.Decimal
}

// CalculateWHT applies each category's rate to its aggregated gross:
// deducted = gross × rate, net-of-WHT payment = gross − deducted. An
// unknown category aborts rather than defaulting to a zero rate.
func CalculateWHT(r *Regime, lines []WHTLine) (WHTResult, error) {
	res := WHTResult{TotalWithheld: decimal.Zero}

	for _, line := range lines {
		if line.Gross.IsNegative() {
			return WHTResult{}, fmt.Errorf("%w: negative WHT gross for %q", ErrComputationInconsistency, line.Category)
		}
		rate, err := r.whtRate(line.Category)
		if err != nil {
			return WHTResult{}, err
		}

		deducted := line.Gross.Mul(rate)
		net := line.Gross.Sub(deducted)
		if net.IsNegative() {
			return WHTResult{}, fmt.Errorf("%w: WHT deduction exceeds gross for %q", ErrComputationInconsistency, line.Category)
		}

		res.Deductions = append(res.Deductions, WHTDeduction{
			Category:   line.Category,
			Gross:      line.Gross,
			Rate:       rate,
			Deducted:   deducted,
			NetPayment: net,
		})
		res.TotalWithheld = res.TotalWithheld.Add(deducted)
	}

	return res, nil
}
