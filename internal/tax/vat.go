package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// VAT positions. A zero net VAT is explained, mirroring the PIT/CIT
// exemption reasons: no activity at all is not the same as output exactly
// matching input.
const (
	VATPayable    = "payable"
	VATRefundable = "refundable"
	VATBalanced   = "balanced"
	VATNoActivity = "no_activity"
)

// VATInput carries the period's output VAT (charged on non-exempt sales)
// and input VAT (paid on deductible purchases), plus the underlying taxable
// bases so a no-activity period is detectable.
type VATInput struct {
	TaxableSales     decimal.Decimal
	TaxablePurchases decimal.Decimal
	OutputVAT        decimal.Decimal
	InputVAT         decimal.Decimal
}

// VATResult is the netted VAT position for the period. NetVAT is signed;
// Payable clamps at zero and Credit holds the refund-eligible excess when
// input exceeds output.
type VATResult struct {
	OutputVAT decimal.Decimal
	InputVAT  decimal.Decimal
	NetVAT    decimal.Decimal
	Payable   decimal.Decimal
	Credit    decimal.Decimal
	Position  string
}

// CalculateVAT nets output VAT against input VAT for the aggregation
// window. Annual periods net across the whole year rather than summing
// twelve independent monthly nettings.
func CalculateVAT(r *Regime, in VATInput) (VATResult, error) {
	if in.OutputVAT.IsNegative() || in.InputVAT.IsNegative() || in.TaxableSales.IsNegative() || in.TaxablePurchases.IsNegative() {
		return VATResult{}, fmt.Errorf("%w: negative VAT input", ErrComputationInconsistency)
	}
	if err := checkRate(r.VATRate, "VAT"); err != nil {
		return VATResult{}, err
	}

	net := in.OutputVAT.Sub(in.InputVAT)
	res := VATResult{
		OutputVAT: in.OutputVAT,
		InputVAT:  in.InputVAT,
		NetVAT:    net,
		Payable:   decimal.Zero,
		Credit:    decimal.Zero,
	}

	switch {
	case in.TaxableSales.IsZero() && in.TaxablePurchases.IsZero():
		res.Position = VATNoActivity
	case net.IsPositive():
		res.Position = VATPayable
		res.Payable = net
	case net.IsNegative():
		res.Position = VATRefundable
		res.Credit = net.Neg()
	default:
		res.Position = VATBalanced
	}

	return res, nil
}

// OutputVATOn is the standard-rate VAT charged on a non-exempt supply.
func OutputVATOn(r *Regime, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := checkRate(r.VATRate, "VAT"); err != nil {
		return decimal.Decimal{}, err
	}
	if amount.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: negative VAT base", ErrComputationInconsistency)
	}
	return amount.Mul(r.VATRate), nil
}
