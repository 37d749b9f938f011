package tax

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculatePIT(t *testing.T) {
	r := Regime2026()

	tests := []struct {
		name       string
		in         PITInput
		wantTax    string
		wantReason string
	}{
		{
			name:       "no income",
			in:         PITInput{GrossIncome: d("0")},
			wantTax:    "0",
			wantReason: ExemptNoIncome,
		},
		{
			name:       "deductions swallow all income",
			in:         PITInput{GrossIncome: d("500000"), Pension: d("400000"), NHF: d("200000")},
			wantTax:    "0",
			wantReason: ExemptDeductionsOnly,
		},
		{
			name:       "exactly at zero-rate threshold",
			in:         PITInput{GrossIncome: d("800000")},
			wantTax:    "0",
			wantReason: ExemptBelowThreshold,
		},
		{
			name:       "below threshold after reliefs",
			in:         PITInput{GrossIncome: d("900000"), Pension: d("150000")},
			wantTax:    "0",
			wantReason: ExemptBelowThreshold,
		},
		{
			name:    "second band only",
			in:      PITInput{GrossIncome: d("1000000")},
			wantTax: "30000",
		},
		{
			name:    "spans three bands",
			in:      PITInput{GrossIncome: d("5000000")},
			wantTax: "690000",
		},
		{
			name:    "reliefs shift band boundaries",
			in:      PITInput{GrossIncome: d("5500000"), Pension: d("400000"), NHF: d("100000")},
			wantTax: "690000",
		},
		{
			name:    "open-ended top band",
			in:      PITInput{GrossIncome: d("60000000")},
			wantTax: "12930000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculatePIT(r, tt.in)
			if err != nil {
				t.Fatalf("CalculatePIT() error = %v", err)
			}
			if !got.Tax.Equal(d(tt.wantTax)) {
				t.Errorf("Tax = %s, want %s", got.Tax, tt.wantTax)
			}
			if got.ExemptionReason != tt.wantReason {
				t.Errorf("ExemptionReason = %q, want %q", got.ExemptionReason, tt.wantReason)
			}
		})
	}
}

func TestCalculatePITNegativeInput(t *testing.T) {
	r := Regime2026()

	_, err := CalculatePIT(r, PITInput{GrossIncome: d("-1")})
	if !errors.Is(err, ErrComputationInconsistency) {
		t.Fatalf("error = %v, want ErrComputationInconsistency", err)
	}
}

func TestCalculatePITDeterministic(t *testing.T) {
	r := Regime2026()
	in := PITInput{GrossIncome: d("12345678.90"), Pension: d("987654.32")}

	first, err := CalculatePIT(r, in)
	if err != nil {
		t.Fatalf("CalculatePIT() error = %v", err)
	}
	second, err := CalculatePIT(r, in)
	if err != nil {
		t.Fatalf("CalculatePIT() error = %v", err)
	}
	if !first.Tax.Equal(second.Tax) || !first.TaxableIncome.Equal(second.TaxableIncome) {
		t.Errorf("repeated computation diverged: %s vs %s", first.Tax, second.Tax)
	}
}
