package tax

import (
	"errors"
	"testing"
)

func TestCalculatePAYE(t *testing.T) {
	r := Regime2026()

	tests := []struct {
		name       string
		in         PAYEInput
		wantTax    string
		wantReason string
	}{
		{
			name:       "annualized pay under the zero band",
			in:         PAYEInput{MonthlyGross: d("50000")},
			wantTax:    "0",
			wantReason: ExemptBelowThreshold,
		},
		{
			name:    "annualized pay spanning two bands",
			in:      PAYEInput{MonthlyGross: d("250000")},
			wantTax: "27500",
		},
		{
			name:    "contribution reliefs reduce the monthly withholding",
			in:      PAYEInput{MonthlyGross: d("250000"), Pension: d("20000"), NHF: d("5000")},
			wantTax: "23750",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculatePAYE(r, tt.in)
			if err != nil {
				t.Fatalf("CalculatePAYE() error = %v", err)
			}
			if !got.MonthlyTax.Equal(d(tt.wantTax)) {
				t.Errorf("MonthlyTax = %s, want %s", got.MonthlyTax, tt.wantTax)
			}
			if got.ExemptionReason != tt.wantReason {
				t.Errorf("ExemptionReason = %q, want %q", got.ExemptionReason, tt.wantReason)
			}
		})
	}
}

func TestCalculatePAYEMatchesAnnualPIT(t *testing.T) {
	r := Regime2026()

	monthly, err := CalculatePAYE(r, PAYEInput{MonthlyGross: d("400000"), Pension: d("32000")})
	if err != nil {
		t.Fatalf("CalculatePAYE() error = %v", err)
	}

	annual, err := CalculatePIT(r, PITInput{GrossIncome: d("4800000"), Pension: d("384000")})
	if err != nil {
		t.Fatalf("CalculatePIT() error = %v", err)
	}

	if !monthly.MonthlyTax.Mul(d("12")).Equal(annual.Tax) {
		t.Errorf("monthly tax x12 = %s, annual tax = %s", monthly.MonthlyTax.Mul(d("12")), annual.Tax)
	}
}

func TestCalculatePAYENegativeInput(t *testing.T) {
	r := Regime2026()

	_, err := CalculatePAYE(r, PAYEInput{MonthlyGross: d("-100")})
	if !errors.Is(err, ErrComputationInconsistency) {
		t.Fatalf("error = %v, want ErrComputationInconsistency", err)
	}
}
