package tax

import (
	"errors"
	"testing"
)

func TestCalculateCIT(t *testing.T) {
	r := Regime2026()

	tests := []struct {
		name       string
		in         CITInput
		wantClass  string
		wantTax    string
		wantLevy   string
		wantReason string
	}{
		{
			name:       "small company pays nothing regardless of profit",
			in:         CITInput{Turnover: d("40000000"), Revenue: d("40000000"), DeductibleExpenses: d("10000000")},
			wantClass:  ClassSmallCompany,
			wantTax:    "0",
			wantLevy:   "0",
			wantReason: "",
		},
		{
			name:      "turnover exactly at the cap is still small",
			in:        CITInput{Turnover: d("50000000"), Revenue: d("50000000"), DeductibleExpenses: d("0")},
			wantClass: ClassSmallCompany,
			wantTax:   "0",
			wantLevy:  "0",
		},
		{
			name:      "large company at 30 percent plus levy",
			in:        CITInput{Turnover: d("60000000"), Revenue: d("1000000"), DeductibleExpenses: d("700000")},
			wantClass: ClassLargeCompany,
			wantTax:   "90000",
			wantLevy:  "12000",
		},
		{
			name:       "no activity",
			in:         CITInput{Turnover: d("60000000")},
			wantClass:  ClassLargeCompany,
			wantTax:    "0",
			wantLevy:   "0",
			wantReason: ExemptNoIncome,
		},
		{
			name:       "loss-making period floors at zero",
			in:         CITInput{Turnover: d("60000000"), Revenue: d("500000"), DeductibleExpenses: d("800000")},
			wantClass:  ClassLargeCompany,
			wantTax:    "0",
			wantLevy:   "0",
			wantReason: ExemptDeductionsOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateCIT(r, tt.in)
			if err != nil {
				t.Fatalf("CalculateCIT() error = %v", err)
			}
			if got.Classification != tt.wantClass {
				t.Errorf("Classification = %q, want %q", got.Classification, tt.wantClass)
			}
			if !got.Tax.Equal(d(tt.wantTax)) {
				t.Errorf("Tax = %s, want %s", got.Tax, tt.wantTax)
			}
			if !got.DevelopmentLevy.Equal(d(tt.wantLevy)) {
				t.Errorf("DevelopmentLevy = %s, want %s", got.DevelopmentLevy, tt.wantLevy)
			}
			if got.ExemptionReason != tt.wantReason {
				t.Errorf("ExemptionReason = %q, want %q", got.ExemptionReason, tt.wantReason)
			}
		})
	}
}

func TestCalculateCITNegativeInput(t *testing.T) {
	r := Regime2026()

	_, err := CalculateCIT(r, CITInput{Turnover: d("-1")})
	if !errors.Is(err, ErrComputationInconsistency) {
		t.Fatalf("error = %v, want ErrComputationInconsistency", err)
	}
}
