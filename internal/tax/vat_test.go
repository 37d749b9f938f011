package tax

import (
	"errors"
	"testing"
)

func TestCalculateVAT(t *testing.T) {
	r := Regime2026()

	tests := []struct {
		name         string
		in           VATInput
		wantPosition string
		wantPayable  string
		wantCredit   string
	}{
		{
			name:         "output exceeds input",
			in:           VATInput{TaxableSales: d("1000000"), TaxablePurchases: d("400000"), OutputVAT: d("75000"), InputVAT: d("30000")},
			wantPosition: VATPayable,
			wantPayable:  "45000",
			wantCredit:   "0",
		},
		{
			name:         "input exceeds output",
			in:           VATInput{TaxableSales: d("100000"), TaxablePurchases: d("900000"), OutputVAT: d("7500"), InputVAT: d("67500")},
			wantPosition: VATRefundable,
			wantPayable:  "0",
			wantCredit:   "60000",
		},
		{
			name:         "exactly balanced",
			in:           VATInput{TaxableSales: d("400000"), TaxablePurchases: d("400000"), OutputVAT: d("30000"), InputVAT: d("30000")},
			wantPosition: VATBalanced,
			wantPayable:  "0",
			wantCredit:   "0",
		},
		{
			name:         "no activity",
			in:           VATInput{},
			wantPosition: VATNoActivity,
			wantPayable:  "0",
			wantCredit:   "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateVAT(r, tt.in)
			if err != nil {
				t.Fatalf("CalculateVAT() error = %v", err)
			}
			if got.Position != tt.wantPosition {
				t.Errorf("Position = %q, want %q", got.Position, tt.wantPosition)
			}
			if !got.Payable.Equal(d(tt.wantPayable)) {
				t.Errorf("Payable = %s, want %s", got.Payable, tt.wantPayable)
			}
			if !got.Credit.Equal(d(tt.wantCredit)) {
				t.Errorf("Credit = %s, want %s", got.Credit, tt.wantCredit)
			}
		})
	}
}

func TestCalculateVATNegativeInput(t *testing.T) {
	r := Regime2026()

	_, err := CalculateVAT(r, VATInput{OutputVAT: d("-1")})
	if !errors.Is(err, ErrComputationInconsistency) {
		t.Fatalf("error = %v, want ErrComputationInconsistency", err)
	}
}

func TestOutputVATOn(t *testing.T) {
	r := Regime2026()

	got, err := OutputVATOn(r, d("200000"))
	if err != nil {
		t.Fatalf("OutputVATOn() error = %v", err)
	}
	if !got.Equal(d("15000")) {
		t.Errorf("OutputVATOn(200000) = %s, want 15000", got)
	}

	if _, err := OutputVATOn(r, d("-5")); !errors.Is(err, ErrComputationInconsistency) {
		t.Fatalf("error = %v, want ErrComputationInconsistency", err)
	}
}
