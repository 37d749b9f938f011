package tax

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewRegimesRejectsBadTables(t *testing.T) {
	tests := []struct {
		name   string
		regime *Regime
	}{
		{
			name:   "no PIT bands",
			regime: &Regime{Year: 2026},
		},
		{
			name: "rate above one",
			regime: &Regime{
				Year:     2026,
				PITBands: []Band{{Width: decimal.Zero, Rate: d("1.5")}},
			},
		},
		{
			name: "negative rate",
			regime: &Regime{
				Year:     2026,
				PITBands: []Band{{Width: decimal.Zero, Rate: d("-0.1")}},
			},
		},
		{
			name: "open-ended band before the top",
			regime: &Regime{
				Year: 2026,
				PITBands: []Band{
					{Width: decimal.Zero, Rate: d("0.1")},
					{Width: d("1000"), Rate: d("0.2")},
				},
			},
		},
		{
			name: "bad WHT rate",
			regime: &Regime{
				Year:     2026,
				PITBands: []Band{{Width: decimal.Zero, Rate: d("0.25")}},
				WHTRates: map[string]decimal.Decimal{WHTRent: d("2")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegimes(tt.regime); !errors.Is(err, ErrInvalidRate) {
				t.Fatalf("NewRegimes() error = %v, want ErrInvalidRate", err)
			}
		})
	}
}

func TestRegimesForYear(t *testing.T) {
	rs := DefaultRegimes()

	r, err := rs.ForYear(2026)
	if err != nil {
		t.Fatalf("ForYear(2026) error = %v", err)
	}
	if r.Year != 2026 {
		t.Errorf("Year = %d, want 2026", r.Year)
	}

	if _, err := rs.ForYear(2031); !errors.Is(err, ErrUnsupportedTaxYear) {
		t.Fatalf("ForYear(2031) error = %v, want ErrUnsupportedTaxYear", err)
	}
}

func TestRegime2026Rates(t *testing.T) {
	r := Regime2026()

	if !r.VATRate.Equal(d("0.075")) {
		t.Errorf("VATRate = %s, want 0.075", r.VATRate)
	}
	if !r.LargeCompanyRate.Equal(d("0.30")) {
		t.Errorf("LargeCompanyRate = %s, want 0.30", r.LargeCompanyRate)
	}
	if !r.SmallCompanyRate.IsZero() {
		t.Errorf("SmallCompanyRate = %s, want 0", r.SmallCompanyRate)
	}
	if !r.SmallCompanyTurnoverCap.Equal(d("50000000")) {
		t.Errorf("SmallCompanyTurnoverCap = %s, want 50000000", r.SmallCompanyTurnoverCap)
	}
	if len(r.PITBands) != 6 {
		t.Errorf("len(PITBands) = %d, want 6", len(r.PITBands))
	}
	if len(r.WHTRates) != 8 {
		t.Errorf("len(WHTRates) = %d, want 8", len(r.WHTRates))
	}
}
