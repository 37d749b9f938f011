package tax

import (
	"errors"
	"testing"
)

func TestCalculateWHT(t *testing.T) {
	r := Regime2026()

	res, err := CalculateWHT(r, []WHTLine{
		{Category: WHTRent, Gross: d("100000")},
		{Category: WHTContractSupply, Gross: d("200000")},
		{Category: WHTDirectorsFees, Gross: d("50000")},
	})
	if err != nil {
		t.Fatalf("CalculateWHT() error = %v", err)
	}

	if len(res.Deductions) != 3 {
		t.Fatalf("len(Deductions) = %d, want 3", len(res.Deductions))
	}

	wantDeducted := []string{"10000", "10000", "7500"}
	wantNet := []string{"90000", "190000", "42500"}
	for i, ded := range res.Deductions {
		if !ded.Deducted.Equal(d(wantDeducted[i])) {
			t.Errorf("Deductions[%d].Deducted = %s, want %s", i, ded.Deducted, wantDeducted[i])
		}
		if !ded.NetPayment.Equal(d(wantNet[i])) {
			t.Errorf("Deductions[%d].NetPayment = %s, want %s", i, ded.NetPayment, wantNet[i])
		}
		if !ded.Gross.Equal(ded.Deducted.Add(ded.NetPayment)) {
			t.Errorf("Deductions[%d]: deducted + net != gross", i)
		}
	}

	if !res.TotalWithheld.Equal(d("27500")) {
		t.Errorf("TotalWithheld = %s, want 27500", res.TotalWithheld)
	}
}

func TestCalculateWHTEmpty(t *testing.T) {
	r := Regime2026()

	res, err := CalculateWHT(r, nil)
	if err != nil {
		t.Fatalf("CalculateWHT() error = %v", err)
	}
	if !res.TotalWithheld.IsZero() {
		t.Errorf("TotalWithheld = %s, want 0", res.TotalWithheld)
	}
}

func TestCalculateWHTUnknownCategory(t *testing.T) {
	r := Regime2026()

	_, err := CalculateWHT(r, []WHTLine{{Category: "royalties", Gross: d("1000")}})
	if !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("error = %v, want ErrInvalidRate", err)
	}
}

func TestCalculateWHTNegativeGross(t *testing.T) {
	r := Regime2026()

	_, err := CalculateWHT(r, []WHTLine{{Category: WHTRent, Gross: d("-1")}})
	if !errors.Is(err, ErrComputationInconsistency) {
		t.Fatalf("error = %v, want ErrComputationInconsistency", err)
	}
}
