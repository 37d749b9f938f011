package tax

import (
	"errors"
	"testing"
	"time"
)

func TestResolveOffsets(t *testing.T) {
	deadline := time.Date(2027, time.June, 30, 23, 59, 59, 0, time.UTC)
	before := time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(2027, time.July, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		in          OffsetInput
		wantAfter   string
		wantPending string
		wantStatus  string
	}{
		{
			name: "credits and remittances clear the liability",
			in: OffsetInput{
				LiabilityBeforeCredits: d("90000"),
				Credits:                d("20000"),
				Remitted:               d("70000"),
				Deadline:               deadline,
				Now:                    before,
			},
			wantAfter:   "70000",
			wantPending: "0",
			wantStatus:  StatusCompliant,
		},
		{
			name: "partial remittance before deadline",
			in: OffsetInput{
				LiabilityBeforeCredits: d("90000"),
				Credits:                d("20000"),
				Remitted:               d("30000"),
				Deadline:               deadline,
				Now:                    before,
			},
			wantAfter:   "70000",
			wantPending: "40000",
			wantStatus:  StatusPending,
		},
		{
			name: "unpaid balance past the deadline",
			in: OffsetInput{
				LiabilityBeforeCredits: d("90000"),
				Deadline:               deadline,
				Now:                    after,
			},
			wantAfter:   "90000",
			wantPending: "90000",
			wantStatus:  StatusOverdue,
		},
		{
			name: "credits exceed the liability",
			in: OffsetInput{
				LiabilityBeforeCredits: d("50000"),
				Credits:                d("80000"),
				Deadline:               deadline,
				Now:                    after,
			},
			wantAfter:   "0",
			wantPending: "0",
			wantStatus:  StatusCompliant,
		},
		{
			name: "overpayment never goes negative",
			in: OffsetInput{
				LiabilityBeforeCredits: d("50000"),
				Remitted:               d("60000"),
				Deadline:               deadline,
				Now:                    before,
			},
			wantAfter:   "50000",
			wantPending: "0",
			wantStatus:  StatusCompliant,
		},
		{
			name: "zero liability is compliant even past deadline",
			in: OffsetInput{
				Deadline: deadline,
				Now:      after,
			},
			wantAfter:   "0",
			wantPending: "0",
			wantStatus:  StatusCompliant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveOffsets(tt.in)
			if err != nil {
				t.Fatalf("ResolveOffsets() error = %v", err)
			}
			if !got.LiabilityAfterCredits.Equal(d(tt.wantAfter)) {
				t.Errorf("LiabilityAfterCredits = %s, want %s", got.LiabilityAfterCredits, tt.wantAfter)
			}
			if !got.Pending.Equal(d(tt.wantPending)) {
				t.Errorf("Pending = %s, want %s", got.Pending, tt.wantPending)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
		})
	}
}

func TestResolveOffsetsNegativeInputs(t *testing.T) {
	for _, in := range []OffsetInput{
		{LiabilityBeforeCredits: d("-1")},
		{Credits: d("-1")},
		{Remitted: d("-1")},
	} {
		if _, err := ResolveOffsets(in); !errors.Is(err, ErrComputationInconsistency) {
			t.Errorf("ResolveOffsets(%+v) error = %v, want ErrComputationInconsistency", in, err)
		}
	}
}

func TestCreditTaxType(t *testing.T) {
	if got := CreditTaxType("company"); got != TypeCIT {
		t.Errorf("CreditTaxType(company) = %q, want CIT", got)
	}
	if got := CreditTaxType("individual"); got != TypePIT {
		t.Errorf("CreditTaxType(individual) = %q, want PIT", got)
	}
	if got := CreditTaxType("business"); got != TypePIT {
		t.Errorf("CreditTaxType(business) = %q, want PIT", got)
	}
}
