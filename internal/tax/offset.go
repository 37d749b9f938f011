package tax

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Compliance statuses relative to the statutory deadline.
const (
	StatusCompliant = "compliant"
	StatusPending   = "pending"
	StatusOverdue   = "overdue"
	StatusNoData    = "no_data"
)

// OffsetInput combines a calculator's pre-credit liability with the credits
// and remittances already standing against it.
type OffsetInput struct {
	LiabilityBeforeCredits decimal.Decimal
	Credits                decimal.Decimal
	Remitted               decimal.Decimal
	Deadline               time.Time
	Now                    time.Time
}

// OffsetResult is the netted position: liability after credits, the balance
// still owed, and the compliance status. Both derived figures clamp at zero.
type OffsetResult struct {
	LiabilityAfterCredits decimal.Decimal
	Remitted              decimal.Decimal
	Pending               decimal.Decimal
	Status                string
}

// ResolveOffsets nets credits and remittances against the liability:
// after = max(before − credits, 0), pending = max(after − remitted, 0).
// Status is compliant when nothing is pending, overdue when a pending
// balance has passed the deadline, otherwise pending.
func ResolveOffsets(in OffsetInput) (OffsetResult, error) {
	if in.LiabilityBeforeCredits.IsNegative() {
		return OffsetResult{}, fmt.Errorf("%w: negative liability before credits", ErrComputationInconsistency)
	}
	if in.Credits.IsNegative() || in.Remitted.IsNegative() {
		return OffsetResult{}, fmt.Errorf("%w: negative credit or remittance total", ErrComputationInconsistency)
	}

	after := in.LiabilityBeforeCredits.Sub(in.Credits)
	if after.IsNegative() {
		after = decimal.Zero
	}

	pending := after.Sub(in.Remitted)
	if pending.IsNegative() {
		pending = decimal.Zero
	}

	res := OffsetResult{
		LiabilityAfterCredits: after,
		Remitted:              in.Remitted,
		Pending:               pending,
	}

	switch {
	case pending.IsZero():
		res.Status = StatusCompliant
	case in.Now.After(in.Deadline):
		res.Status = StatusOverdue
	default:
		res.Status = StatusPending
	}

	return res, nil
}

// CreditTaxType decides which income-tax instrument an entity's WHT credits
// offset: CIT for registered companies, PIT for individuals and
// sole-proprietor businesses.
func CreditTaxType(entityType string) string {
	if entityType == "company" {
		return TypeCIT
	}
	return TypePIT
}
