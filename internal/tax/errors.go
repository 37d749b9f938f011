package tax

import "errors"

// Sentinel errors for the computation core. Callers match with errors.Is;
// the HTTP layer maps them onto status codes.
var (
	// ErrInvalidPeriod covers a tax year before the statutory floor (2026)
	// or a month outside 1-12.
	ErrInvalidPeriod = errors.New("invalid tax period")

	// ErrUnsupportedTaxYear means no rate regime exists for the requested year.
	ErrUnsupportedTaxYear = errors.New("unsupported tax year")

	// ErrInvalidRate means a rate resolved to a negative or out-of-range value.
	// This is always a defect in the regime tables, never valid input, so the
	// computation aborts instead of substituting zero.
	ErrInvalidRate = errors.New("invalid tax rate")

	// ErrEntityNotFound means the taxed party does not exist for aggregation.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrComputationInconsistency means otherwise-valid inputs produced an
	// impossible figure (negative liability, negative net amount). Indicates
	// corrupted source data upstream; the computation aborts.
	ErrComputationInconsistency = errors.New("computation inconsistency")
)
