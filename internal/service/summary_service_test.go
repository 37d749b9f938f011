package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/tax"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- In-memory fakes ---

type fakeEntityRepo struct {
	entities map[uuid.UUID]*model.Entity
}

func (f *fakeEntityRepo) Create(_ context.Context, e *model.Entity) error { return nil }
func (f *fakeEntityRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Entity, error) {
	e, ok := f.entities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}
func (f *fakeEntityRepo) ListByOwner(_ context.Context, _ uuid.UUID, _, _ int) ([]model.Entity, int64, error) {
	return nil, 0, nil
}
func (f *fakeEntityRepo) Update(_ context.Context, _ *model.Entity) error { return nil }
func (f *fakeEntityRepo) Delete(_ context.Context, _ uuid.UUID) error     { return nil }

type fakeIncomeRepo struct {
	totals repository.IncomeTotals
}

func (f *fakeIncomeRepo) Upsert(_ context.Context, _ *model.IncomeRecord) error { return nil }
func (f *fakeIncomeRepo) FindByID(_ context.Context, _ uuid.UUID) (*model.IncomeRecord, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeIncomeRepo) FindByPeriod(_ context.Context, _ uuid.UUID, _, _ int) (*model.IncomeRecord, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeIncomeRepo) ListByEntity(_ context.Context, _ uuid.UUID, _ int) ([]model.IncomeRecord, error) {
	return nil, nil
}
func (f *fakeIncomeRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeIncomeRepo) SumForPeriod(_ context.Context, _ uuid.UUID, _, _ int) (repository.IncomeTotals, error) {
	return f.totals, nil
}

type fakeExpenseRepo struct {
	totals   repository.ExpenseTotals
	whtLines []repository.CategoryGross
}

func (f *fakeExpenseRepo) Create(_ context.Context, _ *model.Expense) error { return nil }
func (f *fakeExpenseRepo) FindByID(_ context.Context, _ uuid.UUID) (*model.Expense, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeExpenseRepo) ListByEntity(_ context.Context, _ uuid.UUID, _, _ int) ([]model.Expense, int64, error) {
	return nil, 0, nil
}
func (f *fakeExpenseRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeExpenseRepo) SumForWindow(_ context.Context, _ uuid.UUID, _, _ time.Time) (repository.ExpenseTotals, error) {
	return f.totals, nil
}
func (f *fakeExpenseRepo) WHTGrossByCategory(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]repository.CategoryGross, error) {
	return f.whtLines, nil
}

type fakeInvoiceRepo struct {
	totals   repository.RevenueTotals
	whtLines []repository.CategoryGross
}

func (f *fakeInvoiceRepo) Create(_ context.Context, _ *model.Invoice) error { return nil }
func (f *fakeInvoiceRepo) FindByID(_ context.Context, _ uuid.UUID) (*model.Invoice, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeInvoiceRepo) ListByEntity(_ context.Context, _ uuid.UUID, _, _ int) ([]model.Invoice, int64, error) {
	return nil, 0, nil
}
func (f *fakeInvoiceRepo) UpdateStatus(_ context.Context, _ *model.Invoice) error { return nil }
func (f *fakeInvoiceRepo) CountForYear(_ context.Context, _ int) (int64, error)   { return 0, nil }
func (f *fakeInvoiceRepo) SumRevenueForWindow(_ context.Context, _ uuid.UUID, _, _ time.Time) (repository.RevenueTotals, error) {
	return f.totals, nil
}
func (f *fakeInvoiceRepo) WHTGrossByCategory(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]repository.CategoryGross, error) {
	return f.whtLines, nil
}

type fakeRemittanceRepo struct {
	total decimal.Decimal
}

func (f *fakeRemittanceRepo) Create(_ context.Context, _ *model.Remittance) error { return nil }
func (f *fakeRemittanceRepo) ListByEntity(_ context.Context, _ uuid.UUID, _ string, _, _ int) ([]model.Remittance, int64, error) {
	return nil, 0, nil
}
func (f *fakeRemittanceRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (f *fakeRemittanceRepo) SumForPeriod(_ context.Context, _ uuid.UUID, _ string, _, _ int) (decimal.Decimal, error) {
	return f.total, nil
}

type fakePayrollRepo struct {
	total decimal.Decimal
	count int64
}

func (f *fakePayrollRepo) Create(_ context.Context, _ *model.PayrollRun) error { return nil }
func (f *fakePayrollRepo) FindByID(_ context.Context, _ uuid.UUID) (*model.PayrollRun, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakePayrollRepo) FindByPeriod(_ context.Context, _ uuid.UUID, _, _ int) (*model.PayrollRun, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakePayrollRepo) ListByEntity(_ context.Context, _ uuid.UUID, _ int) ([]model.PayrollRun, error) {
	return nil, nil
}
func (f *fakePayrollRepo) UpdateStatus(_ context.Context, _ *model.PayrollRun) error { return nil }
func (f *fakePayrollRepo) PAYETotalForPeriod(_ context.Context, _ uuid.UUID, _, _ int) (decimal.Decimal, int64, error) {
	return f.total, f.count, nil
}

type fakeSummaryRepo struct {
	rows    map[string]*model.TaxSummary
	upserts int
}

func summaryKey(entityID uuid.UUID, taxType string, year, month int) string {
	return fmt.Sprintf("%s/%s/%d/%d", entityID, taxType, year, month)
}

func (f *fakeSummaryRepo) GetByKey(_ context.Context, entityID uuid.UUID, taxType string, year, month int) (*model.TaxSummary, error) {
	row, ok := f.rows[summaryKey(entityID, taxType, year, month)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeSummaryRepo) Upsert(_ context.Context, summary *model.TaxSummary) error {
	if f.rows == nil {
		f.rows = make(map[string]*model.TaxSummary)
	}
	copied := *summary
	f.rows[summaryKey(summary.EntityID, summary.TaxType, summary.Year, summary.Month)] = &copied
	f.upserts++
	return nil
}

func (f *fakeSummaryRepo) MarkStale(_ context.Context, entityID uuid.UUID, taxTypes []string, year, month int) error {
	for _, taxType := range taxTypes {
		if row, ok := f.rows[summaryKey(entityID, taxType, year, month)]; ok {
			row.Stale = true
		}
		if row, ok := f.rows[summaryKey(entityID, taxType, year, 0)]; ok {
			row.Stale = true
		}
	}
	return nil
}

func (f *fakeSummaryRepo) ListForEntityYear(_ context.Context, entityID uuid.UUID, year int) ([]model.TaxSummary, error) {
	var result []model.TaxSummary
	for _, row := range f.rows {
		if row.EntityID == entityID && row.Year == year {
			result = append(result, *row)
		}
	}
	return result, nil
}

type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}
func (f *fakeAuditRepo) List(_ context.Context, _, _ int) ([]model.AuditLog, int64, error) {
	return nil, 0, nil
}

// --- Fixture ---

type summaryFixture struct {
	entityID  uuid.UUID
	entities  *fakeEntityRepo
	income    *fakeIncomeRepo
	expenses  *fakeExpenseRepo
	invoices  *fakeInvoiceRepo
	remits    *fakeRemittanceRepo
	payroll   *fakePayrollRepo
	summaries *fakeSummaryRepo
	audits    *fakeAuditRepo
	svc       *summaryService
}

func newSummaryFixture(t *testing.T, entityType, turnover string) *summaryFixture {
	t.Helper()

	entityID := uuid.New()
	f := &summaryFixture{
		entityID: entityID,
		entities: &fakeEntityRepo{entities: map[uuid.UUID]*model.Entity{
			entityID: {
				ID:             entityID,
				EntityType:     entityType,
				Name:           "Test Entity",
				AnnualTurnover: decimal.RequireFromString(turnover),
			},
		}},
		income:    &fakeIncomeRepo{},
		expenses:  &fakeExpenseRepo{},
		invoices:  &fakeInvoiceRepo{},
		remits:    &fakeRemittanceRepo{total: decimal.Zero},
		payroll:   &fakePayrollRepo{total: decimal.Zero},
		summaries: &fakeSummaryRepo{rows: make(map[string]*model.TaxSummary)},
		audits:    &fakeAuditRepo{},
	}

	f.svc = &summaryService{
		regimes:        tax.DefaultRegimes(),
		entityRepo:     f.entities,
		incomeRepo:     f.income,
		expenseRepo:    f.expenses,
		invoiceRepo:    f.invoices,
		remittanceRepo: f.remits,
		payrollRepo:    f.payroll,
		summaryRepo:    f.summaries,
		auditRepo:      f.audits,
		now: func() time.Time {
			return time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC)
		},
	}
	return f
}

// --- Tests ---

func TestGetSummaryCITLargeCompany(t *testing.T) {
	f := newSummaryFixture(t, model.EntityTypeCompany, "60000000")
	f.invoices.totals = repository.RevenueTotals{
		Revenue:      decimal.RequireFromString("1000000"),
		TaxableSales: decimal.RequireFromString("1000000"),
		OutputVAT:    decimal.RequireFromString("75000"),
		Count:        3,
	}
	f.invoices.whtLines = []repository.CategoryGross{
		{Category: tax.WHTProfessionalServices, Gross: decimal.RequireFromString("200000")},
	}
	f.expenses.totals = repository.ExpenseTotals{
		Deductible: decimal.RequireFromString("700000"),
		Count:      5,
	}
	f.remits.total = decimal.RequireFromString("70000")

	got, err := f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypeCIT, 2026, 0)
	require.NoError(t, err)

	assert.Equal(t, tax.ClassLargeCompany, got.Classification)
	assert.Equal(t, "300000.00", got.TaxableAmount)
	assert.Equal(t, "90000.00", got.LiabilityBeforeCredits)
	assert.Equal(t, "12000.00", got.DevelopmentLevy)
	assert.Equal(t, "20000.00", got.WHTCredits)
	assert.Equal(t, "70000.00", got.LiabilityAfterCredits)
	assert.Equal(t, "70000.00", got.Remitted)
	assert.Equal(t, "0.00", got.Pending)
	assert.Equal(t, tax.StatusCompliant, got.Status)
	assert.Equal(t, 1, f.summaries.upserts)
}

func TestGetSummaryCITSmallCompany(t *testing.T) {
	f := newSummaryFixture(t, model.EntityTypeCompany, "40000000")
	f.invoices.totals = repository.RevenueTotals{
		Revenue:      decimal.RequireFromString("40000000"),
		TaxableSales: decimal.RequireFromString("40000000"),
		Count:        10,
	}
	f.expenses.totals = repository.ExpenseTotals{
		Deductible: decimal.RequireFromString("10000000"),
		Count:      4,
	}

	got, err := f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypeCIT, 2026, 0)
	require.NoError(t, err)

	assert.Equal(t, tax.ClassSmallCompany, got.Classification)
	assert.Equal(t, "0.00", got.LiabilityBeforeCredits)
	assert.Equal(t, "0.00", got.DevelopmentLevy)
	assert.Equal(t, "0.00", got.Pending)
	assert.Equal(t, tax.StatusCompliant, got.Status)
}

func TestGetSummaryPITOverdue(t *testing.T) {
	f := newSummaryFixture(t, model.EntityTypeIndividual, "0")
	f.income.totals = repository.IncomeTotals{
		Gross: decimal.RequireFromString("5000000"),
		Count: 12,
	}
	// Past the 31 March 2027 PIT deadline with nothing remitted
	f.svc.now = func() time.Time {
		return time.Date(2027, time.April, 15, 0, 0, 0, 0, time.UTC)
	}

	got, err := f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypePIT, 2026, 0)
	require.NoError(t, err)

	assert.Equal(t, "690000.00", got.LiabilityBeforeCredits)
	assert.Equal(t, "690000.00", got.Pending)
	assert.Equal(t, tax.StatusOverdue, got.Status)
}

func TestGetSummaryPITWithCredits(t *testing.T) {
	f := newSummaryFixture(t, model.EntityTypeBusiness, "0")
	f.income.totals = repository.IncomeTotals{
		Gross: decimal.RequireFromString("5000000"),
		Count: 12,
	}
	// Customers withheld 10% on professional fees billed by the business
	f.invoices.whtLines = []repository.CategoryGross{
		{Category: tax.WHTProfessionalServices, Gross: decimal.RequireFromString("1000000")},
	}

	got, err := f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypePIT, 2026, 0)
	require.NoError(t, err)

	assert.Equal(t, "100000.00", got.WHTCredits)
	assert.Equal(t, "590000.00", got.LiabilityAfterCredits)
	assert.Equal(t, tax.StatusPending, got.Status)
}

func TestGetSummaryVATPayable(t *testing.T) {
	f := newSummaryFixture(t, model.EntityTypeCompany, "60000000")
	f.invoices.totals = repository.RevenueTotals{
		Revenue:      decimal.RequireFromString("1000000"),
		TaxableSales: decimal.RequireFromString("1000000"),
		OutputVAT:    decimal.RequireFromString("75000"),
		Count:        3,
	}
	f.expenses.totals = repository.ExpenseTotals{
		Deductible: decimal.RequireFromString("400000"),
		InputVAT:   decimal.RequireFromString("30000"),
		Count:      2,
	}

	got, err := f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypeVAT, 2026, 3)
	require.NoError(t, err)

	assert.Equal(t, "75000.00", got.OutputVAT)
	assert.Equal(t, "30000.00", got.InputVAT)
	assert.Equal(t, "45000.00", got.LiabilityBeforeCredits)
	assert.Equal(t, "2026-03", got.Period)
	assert.Equal(t, tax.VATPayable, got.Classification)
}

func TestGetSummaryWHTFromExpenses(t *testing.T) {
	f := newSummaryFixture(t, model.EntityTypeCompany, "60000000")
	f.expenses.whtLines = []repository.CategoryGross{
		{Category: tax.WHTRent, Gross: decimal.RequireFromString("100000")},
		{Category: tax.WHTContractSupply, Gross: decimal.RequireFromString("200000")},
	}

	got, err := f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypeWHT, 2026, 3)
	require.NoError(t, err)

	assert.Equal(t, "20000.00", got.LiabilityBeforeCredits)
	assert.Equal(t, "2026-04-21", got.Deadline[:10])
	assert.Equal(t, tax.StatusOverdue, got.Status)
}

func TestGetSummaryPAYEFromFinalizedPayroll(t *testing.T) {
	f := newSummaryFixture(t, model.EntityTypeCompany, "60000000")
	f.payroll.total = decimal.RequireFromString("27500")
	f.payroll.count = 1

	got, err := f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypePAYE, 2026, 3)
	require.NoError(t, err)

	assert.Equal(t, "27500.00", got.LiabilityBeforeCredits)
	assert.Equal(t, tax.StatusOverdue, got.Status)
}

func TestGetSummaryNoData(t *testing.T) {
	f := newSummaryFixture(t, model.EntityTypeIndividual, "0")

	got, err := f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypePIT, 2026, 0)
	require.NoError(t, err)

	assert.Equal(t, tax.StatusNoData, got.Status)
	assert.Equal(t, "0.00", got.Pending)
}

func TestGetSummaryUsesCacheWhenFresh(t *testing.T) {
	f := newSummaryFixture(t, model.EntityTypeIndividual, "0")
	f.income.totals = repository.IncomeTotals{Gross: decimal.RequireFromString("5000000"), Count: 1}

	_, err := f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypePIT, 2026, 0)
	require.NoError(t, err)
	require.Equal(t, 1, f.summaries.upserts)

	// Second read hits the cache, no recompute
	_, err = f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypePIT, 2026, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, f.summaries.upserts)
}

func TestGetSummaryRecomputesWhenStale(t *testing.T) {
	f := newSummaryFixture(t, model.EntityTypeIndividual, "0")
	f.income.totals = repository.IncomeTotals{Gross: decimal.RequireFromString("5000000"), Count: 1}

	first, err := f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypePIT, 2026, 0)
	require.NoError(t, err)
	require.Equal(t, "690000.00", first.LiabilityBeforeCredits)

	// Underlying income changed; record invalidation flags the row
	f.income.totals = repository.IncomeTotals{Gross: decimal.RequireFromString("1000000"), Count: 1}
	require.NoError(t, f.summaries.MarkStale(context.Background(), f.entityID, []string{tax.TypePIT}, 2026, 0))

	second, err := f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypePIT, 2026, 0)
	require.NoError(t, err)
	assert.Equal(t, "30000.00", second.LiabilityBeforeCredits)
	assert.Equal(t, 2, f.summaries.upserts)
}

func TestRecalculateAlwaysRecomputesAndAudits(t *testing.T) {
	f := newSummaryFixture(t, model.EntityTypeIndividual, "0")
	f.income.totals = repository.IncomeTotals{Gross: decimal.RequireFromString("5000000"), Count: 1}

	_, err := f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypePIT, 2026, 0)
	require.NoError(t, err)

	userID := uuid.New().String()
	_, err = f.svc.Recalculate(context.Background(), userID, f.entityID.String(), tax.TypePIT, 2026, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, f.summaries.upserts)
	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, model.ActionRecalcSummary, f.audits.entries[0].Action)
}

func TestGetSummaryValidation(t *testing.T) {
	f := newSummaryFixture(t, model.EntityTypeIndividual, "0")

	_, err := f.svc.GetSummary(context.Background(), "not-a-uuid", tax.TypePIT, 2026, 0)
	assert.Error(t, err)

	_, err = f.svc.GetSummary(context.Background(), f.entityID.String(), "STAMP_DUTY", 2026, 0)
	assert.Error(t, err)

	_, err = f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypePIT, 2025, 0)
	assert.ErrorIs(t, err, tax.ErrInvalidPeriod)

	_, err = f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypePIT, 2026, 13)
	assert.ErrorIs(t, err, tax.ErrInvalidPeriod)

	_, err = f.svc.GetSummary(context.Background(), uuid.New().String(), tax.TypePIT, 2026, 0)
	assert.ErrorIs(t, err, tax.ErrEntityNotFound)
}

func TestGetYearOverview(t *testing.T) {
	f := newSummaryFixture(t, model.EntityTypeCompany, "60000000")
	f.invoices.totals = repository.RevenueTotals{
		Revenue:      decimal.RequireFromString("1000000"),
		TaxableSales: decimal.RequireFromString("1000000"),
		OutputVAT:    decimal.RequireFromString("75000"),
		Count:        1,
	}

	_, err := f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypeCIT, 2026, 0)
	require.NoError(t, err)
	_, err = f.svc.GetSummary(context.Background(), f.entityID.String(), tax.TypeVAT, 2026, 3)
	require.NoError(t, err)

	overview, err := f.svc.GetYearOverview(context.Background(), f.entityID.String(), 2026)
	require.NoError(t, err)
	assert.Len(t, overview, 2)
}
