package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/tax"
	"backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type SummaryResponse struct {
	EntityID string `json:"entity_id"`
	TaxType  string `json:"tax_type"`
	Year     int    `json:"year"`
	Month    int    `json:"month,omitempty"`
	Period   string `json:"period"`

	GrossIncome        string `json:"gross_income"`
	DeductibleExpenses string `json:"deductible_expenses"`
	OutputVAT          string `json:"output_vat,omitempty"`
	InputVAT           string `json:"input_vat,omitempty"`

	TaxableAmount          string `json:"taxable_amount"`
	RateApplied            string `json:"rate_applied"`
	DevelopmentLevy        string `json:"development_levy,omitempty"`
	LiabilityBeforeCredits string `json:"liability_before_credits"`
	WHTCredits             string `json:"wht_credits"`
	LiabilityAfterCredits  string `json:"liability_after_credits"`
	Remitted               string `json:"remitted"`
	Pending                string `json:"pending"`
	VATCredit              string `json:"vat_credit,omitempty"`

	Classification  string `json:"classification,omitempty"`
	ExemptionReason string `json:"exemption_reason,omitempty"`
	Status          string `json:"status"`
	Deadline        string `json:"deadline"`
	ComputedAt      string `json:"computed_at"`
}

// --- Interface ---

type SummaryService interface {
	// GetSummary returns the cached summary, computing it first when absent
	// or stale. A valid entity+period never yields "not found".
	GetSummary(ctx context.Context, entityID, taxType string, year, month int) (SummaryResponse, error)
	// Recalculate always re-runs aggregation, calculation, and offsetting,
	// overwriting the cache.
	Recalculate(ctx context.Context, userID, entityID, taxType string, year, month int) (SummaryResponse, error)
	// GetYearOverview returns every cached summary for an entity's year.
	GetYearOverview(ctx context.Context, entityID string, year int) ([]SummaryResponse, error)
}

type summaryService struct {
	regimes        *tax.Regimes
	entityRepo     repository.EntityRepository
	incomeRepo     repository.IncomeRepository
	expenseRepo    repository.ExpenseRepository
	invoiceRepo    repository.InvoiceRepository
	remittanceRepo repository.RemittanceRepository
	payrollRepo    repository.PayrollRepository
	summaryRepo    repository.SummaryRepository
	auditRepo      repository.AuditRepository
	hub            *websocket.Hub
	now            func() time.Time
}

func NewSummaryService(
	regimes *tax.Regimes,
	entityRepo repository.EntityRepository,
	incomeRepo repository.IncomeRepository,
	expenseRepo repository.ExpenseRepository,
	invoiceRepo repository.InvoiceRepository,
	remittanceRepo repository.RemittanceRepository,
	payrollRepo repository.PayrollRepository,
	summaryRepo repository.SummaryRepository,
	auditRepo repository.AuditRepository,
	hub *websocket.Hub,
) SummaryService {
	return &summaryService{
		regimes:        regimes,
		entityRepo:     entityRepo,
		incomeRepo:     incomeRepo,
		expenseRepo:    expenseRepo,
		invoiceRepo:    invoiceRepo,
		remittanceRepo: remittanceRepo,
		payrollRepo:    payrollRepo,
		summaryRepo:    summaryRepo,
		auditRepo:      auditRepo,
		hub:            hub,
		now:            time.Now,
	}
}

// --- Implementation ---

func (s *summaryService) GetSummary(ctx context.Context, entityID, taxType string, year, month int) (SummaryResponse, error) {
	eid, period, err := s.validateKey(entityID, taxType, year, month)
	if err != nil {
		return SummaryResponse{}, err
	}

	cached, err := s.summaryRepo.GetByKey(ctx, eid, taxType, period.Year, period.Month)
	if err == nil && !cached.Stale {
		return toSummaryResponse(cached), nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return SummaryResponse{}, fmt.Errorf("failed to fetch summary: %w", err)
	}

	// Absent or stale: create-on-read.
	summary, err := s.compute(ctx, eid, taxType, period)
	if err != nil {
		return SummaryResponse{}, err
	}
	return toSummaryResponse(summary), nil
}

func (s *summaryService) Recalculate(ctx context.Context, userID, entityID, taxType string, year, month int) (SummaryResponse, error) {
	eid, period, err := s.validateKey(entityID, taxType, year, month)
	if err != nil {
		return SummaryResponse{}, err
	}

	summary, err := s.compute(ctx, eid, taxType, period)
	if err != nil {
		return SummaryResponse{}, err
	}

	s.writeAuditLog(ctx, userID, eid, taxType, period)
	return toSummaryResponse(summary), nil
}

func (s *summaryService) GetYearOverview(ctx context.Context, entityID string, year int) ([]SummaryResponse, error) {
	eid, err := uuid.Parse(entityID)
	if err != nil {
		return nil, fmt.Errorf("invalid entity id: %w", err)
	}
	if _, err := tax.NewPeriod(year, 0); err != nil {
		return nil, err
	}

	summaries, err := s.summaryRepo.ListForEntityYear(ctx, eid, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}

	result := make([]SummaryResponse, 0, len(summaries))
	for i := range summaries {
		result = append(result, toSummaryResponse(&summaries[i]))
	}
	return result, nil
}

func (s *summaryService) validateKey(entityID, taxType string, year, month int) (uuid.UUID, tax.Period, error) {
	eid, err := uuid.Parse(entityID)
	if err != nil {
		return uuid.Nil, tax.Period{}, fmt.Errorf("invalid entity id: %w", err)
	}

	switch taxType {
	case tax.TypePIT, tax.TypeCIT, tax.TypeVAT, tax.TypeWHT, tax.TypePAYE:
	default:
		return uuid.Nil, tax.Period{}, fmt.Errorf("unknown tax type %q", taxType)
	}

	period, err := tax.NewPeriod(year, month)
	if err != nil {
		return uuid.Nil, tax.Period{}, err
	}
	return eid, period, nil
}

// compute runs the full pipeline — fresh aggregation, calculation,
// offsetting — and overwrites the cached summary. It always reads a fresh
// snapshot of the source records; aggregator inputs are never cached across
// calls.
func (s *summaryService) compute(ctx context.Context, entityID uuid.UUID, taxType string, period tax.Period) (*model.TaxSummary, error) {
	entity, err := s.entityRepo.FindByID(ctx, entityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", tax.ErrEntityNotFound, entityID)
		}
		return nil, fmt.Errorf("failed to fetch entity: %w", err)
	}

	regime, err := s.regimes.ForYear(period.Year)
	if err != nil {
		return nil, err
	}

	summary := &model.TaxSummary{
		EntityID: entityID,
		TaxType:  taxType,
		Year:     period.Year,
		Month:    period.Month,
		Deadline: period.Deadline(taxType),
	}

	switch taxType {
	case tax.TypePIT:
		err = s.computePIT(ctx, regime, entity, period, summary)
	case tax.TypeCIT:
		err = s.computeCIT(ctx, regime, entity, period, summary)
	case tax.TypeVAT:
		err = s.computeVAT(ctx, regime, entity, period, summary)
	case tax.TypeWHT:
		err = s.computeWHT(ctx, regime, entity, period, summary)
	case tax.TypePAYE:
		err = s.computePAYE(ctx, regime, entity, period, summary)
	}
	if err != nil {
		return nil, err
	}

	summary.Stale = false
	summary.ComputedAt = s.now().UTC()

	if err := s.summaryRepo.Upsert(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to upsert summary: %w", err)
	}

	s.broadcast(summary)
	return summary, nil
}

func (s *summaryService) computePIT(ctx context.Context, regime *tax.Regime, entity *model.Entity, period tax.Period, summary *model.TaxSummary) error {
	income, err := s.incomeRepo.SumForPeriod(ctx, entity.ID, period.Year, period.Month)
	if err != nil {
		return err
	}

	res, err := tax.CalculatePIT(regime, tax.PITInput{
		GrossIncome: income.Gross,
		Pension:     income.Pension,
		NHF:         income.NHF,
		NHIS:        income.NHIS,
	})
	if err != nil {
		return err
	}

	summary.GrossIncome = res.GrossIncome
	summary.DeductibleExpenses = res.TotalDeductions
	summary.TaxableAmount = res.TaxableIncome
	summary.ExemptionReason = res.ExemptionReason
	summary.LiabilityBeforeCredits = res.Tax

	credits := decimal.Zero
	if tax.CreditTaxType(entity.EntityType) == tax.TypePIT {
		credits, err = s.whtCredits(ctx, regime, entity.ID, period)
		if err != nil {
			return err
		}
	}
	summary.WHTCredits = credits

	noData := income.Count == 0
	return s.applyOffsets(ctx, entity.ID, period, summary, credits, noData)
}

func (s *summaryService) computeCIT(ctx context.Context, regime *tax.Regime, entity *model.Entity, period tax.Period, summary *model.TaxSummary) error {
	start, end := period.Window()
	revenue, err := s.invoiceRepo.SumRevenueForWindow(ctx, entity.ID, start, end)
	if err != nil {
		return err
	}
	expenses, err := s.expenseRepo.SumForWindow(ctx, entity.ID, start, end)
	if err != nil {
		return err
	}

	// Classification uses the declared annual turnover when present,
	// otherwise the aggregated revenue for the window.
	turnover := entity.AnnualTurnover
	if turnover.IsZero() {
		turnover = revenue.Revenue
	}

	res, err := tax.CalculateCIT(regime, tax.CITInput{
		Turnover:           turnover,
		Revenue:            revenue.Revenue,
		DeductibleExpenses: expenses.Deductible,
	})
	if err != nil {
		return err
	}

	summary.GrossIncome = revenue.Revenue
	summary.DeductibleExpenses = expenses.Deductible
	summary.TaxableAmount = res.TaxableProfit
	summary.RateApplied = res.Rate
	summary.DevelopmentLevy = res.DevelopmentLevy
	summary.Classification = res.Classification
	summary.ExemptionReason = res.ExemptionReason
	summary.LiabilityBeforeCredits = res.Tax

	credits := decimal.Zero
	if tax.CreditTaxType(entity.EntityType) == tax.TypeCIT {
		credits, err = s.whtCredits(ctx, regime, entity.ID, period)
		if err != nil {
			return err
		}
	}
	summary.WHTCredits = credits

	noData := revenue.Count == 0 && expenses.Count == 0
	return s.applyOffsets(ctx, entity.ID, period, summary, credits, noData)
}

func (s *summaryService) computeVAT(ctx context.Context, regime *tax.Regime, entity *model.Entity, period tax.Period, summary *model.TaxSummary) error {
	start, end := period.Window()
	revenue, err := s.invoiceRepo.SumRevenueForWindow(ctx, entity.ID, start, end)
	if err != nil {
		return err
	}
	expenses, err := s.expenseRepo.SumForWindow(ctx, entity.ID, start, end)
	if err != nil {
		return err
	}

	res, err := tax.CalculateVAT(regime, tax.VATInput{
		TaxableSales:     revenue.TaxableSales,
		TaxablePurchases: expenses.Deductible,
		OutputVAT:        revenue.OutputVAT,
		InputVAT:         expenses.InputVAT,
	})
	if err != nil {
		return err
	}

	summary.GrossIncome = revenue.Revenue
	summary.DeductibleExpenses = expenses.Deductible
	summary.OutputVAT = res.OutputVAT
	summary.InputVAT = res.InputVAT
	summary.TaxableAmount = revenue.TaxableSales
	summary.RateApplied = regime.VATRate
	summary.VATCredit = res.Credit
	summary.Classification = res.Position
	summary.LiabilityBeforeCredits = res.Payable

	noData := res.Position == tax.VATNoActivity
	return s.applyOffsets(ctx, entity.ID, period, summary, decimal.Zero, noData)
}

func (s *summaryService) computeWHT(ctx context.Context, regime *tax.Regime, entity *model.Entity, period tax.Period, summary *model.TaxSummary) error {
	start, end := period.Window()
	grouped, err := s.expenseRepo.WHTGrossByCategory(ctx, entity.ID, start, end)
	if err != nil {
		return err
	}

	lines := make([]tax.WHTLine, 0, len(grouped))
	gross := decimal.Zero
	for _, g := range grouped {
		lines = append(lines, tax.WHTLine{Category: g.Category, Gross: g.Gross})
		gross = gross.Add(g.Gross)
	}

	res, err := tax.CalculateWHT(regime, lines)
	if err != nil {
		return err
	}

	summary.GrossIncome = gross
	summary.TaxableAmount = gross
	summary.LiabilityBeforeCredits = res.TotalWithheld

	noData := len(grouped) == 0
	return s.applyOffsets(ctx, entity.ID, period, summary, decimal.Zero, noData)
}

func (s *summaryService) computePAYE(ctx context.Context, regime *tax.Regime, entity *model.Entity, period tax.Period, summary *model.TaxSummary) error {
	total, count, err := s.payrollRepo.PAYETotalForPeriod(ctx, entity.ID, period.Year, period.Month)
	if err != nil {
		return err
	}
	if total.IsNegative() {
		return fmt.Errorf("%w: negative PAYE total", tax.ErrComputationInconsistency)
	}

	summary.GrossIncome = total
	summary.TaxableAmount = total
	summary.LiabilityBeforeCredits = total

	return s.applyOffsets(ctx, entity.ID, period, summary, decimal.Zero, count == 0)
}

// whtCredits computes the withholding suffered at source on the entity's
// recognized receivables, which offsets its income-tax liability.
func (s *summaryService) whtCredits(ctx context.Context, regime *tax.Regime, entityID uuid.UUID, period tax.Period) (decimal.Decimal, error) {
	start, end := period.Window()
	grouped, err := s.invoiceRepo.WHTGrossByCategory(ctx, entityID, start, end)
	if err != nil {
		return decimal.Zero, err
	}

	lines := make([]tax.WHTLine, 0, len(grouped))
	for _, g := range grouped {
		lines = append(lines, tax.WHTLine{Category: g.Category, Gross: g.Gross})
	}

	res, err := tax.CalculateWHT(regime, lines)
	if err != nil {
		return decimal.Zero, err
	}
	return res.TotalWithheld, nil
}

func (s *summaryService) applyOffsets(ctx context.Context, entityID uuid.UUID, period tax.Period, summary *model.TaxSummary, credits decimal.Decimal, noData bool) error {
	remitted, err := s.remittanceRepo.SumForPeriod(ctx, entityID, summary.TaxType, period.Year, period.Month)
	if err != nil {
		return err
	}

	res, err := tax.ResolveOffsets(tax.OffsetInput{
		LiabilityBeforeCredits: summary.LiabilityBeforeCredits,
		Credits:                credits,
		Remitted:               remitted,
		Deadline:               summary.Deadline,
		Now:                    s.now(),
	})
	if err != nil {
		return err
	}

	summary.LiabilityAfterCredits = res.LiabilityAfterCredits
	summary.Remitted = res.Remitted
	summary.Pending = res.Pending
	summary.Status = res.Status

	// Absence of source data is a valid, reportable state — but a remitted
	// amount against an empty period still carries its compliance status.
	if noData && remitted.IsZero() {
		summary.Status = tax.StatusNoData
	}
	return nil
}

func (s *summaryService) broadcast(summary *model.TaxSummary) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"event":     "summary_recomputed",
		"entity_id": summary.EntityID.String(),
		"tax_type":  summary.TaxType,
		"year":      summary.Year,
		"month":     summary.Month,
		"pending":   summary.Pending.StringFixed(2),
		"status":    summary.Status,
	})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}

func (s *summaryService) writeAuditLog(ctx context.Context, userID string, entityID uuid.UUID, taxType string, period tax.Period) {
	details, _ := json.Marshal(map[string]interface{}{
		"tax_type": taxType,
		"year":     period.Year,
		"month":    period.Month,
	})

	entry := &model.AuditLog{
		Action:     model.ActionRecalcSummary,
		EntityID:   entityID.String(),
		EntityName: taxType + " " + period.Label(),
		Details:    string(details),
	}
	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}

	// Best-effort audit log — don't fail the operation if logging fails
	_ = s.auditRepo.Log(ctx, entry)
}

// --- Helpers ---

func toSummaryResponse(m *model.TaxSummary) SummaryResponse {
	period := tax.Period{Year: m.Year, Month: m.Month}
	resp := SummaryResponse{
		EntityID:               m.EntityID.String(),
		TaxType:                m.TaxType,
		Year:                   m.Year,
		Month:                  m.Month,
		Period:                 period.Label(),
		GrossIncome:            m.GrossIncome.StringFixed(2),
		DeductibleExpenses:     m.DeductibleExpenses.StringFixed(2),
		TaxableAmount:          m.TaxableAmount.StringFixed(2),
		RateApplied:            m.RateApplied.StringFixed(4),
		LiabilityBeforeCredits: m.LiabilityBeforeCredits.StringFixed(2),
		WHTCredits:             m.WHTCredits.StringFixed(2),
		LiabilityAfterCredits:  m.LiabilityAfterCredits.StringFixed(2),
		Remitted:               m.Remitted.StringFixed(2),
		Pending:                m.Pending.StringFixed(2),
		Classification:         m.Classification,
		ExemptionReason:        m.ExemptionReason,
		Status:                 m.Status,
		Deadline:               m.Deadline.Format(time.RFC3339),
		ComputedAt:             m.ComputedAt.Format(time.RFC3339),
	}

	if m.TaxType == tax.TypeVAT {
		resp.OutputVAT = m.OutputVAT.StringFixed(2)
		resp.InputVAT = m.InputVAT.StringFixed(2)
		resp.VATCredit = m.VATCredit.StringFixed(2)
	}
	if m.TaxType == tax.TypeCIT {
		resp.DevelopmentLevy = m.DevelopmentLevy.StringFixed(2)
	}
	return resp
}
