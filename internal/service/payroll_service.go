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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type PayrollItemRequest struct {
	EmployeeName string `json:"employee_name" binding:"required"`
	EmployeeTIN  string `json:"employee_tin"`
	MonthlyGross string `json:"monthly_gross" binding:"required"`
	Pension      string `json:"pension"`
	NHF          string `json:"nhf"`
	NHIS         string `json:"nhis"`
}

type CreatePayrollRunRequest struct {
	EntityID string               `json:"entity_id" binding:"required,uuid"`
	Year     int                  `json:"year" binding:"required"`
	Month    int                  `json:"month" binding:"required,min=1,max=12"`
	Items    []PayrollItemRequest `json:"items" binding:"required,min=1,dive"`
}

type PayrollItemResponse struct {
	EmployeeName  string `json:"employee_name"`
	EmployeeTIN   string `json:"employee_tin,omitempty"`
	MonthlyGross  string `json:"monthly_gross"`
	TaxableIncome string `json:"taxable_income"`
	PAYE          string `json:"paye"`
}

type PayrollRunResponse struct {
	ID         string                `json:"id"`
	EntityID   string                `json:"entity_id"`
	Year       int                   `json:"year"`
	Month      int                   `json:"month"`
	Items      []PayrollItemResponse `json:"items"`
	TotalGross string                `json:"total_gross"`
	TotalPAYE  string                `json:"total_paye"`
	Status     string                `json:"status"`
	CreatedAt  string                `json:"created_at"`
}

// --- Interface ---

type PayrollService interface {
	CreateRun(ctx context.Context, userID string, req CreatePayrollRunRequest) (PayrollRunResponse, error)
	GetRuns(ctx context.Context, entityID string, year int) ([]PayrollRunResponse, error)
	FinalizeRun(ctx context.Context, userID, id string) (PayrollRunResponse, error)
}

type payrollService struct {
	regimes     *tax.Regimes
	payrollRepo repository.PayrollRepository
	summaryRepo repository.SummaryRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewPayrollService(
	regimes *tax.Regimes,
	payrollRepo repository.PayrollRepository,
	summaryRepo repository.SummaryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) PayrollService {
	return &payrollService{
		regimes:     regimes,
		payrollRepo: payrollRepo,
		summaryRepo: summaryRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *payrollService) CreateRun(ctx context.Context, userID string, req CreatePayrollRunRequest) (PayrollRunResponse, error) {
	entityID, err := uuid.Parse(req.EntityID)
	if err != nil {
		return PayrollRunResponse{}, fmt.Errorf("invalid entity_id: %w", err)
	}

	if _, err := tax.NewPeriod(req.Year, req.Month); err != nil {
		return PayrollRunResponse{}, err
	}

	regime, err := s.regimes.ForYear(req.Year)
	if err != nil {
		return PayrollRunResponse{}, err
	}

	run := model.PayrollRun{
		EntityID:   entityID,
		Year:       req.Year,
		Month:      req.Month,
		Status:     model.PayrollDraft,
		TotalGross: decimal.Zero,
		TotalPAYE:  decimal.Zero,
	}

	for i, item := range req.Items {
		gross, parseErr := parseNonNegative(item.MonthlyGross, fmt.Sprintf("items[%d].monthly_gross", i))
		if parseErr != nil {
			return PayrollRunResponse{}, parseErr
		}
		pension, parseErr := parseOptionalNonNegative(item.Pension, fmt.Sprintf("items[%d].pension", i))
		if parseErr != nil {
			return PayrollRunResponse{}, parseErr
		}
		nhf, parseErr := parseOptionalNonNegative(item.NHF, fmt.Sprintf("items[%d].nhf", i))
		if parseErr != nil {
			return PayrollRunResponse{}, parseErr
		}
		nhis, parseErr := parseOptionalNonNegative(item.NHIS, fmt.Sprintf("items[%d].nhis", i))
		if parseErr != nil {
			return PayrollRunResponse{}, parseErr
		}

		res, payeErr := tax.CalculatePAYE(regime, tax.PAYEInput{
			MonthlyGross: gross,
			Pension:      pension,
			NHF:          nhf,
			NHIS:         nhis,
		})
		if payeErr != nil {
			return PayrollRunResponse{}, payeErr
		}

		run.Items = append(run.Items, model.PayrollItem{
			EmployeeName:  item.EmployeeName,
			EmployeeTIN:   item.EmployeeTIN,
			MonthlyGross:  gross,
			Pension:       pension,
			NHF:           nhf,
			NHIS:          nhis,
			TaxableIncome: res.MonthlyTaxable,
			PAYE:          res.MonthlyTax,
		})
		run.TotalGross = run.TotalGross.Add(gross)
		run.TotalPAYE = run.TotalPAYE.Add(res.MonthlyTax)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.payrollRepo.Create(txCtx, &run); createErr != nil {
			return fmt.Errorf("failed to create payroll run: %w", createErr)
		}
		s.writeAuditLog(txCtx, userID, model.ActionCreatePayroll, run.ID.String(), req)
		return nil
	})
	if err != nil {
		return PayrollRunResponse{}, err
	}

	return toPayrollRunResponse(run), nil
}

func (s *payrollService) GetRuns(ctx context.Context, entityID string, year int) ([]PayrollRunResponse, error) {
	eid, err := uuid.Parse(entityID)
	if err != nil {
		return nil, fmt.Errorf("invalid entity id: %w", err)
	}

	runs, err := s.payrollRepo.ListByEntity(ctx, eid, year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payroll runs: %w", err)
	}

	result := make([]PayrollRunResponse, 0, len(runs))
	for _, run := range runs {
		result = append(result, toPayrollRunResponse(run))
	}
	return result, nil
}

// FinalizeRun locks the run; only finalized runs count toward the PAYE
// liability for the period.
func (s *payrollService) FinalizeRun(ctx context.Context, userID, id string) (PayrollRunResponse, error) {
	runID, err := uuid.Parse(id)
	if err != nil {
		return PayrollRunResponse{}, fmt.Errorf("invalid payroll run id: %w", err)
	}

	var finalized model.PayrollRun
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		run, findErr := s.payrollRepo.FindByID(txCtx, runID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("payroll run not found")
			}
			return fmt.Errorf("failed to fetch payroll run: %w", findErr)
		}
		if run.Status == model.PayrollFinalized {
			return fmt.Errorf("payroll run already finalized")
		}

		run.Status = model.PayrollFinalized
		if updErr := s.payrollRepo.UpdateStatus(txCtx, run); updErr != nil {
			return fmt.Errorf("failed to finalize payroll run: %w", updErr)
		}
		if staleErr := s.summaryRepo.MarkStale(txCtx, run.EntityID, []string{tax.TypePAYE}, run.Year, run.Month); staleErr != nil {
			return staleErr
		}

		s.writeAuditLog(txCtx, userID, model.ActionFinalizePayroll, run.ID.String(), map[string]string{"run_id": id})
		finalized = *run
		return nil
	})
	if err != nil {
		return PayrollRunResponse{}, err
	}

	return toPayrollRunResponse(finalized), nil
}

// --- Helpers ---

func toPayrollRunResponse(run model.PayrollRun) PayrollRunResponse {
	items := make([]PayrollItemResponse, 0, len(run.Items))
	for _, item := range run.Items {
		items = append(items, PayrollItemResponse{
			EmployeeName:  item.EmployeeName,
			EmployeeTIN:   item.EmployeeTIN,
			MonthlyGross:  item.MonthlyGross.StringFixed(2),
			TaxableIncome: item.TaxableIncome.StringFixed(2),
			PAYE:          item.PAYE.StringFixed(2),
		})
	}

	return PayrollRunResponse{
		ID:         run.ID.String(),
		EntityID:   run.EntityID.String(),
		Year:       run.Year,
		Month:      run.Month,
		Items:      items,
		TotalGross: run.TotalGross.StringFixed(2),
		TotalPAYE:  run.TotalPAYE.StringFixed(2),
		Status:     run.Status,
		CreatedAt:  run.CreatedAt.Format(time.RFC3339),
	}
}

func (s *payrollService) writeAuditLog(ctx context.Context, userID, action, runID string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entry := &model.AuditLog{
		Action:   action,
		EntityID: runID,
		Details:  string(detailsJSON),
	}
	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}

	// Best-effort audit log — don't fail the operation if logging fails
	_ = s.auditRepo.Log(ctx, entry)
}
