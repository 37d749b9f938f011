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
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateExpenseRequest struct {
	EntityID    string `json:"entity_id" binding:"required,uuid"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Amount      string `json:"amount" binding:"required"`
	Category    string `json:"category" binding:"required,oneof=rent salaries utilities supplies professional_services transport entertainment other"`
	Description string `json:"description"`
	Vendor      string `json:"vendor"`

	IsDeductible bool   `json:"is_deductible"`
	InputVAT     string `json:"input_vat"`
	WHTCategory  string `json:"wht_category" binding:"omitempty,oneof=rent professional_services contract_supply commission interest dividend directors_fees construction"`
}

type ExpenseResponse struct {
	ID           string `json:"id"`
	EntityID     string `json:"entity_id"`
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Vendor       string `json:"vendor"`
	IsDeductible bool   `json:"is_deductible"`
	InputVAT     string `json:"input_vat"`
	WHTCategory  string `json:"wht_category,omitempty"`
	WHTDeducted  string `json:"wht_deducted,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// --- Interface ---

type ExpenseService interface {
	CreateExpense(ctx context.Context, userID string, req CreateExpenseRequest) (ExpenseResponse, error)
	GetExpenses(ctx context.Context, entityID string, page, limit int) ([]ExpenseResponse, int64, error)
	DeleteExpense(ctx context.Context, userID, id string) error
}

type expenseService struct {
	regimes     *tax.Regimes
	expenseRepo repository.ExpenseRepository
	summaryRepo repository.SummaryRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewExpenseService(
	regimes *tax.Regimes,
	expenseRepo repository.ExpenseRepository,
	summaryRepo repository.SummaryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ExpenseService {
	return &expenseService{
		regimes:     regimes,
		expenseRepo: expenseRepo,
		summaryRepo: summaryRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *expenseService) CreateExpense(ctx context.Context, userID string, req CreateExpenseRequest) (ExpenseResponse, error) {
	entityID, err := uuid.Parse(req.EntityID)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid entity_id: %w", err)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	if date.Year() < tax.MinTaxYear {
		return ExpenseResponse{}, fmt.Errorf("%w: expense dated before tax year %d", tax.ErrInvalidPeriod, tax.MinTaxYear)
	}

	amount, err := parseNonNegative(req.Amount, "amount")
	if err != nil {
		return ExpenseResponse{}, err
	}
	inputVAT, err := parseOptionalNonNegative(req.InputVAT, "input_vat")
	if err != nil {
		return ExpenseResponse{}, err
	}
	if !inputVAT.IsZero() && !req.IsDeductible {
		return ExpenseResponse{}, fmt.Errorf("input_vat is only reclaimable on deductible expenses")
	}

	expense := model.Expense{
		EntityID:     entityID,
		Date:         date,
		Amount:       amount,
		Category:     req.Category,
		Description:  req.Description,
		Vendor:       req.Vendor,
		IsDeductible: req.IsDeductible,
		InputVAT:     inputVAT,
		WHTCategory:  req.WHTCategory,
	}

	// ---- Withholding at source ----
	if req.WHTCategory != "" {
		regime, regimeErr := s.regimes.ForYear(date.Year())
		if regimeErr != nil {
			return ExpenseResponse{}, regimeErr
		}
		res, whtErr := tax.CalculateWHT(regime, []tax.WHTLine{{Category: req.WHTCategory, Gross: amount}})
		if whtErr != nil {
			return ExpenseResponse{}, whtErr
		}
		expense.WHTDeducted = res.TotalWithheld
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.expenseRepo.Create(txCtx, &expense); createErr != nil {
			return fmt.Errorf("failed to create expense: %w", createErr)
		}
		if staleErr := s.invalidate(txCtx, entityID, date); staleErr != nil {
			return staleErr
		}
		s.writeAuditLog(txCtx, userID, model.ActionCreateExpense, expense.ID.String(), req.Description, req)
		return nil
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	return toExpenseResponse(expense), nil
}

func (s *expenseService) GetExpenses(ctx context.Context, entityID string, page, limit int) ([]ExpenseResponse, int64, error) {
	eid, err := uuid.Parse(entityID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid entity id: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	expenses, total, err := s.expenseRepo.ListByEntity(ctx, eid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	result := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		result = append(result, toExpenseResponse(e))
	}
	return result, total, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, userID, id string) error {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid expense id: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		expense, findErr := s.expenseRepo.FindByID(txCtx, expenseID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("expense not found")
			}
			return fmt.Errorf("failed to fetch expense: %w", findErr)
		}

		if delErr := s.expenseRepo.Delete(txCtx, expenseID); delErr != nil {
			return fmt.Errorf("failed to delete expense: %w", delErr)
		}
		if staleErr := s.invalidate(txCtx, expense.EntityID, expense.Date); staleErr != nil {
			return staleErr
		}
		s.writeAuditLog(txCtx, userID, model.ActionDeleteExpense, id, expense.Description, map[string]string{"deleted_id": id})
		return nil
	})
}

// invalidate marks every summary reading this expense's window stale:
// deductible expenses feed CIT and PIT profit, input VAT feeds the VAT
// netting, and WHT-qualifying payments feed the WHT position.
func (s *expenseService) invalidate(ctx context.Context, entityID uuid.UUID, date time.Time) error {
	types := []string{tax.TypeCIT, tax.TypeVAT, tax.TypeWHT}
	return s.summaryRepo.MarkStale(ctx, entityID, types, date.Year(), int(date.Month()))
}

// --- Helpers ---

func toExpenseResponse(e model.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:           e.ID.String(),
		EntityID:     e.EntityID.String(),
		Date:         e.Date.Format("2006-01-02"),
		Amount:       e.Amount.StringFixed(2),
		Category:     e.Category,
		Description:  e.Description,
		Vendor:       e.Vendor,
		IsDeductible: e.IsDeductible,
		InputVAT:     e.InputVAT.StringFixed(2),
		WHTCategory:  e.WHTCategory,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
	if e.WHTCategory != "" {
		resp.WHTDeducted = e.WHTDeducted.StringFixed(2)
	}
	return resp
}

func (s *expenseService) writeAuditLog(ctx context.Context, userID, action, entityID, entityName string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entry := &model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}
	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}

	// Best-effort audit log — don't fail the operation if logging fails
	_ = s.auditRepo.Log(ctx, entry)
}
