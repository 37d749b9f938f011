package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/tax"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type UpsertIncomeRequest struct {
	EntityID string `json:"entity_id" binding:"required,uuid"`
	Year     int    `json:"year" binding:"required"`
	Month    int    `json:"month" binding:"omitempty,min=1,max=12"`
	Amount   string `json:"amount" binding:"required"` // Decimal string
	Source   string `json:"source" binding:"omitempty,oneof=salary trade rent investment other"`
	Pension  string `json:"pension"`
	NHF      string `json:"nhf"`
	NHIS     string `json:"nhis"`
}

type IncomeResponse struct {
	ID       string `json:"id"`
	EntityID string `json:"entity_id"`
	Year     int    `json:"year"`
	Month    int    `json:"month,omitempty"`
	Amount   string `json:"amount"`
	Source   string `json:"source"`
	Pension  string `json:"pension"`
	NHF      string `json:"nhf"`
	NHIS     string `json:"nhis"`
}

// --- Interface ---

type IncomeService interface {
	UpsertIncome(ctx context.Context, userID string, req UpsertIncomeRequest) (IncomeResponse, error)
	ListIncome(ctx context.Context, entityID string, year int) ([]IncomeResponse, error)
	DeleteIncome(ctx context.Context, userID, id string) error
}

type incomeService struct {
	incomeRepo  repository.IncomeRepository
	summaryRepo repository.SummaryRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewIncomeService(
	incomeRepo repository.IncomeRepository,
	summaryRepo repository.SummaryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) IncomeService {
	return &incomeService{
		incomeRepo:  incomeRepo,
		summaryRepo: summaryRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *incomeService) UpsertIncome(ctx context.Context, userID string, req UpsertIncomeRequest) (IncomeResponse, error) {
	entityID, err := uuid.Parse(req.EntityID)
	if err != nil {
		return IncomeResponse{}, fmt.Errorf("invalid entity_id: %w", err)
	}

	if _, err := tax.NewPeriod(req.Year, req.Month); err != nil {
		return IncomeResponse{}, err
	}

	amount, err := parseNonNegative(req.Amount, "amount")
	if err != nil {
		return IncomeResponse{}, err
	}
	pension, err := parseOptionalNonNegative(req.Pension, "pension")
	if err != nil {
		return IncomeResponse{}, err
	}
	nhf, err := parseOptionalNonNegative(req.NHF, "nhf")
	if err != nil {
		return IncomeResponse{}, err
	}
	nhis, err := parseOptionalNonNegative(req.NHIS, "nhis")
	if err != nil {
		return IncomeResponse{}, err
	}

	source := req.Source
	if source == "" {
		source = model.IncomeSourceOther
	}

	record := model.IncomeRecord{
		EntityID: entityID,
		Year:     req.Year,
		Month:    req.Month,
		Amount:   amount,
		Source:   source,
		Pension:  pension,
		NHF:      nhf,
		NHIS:     nhis,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if upsertErr := s.incomeRepo.Upsert(txCtx, &record); upsertErr != nil {
			return fmt.Errorf("failed to upsert income record: %w", upsertErr)
		}
		// Source mutated: summaries reading this window are stale.
		if staleErr := s.summaryRepo.MarkStale(txCtx, entityID, []string{tax.TypePIT}, req.Year, req.Month); staleErr != nil {
			return staleErr
		}
		s.writeAuditLog(txCtx, userID, model.ActionUpsertIncome, record.ID.String(), req)
		return nil
	})
	if err != nil {
		return IncomeResponse{}, err
	}

	return toIncomeResponse(record), nil
}

func (s *incomeService) ListIncome(ctx context.Context, entityID string, year int) ([]IncomeResponse, error) {
	eid, err := uuid.Parse(entityID)
	if err != nil {
		return nil, fmt.Errorf("invalid entity id: %w", err)
	}

	records, err := s.incomeRepo.ListByEntity(ctx, eid, year)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch income records: %w", err)
	}

	result := make([]IncomeResponse, 0, len(records))
	for _, r := range records {
		result = append(result, toIncomeResponse(r))
	}
	return result, nil
}

func (s *incomeService) DeleteIncome(ctx context.Context, userID, id string) error {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid income record id: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		record, findErr := s.incomeRepo.FindByID(txCtx, recordID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("income record not found")
			}
			return fmt.Errorf("failed to fetch income record: %w", findErr)
		}

		if delErr := s.incomeRepo.Delete(txCtx, recordID); delErr != nil {
			return fmt.Errorf("failed to delete income record: %w", delErr)
		}
		if staleErr := s.summaryRepo.MarkStale(txCtx, record.EntityID, []string{tax.TypePIT}, record.Year, record.Month); staleErr != nil {
			return staleErr
		}
		s.writeAuditLog(txCtx, userID, model.ActionDeleteIncome, id, map[string]string{"deleted_id": id})
		return nil
	})
}

// --- Helpers ---

func parseNonNegative(value, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", field, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", field)
	}
	return d, nil
}

func parseOptionalNonNegative(value, field string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return parseNonNegative(value, field)
}

func toIncomeResponse(r model.IncomeRecord) IncomeResponse {
	return IncomeResponse{
		ID:       r.ID.String(),
		EntityID: r.EntityID.String(),
		Year:     r.Year,
		Month:    r.Month,
		Amount:   r.Amount.StringFixed(2),
		Source:   r.Source,
		Pension:  r.Pension.StringFixed(2),
		NHF:      r.NHF.StringFixed(2),
		NHIS:     r.NHIS.StringFixed(2),
	}
}

func (s *incomeService) writeAuditLog(ctx context.Context, userID, action, entityID string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entry := &model.AuditLog{
		Action:   action,
		EntityID: entityID,
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
