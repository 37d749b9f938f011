package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/tax"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateRemittanceRequest struct {
	EntityID  string `json:"entity_id" binding:"required,uuid"`
	TaxType   string `json:"tax_type" binding:"required,oneof=PIT CIT VAT WHT PAYE"`
	Year      int    `json:"year" binding:"required"`
	Month     int    `json:"month" binding:"omitempty,min=1,max=12"`
	Amount    string `json:"amount" binding:"required"`
	Reference string `json:"reference" binding:"required"`
	PaidAt    string `json:"paid_at"` // YYYY-MM-DD, defaults to today
	Note      string `json:"note"`
}

type RemittanceResponse struct {
	ID        string `json:"id"`
	EntityID  string `json:"entity_id"`
	TaxType   string `json:"tax_type"`
	Year      int    `json:"year"`
	Month     int    `json:"month,omitempty"`
	Amount    string `json:"amount"`
	Reference string `json:"reference"`
	PaidAt    string `json:"paid_at"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

type RemittanceService interface {
	CreateRemittance(ctx context.Context, userID string, req CreateRemittanceRequest) (RemittanceResponse, error)
	GetRemittances(ctx context.Context, entityID, taxType string, page, limit int) ([]RemittanceResponse, int64, error)
}

type remittanceService struct {
	remittanceRepo repository.RemittanceRepository
	summaryRepo    repository.SummaryRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
}

func NewRemittanceService(
	remittanceRepo repository.RemittanceRepository,
	summaryRepo repository.SummaryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) RemittanceService {
	return &remittanceService{
		remittanceRepo: remittanceRepo,
		summaryRepo:    summaryRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
	}
}

// --- Implementation ---

func (s *remittanceService) CreateRemittance(ctx context.Context, userID string, req CreateRemittanceRequest) (RemittanceResponse, error) {
	entityID, err := uuid.Parse(req.EntityID)
	if err != nil {
		return RemittanceResponse{}, fmt.Errorf("invalid entity_id: %w", err)
	}

	if _, err := tax.NewPeriod(req.Year, req.Month); err != nil {
		return RemittanceResponse{}, err
	}

	amount, err := parseNonNegative(req.Amount, "amount")
	if err != nil {
		return RemittanceResponse{}, err
	}
	if amount.IsZero() {
		return RemittanceResponse{}, fmt.Errorf("amount must be greater than 0")
	}

	paidAt := time.Now().UTC()
	if req.PaidAt != "" {
		paidAt, err = time.Parse("2006-01-02", req.PaidAt)
		if err != nil {
			return RemittanceResponse{}, fmt.Errorf("invalid paid_at date format (expected YYYY-MM-DD): %w", err)
		}
	}

	remittance := model.Remittance{
		EntityID:  entityID,
		TaxType:   req.TaxType,
		Year:      req.Year,
		Month:     req.Month,
		Amount:    amount,
		Reference: req.Reference,
		PaidAt:    paidAt,
		Note:      req.Note,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.remittanceRepo.Create(txCtx, &remittance); createErr != nil {
			return fmt.Errorf("failed to create remittance: %w", createErr)
		}
		// The remitted total feeds only this tax type's summaries.
		if staleErr := s.summaryRepo.MarkStale(txCtx, entityID, []string{req.TaxType}, req.Year, req.Month); staleErr != nil {
			return staleErr
		}
		s.writeAuditLog(txCtx, userID, remittance.ID.String(), req)
		return nil
	})
	if err != nil {
		return RemittanceResponse{}, err
	}

	return toRemittanceResponse(remittance), nil
}

func (s *remittanceService) GetRemittances(ctx context.Context, entityID, taxType string, page, limit int) ([]RemittanceResponse, int64, error) {
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

	remittances, total, err := s.remittanceRepo.ListByEntity(ctx, eid, taxType, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch remittances: %w", err)
	}

	result := make([]RemittanceResponse, 0, len(remittances))
	for _, r := range remittances {
		result = append(result, toRemittanceResponse(r))
	}
	return result, total, nil
}

// --- Helpers ---

func toRemittanceResponse(r model.Remittance) RemittanceResponse {
	return RemittanceResponse{
		ID:        r.ID.String(),
		EntityID:  r.EntityID.String(),
		TaxType:   r.TaxType,
		Year:      r.Year,
		Month:     r.Month,
		Amount:    r.Amount.StringFixed(2),
		Reference: r.Reference,
		PaidAt:    r.PaidAt.Format("2006-01-02"),
		Note:      r.Note,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

func (s *remittanceService) writeAuditLog(ctx context.Context, userID, remittanceID string, details interface{}) {
	detailsJSON, _ := json.Marshal(details)

	entry := &model.AuditLog{
		Action:   model.ActionCreateRemittance,
		EntityID: remittanceID,
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
