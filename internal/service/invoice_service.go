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

type InvoiceItemRequest struct {
	Name      string `json:"name" binding:"required"`
	Quantity  string `json:"quantity"` // Decimal string, default 1
	UnitPrice string `json:"unit_price" binding:"required"`
}

type CreateInvoiceRequest struct {
	EntityID     string               `json:"entity_id" binding:"required,uuid"`
	CustomerName string               `json:"customer_name" binding:"required"`
	CustomerTIN  string               `json:"customer_tin"`
	Items        []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	VATExempt    bool                 `json:"vat_exempt"`
	WHTCategory  string               `json:"wht_category" binding:"omitempty,oneof=rent professional_services contract_supply commission interest dividend directors_fees construction"`
	IssuedAt     string               `json:"issued_at"` // YYYY-MM-DD, defaults to today
	Note         string               `json:"note"`
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT PAID CANCELLED"`
}

type InvoiceItemResponse struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Amount    string `json:"amount"`
}

type InvoiceResponse struct {
	ID           string                `json:"id"`
	EntityID     string                `json:"entity_id"`
	InvoiceNo    string                `json:"invoice_no"`
	CustomerName string                `json:"customer_name"`
	CustomerTIN  string                `json:"customer_tin,omitempty"`
	Items        []InvoiceItemResponse `json:"items"`
	Subtotal     string                `json:"subtotal"`
	VATExempt    bool                  `json:"vat_exempt"`
	VATAmount    string                `json:"vat_amount"`
	TotalAmount  string                `json:"total_amount"`
	WHTCategory  string                `json:"wht_category,omitempty"`
	Status       string                `json:"status"`
	IssuedAt     string                `json:"issued_at"`
	PaidAt       *string               `json:"paid_at,omitempty"`
	Note         string                `json:"note,omitempty"`
	CreatedAt    string                `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoices(ctx context.Context, entityID string, page, limit int) ([]InvoiceResponse, int64, error)
	UpdateStatus(ctx context.Context, userID, id string, req UpdateInvoiceStatusRequest) (InvoiceResponse, error)
}

type invoiceService struct {
	regimes     *tax.Regimes
	invoiceRepo repository.InvoiceRepository
	summaryRepo repository.SummaryRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewInvoiceService(
	regimes *tax.Regimes,
	invoiceRepo repository.InvoiceRepository,
	summaryRepo repository.SummaryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) InvoiceService {
	return &invoiceService{
		regimes:     regimes,
		invoiceRepo: invoiceRepo,
		summaryRepo: summaryRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, userID string, req CreateInvoiceRequest) (InvoiceResponse, error) {
	entityID, err := uuid.Parse(req.EntityID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid entity_id: %w", err)
	}

	issuedAt := time.Now().UTC()
	if req.IssuedAt != "" {
		issuedAt, err = time.Parse("2006-01-02", req.IssuedAt)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid issued_at date format (expected YYYY-MM-DD): %w", err)
		}
	}
	if issuedAt.Year() < tax.MinTaxYear {
		return InvoiceResponse{}, fmt.Errorf("%w: invoice dated before tax year %d", tax.ErrInvalidPeriod, tax.MinTaxYear)
	}

	// ---- Line items ----
	items := make([]model.InvoiceItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for i, item := range req.Items {
		unitPrice, priceErr := parseNonNegative(item.UnitPrice, fmt.Sprintf("items[%d].unit_price", i))
		if priceErr != nil {
			return InvoiceResponse{}, priceErr
		}
		quantity := decimal.NewFromInt(1)
		if item.Quantity != "" {
			quantity, priceErr = parseNonNegative(item.Quantity, fmt.Sprintf("items[%d].quantity", i))
			if priceErr != nil {
				return InvoiceResponse{}, priceErr
			}
		}

		amount := quantity.Mul(unitPrice)
		items = append(items, model.InvoiceItem{
			Name:      item.Name,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			Amount:    amount,
		})
		subtotal = subtotal.Add(amount)
	}

	// ---- Output VAT ----
	vatAmount := decimal.Zero
	if !req.VATExempt {
		regime, regimeErr := s.regimes.ForYear(issuedAt.Year())
		if regimeErr != nil {
			return InvoiceResponse{}, regimeErr
		}
		vatAmount, err = tax.OutputVATOn(regime, subtotal)
		if err != nil {
			return InvoiceResponse{}, err
		}
	}

	invoice := model.Invoice{
		EntityID:     entityID,
		CustomerName: req.CustomerName,
		CustomerTIN:  req.CustomerTIN,
		Items:        items,
		Subtotal:     subtotal,
		VATExempt:    req.VATExempt,
		VATAmount:    vatAmount,
		TotalAmount:  subtotal.Add(vatAmount),
		WHTCategory:  req.WHTCategory,
		Status:       model.InvoiceDraft,
		IssuedAt:     issuedAt,
		Note:         req.Note,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		seq, seqErr := s.invoiceRepo.CountForYear(txCtx, issuedAt.Year())
		if seqErr != nil {
			return fmt.Errorf("failed to derive invoice number: %w", seqErr)
		}
		invoice.InvoiceNo = fmt.Sprintf("INV-%d-%06d", issuedAt.Year(), seq+1)

		if createErr := s.invoiceRepo.Create(txCtx, &invoice); createErr != nil {
			return fmt.Errorf("failed to create invoice: %w", createErr)
		}
		s.writeAuditLog(txCtx, userID, model.ActionCreateInvoice, invoice.ID.String(), invoice.InvoiceNo, req)
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return toInvoiceResponse(invoice), nil
}

func (s *invoiceService) GetInvoices(ctx context.Context, entityID string, page, limit int) ([]InvoiceResponse, int64, error) {
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

	invoices, total, err := s.invoiceRepo.ListByEntity(ctx, eid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

func (s *invoiceService) UpdateStatus(ctx context.Context, userID, id string, req UpdateInvoiceStatusRequest) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	var updated model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("invoice not found")
			}
			return fmt.Errorf("failed to fetch invoice: %w", findErr)
		}

		if invoice.Status == model.InvoiceCancelled {
			return fmt.Errorf("cancelled invoices cannot change status")
		}

		invoice.Status = req.Status
		if req.Status == model.InvoicePaid {
			now := time.Now().UTC()
			invoice.PaidAt = &now
		} else {
			invoice.PaidAt = nil
		}

		if updErr := s.invoiceRepo.UpdateStatus(txCtx, invoice); updErr != nil {
			return fmt.Errorf("failed to update invoice status: %w", updErr)
		}

		// Recognition changed: revenue, output VAT, and WHT credits all read
		// from PAID invoices.
		types := []string{tax.TypeCIT, tax.TypePIT, tax.TypeVAT}
		if staleErr := s.summaryRepo.MarkStale(txCtx, invoice.EntityID, types,
			invoice.IssuedAt.Year(), int(invoice.IssuedAt.Month())); staleErr != nil {
			return staleErr
		}

		s.writeAuditLog(txCtx, userID, model.ActionUpdateInvoice, invoice.ID.String(), invoice.InvoiceNo, req)
		updated = *invoice
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return toInvoiceResponse(updated), nil
}

// --- Helpers ---

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, InvoiceItemResponse{
			Name:      item.Name,
			Quantity:  item.Quantity.StringFixed(2),
			UnitPrice: item.UnitPrice.StringFixed(2),
			Amount:    item.Amount.StringFixed(2),
		})
	}

	resp := InvoiceResponse{
		ID:           inv.ID.String(),
		EntityID:     inv.EntityID.String(),
		InvoiceNo:    inv.InvoiceNo,
		CustomerName: inv.CustomerName,
		CustomerTIN:  inv.CustomerTIN,
		Items:        items,
		Subtotal:     inv.Subtotal.StringFixed(2),
		VATExempt:    inv.VATExempt,
		VATAmount:    inv.VATAmount.StringFixed(2),
		TotalAmount:  inv.TotalAmount.StringFixed(2),
		WHTCategory:  inv.WHTCategory,
		Status:       inv.Status,
		IssuedAt:     inv.IssuedAt.Format("2006-01-02"),
		Note:         inv.Note,
		CreatedAt:    inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.PaidAt != nil {
		paidAt := inv.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}

func (s *invoiceService) writeAuditLog(ctx context.Context, userID, action, entityID, entityName string, details interface{}) {
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
