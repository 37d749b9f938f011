package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RevenueTotals is the aggregated sales position for one entity and window.
// Only PAID (revenue-recognized) invoices count; CANCELLED never do.
type RevenueTotals struct {
	Revenue      decimal.Decimal `gorm:"column:revenue"`
	TaxableSales decimal.Decimal `gorm:"column:taxable_sales"`
	OutputVAT    decimal.Decimal `gorm:"column:output_vat"`
	Count        int64           `gorm:"column:count"`
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	ListByEntity(ctx context.Context, entityID uuid.UUID, page, limit int) ([]model.Invoice, int64, error)
	UpdateStatus(ctx context.Context, invoice *model.Invoice) error
	CountForYear(ctx context.Context, year int) (int64, error)
	// SumRevenueForWindow aggregates recognized revenue and output VAT over
	// [start, end) by issue date.
	SumRevenueForWindow(ctx context.Context, entityID uuid.UUID, start, end time.Time) (RevenueTotals, error)
	// WHTGrossByCategory groups recognized WHT-qualifying receivables by
	// category over [start, end) — the source of the entity's WHT credits.
	WHTGrossByCategory(ctx context.Context, entityID uuid.UUID, start, end time.Time) ([]CategoryGross, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Preload("Items").First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ListByEntity(ctx context.Context, entityID uuid.UUID, page, limit int) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Invoice{}).Where("entity_id = ?", entityID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Items").Where("entity_id = ?", entityID).
		Order("issued_at desc").Offset(offset).Limit(limit).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Model(invoice).
		Select("status", "paid_at", "updated_at").
		Updates(map[string]interface{}{
			"status":  invoice.Status,
			"paid_at": invoice.PaidAt,
		}).Error
}

// CountForYear supports invoice number sequencing (INV-2026-000123).
func (r *invoiceRepository) CountForYear(ctx context.Context, year int) (int64, error) {
	var count int64
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("issued_at >= ? AND issued_at < ?", start, start.AddDate(1, 0, 0)).
		Count(&count).Error
	return count, err
}

func (r *invoiceRepository) SumRevenueForWindow(ctx context.Context, entityID uuid.UUID, start, end time.Time) (RevenueTotals, error) {
	var totals RevenueTotals
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Select(`COALESCE(SUM(subtotal), 0) AS revenue,
			COALESCE(SUM(CASE WHEN NOT vat_exempt THEN subtotal ELSE 0 END), 0) AS taxable_sales,
			COALESCE(SUM(CASE WHEN NOT vat_exempt THEN vat_amount ELSE 0 END), 0) AS output_vat,
			COUNT(*) AS count`).
		Where("entity_id = ? AND status = ? AND issued_at >= ? AND issued_at < ?",
			entityID, model.InvoicePaid, start, end).
		Scan(&totals).Error
	if err != nil {
		return RevenueTotals{}, fmt.Errorf("failed to sum invoice revenue: %w", err)
	}
	return totals, nil
}

func (r *invoiceRepository) WHTGrossByCategory(ctx context.Context, entityID uuid.UUID, start, end time.Time) ([]CategoryGross, error) {
	var rows []CategoryGross
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Select("wht_category AS category, COALESCE(SUM(subtotal), 0) AS gross").
		Where("entity_id = ? AND status = ? AND wht_category <> '' AND issued_at >= ? AND issued_at < ?",
			entityID, model.InvoicePaid, start, end).
		Group("wht_category").
		Order("wht_category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group WHT invoices: %w", err)
	}
	return rows, nil
}
