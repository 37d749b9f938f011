package repository

import (
	"context"
	"fmt"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SummaryRepository interface {
	// GetByKey fetches the cached summary for (entity, tax type, period),
	// returning gorm.ErrRecordNotFound when no row exists yet.
	GetByKey(ctx context.Context, entityID uuid.UUID, taxType string, year, month int) (*model.TaxSummary, error)
	// Upsert writes the recomputed summary, overwriting any existing row for
	// the same key. Concurrent writers are last-write-wins.
	Upsert(ctx context.Context, summary *model.TaxSummary) error
	// MarkStale flags summaries of the given tax types touching (year, month)
	// so the next read recomputes. The annual row (month 0) is always
	// included since it aggregates every month.
	MarkStale(ctx context.Context, entityID uuid.UUID, taxTypes []string, year, month int) error
	ListForEntityYear(ctx context.Context, entityID uuid.UUID, year int) ([]model.TaxSummary, error)
}

type summaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

func (r *summaryRepository) GetByKey(ctx context.Context, entityID uuid.UUID, taxType string, year, month int) (*model.TaxSummary, error) {
	var summary model.TaxSummary
	err := GetDB(ctx, r.db).
		First(&summary, "entity_id = ? AND tax_type = ? AND year = ? AND month = ?",
			entityID, taxType, year, month).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *summaryRepository) Upsert(ctx context.Context, summary *model.TaxSummary) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "entity_id"}, {Name: "tax_type"}, {Name: "year"}, {Name: "month"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"gross_income", "deductible_expenses", "output_vat", "input_vat",
			"taxable_amount", "rate_applied", "development_levy",
			"liability_before_credits", "wht_credits", "liability_after_credits",
			"remitted", "pending", "vat_credit",
			"classification", "exemption_reason", "status", "deadline",
			"stale", "computed_at", "updated_at",
		}),
	}).Create(summary).Error
}

func (r *summaryRepository) MarkStale(ctx context.Context, entityID uuid.UUID, taxTypes []string, year, month int) error {
	if len(taxTypes) == 0 {
		return nil
	}

	query := GetDB(ctx, r.db).Model(&model.TaxSummary{}).
		Where("entity_id = ? AND tax_type IN ? AND year = ?", entityID, taxTypes, year)
	if month != 0 {
		query = query.Where("month IN ?", []int{0, month})
	}

	if err := query.Update("stale", true).Error; err != nil {
		return fmt.Errorf("failed to mark summaries stale: %w", err)
	}
	return nil
}

func (r *summaryRepository) ListForEntityYear(ctx context.Context, entityID uuid.UUID, year int) ([]model.TaxSummary, error) {
	var summaries []model.TaxSummary
	err := GetDB(ctx, r.db).
		Where("entity_id = ? AND year = ?", entityID, year).
		Order("tax_type asc, month asc").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
