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

// ExpenseTotals is the aggregated expense position for one entity and window.
type ExpenseTotals struct {
	Deductible decimal.Decimal `gorm:"column:deductible"`
	InputVAT   decimal.Decimal `gorm:"column:input_vat"`
	Count      int64           `gorm:"column:count"`
}

// CategoryGross is a WHT-qualifying category with its summed gross amount.
type CategoryGross struct {
	Category string          `gorm:"column:category"`
	Gross    decimal.Decimal `gorm:"column:gross"`
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	ListByEntity(ctx context.Context, entityID uuid.UUID, page, limit int) ([]model.Expense, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SumForWindow aggregates deductible expenses and reclaimable input VAT
	// over [start, end).
	SumForWindow(ctx context.Context, entityID uuid.UUID, start, end time.Time) (ExpenseTotals, error)
	// WHTGrossByCategory groups WHT-qualifying payments by category over
	// [start, end) — the withholding the entity owes the authority.
	WHTGrossByCategory(ctx context.Context, entityID uuid.UUID, start, end time.Time) ([]CategoryGross, error)
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := GetDB(ctx, r.db).First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) ListByEntity(ctx context.Context, entityID uuid.UUID, page, limit int) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Expense{}).Where("entity_id = ?", entityID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("entity_id = ?", entityID).Order("date desc").Offset(offset).Limit(limit).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Expense{}, "id = ?", id).Error
}

func (r *expenseRepository) SumForWindow(ctx context.Context, entityID uuid.UUID, start, end time.Time) (ExpenseTotals, error) {
	var totals ExpenseTotals
	err := GetDB(ctx, r.db).Model(&model.Expense{}).
		Select(`COALESCE(SUM(CASE WHEN is_deductible THEN amount ELSE 0 END), 0) AS deductible,
			COALESCE(SUM(CASE WHEN is_deductible THEN input_vat ELSE 0 END), 0) AS input_vat,
			COUNT(*) AS count`).
		Where("entity_id = ? AND date >= ? AND date < ?", entityID, start, end).
		Scan(&totals).Error
	if err != nil {
		return ExpenseTotals{}, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return totals, nil
}

func (r *expenseRepository) WHTGrossByCategory(ctx context.Context, entityID uuid.UUID, start, end time.Time) ([]CategoryGross, error) {
	var rows []CategoryGross
	err := GetDB(ctx, r.db).Model(&model.Expense{}).
		Select("wht_category AS category, COALESCE(SUM(amount), 0) AS gross").
		Where("entity_id = ? AND wht_category <> '' AND date >= ? AND date < ?", entityID, start, end).
		Group("wht_category").
		Order("wht_category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group WHT expenses: %w", err)
	}
	return rows, nil
}
