package repository

import (
	"context"
	"fmt"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IncomeTotals is the aggregated income position for one entity and window.
// Count distinguishes "no records" (a valid, reportable state) from zeros.
type IncomeTotals struct {
	Gross   decimal.Decimal `gorm:"column:gross"`
	Pension decimal.Decimal `gorm:"column:pension"`
	NHF     decimal.Decimal `gorm:"column:nhf"`
	NHIS    decimal.Decimal `gorm:"column:nhis"`
	Count   int64           `gorm:"column:count"`
}

type IncomeRepository interface {
	// Upsert writes the (entity, year, month) keyed record, replacing the
	// amounts if the key already exists.
	Upsert(ctx context.Context, record *model.IncomeRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.IncomeRecord, error)
	FindByPeriod(ctx context.Context, entityID uuid.UUID, year, month int) (*model.IncomeRecord, error)
	ListByEntity(ctx context.Context, entityID uuid.UUID, year int) ([]model.IncomeRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SumForPeriod aggregates declared income. month == 0 sums the whole
	// year (annual rows and all monthly rows); otherwise the single month.
	SumForPeriod(ctx context.Context, entityID uuid.UUID, year, month int) (IncomeTotals, error)
}

type incomeRepository struct {
	db *gorm.DB
}

func NewIncomeRepository(db *gorm.DB) IncomeRepository {
	return &incomeRepository{db: db}
}

func (r *incomeRepository) Upsert(ctx context.Context, record *model.IncomeRecord) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "entity_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"amount", "source", "pension", "nhf", "nhis", "updated_at",
		}),
	}).Create(record).Error
}

func (r *incomeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.IncomeRecord, error) {
	var record model.IncomeRecord
	if err := GetDB(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *incomeRepository) FindByPeriod(ctx context.Context, entityID uuid.UUID, year, month int) (*model.IncomeRecord, error) {
	var record model.IncomeRecord
	err := GetDB(ctx, r.db).
		First(&record, "entity_id = ? AND year = ? AND month = ?", entityID, year, month).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *incomeRepository) ListByEntity(ctx context.Context, entityID uuid.UUID, year int) ([]model.IncomeRecord, error) {
	var records []model.IncomeRecord
	err := GetDB(ctx, r.db).
		Where("entity_id = ? AND year = ?", entityID, year).
		Order("month asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *incomeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.IncomeRecord{}, "id = ?", id).Error
}

func (r *incomeRepository) SumForPeriod(ctx context.Context, entityID uuid.UUID, year, month int) (IncomeTotals, error) {
	query := GetDB(ctx, r.db).Model(&model.IncomeRecord{}).
		Select(`COALESCE(SUM(amount), 0) AS gross,
			COALESCE(SUM(pension), 0) AS pension,
			COALESCE(SUM(nhf), 0) AS nhf,
			COALESCE(SUM(nhis), 0) AS nhis,
			COUNT(*) AS count`).
		Where("entity_id = ? AND year = ?", entityID, year)

	if month != 0 {
		query = query.Where("month = ?", month)
	}

	var totals IncomeTotals
	if err := query.Scan(&totals).Error; err != nil {
		return IncomeTotals{}, fmt.Errorf("failed to sum income records: %w", err)
	}
	return totals, nil
}
