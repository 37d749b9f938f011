package repository

import (
	"context"
	"fmt"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PayrollRepository interface {
	Create(ctx context.Context, run *model.PayrollRun) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PayrollRun, error)
	FindByPeriod(ctx context.Context, entityID uuid.UUID, year, month int) (*model.PayrollRun, error)
	ListByEntity(ctx context.Context, entityID uuid.UUID, year int) ([]model.PayrollRun, error)
	UpdateStatus(ctx context.Context, run *model.PayrollRun) error
	// PAYETotalForPeriod sums finalized payroll PAYE for (entity, period).
	// month == 0 covers all runs of the year.
	PAYETotalForPeriod(ctx context.Context, entityID uuid.UUID, year, month int) (decimal.Decimal, int64, error)
}

type payrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) PayrollRepository {
	return &payrollRepository{db: db}
}

func (r *payrollRepository) Create(ctx context.Context, run *model.PayrollRun) error {
	return GetDB(ctx, r.db).Create(run).Error
}

func (r *payrollRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PayrollRun, error) {
	var run model.PayrollRun
	if err := GetDB(ctx, r.db).Preload("Items").First(&run, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *payrollRepository) FindByPeriod(ctx context.Context, entityID uuid.UUID, year, month int) (*model.PayrollRun, error) {
	var run model.PayrollRun
	err := GetDB(ctx, r.db).Preload("Items").
		First(&run, "entity_id = ? AND year = ? AND month = ?", entityID, year, month).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *payrollRepository) ListByEntity(ctx context.Context, entityID uuid.UUID, year int) ([]model.PayrollRun, error) {
	var runs []model.PayrollRun
	err := GetDB(ctx, r.db).
		Where("entity_id = ? AND year = ?", entityID, year).
		Order("month asc").
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *payrollRepository) UpdateStatus(ctx context.Context, run *model.PayrollRun) error {
	return GetDB(ctx, r.db).Model(run).Update("status", run.Status).Error
}

func (r *payrollRepository) PAYETotalForPeriod(ctx context.Context, entityID uuid.UUID, year, month int) (decimal.Decimal, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.PayrollRun{}).
		Select("COALESCE(SUM(total_paye), 0) AS total, COUNT(*) AS count").
		Where("entity_id = ? AND year = ? AND status = ?", entityID, year, model.PayrollFinalized)
	if month != 0 {
		query = query.Where("month = ?", month)
	}

	var result struct {
		Total decimal.Decimal `gorm:"column:total"`
		Count int64           `gorm:"column:count"`
	}
	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to sum payroll PAYE: %w", err)
	}
	return result.Total, result.Count, nil
}
