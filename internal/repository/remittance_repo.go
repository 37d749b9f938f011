package repository

import (
	"context"
	"fmt"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RemittanceRepository interface {
	Create(ctx context.Context, remittance *model.Remittance) error
	ListByEntity(ctx context.Context, entityID uuid.UUID, taxType string, page, limit int) ([]model.Remittance, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SumForPeriod totals remittances for (entity, tax type, period).
	// month == 0 covers the whole year including annual rows.
	SumForPeriod(ctx context.Context, entityID uuid.UUID, taxType string, year, month int) (decimal.Decimal, error)
}

type remittanceRepository struct {
	db *gorm.DB
}

func NewRemittanceRepository(db *gorm.DB) RemittanceRepository {
	return &remittanceRepository{db: db}
}

func (r *remittanceRepository) Create(ctx context.Context, remittance *model.Remittance) error {
	return GetDB(ctx, r.db).Create(remittance).Error
}

func (r *remittanceRepository) ListByEntity(ctx context.Context, entityID uuid.UUID, taxType string, page, limit int) ([]model.Remittance, int64, error) {
	var remittances []model.Remittance
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Remittance{}).Where("entity_id = ?", entityID)
	if taxType != "" {
		db = db.Where("tax_type = ?", taxType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("paid_at desc").Offset(offset).Limit(limit).Find(&remittances).Error; err != nil {
		return nil, 0, err
	}

	return remittances, total, nil
}

func (r *remittanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Remittance{}, "id = ?", id).Error
}

func (r *remittanceRepository) SumForPeriod(ctx context.Context, entityID uuid.UUID, taxType string, year, month int) (decimal.Decimal, error) {
	query := GetDB(ctx, r.db).Model(&model.Remittance{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("entity_id = ? AND tax_type = ? AND year = ?", entityID, taxType, year)

	if month != 0 {
		query = query.Where("month = ?", month)
	}

	var result struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum remittances: %w", err)
	}
	return result.Total, nil
}
