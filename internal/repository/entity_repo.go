package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntityRepository interface {
	Create(ctx context.Context, entity *model.Entity) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Entity, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Entity, int64, error)
	Update(ctx context.Context, entity *model.Entity) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type entityRepository struct {
	db *gorm.DB
}

func NewEntityRepository(db *gorm.DB) EntityRepository {
	return &entityRepository{db: db}
}

func (r *entityRepository) Create(ctx context.Context, entity *model.Entity) error {
	return GetDB(ctx, r.db).Create(entity).Error
}

func (r *entityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Entity, error) {
	var entity model.Entity
	if err := GetDB(ctx, r.db).First(&entity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *entityRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Entity, int64, error) {
	var entities []model.Entity
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Entity{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("owner_id = ?", ownerID).Order("created_at desc").Offset(offset).Limit(limit).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

func (r *entityRepository) Update(ctx context.Context, entity *model.Entity) error {
	return GetDB(ctx, r.db).Save(entity).Error
}

func (r *entityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Entity{}, "id = ?", id).Error
}
