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
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateEntityRequest struct {
	EntityType     string `json:"entity_type" binding:"required,oneof=individual business company"`
	Name           string `json:"name" binding:"required"`
	TIN            string `json:"tin"`
	RCNumber       string `json:"rc_number"`
	State          string `json:"state"`
	AnnualTurnover string `json:"annual_turnover"`
}

type UpdateEntityRequest struct {
	Name           *string `json:"name"`
	TIN            *string `json:"tin"`
	RCNumber       *string `json:"rc_number"`
	State          *string `json:"state"`
	AnnualTurnover *string `json:"annual_turnover"`
}

type EntityResponse struct {
	ID             string `json:"id"`
	EntityType     string `json:"entity_type"`
	Name           string `json:"name"`
	TIN            string `json:"tin,omitempty"`
	RCNumber       string `json:"rc_number,omitempty"`
	State          string `json:"state,omitempty"`
	AnnualTurnover string `json:"annual_turnover"`
	CreatedAt      string `json:"created_at"`
}

// --- Interface ---

type EntityService interface {
	CreateEntity(ctx context.Context, userID string, req CreateEntityRequest) (EntityResponse, error)
	GetEntity(ctx context.Context, id string) (EntityResponse, error)
	GetEntities(ctx context.Context, ownerID string, page, limit int) ([]EntityResponse, int64, error)
	UpdateEntity(ctx context.Context, userID, id string, req UpdateEntityRequest) (EntityResponse, error)
	DeleteEntity(ctx context.Context, userID, id string) error
}

type entityService struct {
	entityRepo repository.EntityRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
}

func NewEntityService(
	entityRepo repository.EntityRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) EntityService {
	return &entityService{
		entityRepo: entityRepo,
		auditRepo:  auditRepo,
		txManager:  txManager,
	}
}

// --- Implementation ---

func (s *entityService) CreateEntity(ctx context.Context, userID string, req CreateEntityRequest) (EntityResponse, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return EntityResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	turnover, err := parseOptionalNonNegative(req.AnnualTurnover, "annual_turnover")
	if err != nil {
		return EntityResponse{}, err
	}

	// RC number only makes sense for registered companies
	if req.RCNumber != "" && req.EntityType != model.EntityTypeCompany {
		return EntityResponse{}, fmt.Errorf("rc_number is only valid for company entities")
	}

	entity := model.Entity{
		OwnerID:        ownerID,
		EntityType:     req.EntityType,
		Name:           req.Name,
		TIN:            req.TIN,
		RCNumber:       req.RCNumber,
		State:          req.State,
		AnnualTurnover: turnover,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.entityRepo.Create(txCtx, &entity); createErr != nil {
			return fmt.Errorf("failed to create entity: %w", createErr)
		}
		s.writeAuditLog(txCtx, userID, model.ActionCreateEntity, entity.ID.String(), req)
		return nil
	})
	if err != nil {
		return EntityResponse{}, err
	}

	return toEntityResponse(entity), nil
}

func (s *entityService) GetEntity(ctx context.Context, id string) (EntityResponse, error) {
	entityID, err := uuid.Parse(id)
	if err != nil {
		return EntityResponse{}, fmt.Errorf("invalid entity id: %w", err)
	}

	entity, err := s.entityRepo.FindByID(ctx, entityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EntityResponse{}, tax.ErrEntityNotFound
		}
		return EntityResponse{}, fmt.Errorf("failed to fetch entity: %w", err)
	}

	return toEntityResponse(*entity), nil
}

func (s *entityService) GetEntities(ctx context.Context, ownerID string, page, limit int) ([]EntityResponse, int64, error) {
	oid, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid owner id: %w", err)
	}

	entities, total, err := s.entityRepo.ListByOwner(ctx, oid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch entities: %w", err)
	}

	result := make([]EntityResponse, 0, len(entities))
	for _, entity := range entities {
		result = append(result, toEntityResponse(entity))
	}
	return result, total, nil
}

func (s *entityService) UpdateEntity(ctx context.Context, userID, id string, req UpdateEntityRequest) (EntityResponse, error) {
	entityID, err := uuid.Parse(id)
	if err != nil {
		return EntityResponse{}, fmt.Errorf("invalid entity id: %w", err)
	}

	var updated model.Entity
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		entity, findErr := s.entityRepo.FindByID(txCtx, entityID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return tax.ErrEntityNotFound
			}
			return fmt.Errorf("failed to fetch entity: %w", findErr)
		}

		if req.Name != nil {
			entity.Name = *req.Name
		}
		if req.TIN != nil {
			entity.TIN = *req.TIN
		}
		if req.RCNumber != nil {
			if *req.RCNumber != "" && entity.EntityType != model.EntityTypeCompany {
				return fmt.Errorf("rc_number is only valid for company entities")
			}
			entity.RCNumber = *req.RCNumber
		}
		if req.State != nil {
			entity.State = *req.State
		}
		if req.AnnualTurnover != nil {
			turnover, parseErr := parseNonNegative(*req.AnnualTurnover, "annual_turnover")
			if parseErr != nil {
				return parseErr
			}
			entity.AnnualTurnover = turnover
		}

		if updErr := s.entityRepo.Update(txCtx, entity); updErr != nil {
			return fmt.Errorf("failed to update entity: %w", updErr)
		}

		s.writeAuditLog(txCtx, userID, model.ActionUpdateEntity, id, req)
		updated = *entity
		return nil
	})
	if err != nil {
		return EntityResponse{}, err
	}

	return toEntityResponse(updated), nil
}

func (s *entityService) DeleteEntity(ctx context.Context, userID, id string) error {
	entityID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid entity id: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, findErr := s.entityRepo.FindByID(txCtx, entityID); findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return tax.ErrEntityNotFound
			}
			return fmt.Errorf("failed to fetch entity: %w", findErr)
		}
		if delErr := s.entityRepo.Delete(txCtx, entityID); delErr != nil {
			return fmt.Errorf("failed to delete entity: %w", delErr)
		}
		s.writeAuditLog(txCtx, userID, model.ActionDeleteEntity, id, map[string]string{"deleted_id": id})
		return nil
	})
}

// --- Helpers ---

func toEntityResponse(entity model.Entity) EntityResponse {
	return EntityResponse{
		ID:             entity.ID.String(),
		EntityType:     entity.EntityType,
		Name:           entity.Name,
		TIN:            entity.TIN,
		RCNumber:       entity.RCNumber,
		State:          entity.State,
		AnnualTurnover: entity.AnnualTurnover.StringFixed(2),
		CreatedAt:      entity.CreatedAt.Format(time.RFC3339),
	}
}

func (s *entityService) writeAuditLog(ctx context.Context, userID, action, entityID string, details interface{}) {
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

	_ = s.auditRepo.Log(ctx, entry)
}
