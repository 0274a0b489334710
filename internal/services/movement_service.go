package services

import (
	"context"

	"steelstore/internal/common"
	"steelstore/internal/models"
	"steelstore/internal/repositories"

	"github.com/google/uuid"
)

type MovementService interface {
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.MovementSearchFilter) ([]*models.StockMovement, error)
	History(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]*models.StockMovement, error)
}

type movementService struct {
	movementRepo repositories.MovementRepository
}

func NewMovementService(movementRepo repositories.MovementRepository) MovementService {
	return &movementService{movementRepo: movementRepo}
}

func (s *movementService) Search(ctx context.Context, tenantID uuid.UUID, filter *models.MovementSearchFilter) ([]*models.StockMovement, error) {
	if filter == nil {
		filter = &models.MovementSearchFilter{}
	}
	if filter.Kind != nil && *filter.Kind != "" {
		if err := common.ValidateMovementKind(*filter.Kind); err != nil {
			return nil, err
		}
	}
	if filter.DateFrom != nil && *filter.DateFrom != "" {
		if err := common.ValidateDateFormat(*filter.DateFrom, "date_from"); err != nil {
			return nil, err
		}
	}
	if filter.DateTo != nil && *filter.DateTo != "" {
		if err := common.ValidateDateFormat(*filter.DateTo, "date_to"); err != nil {
			return nil, err
		}
	}
	return s.movementRepo.Search(ctx, tenantID, filter)
}

func (s *movementService) History(ctx context.Context, tenantID, productID uuid.UUID, limit int) ([]*models.StockMovement, error) {
	return s.movementRepo.ListByProduct(ctx, tenantID, productID, limit)
}
