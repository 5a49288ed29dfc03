package inventory

import (
	"context"

	"github.com/tu-usuario/almacen-pae/internal/domain"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
	"github.com/tu-usuario/almacen-pae/internal/domain/repository"
)

// MovementQueryUseCase lecturas del libro de movimientos (exportación, auditoría, UI).
type MovementQueryUseCase struct {
	movRepo repository.StockMovementRepository
}

// NewMovementQueryUseCase construye el caso de uso de consulta.
func NewMovementQueryUseCase(movRepo repository.StockMovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{movRepo: movRepo}
}

// List devuelve movimientos filtrados, más reciente primero.
func (uc *MovementQueryUseCase) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.movRepo.List(filter)
}

// GetByID devuelve un movimiento o ErrNotFound.
func (uc *MovementQueryUseCase) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	mov, err := uc.movRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return mov, nil
}
