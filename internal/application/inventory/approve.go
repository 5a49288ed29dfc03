package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/almacen-pae/internal/domain"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
	"github.com/tu-usuario/almacen-pae/internal/domain/repository"
)

// ApproveMovementUseCase adjunta el visto bueno a un movimiento ya registrado.
// La aprobación es metadato de auditoría: el efecto sobre el saldo ocurrió al
// registrar el movimiento y aquí no se toca. Transición de una sola vía
// PENDING -> APPROVED; reaprobar devuelve ErrAlreadyApproved, nunca un éxito
// silencioso.
type ApproveMovementUseCase struct {
	movRepo repository.StockMovementRepository
}

// NewApproveMovementUseCase construye el caso de uso.
func NewApproveMovementUseCase(movRepo repository.StockMovementRepository) *ApproveMovementUseCase {
	return &ApproveMovementUseCase{movRepo: movRepo}
}

// Approve fija approved_by/approved_at si aún no están. El repositorio hace la
// escritura condicional en una sola sentencia, así dos aprobaciones concurrentes
// no se pisan: exactamente una gana y la otra recibe ErrAlreadyApproved.
func (uc *ApproveMovementUseCase) Approve(ctx context.Context, movementID, approverID, notes string) (*entity.StockMovement, error) {
	if movementID == "" || approverID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.movRepo.Approve(movementID, approverID, notes, time.Now()); err != nil {
		return nil, err
	}
	mov, err := uc.movRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return mov, nil
}
