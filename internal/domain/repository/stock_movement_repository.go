package repository

import (
	"time"

	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
)

// MovementFilter criterios de consulta del libro de movimientos.
// Campos vacíos/nil no filtran. Orden por defecto: MovedAt descendente.
type MovementFilter struct {
	InventoryID   string
	MovementType  string
	ReferenceType string
	MovedBy       string
	From          *time.Time
	To            *time.Time
	ApprovalState string // PENDING | APPROVED | vacío = todos
	Limit         int
	Offset        int
}

// StockMovementRepository define el puerto de persistencia del libro de movimientos.
// Las entradas son inmutables: solo Approve escribe después de Create, una única vez.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(filter MovementFilter) ([]*entity.StockMovement, error)

	// Approve fija approved_by/approved_at de forma condicional (solo si aún no
	// están). Devuelve domain.ErrAlreadyApproved si ya había visto bueno y
	// domain.ErrNotFound si el movimiento no existe.
	Approve(id, approverID, notes string, at time.Time) error
}
