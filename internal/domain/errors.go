package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrAlreadyApproved   = errors.New("movimiento ya aprobado")
	ErrBatchRejected     = errors.New("lote rechazado")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrItemInactive      = errors.New("ítem inactivo")
)

// InsufficientStockError detalla un rechazo por stock insuficiente:
// cuánto hay, cuánto se pidió y cuánto falta.
// Satisface errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	InventoryID string
	Available   decimal.Decimal
	Requested   decimal.Decimal
	Shortfall   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %s, solicitado %s (faltan %s)",
		e.InventoryID, e.Available, e.Requested, e.Shortfall)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NewInsufficientStock construye el error con el faltante ya calculado.
func NewInsufficientStock(inventoryID string, available, requested decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{
		InventoryID: inventoryID,
		Available:   available,
		Requested:   requested,
		Shortfall:   requested.Sub(available),
	}
}

// BatchError señala qué movimiento del lote falló la validación y por qué.
// El índice es determinista: siempre el primer movimiento que falla en el orden enviado.
// Satisface errors.Is(err, ErrBatchRejected) y expone la causa vía Unwrap.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("lote rechazado en el movimiento %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

func (e *BatchError) Is(target error) bool { return target == ErrBatchRejected }
