package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pae/internal/domain"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
)

// Códigos de advertencia no bloqueante.
const (
	WarningBelowMinimum = "BELOW_MINIMUM"
	WarningAboveMaximum = "ABOVE_MAXIMUM"
)

// Warning advertencia que se devuelve al caller sin bloquear el movimiento.
type Warning struct {
	Code    string
	Message string
}

// Result saldo resultante de un movimiento aceptado, más advertencias.
type Result struct {
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
	Warnings    []Warning
}

// ComputeStockAfter aplica la tabla de deltas por tipo. Es la única fuente de
// verdad del efecto de cada tipo sobre el saldo; el ledger persiste exactamente
// lo que esta función calcula.
func ComputeStockAfter(movementType string, stockBefore, quantity decimal.Decimal) (decimal.Decimal, error) {
	switch movementType {
	case entity.MovementTypeIN:
		return stockBefore.Add(quantity), nil
	case entity.MovementTypeOUT, entity.MovementTypeEXPIRED,
		entity.MovementTypeDAMAGED, entity.MovementTypeTRANSFER:
		return stockBefore.Sub(quantity), nil
	case entity.MovementTypeADJUSTMENT:
		// Ajuste absoluto: la cantidad ES el nuevo saldo.
		return quantity, nil
	}
	return decimal.Zero, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, movementType)
}

// Evaluate decide si un movimiento propuesto es aceptable y calcula el saldo
// resultante. Función pura: no toca persistencia ni estado compartido.
//
// Orden de verificación:
//  1. cantidad > 0 (ADJUSTMENT admite 0: fija el saldo en cero);
//  2. tipos que restan no pueden dejar saldo negativo;
//  3. advertencias no bloqueantes: cae bajo el mínimo tras una salida,
//     queda en o sobre el máximo tras una entrada.
func Evaluate(item *entity.InventoryItem, movementType string, quantity decimal.Decimal) (*Result, error) {
	if !entity.IsValidMovementType(movementType) {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, movementType)
	}

	if movementType == entity.MovementTypeADJUSTMENT {
		if quantity.IsNegative() {
			return nil, fmt.Errorf("%w: un ajuste no admite cantidad negativa", domain.ErrInvalidQuantity)
		}
	} else if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidQuantity)
	}

	stockBefore := item.CurrentStock
	stockAfter, err := ComputeStockAfter(movementType, stockBefore, quantity)
	if err != nil {
		return nil, err
	}

	if entity.IsDecreasingType(movementType) && stockAfter.IsNegative() {
		return nil, domain.NewInsufficientStock(item.ID, stockBefore, quantity)
	}

	res := &Result{StockBefore: stockBefore, StockAfter: stockAfter}

	switch {
	case stockAfter.LessThan(stockBefore) && stockAfter.LessThan(item.MinStock):
		res.Warnings = append(res.Warnings, Warning{
			Code: WarningBelowMinimum,
			Message: fmt.Sprintf("el saldo quedará en %s, por debajo del mínimo %s",
				stockAfter, item.MinStock),
		})
	case stockAfter.GreaterThan(stockBefore) && item.MaxStock.IsPositive() &&
		stockAfter.GreaterThanOrEqual(item.MaxStock):
		res.Warnings = append(res.Warnings, Warning{
			Code: WarningAboveMaximum,
			Message: fmt.Sprintf("el saldo quedará en %s, en o sobre el máximo %s",
				stockAfter, item.MaxStock),
		})
	}

	return res, nil
}
