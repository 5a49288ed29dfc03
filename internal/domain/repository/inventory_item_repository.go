package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
)

// InventoryItemRepository define el puerto de persistencia para el catálogo de ítems.
// El saldo (CurrentStock) solo se escribe vía UpdateStock, y solo dentro de la
// transacción que registra el movimiento correspondiente.
type InventoryItemRepository interface {
	Create(item *entity.InventoryItem) error
	Update(item *entity.InventoryItem) error
	GetByID(id string) (*entity.InventoryItem, error)
	List(onlyActive bool, limit, offset int) ([]*entity.InventoryItem, error)

	// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE): sección crítica
	// por ítem para el ciclo leer-validar-escribir del ledger.
	GetForUpdate(id string) (*entity.InventoryItem, error)

	// UpdateStock fija CurrentStock en newStock. Uso exclusivo del ledger.
	UpdateStock(id string, newStock decimal.Decimal) error

	// UpdateAveragePrice actualiza el costo promedio ponderado tras una entrada.
	UpdateAveragePrice(id string, avg decimal.Decimal) error

	// ListLowStock devuelve los ítems activos con CurrentStock <= MinStock,
	// mayor déficit relativo primero.
	ListLowStock() ([]*entity.InventoryItem, error)
}
