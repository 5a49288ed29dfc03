package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un SKU del almacén del programa de alimentación escolar.
// CurrentStock es el saldo autoritativo, derivado exclusivamente de movimientos
// aceptados: ningún otro camino lo muta. Se desactiva con IsActive, nunca se
// borra mientras existan movimientos que lo referencien.
type InventoryItem struct {
	ID              string
	Code            string // código interno opcional (ej. ALM-ARROZ-01)
	Name            string
	Category        string // granos, lácteos, proteínas, etc.
	Unit            string // kg, l, unidad
	CurrentStock    decimal.Decimal
	MinStock        decimal.Decimal
	MaxStock        decimal.Decimal
	ReorderQuantity decimal.Decimal
	CostPerUnit     *decimal.Decimal // costo de referencia para el motor de costeo de menús
	AveragePrice    *decimal.Decimal // costo promedio ponderado, actualizado en entradas
	HasExpiry       bool
	ShelfLifeDays   int // vida útil en días cuando HasExpiry
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
