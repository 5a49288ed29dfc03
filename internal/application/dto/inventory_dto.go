package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
	"github.com/tu-usuario/almacen-pae/internal/domain/inventory"
)

// RecordMovementRequest body para POST /api/inventory/movements.
type RecordMovementRequest struct {
	InventoryID     string           `json:"inventory_id" validate:"required"`
	Type            string           `json:"type" validate:"required"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	ReferenceType   string           `json:"reference_type,omitempty"`
	ReferenceID     string           `json:"reference_id,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	BatchNumber     string           `json:"batch_number,omitempty"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	DocumentURL     string           `json:"document_url,omitempty"`
}

// BatchMovementLine un movimiento dentro de un lote.
type BatchMovementLine struct {
	InventoryID string           `json:"inventory_id" validate:"required"`
	Type        string           `json:"type" validate:"required"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	BatchNumber string           `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time       `json:"expiry_date,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// SubmitBatchRequest body para POST /api/inventory/movements/batch.
// Todos los movimientos quedan atados a la misma referencia de negocio.
type SubmitBatchRequest struct {
	Movements       []BatchMovementLine `json:"movements" validate:"required,min=1,dive"`
	ReferenceType   string              `json:"reference_type" validate:"required"`
	ReferenceID     string              `json:"reference_id,omitempty"`
	ReferenceNumber string              `json:"reference_number,omitempty"`
	Notes           string              `json:"notes,omitempty"`
}

// ApproveMovementRequest body para POST /api/inventory/movements/:id/approve.
type ApproveMovementRequest struct {
	Notes string `json:"notes,omitempty"`
}

// WarningDTO advertencia no bloqueante devuelta junto al movimiento aceptado.
type WarningDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MovementResponse representación HTTP de un movimiento del ledger.
type MovementResponse struct {
	ID              string           `json:"id"`
	InventoryID     string           `json:"inventory_id"`
	BatchTxID       string           `json:"batch_tx_id,omitempty"`
	Type            string           `json:"type"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Unit            string           `json:"unit"`
	StockBefore     decimal.Decimal  `json:"stock_before"`
	StockAfter      decimal.Decimal  `json:"stock_after"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost       *decimal.Decimal `json:"total_cost,omitempty"`
	ReferenceType   string           `json:"reference_type,omitempty"`
	ReferenceID     string           `json:"reference_id,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	BatchNumber     string           `json:"batch_number,omitempty"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	DocumentURL     string           `json:"document_url,omitempty"`
	MovedBy         string           `json:"moved_by"`
	MovedAt         time.Time        `json:"moved_at"`
	ApprovedBy      *string          `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty"`
	ApprovalNotes   string           `json:"approval_notes,omitempty"`
}

// NewMovementResponse mapea la entidad al DTO.
func NewMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		InventoryID:     m.InventoryID,
		BatchTxID:       m.BatchTxID,
		Type:            m.MovementType,
		Quantity:        m.Quantity,
		Unit:            m.Unit,
		StockBefore:     m.StockBefore,
		StockAfter:      m.StockAfter,
		UnitCost:        m.UnitCost,
		TotalCost:       m.TotalCost,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		ReferenceNumber: m.ReferenceNumber,
		BatchNumber:     m.BatchNumber,
		ExpiryDate:      m.ExpiryDate,
		Notes:           m.Notes,
		DocumentURL:     m.DocumentURL,
		MovedBy:         m.MovedBy,
		MovedAt:         m.MovedAt,
		ApprovedBy:      m.ApprovedBy,
		ApprovedAt:      m.ApprovedAt,
		ApprovalNotes:   m.ApprovalNotes,
	}
}

// NewWarningDTOs mapea advertencias del validador.
func NewWarningDTOs(ws []inventory.Warning) []WarningDTO {
	if len(ws) == 0 {
		return nil
	}
	out := make([]WarningDTO, 0, len(ws))
	for _, w := range ws {
		out = append(out, WarningDTO{Code: w.Code, Message: w.Message})
	}
	return out
}

// LowStockItemDTO un ítem bajo stock con su urgencia y la sugerencia de pedido.
type LowStockItemDTO struct {
	InventoryID        string           `json:"inventory_id"`
	Code               string           `json:"code,omitempty"`
	Name               string           `json:"name"`
	Category           string           `json:"category,omitempty"`
	Unit               string           `json:"unit"`
	CurrentStock       decimal.Decimal  `json:"current_stock"`
	MinStock           decimal.Decimal  `json:"min_stock"`
	StockPercentage    decimal.Decimal  `json:"stock_percentage"` // CurrentStock/MinStock * 100
	Urgency            string           `json:"urgency"`          // CRITICAL | HIGH | MEDIUM
	SuggestedOrderQty  decimal.Decimal  `json:"suggested_order_qty"`
	EstimatedOrderCost *decimal.Decimal `json:"estimated_order_cost,omitempty"`
}

// CreateItemRequest alta de un ítem del catálogo.
type CreateItemRequest struct {
	Code            string           `json:"code,omitempty"`
	Name            string           `json:"name" validate:"required"`
	Category        string           `json:"category,omitempty"`
	Unit            string           `json:"unit" validate:"required"`
	InitialStock    decimal.Decimal  `json:"initial_stock"`
	MinStock        decimal.Decimal  `json:"min_stock"`
	MaxStock        decimal.Decimal  `json:"max_stock"`
	ReorderQuantity decimal.Decimal  `json:"reorder_quantity"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit,omitempty"`
	HasExpiry       bool             `json:"has_expiry"`
	ShelfLifeDays   int              `json:"shelf_life_days,omitempty" validate:"omitempty,min=0"`
}

// UpdateItemRequest actualización de catálogo. No toca CurrentStock: el saldo
// solo cambia registrando movimientos.
type UpdateItemRequest struct {
	Code            string           `json:"code,omitempty"`
	Name            string           `json:"name" validate:"required"`
	Category        string           `json:"category,omitempty"`
	Unit            string           `json:"unit" validate:"required"`
	MinStock        decimal.Decimal  `json:"min_stock"`
	MaxStock        decimal.Decimal  `json:"max_stock"`
	ReorderQuantity decimal.Decimal  `json:"reorder_quantity"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit,omitempty"`
	HasExpiry       bool             `json:"has_expiry"`
	ShelfLifeDays   int              `json:"shelf_life_days,omitempty" validate:"omitempty,min=0"`
	IsActive        *bool            `json:"is_active,omitempty"`
}

// ItemResponse representación HTTP de un ítem.
type ItemResponse struct {
	ID              string           `json:"id"`
	Code            string           `json:"code,omitempty"`
	Name            string           `json:"name"`
	Category        string           `json:"category,omitempty"`
	Unit            string           `json:"unit"`
	CurrentStock    decimal.Decimal  `json:"current_stock"`
	MinStock        decimal.Decimal  `json:"min_stock"`
	MaxStock        decimal.Decimal  `json:"max_stock"`
	ReorderQuantity decimal.Decimal  `json:"reorder_quantity"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit,omitempty"`
	AveragePrice    *decimal.Decimal `json:"average_price,omitempty"`
	HasExpiry       bool             `json:"has_expiry"`
	ShelfLifeDays   int              `json:"shelf_life_days,omitempty"`
	IsActive        bool             `json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewItemResponse mapea la entidad al DTO.
func NewItemResponse(it *entity.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:              it.ID,
		Code:            it.Code,
		Name:            it.Name,
		Category:        it.Category,
		Unit:            it.Unit,
		CurrentStock:    it.CurrentStock,
		MinStock:        it.MinStock,
		MaxStock:        it.MaxStock,
		ReorderQuantity: it.ReorderQuantity,
		CostPerUnit:     it.CostPerUnit,
		AveragePrice:    it.AveragePrice,
		HasExpiry:       it.HasExpiry,
		ShelfLifeDays:   it.ShelfLifeDays,
		IsActive:        it.IsActive,
		CreatedAt:       it.CreatedAt,
		UpdatedAt:       it.UpdatedAt,
	}
}
