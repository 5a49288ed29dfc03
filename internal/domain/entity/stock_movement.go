package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste absoluto: fija el saldo en Quantity
	MovementTypeEXPIRED    = "EXPIRED"    // baja por vencimiento
	MovementTypeDAMAGED    = "DAMAGED"    // baja por daño
	MovementTypeTRANSFER   = "TRANSFER"   // traslado: se modela solo la pata de salida
)

// Razones de negocio que originan un movimiento.
const (
	ReferenceTypePROCUREMENT      = "PROCUREMENT"
	ReferenceTypePRODUCTION       = "PRODUCTION"
	ReferenceTypeDISTRIBUTION     = "DISTRIBUTION"
	ReferenceTypeRETURN           = "RETURN"
	ReferenceTypeDONATION         = "DONATION"
	ReferenceTypeWASTE            = "WASTE"
	ReferenceTypeTransferIn       = "TRANSFER_IN"
	ReferenceTypeTransferOut      = "TRANSFER_OUT"
	ReferenceTypeCountAdjustment  = "COUNT_ADJUSTMENT"
	ReferenceTypeSystemCorrection = "SYSTEM_CORRECTION"
	ReferenceTypeOTHER            = "OTHER"
)

// Estados de aprobación para filtros de consulta.
const (
	ApprovalStatePending  = "PENDING"
	ApprovalStateApproved = "APPROVED"
)

// IsValidMovementType valida contra el conjunto cerrado de tipos.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT,
		MovementTypeEXPIRED, MovementTypeDAMAGED, MovementTypeTRANSFER:
		return true
	}
	return false
}

// IsDecreasingType indica si el tipo resta del saldo (OUT, EXPIRED, DAMAGED, TRANSFER).
func IsDecreasingType(t string) bool {
	switch t {
	case MovementTypeOUT, MovementTypeEXPIRED, MovementTypeDAMAGED, MovementTypeTRANSFER:
		return true
	}
	return false
}

// StockMovement es una entrada inmutable del libro de movimientos.
// StockBefore/StockAfter se capturan al aceptar el movimiento y nunca se
// recalculan; las correcciones son movimientos compensatorios nuevos.
// Los únicos campos que admiten escritura posterior son los de aprobación,
// y solo una vez.
type StockMovement struct {
	ID           string
	InventoryID  string
	BatchTxID    string // agrupa los movimientos de un lote (vacío si fue individual)
	MovementType string
	Quantity     decimal.Decimal // magnitud no negativa, tal como la ingresó el operario
	Unit         string          // unidad del ítem al momento del registro (solo auditoría)
	StockBefore  decimal.Decimal
	StockAfter   decimal.Decimal
	UnitCost     *decimal.Decimal
	TotalCost    *decimal.Decimal // Quantity * UnitCost cuando ambos presentes

	ReferenceType   string
	ReferenceID     string
	ReferenceNumber string
	BatchNumber     string
	ExpiryDate      *time.Time
	Notes           string
	DocumentURL     string

	MovedBy       string
	MovedAt       time.Time
	ApprovedBy    *string
	ApprovedAt    *time.Time
	ApprovalNotes string
	CreatedAt     time.Time
}

// IsApproved indica si el movimiento ya tiene visto bueno.
func (m *StockMovement) IsApproved() bool {
	return m.ApprovedBy != nil
}
