package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pae/internal/application/dto"
	"github.com/tu-usuario/almacen-pae/internal/domain"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
	domaininv "github.com/tu-usuario/almacen-pae/internal/domain/inventory"
	"github.com/tu-usuario/almacen-pae/internal/domain/repository"
)

// RecordMovementUseCase es el ledger: el único componente autorizado a crear
// movimientos y a actualizar el saldo del ítem, como una sola unidad lógica.
// Serializa por ítem con bloqueo de fila (SELECT FOR UPDATE) dentro de la
// transacción; llamadas sobre ítems distintos corren en paralelo.
type RecordMovementUseCase struct {
	txRunner TxRunner
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(txRunner TxRunner) *RecordMovementUseCase {
	return &RecordMovementUseCase{txRunner: txRunner}
}

// MovementInput entrada para registrar un movimiento individual.
type MovementInput struct {
	InventoryID     string
	Type            string
	Quantity        decimal.Decimal
	UnitCost        *decimal.Decimal
	ReferenceType   string
	ReferenceID     string
	ReferenceNumber string
	BatchNumber     string
	ExpiryDate      *time.Time
	Notes           string
	DocumentURL     string
	MovedBy         string
}

// RecordFromRequest adapta el request HTTP a Record(ctx, MovementInput).
func (uc *RecordMovementUseCase) RecordFromRequest(ctx context.Context, userID string, in dto.RecordMovementRequest) (*entity.StockMovement, []domaininv.Warning, error) {
	return uc.Record(ctx, MovementInput{
		InventoryID:     in.InventoryID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		ReferenceNumber: in.ReferenceNumber,
		BatchNumber:     in.BatchNumber,
		ExpiryDate:      in.ExpiryDate,
		Notes:           in.Notes,
		DocumentURL:     in.DocumentURL,
		MovedBy:         userID,
	})
}

// Record inicia una transacción, bloquea la fila del ítem, evalúa el movimiento
// con el validador puro y, si es aceptado, persiste la entrada inmutable del
// ledger y fija el saldo en StockAfter. En rechazo devuelve el error tal cual:
// ni registro ni cambio de saldo (el rollback lo garantiza el TxRunner).
func (uc *RecordMovementUseCase) Record(ctx context.Context, input MovementInput) (*entity.StockMovement, []domaininv.Warning, error) {
	if input.InventoryID == "" || input.MovedBy == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if !entity.IsValidMovementType(input.Type) {
		return nil, nil, domain.ErrInvalidInput
	}

	var created *entity.StockMovement
	var warnings []domaininv.Warning

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		// Bloquea la fila del ítem: sección crítica por inventoryID.
		item, err := itemRepo.GetForUpdate(input.InventoryID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if !item.IsActive {
			return domain.ErrItemInactive
		}

		res, err := domaininv.Evaluate(item, input.Type, input.Quantity)
		if err != nil {
			return err
		}

		now := time.Now()
		mov := buildMovement(item, input, res, now, "")
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if err := itemRepo.UpdateStock(item.ID, res.StockAfter); err != nil {
			return err
		}
		if err := refreshAveragePrice(itemRepo, item, input.Type, input.Quantity, input.UnitCost); err != nil {
			return err
		}

		created = mov
		warnings = res.Warnings
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return created, warnings, nil
}

// buildMovement arma la entrada del ledger con los saldos capturados del validador.
func buildMovement(item *entity.InventoryItem, input MovementInput, res *domaininv.Result, now time.Time, batchTxID string) *entity.StockMovement {
	mov := &entity.StockMovement{
		InventoryID:     item.ID,
		BatchTxID:       batchTxID,
		MovementType:    input.Type,
		Quantity:        input.Quantity,
		Unit:            item.Unit,
		StockBefore:     res.StockBefore,
		StockAfter:      res.StockAfter,
		UnitCost:        input.UnitCost,
		ReferenceType:   input.ReferenceType,
		ReferenceID:     input.ReferenceID,
		ReferenceNumber: input.ReferenceNumber,
		BatchNumber:     input.BatchNumber,
		ExpiryDate:      input.ExpiryDate,
		Notes:           input.Notes,
		DocumentURL:     input.DocumentURL,
		MovedBy:         input.MovedBy,
		MovedAt:         now,
		CreatedAt:       now,
	}
	if input.UnitCost != nil {
		total := input.Quantity.Mul(*input.UnitCost)
		mov.TotalCost = &total
	}
	return mov
}

// refreshAveragePrice recalcula el costo promedio ponderado tras una entrada con costo.
func refreshAveragePrice(itemRepo repository.InventoryItemRepository, item *entity.InventoryItem, movType string, qty decimal.Decimal, unitCost *decimal.Decimal) error {
	if movType != entity.MovementTypeIN || unitCost == nil {
		return nil
	}
	current := decimal.Zero
	if item.AveragePrice != nil {
		current = *item.AveragePrice
	}
	avg := domaininv.WeightedAverageCost(item.CurrentStock, current, qty, *unitCost)
	return itemRepo.UpdateAveragePrice(item.ID, avg)
}
