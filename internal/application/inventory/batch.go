package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pae/internal/application/dto"
	"github.com/tu-usuario/almacen-pae/internal/domain"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
	domaininv "github.com/tu-usuario/almacen-pae/internal/domain/inventory"
	"github.com/tu-usuario/almacen-pae/internal/domain/repository"
)

// SubmitBatchUseCase aplica una lista de movimientos como unidad todo-o-nada,
// típicamente atados a un mismo documento de compra, producción o distribución.
// Valida todo el lote contra un saldo simulado por ítem antes de persistir nada:
// el primer movimiento que falla rechaza el lote completo.
type SubmitBatchUseCase struct {
	txRunner TxRunner
}

// NewSubmitBatchUseCase construye el caso de uso.
func NewSubmitBatchUseCase(txRunner TxRunner) *SubmitBatchUseCase {
	return &SubmitBatchUseCase{txRunner: txRunner}
}

// BatchLine un movimiento propuesto dentro del lote.
type BatchLine struct {
	InventoryID string
	Type        string
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
	BatchNumber string
	ExpiryDate  *time.Time
	Notes       string
}

// BatchInput entrada para enviar un lote.
type BatchInput struct {
	Lines           []BatchLine
	ReferenceType   string
	ReferenceID     string
	ReferenceNumber string
	Notes           string
	MovedBy         string
}

// SubmitFromRequest adapta el request HTTP a Submit(ctx, BatchInput).
func (uc *SubmitBatchUseCase) SubmitFromRequest(ctx context.Context, userID string, in dto.SubmitBatchRequest) ([]*entity.StockMovement, error) {
	lines := make([]BatchLine, 0, len(in.Movements))
	for _, m := range in.Movements {
		lines = append(lines, BatchLine{
			InventoryID: m.InventoryID,
			Type:        m.Type,
			Quantity:    m.Quantity,
			UnitCost:    m.UnitCost,
			BatchNumber: m.BatchNumber,
			ExpiryDate:  m.ExpiryDate,
			Notes:       m.Notes,
		})
	}
	return uc.Submit(ctx, BatchInput{
		Lines:           lines,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		MovedBy:         userID,
	})
}

// Submit bloquea cada ítem distinto del lote (en orden ascendente de ID, para
// que dos lotes concurrentes no se bloqueen en cruz), simula el saldo corriente
// por ítem a lo largo del lote y, solo si todos los movimientos pasan, los
// persiste en el orden enviado con saldos encadenados. El saldo final de cada
// ítem se escribe una sola vez.
func (uc *SubmitBatchUseCase) Submit(ctx context.Context, input BatchInput) ([]*entity.StockMovement, error) {
	if len(input.Lines) == 0 || input.MovedBy == "" {
		return nil, domain.ErrInvalidInput
	}
	for i, line := range input.Lines {
		if line.InventoryID == "" || !entity.IsValidMovementType(line.Type) {
			return nil, &domain.BatchError{Index: i, Err: domain.ErrInvalidInput}
		}
	}

	var created []*entity.StockMovement

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		firstLine := make(map[string]int) // inventoryID -> primer índice que lo toca
		ids := make([]string, 0, len(input.Lines))
		for i, line := range input.Lines {
			if _, seen := firstLine[line.InventoryID]; !seen {
				firstLine[line.InventoryID] = i
				ids = append(ids, line.InventoryID)
			}
		}
		sort.Strings(ids)

		// Bloqueo de todas las filas implicadas, en orden estable.
		items := make(map[string]*entity.InventoryItem, len(ids))
		for _, id := range ids {
			item, err := itemRepo.GetForUpdate(id)
			if err != nil {
				return err
			}
			if item == nil {
				return &domain.BatchError{Index: firstLine[id], Err: domain.ErrNotFound}
			}
			if !item.IsActive {
				return &domain.BatchError{Index: firstLine[id], Err: domain.ErrItemInactive}
			}
			items[id] = item
		}

		// Simulación: saldo y costo promedio corriente por ítem dentro del lote.
		running := make(map[string]decimal.Decimal, len(ids))
		avg := make(map[string]decimal.Decimal, len(ids))
		avgDirty := make(map[string]bool)
		for id, item := range items {
			running[id] = item.CurrentStock
			if item.AveragePrice != nil {
				avg[id] = *item.AveragePrice
			} else {
				avg[id] = decimal.Zero
			}
		}

		now := time.Now()
		batchTxID := uuid.New().String()
		movements := make([]*entity.StockMovement, 0, len(input.Lines))

		for i, line := range input.Lines {
			item := items[line.InventoryID]
			sim := *item
			sim.CurrentStock = running[line.InventoryID]

			res, err := domaininv.Evaluate(&sim, line.Type, line.Quantity)
			if err != nil {
				return &domain.BatchError{Index: i, Err: err}
			}

			mov := buildMovement(item, MovementInput{
				InventoryID:     line.InventoryID,
				Type:            line.Type,
				Quantity:        line.Quantity,
				UnitCost:        line.UnitCost,
				ReferenceType:   input.ReferenceType,
				ReferenceID:     input.ReferenceID,
				ReferenceNumber: input.ReferenceNumber,
				BatchNumber:     line.BatchNumber,
				ExpiryDate:      line.ExpiryDate,
				Notes:           firstNonEmpty(line.Notes, input.Notes),
				MovedBy:         input.MovedBy,
			}, res, now, batchTxID)
			movements = append(movements, mov)

			if line.Type == entity.MovementTypeIN && line.UnitCost != nil {
				avg[line.InventoryID] = domaininv.WeightedAverageCost(
					res.StockBefore, avg[line.InventoryID], line.Quantity, *line.UnitCost)
				avgDirty[line.InventoryID] = true
			}
			running[line.InventoryID] = res.StockAfter
		}

		// Todo el lote validó: persistir en el orden enviado.
		for _, mov := range movements {
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}
		for _, id := range ids {
			if err := itemRepo.UpdateStock(id, running[id]); err != nil {
				return err
			}
			if avgDirty[id] {
				if err := itemRepo.UpdateAveragePrice(id, avg[id]); err != nil {
					return err
				}
			}
		}

		created = movements
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
