package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pae/internal/application/dto"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
	domaininv "github.com/tu-usuario/almacen-pae/internal/domain/inventory"
	"github.com/tu-usuario/almacen-pae/internal/domain/repository"
)

// LowStockUseCase genera la lista de reposición: ítems con saldo en o bajo su
// mínimo, clasificados por urgencia y con la cantidad sugerida de pedido.
// Vista derivada de solo lectura sobre los saldos del catálogo.
type LowStockUseCase struct {
	itemRepo repository.InventoryItemRepository
}

// NewLowStockUseCase construye el caso de uso de reposición.
func NewLowStockUseCase(itemRepo repository.InventoryItemRepository) *LowStockUseCase {
	return &LowStockUseCase{itemRepo: itemRepo}
}

// Report devuelve los ítems bajo stock ordenados CRITICAL, HIGH, MEDIUM y,
// dentro del mismo nivel, menor porcentaje de stock primero.
func (uc *LowStockUseCase) Report(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	items, err := uc.itemRepo.ListLowStock()
	if err != nil {
		return nil, err
	}

	report := make([]dto.LowStockItemDTO, 0, len(items))
	for _, item := range items {
		urgency := domaininv.ClassifyUrgency(item)
		suggested := suggestedOrderQty(item)

		row := dto.LowStockItemDTO{
			InventoryID:       item.ID,
			Code:              item.Code,
			Name:              item.Name,
			Category:          item.Category,
			Unit:              item.Unit,
			CurrentStock:      item.CurrentStock,
			MinStock:          item.MinStock,
			StockPercentage:   domaininv.StockPercentage(item).Round(2),
			Urgency:           urgency,
			SuggestedOrderQty: suggested,
		}
		if cost := unitCostFor(item); cost != nil {
			estimated := suggested.Mul(*cost)
			row.EstimatedOrderCost = &estimated
		}
		report = append(report, row)
	}

	sort.SliceStable(report, func(i, j int) bool {
		a, b := report[i], report[j]
		if a.Urgency != b.Urgency {
			return domaininv.MoreUrgent(a.Urgency, b.Urgency)
		}
		return a.StockPercentage.LessThan(b.StockPercentage)
	})

	return report, nil
}

// suggestedOrderQty usa la cantidad de reorden del catálogo; sin ella, pide
// hasta el máximo; como último recurso, hasta el mínimo.
func suggestedOrderQty(item *entity.InventoryItem) decimal.Decimal {
	if item.ReorderQuantity.IsPositive() {
		return item.ReorderQuantity
	}
	if item.MaxStock.IsPositive() {
		if deficit := item.MaxStock.Sub(item.CurrentStock); deficit.IsPositive() {
			return deficit
		}
	}
	if deficit := item.MinStock.Sub(item.CurrentStock); deficit.IsPositive() {
		return deficit
	}
	return decimal.Zero
}

// unitCostFor prefiere el costo de catálogo; si no hay, el promedio ponderado.
func unitCostFor(item *entity.InventoryItem) *decimal.Decimal {
	if item.CostPerUnit != nil {
		return item.CostPerUnit
	}
	return item.AveragePrice
}
