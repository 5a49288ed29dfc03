package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
)

// Niveles de urgencia de reposición.
const (
	UrgencyCritical = "CRITICAL"
	UrgencyHigh     = "HIGH"
	UrgencyMedium   = "MEDIUM"
)

var (
	pctCritical = decimal.NewFromInt(25)
	pctHigh     = decimal.NewFromInt(50)
	hundred     = decimal.NewFromInt(100)
)

// urgencyRank ordena CRITICAL antes que HIGH antes que MEDIUM en listados.
func urgencyRank(u string) int {
	switch u {
	case UrgencyCritical:
		return 0
	case UrgencyHigh:
		return 1
	}
	return 2
}

// StockPercentage devuelve CurrentStock/MinStock en porcentaje.
// MinStock cero significa que el ítem solo es bajo cuando está en 0: se devuelve 0%.
func StockPercentage(item *entity.InventoryItem) decimal.Decimal {
	if !item.MinStock.IsPositive() {
		return decimal.Zero
	}
	return item.CurrentStock.Div(item.MinStock).Mul(hundred)
}

// ClassifyUrgency clasifica un ítem bajo stock según el porcentaje de su mínimo:
// <=25% CRITICAL, <=50% HIGH, el resto MEDIUM.
func ClassifyUrgency(item *entity.InventoryItem) string {
	pct := StockPercentage(item)
	switch {
	case pct.LessThanOrEqual(pctCritical):
		return UrgencyCritical
	case pct.LessThanOrEqual(pctHigh):
		return UrgencyHigh
	}
	return UrgencyMedium
}

// MoreUrgent indica si a debe listarse antes que b (mayor urgencia primero).
func MoreUrgent(a, b string) bool {
	return urgencyRank(a) < urgencyRank(b)
}
