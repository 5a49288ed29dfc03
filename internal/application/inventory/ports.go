package inventory

import (
	"context"

	"github.com/tu-usuario/almacen-pae/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el ledger: o se persisten el movimiento
// y el nuevo saldo, o ninguno de los dos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error) error
}
