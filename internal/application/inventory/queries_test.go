package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/tu-usuario/almacen-pae/internal/application/inventory"
	"github.com/tu-usuario/almacen-pae/internal/domain"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
	"github.com/tu-usuario/almacen-pae/internal/domain/repository"
)

// Listado con filtros de tipo y estado de aprobación; sin límite explícito
// aplica el tamaño de página por defecto.
func TestList_FiltrosYPaginado(t *testing.T) {
	store := newMemStore(arroz(1000, 20))
	record := appinv.NewRecordMovementUseCase(&memTxRunner{store: store})
	ctx := context.Background()

	in := appinv.MovementInput{
		InventoryID: "arroz",
		Type:        entity.MovementTypeIN,
		Quantity:    qty(100),
		MovedBy:     "operario-1",
	}
	entrada, _, err := record.Record(ctx, in)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, _, err := record.Record(ctx, outInput("arroz", 10))
		require.NoError(t, err)
	}

	approve := appinv.NewApproveMovementUseCase(&memMovementRepo{store: store})
	_, err = approve.Approve(ctx, entrada.ID, "supervisor-1", "")
	require.NoError(t, err)

	queries := appinv.NewMovementQueryUseCase(&memMovementRepo{store: store})

	salidas, err := queries.List(ctx, repository.MovementFilter{MovementType: entity.MovementTypeOUT})
	require.NoError(t, err)
	assert.Len(t, salidas, 3)

	pendientes, err := queries.List(ctx, repository.MovementFilter{ApprovalState: entity.ApprovalStatePending})
	require.NoError(t, err)
	assert.Len(t, pendientes, 3)

	aprobados, err := queries.List(ctx, repository.MovementFilter{ApprovalState: entity.ApprovalStateApproved})
	require.NoError(t, err)
	require.Len(t, aprobados, 1)
	assert.Equal(t, entrada.ID, aprobados[0].ID)

	pagina, err := queries.List(ctx, repository.MovementFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, pagina, 2)

	todos, err := queries.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, todos, 4, "límite por defecto cubre el historial de la prueba")
}

func TestGetByID_NoExiste(t *testing.T) {
	store := newMemStore()
	queries := appinv.NewMovementQueryUseCase(&memMovementRepo{store: store})
	_, err := queries.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
