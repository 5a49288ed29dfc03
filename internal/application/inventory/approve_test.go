package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/tu-usuario/almacen-pae/internal/application/inventory"
	"github.com/tu-usuario/almacen-pae/internal/domain"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
)

func registrarSalida(t *testing.T, store *memStore, q int64) *entity.StockMovement {
	t.Helper()
	mov, _, err := appinv.NewRecordMovementUseCase(&memTxRunner{store: store}).
		Record(context.Background(), outInput("arroz", q))
	require.NoError(t, err)
	return mov
}

// La aprobación adjunta el visto bueno sin tocar saldos ni cantidades: el
// movimiento ya surtió efecto al registrarse.
func TestApprove_AdjuntaVistoBuenoSinTocarSaldos(t *testing.T) {
	store := newMemStore(arroz(100, 20))
	mov := registrarSalida(t, store, 30)
	require.False(t, mov.IsApproved())

	uc := appinv.NewApproveMovementUseCase(&memMovementRepo{store: store})
	approved, err := uc.Approve(context.Background(), mov.ID, "supervisor-1", "revisado contra remisión")
	require.NoError(t, err)

	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "supervisor-1", *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, "revisado contra remisión", approved.ApprovalNotes)
	assert.True(t, approved.IsApproved())

	// Saldos intactos.
	assert.True(t, mov.StockBefore.Equal(approved.StockBefore))
	assert.True(t, mov.StockAfter.Equal(approved.StockAfter))
	assert.True(t, qty(70).Equal(store.itemStock("arroz")))
}

// Reaprobar no es éxito silencioso: ErrAlreadyApproved y el primer aprobador
// queda intacto.
func TestApprove_ReaprobarFalla(t *testing.T) {
	store := newMemStore(arroz(100, 20))
	mov := registrarSalida(t, store, 30)

	uc := appinv.NewApproveMovementUseCase(&memMovementRepo{store: store})
	ctx := context.Background()

	_, err := uc.Approve(ctx, mov.ID, "supervisor-1", "")
	require.NoError(t, err)

	_, err = uc.Approve(ctx, mov.ID, "supervisor-2", "segundo intento")
	assert.ErrorIs(t, err, domain.ErrAlreadyApproved)

	queries := appinv.NewMovementQueryUseCase(&memMovementRepo{store: store})
	got, err := queries.GetByID(ctx, mov.ID)
	require.NoError(t, err)
	assert.Equal(t, "supervisor-1", *got.ApprovedBy)
	assert.Empty(t, got.ApprovalNotes)
}

func TestApprove_EntradasInvalidas(t *testing.T) {
	store := newMemStore(arroz(100, 20))
	uc := appinv.NewApproveMovementUseCase(&memMovementRepo{store: store})
	ctx := context.Background()

	_, err := uc.Approve(ctx, "no-existe", "supervisor-1", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Approve(ctx, "cualquiera", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Approve(ctx, "", "supervisor-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Dos aprobaciones concurrentes sobre el mismo movimiento: exactamente una gana.
func TestApprove_ConcurrenciaUnSoloGanador(t *testing.T) {
	store := newMemStore(arroz(100, 20))
	mov := registrarSalida(t, store, 30)

	uc := appinv.NewApproveMovementUseCase(&memMovementRepo{store: store})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, approver := range []string{"supervisor-1", "supervisor-2"} {
		wg.Add(1)
		go func(i int, approver string) {
			defer wg.Done()
			_, errs[i] = uc.Approve(context.Background(), mov.ID, approver, "")
		}(i, approver)
	}
	wg.Wait()

	okCount := 0
	for _, err := range errs {
		if err == nil {
			okCount++
		} else {
			assert.ErrorIs(t, err, domain.ErrAlreadyApproved)
		}
	}
	assert.Equal(t, 1, okCount)
}
