package usecase_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-pae/internal/application/dto"
	"github.com/tu-usuario/almacen-pae/internal/application/usecase"
	"github.com/tu-usuario/almacen-pae/internal/domain"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
	"github.com/tu-usuario/almacen-pae/internal/domain/repository"
)

// fakeItemRepo repositorio en memoria mínimo para los tests del catálogo.
type fakeItemRepo struct {
	items map[string]*entity.InventoryItem
	seq   int
}

var _ repository.InventoryItemRepository = (*fakeItemRepo)(nil)

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]*entity.InventoryItem)}
}

func (r *fakeItemRepo) Create(item *entity.InventoryItem) error {
	if item.ID == "" {
		r.seq++
		item.ID = fmt.Sprintf("item-%d", r.seq)
	}
	for _, it := range r.items {
		if item.Code != "" && it.Code == item.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) Update(item *entity.InventoryItem) error {
	existing, ok := r.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *item
	// current_stock y average_price no los escribe Update.
	cp.CurrentStock = existing.CurrentStock
	cp.AveragePrice = existing.AveragePrice
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	return r.GetByID(id)
}

func (r *fakeItemRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	it, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.CurrentStock = newStock
	return nil
}

func (r *fakeItemRepo) UpdateAveragePrice(id string, avg decimal.Decimal) error {
	it, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.AveragePrice = &avg
	return nil
}

func (r *fakeItemRepo) List(onlyActive bool, limit, offset int) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range r.items {
		if onlyActive && !it.IsActive {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeItemRepo) ListLowStock() ([]*entity.InventoryItem, error) {
	return nil, nil
}

func crearArroz(t *testing.T, uc *usecase.ItemUseCase) *dto.ItemResponse {
	t.Helper()
	resp, err := uc.Create(dto.CreateItemRequest{
		Code:         "ARZ-001",
		Name:         "Arroz blanco",
		Unit:         "kg",
		InitialStock: decimal.NewFromInt(100),
		MinStock:     decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	return resp
}

// El alta siembra el saldo con InitialStock y activa el ítem.
func TestItemCreate_SiembraSaldoInicial(t *testing.T) {
	uc := usecase.NewItemUseCase(newFakeItemRepo())
	resp := crearArroz(t, uc)

	assert.NotEmpty(t, resp.ID)
	assert.True(t, decimal.NewFromInt(100).Equal(resp.CurrentStock))
	assert.True(t, resp.IsActive)
}

func TestItemCreate_EntradasInvalidas(t *testing.T) {
	uc := usecase.NewItemUseCase(newFakeItemRepo())

	_, err := uc.Create(dto.CreateItemRequest{
		Name: "x", Unit: "kg", InitialStock: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "stock inicial negativo")

	_, err = uc.Create(dto.CreateItemRequest{
		Name: "x", Unit: "kg",
		MinStock: decimal.NewFromInt(50), MaxStock: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "mínimo por encima del máximo")
}

func TestItemCreate_CodigoDuplicado(t *testing.T) {
	uc := usecase.NewItemUseCase(newFakeItemRepo())
	crearArroz(t, uc)

	_, err := uc.Create(dto.CreateItemRequest{
		Code: "ARZ-001", Name: "Arroz integral", Unit: "kg",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Update cambia datos de catálogo pero nunca el saldo.
func TestItemUpdate_NoTocaElSaldo(t *testing.T) {
	repo := newFakeItemRepo()
	uc := usecase.NewItemUseCase(repo)
	created := crearArroz(t, uc)

	inactivo := false
	updated, err := uc.Update(created.ID, dto.UpdateItemRequest{
		Code:     "ARZ-001",
		Name:     "Arroz blanco premium",
		Unit:     "kg",
		MinStock: decimal.NewFromInt(30),
		IsActive: &inactivo,
	})
	require.NoError(t, err)

	assert.Equal(t, "Arroz blanco premium", updated.Name)
	assert.False(t, updated.IsActive)

	stored, err := uc.GetByID(created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(stored.CurrentStock))
}

func TestItemUpdate_NoExiste(t *testing.T) {
	uc := usecase.NewItemUseCase(newFakeItemRepo())
	_, err := uc.Update("fantasma", dto.UpdateItemRequest{Name: "x", Unit: "kg"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemList_SoloActivos(t *testing.T) {
	uc := usecase.NewItemUseCase(newFakeItemRepo())
	created := crearArroz(t, uc)

	_, err := uc.Create(dto.CreateItemRequest{Code: "FRJ-001", Name: "Frijol rojo", Unit: "kg"})
	require.NoError(t, err)

	inactivo := false
	_, err = uc.Update(created.ID, dto.UpdateItemRequest{
		Code: "ARZ-001", Name: "Arroz blanco", Unit: "kg", IsActive: &inactivo,
	})
	require.NoError(t, err)

	activos, err := uc.List(true, 20, 0)
	require.NoError(t, err)
	require.Len(t, activos, 1)
	assert.Equal(t, "Frijol rojo", activos[0].Name)

	todos, err := uc.List(false, 20, 0)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}
