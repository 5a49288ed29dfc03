package usecase

import (
	"time"

	"github.com/tu-usuario/almacen-pae/internal/application/dto"
	"github.com/tu-usuario/almacen-pae/internal/domain"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
	"github.com/tu-usuario/almacen-pae/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD del catálogo de ítems. CurrentStock y
// AveragePrice se manejan vía movimientos, nunca desde aquí.
type ItemUseCase struct {
	repo repository.InventoryItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.InventoryItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un ítem. InitialStock siembra el saldo; de ahí en adelante el
// saldo solo cambia por movimientos aceptados.
func (uc *ItemUseCase) Create(in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.InitialStock.IsNegative() || in.MinStock.IsNegative() || in.MaxStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.MaxStock.IsPositive() && in.MinStock.GreaterThan(in.MaxStock) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.InventoryItem{
		Code:            in.Code,
		Name:            in.Name,
		Category:        in.Category,
		Unit:            in.Unit,
		CurrentStock:    in.InitialStock,
		MinStock:        in.MinStock,
		MaxStock:        in.MaxStock,
		ReorderQuantity: in.ReorderQuantity,
		CostPerUnit:     in.CostPerUnit,
		HasExpiry:       in.HasExpiry,
		ShelfLifeDays:   in.ShelfLifeDays,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	resp := dto.NewItemResponse(item)
	return &resp, nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.NewItemResponse(item)
	return &resp, nil
}

// Update actualiza datos de catálogo. No permite modificar CurrentStock ni
// AveragePrice. Desactivar con IsActive=false; no hay borrado físico.
func (uc *ItemUseCase) Update(id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.MinStock.IsNegative() || in.MaxStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.MaxStock.IsPositive() && in.MinStock.GreaterThan(in.MaxStock) {
		return nil, domain.ErrInvalidInput
	}
	item.Code = in.Code
	item.Name = in.Name
	item.Category = in.Category
	item.Unit = in.Unit
	item.MinStock = in.MinStock
	item.MaxStock = in.MaxStock
	item.ReorderQuantity = in.ReorderQuantity
	item.CostPerUnit = in.CostPerUnit
	item.HasExpiry = in.HasExpiry
	item.ShelfLifeDays = in.ShelfLifeDays
	if in.IsActive != nil {
		item.IsActive = *in.IsActive
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	resp := dto.NewItemResponse(item)
	return &resp, nil
}

// List lista ítems con paginación.
func (uc *ItemUseCase) List(onlyActive bool, limit, offset int) ([]dto.ItemResponse, error) {
	items, err := uc.repo.List(onlyActive, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.NewItemResponse(it))
	}
	return out, nil
}
