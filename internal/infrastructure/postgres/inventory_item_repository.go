package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-pae/internal/domain"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
	"github.com/tu-usuario/almacen-pae/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

const itemColumns = `id, code, name, category, unit, current_stock, min_stock, max_stock,
		reorder_quantity, cost_per_unit, average_price, has_expiry, shelf_life_days,
		is_active, created_at, updated_at`

// InventoryItemRepo implementación de InventoryItemRepository sobre PostgreSQL
// (usable con pool o tx).
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

// Create persiste un ítem nuevo del catálogo.
func (r *InventoryItemRepo) Create(item *entity.InventoryItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Code, item.Name, item.Category, item.Unit,
		item.CurrentStock, item.MinStock, item.MaxStock, item.ReorderQuantity,
		item.CostPerUnit, item.AveragePrice, item.HasExpiry, item.ShelfLifeDays,
		item.IsActive, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create inventory item: %w", err)
	}
	return nil
}

// Update actualiza datos de catálogo. No toca current_stock ni average_price.
func (r *InventoryItemRepo) Update(item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET code = $2, name = $3, category = $4, unit = $5, min_stock = $6,
		    max_stock = $7, reorder_quantity = $8, cost_per_unit = $9,
		    has_expiry = $10, shelf_life_days = $11, is_active = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.Code, item.Name, item.Category, item.Unit,
		item.MinStock, item.MaxStock, item.ReorderQuantity, item.CostPerUnit,
		item.HasExpiry, item.ShelfLifeDays, item.IsActive, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un ítem por ID. Devuelve (nil, nil) si no existe.
func (r *InventoryItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get inventory item")
}

// GetForUpdate obtiene el ítem y bloquea su fila (SELECT FOR UPDATE): sección
// crítica por ítem para el ciclo leer-validar-escribir del ledger.
func (r *InventoryItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get inventory item for update")
}

// UpdateStock fija el saldo en newStock. Solo lo invoca el ledger dentro de la
// transacción que registró el movimiento.
func (r *InventoryItemRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	query := `UPDATE inventory_items SET current_stock = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, newStock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateAveragePrice actualiza el costo promedio ponderado tras una entrada.
func (r *InventoryItemRepo) UpdateAveragePrice(id string, avg decimal.Decimal) error {
	query := `UPDATE inventory_items SET average_price = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, avg)
	if err != nil {
		return fmt.Errorf("update average price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ítems del catálogo, nombre ascendente.
func (r *InventoryItemRepo) List(onlyActive bool, limit, offset int) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListLowStock devuelve los ítems activos con saldo en o bajo su mínimo,
// mayor déficit relativo primero.
func (r *InventoryItemRepo) ListLowStock() ([]*entity.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE is_active AND current_stock <= min_stock
		ORDER BY CASE WHEN min_stock > 0 THEN current_stock / min_stock ELSE 0 END ASC, name ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *InventoryItemRepo) scanOne(row pgx.Row, op string) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(
		&it.ID, &it.Code, &it.Name, &it.Category, &it.Unit,
		&it.CurrentStock, &it.MinStock, &it.MaxStock, &it.ReorderQuantity,
		&it.CostPerUnit, &it.AveragePrice, &it.HasExpiry, &it.ShelfLifeDays,
		&it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &it, nil
}

func (r *InventoryItemRepo) scanMany(rows pgx.Rows) ([]*entity.InventoryItem, error) {
	var list []*entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		if err := rows.Scan(
			&it.ID, &it.Code, &it.Name, &it.Category, &it.Unit,
			&it.CurrentStock, &it.MinStock, &it.MaxStock, &it.ReorderQuantity,
			&it.CostPerUnit, &it.AveragePrice, &it.HasExpiry, &it.ShelfLifeDays,
			&it.IsActive, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
