package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-pae/internal/domain"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
	"github.com/tu-usuario/almacen-pae/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, inventory_id, batch_tx_id, movement_type, quantity, unit,
		stock_before, stock_after, unit_cost, total_cost,
		reference_type, reference_id, reference_number, batch_number, expiry_date,
		notes, document_url, moved_by, moved_at, approved_by, approved_at,
		approval_notes, created_at`

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Las filas son inmutables salvo los campos de
// aprobación, que se escriben una única vez vía Approve.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste una entrada del ledger.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.InventoryID, nullIfEmpty(movement.BatchTxID),
		movement.MovementType, movement.Quantity, movement.Unit,
		movement.StockBefore, movement.StockAfter, movement.UnitCost, movement.TotalCost,
		nullIfEmpty(movement.ReferenceType), nullIfEmpty(movement.ReferenceID),
		nullIfEmpty(movement.ReferenceNumber), nullIfEmpty(movement.BatchNumber),
		movement.ExpiryDate, nullIfEmpty(movement.Notes), nullIfEmpty(movement.DocumentURL),
		movement.MovedBy, movement.MovedAt, movement.ApprovedBy, movement.ApprovedAt,
		nullIfEmpty(movement.ApprovalNotes), movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve (nil, nil) si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// List lista movimientos según filtro, moved_at descendente.
func (r *StockMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	args := []any{}
	pos := 1
	add := func(cond string, val any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, val)
		pos++
	}
	if filter.InventoryID != "" {
		add("inventory_id = $%d", filter.InventoryID)
	}
	if filter.MovementType != "" {
		add("movement_type = $%d", filter.MovementType)
	}
	if filter.ReferenceType != "" {
		add("reference_type = $%d", filter.ReferenceType)
	}
	if filter.MovedBy != "" {
		add("moved_by = $%d", filter.MovedBy)
	}
	if filter.From != nil {
		add("moved_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("moved_at <= $%d", *filter.To)
	}
	switch filter.ApprovalState {
	case entity.ApprovalStatePending:
		query += " AND approved_by IS NULL"
	case entity.ApprovalStateApproved:
		query += " AND approved_by IS NOT NULL"
	}
	query += fmt.Sprintf(" ORDER BY moved_at DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Approve escritura condicional del visto bueno: solo gana si approved_by aún
// es NULL, así dos aprobaciones concurrentes no se pisan. Cero filas afectadas
// se resuelve releyendo para distinguir inexistente de ya aprobado.
func (r *StockMovementRepo) Approve(id, approverID, notes string, at time.Time) error {
	query := `
		UPDATE stock_movements
		SET approved_by = $2, approved_at = $3, approval_notes = $4
		WHERE id = $1 AND approved_by IS NULL`
	tag, err := r.q.Exec(context.Background(), query, id, approverID, at, nullIfEmpty(notes))
	if err != nil {
		return fmt.Errorf("approve stock movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return domain.ErrAlreadyApproved
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// scanMovement lee una fila en la entidad, normalizando los NULL de texto.
func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var batchTxID, refType, refID, refNumber, batchNumber, notes, docURL, approvalNotes *string
	err := row.Scan(
		&m.ID, &m.InventoryID, &batchTxID, &m.MovementType, &m.Quantity, &m.Unit,
		&m.StockBefore, &m.StockAfter, &m.UnitCost, &m.TotalCost,
		&refType, &refID, &refNumber, &batchNumber, &m.ExpiryDate,
		&notes, &docURL, &m.MovedBy, &m.MovedAt, &m.ApprovedBy, &m.ApprovedAt,
		&approvalNotes, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&m.BatchTxID, batchTxID)
	assign(&m.ReferenceType, refType)
	assign(&m.ReferenceID, refID)
	assign(&m.ReferenceNumber, refNumber)
	assign(&m.BatchNumber, batchNumber)
	assign(&m.Notes, notes)
	assign(&m.DocumentURL, docURL)
	assign(&m.ApprovalNotes, approvalNotes)
	return &m, nil
}
