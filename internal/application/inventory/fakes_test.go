package inventory_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-pae/internal/domain"
	"github.com/tu-usuario/almacen-pae/internal/domain/entity"
	"github.com/tu-usuario/almacen-pae/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los puertos de persistencia. El TxRunner serializa con
// un mutex (equivalente al bloqueo de fila de PostgreSQL) y restaura un snapshot
// ante error, reproduciendo la semántica Commit/Rollback.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	items     map[string]*entity.InventoryItem
	movements []*entity.StockMovement
}

func newMemStore(items ...*entity.InventoryItem) *memStore {
	s := &memStore{items: make(map[string]*entity.InventoryItem)}
	for _, it := range items {
		s.items[it.ID] = copyItem(it)
	}
	return s
}

func copyDecimalPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func copyItem(it *entity.InventoryItem) *entity.InventoryItem {
	c := *it
	c.CostPerUnit = copyDecimalPtr(it.CostPerUnit)
	c.AveragePrice = copyDecimalPtr(it.AveragePrice)
	return &c
}

func copyMovement(m *entity.StockMovement) *entity.StockMovement {
	c := *m
	c.UnitCost = copyDecimalPtr(m.UnitCost)
	c.TotalCost = copyDecimalPtr(m.TotalCost)
	if m.ExpiryDate != nil {
		t := *m.ExpiryDate
		c.ExpiryDate = &t
	}
	if m.ApprovedBy != nil {
		s := *m.ApprovedBy
		c.ApprovedBy = &s
	}
	if m.ApprovedAt != nil {
		t := *m.ApprovedAt
		c.ApprovedAt = &t
	}
	return &c
}

func (s *memStore) snapshotLocked() (map[string]*entity.InventoryItem, []*entity.StockMovement) {
	items := make(map[string]*entity.InventoryItem, len(s.items))
	for id, it := range s.items {
		items[id] = copyItem(it)
	}
	movs := make([]*entity.StockMovement, 0, len(s.movements))
	for _, m := range s.movements {
		movs = append(movs, copyMovement(m))
	}
	return items, movs
}

// itemStock lee el saldo actual de un ítem (para aserciones).
func (s *memStore) itemStock(id string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id].CurrentStock
}

func (s *memStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type memTxRunner struct {
	store *memStore
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items, movs := r.store.snapshotLocked()
	err := fn(&memMovementRepo{store: r.store, inTx: true}, &memItemRepo{store: r.store, inTx: true})
	if err != nil {
		r.store.items = items
		r.store.movements = movs
	}
	return err
}

// ── Repositorio de ítems ──────────────────────────────────────────────────────

type memItemRepo struct {
	store *memStore
	inTx  bool // ya bajo el lock del TxRunner
}

func (r *memItemRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memItemRepo) Create(item *entity.InventoryItem) error {
	unlock := r.lock()
	defer unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if _, exists := r.store.items[item.ID]; exists {
		return domain.ErrDuplicate
	}
	r.store.items[item.ID] = copyItem(item)
	return nil
}

func (r *memItemRepo) Update(item *entity.InventoryItem) error {
	unlock := r.lock()
	defer unlock()
	existing, ok := r.store.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := copyItem(item)
	updated.CurrentStock = existing.CurrentStock
	updated.AveragePrice = copyDecimalPtr(existing.AveragePrice)
	r.store.items[item.ID] = updated
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	unlock := r.lock()
	defer unlock()
	it, ok := r.store.items[id]
	if !ok {
		return nil, nil
	}
	return copyItem(it), nil
}

func (r *memItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	return r.GetByID(id)
}

func (r *memItemRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	unlock := r.lock()
	defer unlock()
	it, ok := r.store.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.CurrentStock = newStock
	it.UpdatedAt = time.Now()
	return nil
}

func (r *memItemRepo) UpdateAveragePrice(id string, avg decimal.Decimal) error {
	unlock := r.lock()
	defer unlock()
	it, ok := r.store.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.AveragePrice = &avg
	return nil
}

func (r *memItemRepo) List(onlyActive bool, limit, offset int) ([]*entity.InventoryItem, error) {
	unlock := r.lock()
	defer unlock()
	var out []*entity.InventoryItem
	for _, it := range r.store.items {
		if onlyActive && !it.IsActive {
			continue
		}
		out = append(out, copyItem(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *memItemRepo) ListLowStock() ([]*entity.InventoryItem, error) {
	unlock := r.lock()
	defer unlock()
	var out []*entity.InventoryItem
	for _, it := range r.store.items {
		if it.IsActive && it.CurrentStock.LessThanOrEqual(it.MinStock) {
			out = append(out, copyItem(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Repositorio de movimientos ────────────────────────────────────────────────

type memMovementRepo struct {
	store *memStore
	inTx  bool
}

func (r *memMovementRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *memMovementRepo) Create(movement *entity.StockMovement) error {
	unlock := r.lock()
	defer unlock()
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	r.store.movements = append(r.store.movements, copyMovement(movement))
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	unlock := r.lock()
	defer unlock()
	for _, m := range r.store.movements {
		if m.ID == id {
			return copyMovement(m), nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	unlock := r.lock()
	defer unlock()
	var out []*entity.StockMovement
	for _, m := range r.store.movements {
		if filter.InventoryID != "" && m.InventoryID != filter.InventoryID {
			continue
		}
		if filter.MovementType != "" && m.MovementType != filter.MovementType {
			continue
		}
		if filter.ReferenceType != "" && m.ReferenceType != filter.ReferenceType {
			continue
		}
		if filter.MovedBy != "" && m.MovedBy != filter.MovedBy {
			continue
		}
		if filter.From != nil && m.MovedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.MovedAt.After(*filter.To) {
			continue
		}
		if filter.ApprovalState == entity.ApprovalStatePending && m.ApprovedBy != nil {
			continue
		}
		if filter.ApprovalState == entity.ApprovalStateApproved && m.ApprovedBy == nil {
			continue
		}
		out = append(out, copyMovement(m))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MovedAt.After(out[j].MovedAt) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *memMovementRepo) Approve(id, approverID, notes string, at time.Time) error {
	unlock := r.lock()
	defer unlock()
	for _, m := range r.store.movements {
		if m.ID != id {
			continue
		}
		if m.ApprovedBy != nil {
			return domain.ErrAlreadyApproved
		}
		approver := approverID
		approvedAt := at
		m.ApprovedBy = &approver
		m.ApprovedAt = &approvedAt
		m.ApprovalNotes = notes
		return nil
	}
	return domain.ErrNotFound
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
