package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos en memoria. El slice interno
// preserva el orden de confirmación; no existe Update ni Delete.
type StockMovementRepo struct {
	mu        sync.RWMutex
	movements []*entity.StockMovement
}

// NewStockMovementRepository construye el libro en memoria.
func NewStockMovementRepository() *StockMovementRepo {
	return &StockMovementRepo{}
}

func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	cp := *movement
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool { return m.ProductID == productID }, from, to, limit, offset)
}

func (r *StockMovementRepo) ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool { return m.BranchID == branchID }, from, to, limit, offset)
}

func (r *StockMovementRepo) list(match func(*entity.StockMovement) bool, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*entity.StockMovement
	for _, m := range r.movements {
		if !match(m) {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	return paginate(list, limit, offset), nil
}
