package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

var _ repository.StockAuditRepository = (*StockAuditRepo)(nil)

// StockAuditRepo auditorías físicas en memoria.
type StockAuditRepo struct {
	mu     sync.RWMutex
	audits map[string]*entity.StockAudit
	items  map[string]*entity.StockAuditItem
}

// NewStockAuditRepository construye el repositorio en memoria.
func NewStockAuditRepository() *StockAuditRepo {
	return &StockAuditRepo{
		audits: make(map[string]*entity.StockAudit),
		items:  make(map[string]*entity.StockAuditItem),
	}
}

func (r *StockAuditRepo) CreateAudit(audit *entity.StockAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *audit
	r.audits[audit.ID] = &cp
	return nil
}

func (r *StockAuditRepo) GetAuditByID(id string) (*entity.StockAudit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.audits[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *StockAuditRepo) UpdateAudit(audit *entity.StockAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.audits[audit.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *audit
	r.audits[audit.ID] = &cp
	return nil
}

func (r *StockAuditRepo) ListAuditsByBranch(branchID, status string, limit, offset int) ([]*entity.StockAudit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*entity.StockAudit
	for _, a := range r.audits {
		if a.BranchID != branchID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		cp := *a
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].AuditDate.After(list[j].AuditDate) })
	return paginate(list, limit, offset), nil
}

func (r *StockAuditRepo) CreateItem(item *entity.StockAuditItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *StockAuditRepo) GetItemByProduct(auditID, productID string) (*entity.StockAuditItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, it := range r.items {
		if it.AuditID == auditID && it.ProductID == productID {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *StockAuditRepo) ListItems(auditID string) ([]*entity.StockAuditItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*entity.StockAuditItem
	for _, it := range r.items {
		if it.AuditID == auditID {
			cp := *it
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *StockAuditRepo) DeleteItem(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *StockAuditRepo) MarkItemReconciled(id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Reconciled = true
	it.ReconciledAt = &at
	return nil
}
