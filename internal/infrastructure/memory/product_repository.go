// Package memory provee adaptadores de persistencia en memoria. Se usan en
// tests y en modo demo; implementan los mismos puertos que los adaptadores
// de PostgreSQL.
package memory

import (
	"sort"
	"sync"

	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo repositorio de productos en memoria. Devuelve copias: el caller
// nunca comparte punteros con el almacén interno.
type ProductRepo struct {
	mu       sync.RWMutex
	products map[string]*entity.Product
}

// NewProductRepository construye el repositorio en memoria.
func NewProductRepository() *ProductRepo {
	return &ProductRepo{products: make(map[string]*entity.Product)}
}

func (r *ProductRepo) Create(product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.BranchID == product.BranchID && p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) GetByBranchAndSKU(branchID, sku string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.BranchID == branchID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// GetForUpdate en memoria equivale a GetByID: la exclusión la aporta el
// TxRunner, que serializa transacciones completas.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *ProductRepo) ApplyQuantity(id string, newQuantity, version int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Version != version {
		return domain.ErrConflict
	}
	p.StockQuantity = newQuantity
	p.Version++
	return nil
}

func (r *ProductRepo) Update(product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *product
	// El stock y la versión solo los escribe ApplyQuantity.
	cp.StockQuantity = current.StockQuantity
	cp.Version = current.Version
	r.products[product.ID] = &cp
	return nil
}

func (r *ProductRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*entity.Product
	for _, p := range r.products {
		if p.BranchID == branchID {
			cp := *p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *ProductRepo) ListLowStock(branchID string) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*entity.Product
	for _, p := range r.products {
		if p.BranchID != branchID || p.Status != entity.ProductStatusActive {
			continue
		}
		if p.StockQuantity <= p.MinStockLevel || p.StockQuantity <= p.ReorderPoint {
			cp := *p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StockQuantity < list[j].StockQuantity })
	return list, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
