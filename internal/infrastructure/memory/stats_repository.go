package memory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo proyector de estadísticas en memoria: agrega sobre los mismos
// almacenes que alimentan los repositorios en memoria.
type StatsRepo struct {
	products  *ProductRepo
	movements *StockMovementRepo
	audits    *StockAuditRepo
}

// NewStatsRepository construye el proyector sobre los repositorios dados.
func NewStatsRepository(products *ProductRepo, movements *StockMovementRepo, audits *StockAuditRepo) *StatsRepo {
	return &StatsRepo{products: products, movements: movements, audits: audits}
}

func (r *StatsRepo) GetProductCounts(branchID string) (*repository.ProductCounts, error) {
	r.products.mu.RLock()
	defer r.products.mu.RUnlock()
	var c repository.ProductCounts
	for _, p := range r.products.products {
		if p.BranchID != branchID {
			continue
		}
		c.Total++
		if p.Status == entity.ProductStatusActive {
			c.Active++
		}
		if p.IsLowStock() {
			c.LowStock++
		}
		if p.IsOutOfStock() {
			c.OutOfStock++
		}
	}
	return &c, nil
}

func (r *StatsRepo) GetStockValue(branchID string) (decimal.Decimal, error) {
	r.products.mu.RLock()
	defer r.products.mu.RUnlock()
	value := decimal.Zero
	for _, p := range r.products.products {
		if p.BranchID != branchID || p.Status == entity.ProductStatusDiscontinued {
			continue
		}
		value = value.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
	}
	return value, nil
}

func (r *StatsRepo) GetMovementCounts(branchID string, from, to time.Time) (*repository.MovementCounts, error) {
	r.movements.mu.RLock()
	defer r.movements.mu.RUnlock()
	var c repository.MovementCounts
	for _, m := range r.movements.movements {
		if m.BranchID != branchID || m.CreatedAt.Before(from) || m.CreatedAt.After(to) {
			continue
		}
		c.Total++
		switch m.Type {
		case entity.MovementTypeIn:
			c.In++
		case entity.MovementTypeOut:
			c.Out++
		case entity.MovementTypeAdjustment:
			c.Adjustment++
		case entity.MovementTypeTransfer:
			c.Transfer++
		}
	}
	return &c, nil
}

func (r *StatsRepo) GetAuditCounts(branchID string) (*repository.AuditCounts, error) {
	r.audits.mu.RLock()
	defer r.audits.mu.RUnlock()
	var c repository.AuditCounts
	for _, a := range r.audits.audits {
		if a.BranchID != branchID {
			continue
		}
		switch a.Status {
		case entity.AuditStatusPending:
			c.Pending++
		case entity.AuditStatusInProgress:
			c.InProgress++
		case entity.AuditStatusCompleted:
			c.Completed++
			c.TotalDiscrepancies += a.Discrepancies
		case entity.AuditStatusCancelled:
			c.Cancelled++
		}
	}
	return &c, nil
}
