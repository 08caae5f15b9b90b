package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo consultas read-only de estadísticas sobre PostgreSQL. Solo
// agregaciones sin bloqueos: jamás frena a los escritores del libro.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository construye el adaptador de estadísticas.
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

// GetProductCounts conteos de productos de la sucursal.
func (r *StatsRepo) GetProductCounts(branchID string) (*repository.ProductCounts, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE stock_quantity > 0 AND stock_quantity <= min_stock_level),
			COUNT(*) FILTER (WHERE stock_quantity = 0)
		FROM products WHERE branch_id = $1`
	var c repository.ProductCounts
	err := r.q.QueryRow(context.Background(), query, branchID).Scan(
		&c.Total, &c.Active, &c.LowStock, &c.OutOfStock,
	)
	if err != nil {
		return nil, fmt.Errorf("product counts: %w", err)
	}
	return &c, nil
}

// GetStockValue valor total del stock (Σ cantidad × precio unitario) de los
// productos no descontinuados.
func (r *StatsRepo) GetStockValue(branchID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(stock_quantity * unit_price), 0)
		FROM products WHERE branch_id = $1 AND status != 'discontinued'`
	var value decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, branchID).Scan(&value); err != nil {
		return decimal.Zero, fmt.Errorf("stock value: %w", err)
	}
	return value, nil
}

// GetMovementCounts conteos de movimientos por tipo dentro de la ventana.
func (r *StatsRepo) GetMovementCounts(branchID string, from, to time.Time) (*repository.MovementCounts, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE type = 'in'),
			COUNT(*) FILTER (WHERE type = 'out'),
			COUNT(*) FILTER (WHERE type = 'adjustment'),
			COUNT(*) FILTER (WHERE type = 'transfer')
		FROM stock_movements
		WHERE branch_id = $1 AND created_at >= $2 AND created_at <= $3`
	var c repository.MovementCounts
	err := r.q.QueryRow(context.Background(), query, branchID, from, to).Scan(
		&c.Total, &c.In, &c.Out, &c.Adjustment, &c.Transfer,
	)
	if err != nil {
		return nil, fmt.Errorf("movement counts: %w", err)
	}
	return &c, nil
}

// GetAuditCounts conteos de auditorías por estado. Las discrepancias suman
// solo auditorías completadas: las canceladas no aportan a estadísticas.
func (r *StatsRepo) GetAuditCounts(branchID string) (*repository.AuditCounts, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in_progress'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(SUM(discrepancies) FILTER (WHERE status = 'completed'), 0)
		FROM stock_audits WHERE branch_id = $1`
	var c repository.AuditCounts
	err := r.q.QueryRow(context.Background(), query, branchID).Scan(
		&c.Pending, &c.InProgress, &c.Completed, &c.Cancelled, &c.TotalDiscrepancies,
	)
	if err != nil {
		return nil, fmt.Errorf("audit counts: %w", err)
	}
	return &c, nil
}
