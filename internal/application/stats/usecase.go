// Package stats contiene el proyector read-only de estadísticas de inventario
// para reportes: conteos de productos, valor del stock, movimientos por
// ventana y auditorías por estado.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// Cache puerto opcional de caché para snapshots de estadísticas (best-effort:
// un fallo de caché nunca falla la consulta).
type Cache interface {
	Get(ctx context.Context, key string) (*dto.StatsResponse, bool)
	Set(ctx context.Context, key string, stats *dto.StatsResponse)
}

// StatsUseCase genera el snapshot puntual de una sucursal.
//
// Lee estado ya confirmado vía StatsRepository (consultas sin bloqueos); no es
// linealizable con escritores concurrentes y no necesita serlo: alimenta
// reportes, no decisiones transaccionales.
type StatsUseCase struct {
	statsRepo repository.StatsRepository
	cache     Cache // nil = sin caché
}

// NewStatsUseCase construye el caso de uso. cache puede ser nil.
func NewStatsUseCase(statsRepo repository.StatsRepository, cache Cache) *StatsUseCase {
	return &StatsUseCase{statsRepo: statsRepo, cache: cache}
}

// GetStats construye el StatsResponse para la sucursal y ventana indicadas.
//
// Cuatro consultas en paralelo:
//  1. GetProductCounts   → totales/activos/bajo stock/agotados
//  2. GetStockValue      → Σ cantidad × precio unitario
//  3. GetMovementCounts  → movimientos por tipo en [from, to]
//  4. GetAuditCounts     → auditorías por estado + discrepancias
func (uc *StatsUseCase) GetStats(ctx context.Context, branchID string, from, to time.Time) (*dto.StatsResponse, error) {
	if branchID == "" {
		return nil, domain.ErrInvalidInput
	}
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0) // ventana por defecto: último mes
	}
	if from.After(to) {
		return nil, domain.ErrInvalidInput
	}

	key := cacheKey(branchID, from, to)
	if uc.cache != nil {
		if cached, ok := uc.cache.Get(ctx, key); ok {
			return cached, nil
		}
	}

	type productsResult struct {
		counts *repository.ProductCounts
		err    error
	}
	type valueResult struct {
		value decimal.Decimal
		err   error
	}
	type movementsResult struct {
		counts *repository.MovementCounts
		err    error
	}
	type auditsResult struct {
		counts *repository.AuditCounts
		err    error
	}

	productsCh := make(chan productsResult, 1)
	valueCh := make(chan valueResult, 1)
	movementsCh := make(chan movementsResult, 1)
	auditsCh := make(chan auditsResult, 1)

	go func() {
		counts, err := uc.statsRepo.GetProductCounts(branchID)
		productsCh <- productsResult{counts, err}
	}()
	go func() {
		value, err := uc.statsRepo.GetStockValue(branchID)
		valueCh <- valueResult{value, err}
	}()
	go func() {
		counts, err := uc.statsRepo.GetMovementCounts(branchID, from, to)
		movementsCh <- movementsResult{counts, err}
	}()
	go func() {
		counts, err := uc.statsRepo.GetAuditCounts(branchID)
		auditsCh <- auditsResult{counts, err}
	}()

	products := <-productsCh
	value := <-valueCh
	movements := <-movementsCh
	audits := <-auditsCh

	if products.err != nil {
		return nil, fmt.Errorf("stats: conteo de productos: %w", products.err)
	}
	if value.err != nil {
		return nil, fmt.Errorf("stats: valor del stock: %w", value.err)
	}
	if movements.err != nil {
		return nil, fmt.Errorf("stats: conteo de movimientos: %w", movements.err)
	}
	if audits.err != nil {
		return nil, fmt.Errorf("stats: conteo de auditorías: %w", audits.err)
	}

	resp := &dto.StatsResponse{
		BranchID:           branchID,
		TotalProducts:      products.counts.Total,
		ActiveProducts:     products.counts.Active,
		LowStockProducts:   products.counts.LowStock,
		OutOfStockProducts: products.counts.OutOfStock,
		TotalStockValue:    value.value,
		Movements: dto.MovementStatsDTO{
			Total:      movements.counts.Total,
			In:         movements.counts.In,
			Out:        movements.counts.Out,
			Adjustment: movements.counts.Adjustment,
			Transfer:   movements.counts.Transfer,
		},
		Audits: dto.AuditStatsDTO{
			Pending:            audits.counts.Pending,
			InProgress:         audits.counts.InProgress,
			Completed:          audits.counts.Completed,
			Cancelled:          audits.counts.Cancelled,
			TotalDiscrepancies: audits.counts.TotalDiscrepancies,
		},
		From:        from,
		To:          to,
		GeneratedAt: time.Now(),
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, key, resp)
	}
	return resp, nil
}

func cacheKey(branchID string, from, to time.Time) string {
	return fmt.Sprintf("stats:%s:%d:%d", branchID, from.Unix(), to.Unix())
}
