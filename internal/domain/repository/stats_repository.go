package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCounts conteos de productos de una sucursal.
type ProductCounts struct {
	Total      int
	Active     int
	LowStock   int // stock_quantity > 0 y <= min_stock_level
	OutOfStock int // stock_quantity = 0
}

// MovementCounts conteos de movimientos por tipo dentro de una ventana.
type MovementCounts struct {
	Total      int
	In         int
	Out        int
	Adjustment int
	Transfer   int
}

// AuditCounts conteos de auditorías por estado. TotalDiscrepancies suma solo
// las auditorías completadas (las canceladas no aportan a estadísticas).
type AuditCounts struct {
	Pending            int
	InProgress         int
	Completed          int
	Cancelled          int
	TotalDiscrepancies int
}

// StatsRepository consultas read-only para el proyector de estadísticas.
// Nunca toma bloqueos: no debe frenar a los escritores del libro.
type StatsRepository interface {
	GetProductCounts(branchID string) (*ProductCounts, error)
	GetStockValue(branchID string) (decimal.Decimal, error)
	GetMovementCounts(branchID string, from, to time.Time) (*MovementCounts, error)
	GetAuditCounts(branchID string) (*AuditCounts, error)
}
