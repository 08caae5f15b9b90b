package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementStatsDTO conteos de movimientos por tipo en la ventana consultada.
type MovementStatsDTO struct {
	Total      int `json:"total"`
	In         int `json:"in"`
	Out        int `json:"out"`
	Adjustment int `json:"adjustment"`
	Transfer   int `json:"transfer"`
}

// AuditStatsDTO conteos de auditorías por estado.
type AuditStatsDTO struct {
	Pending            int `json:"pending"`
	InProgress         int `json:"in_progress"`
	Completed          int `json:"completed"`
	Cancelled          int `json:"cancelled"`
	TotalDiscrepancies int `json:"total_discrepancies"`
}

// StatsResponse snapshot puntual de estadísticas de una sucursal.
type StatsResponse struct {
	BranchID           string           `json:"branch_id"`
	TotalProducts      int              `json:"total_products"`
	ActiveProducts     int              `json:"active_products"`
	LowStockProducts   int              `json:"low_stock_products"`
	OutOfStockProducts int              `json:"out_of_stock_products"`
	TotalStockValue    decimal.Decimal  `json:"total_stock_value"`
	Movements          MovementStatsDTO `json:"movements"`
	Audits             AuditStatsDTO    `json:"audits"`
	From               time.Time        `json:"from"`
	To                 time.Time        `json:"to"`
	GeneratedAt        time.Time        `json:"generated_at"`
}
