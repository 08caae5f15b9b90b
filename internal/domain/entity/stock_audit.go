package entity

import "time"

// Estados de una auditoría física de stock. La máquina solo avanza:
// pending → in_progress → completed, o → cancelled desde pending/in_progress.
const (
	AuditStatusPending    = "pending"
	AuditStatusInProgress = "in_progress"
	AuditStatusCompleted  = "completed"
	AuditStatusCancelled  = "cancelled"
)

// StockAudit es un ejercicio de conteo físico contra el stock esperado.
// Los contadores se derivan de los ítems hijos a medida que se agregan.
type StockAudit struct {
	ID            string
	BranchID      string
	AuditDate     time.Time
	Status        string
	TotalItems    int // productos distintos contados
	CountedItems  int // siempre <= TotalItems
	Discrepancies int // ítems con actual != esperado
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsTerminal indica si la auditoría ya no admite transiciones.
func (a *StockAudit) IsTerminal() bool {
	return a.Status == AuditStatusCompleted || a.Status == AuditStatusCancelled
}

// CanAddItems indica si la auditoría acepta conteos (pending o in_progress).
func (a *StockAudit) CanAddItems() bool {
	return a.Status == AuditStatusPending || a.Status == AuditStatusInProgress
}

// StockAuditItem es la comparación esperado-vs-contado de un producto dentro
// de una auditoría. ExpectedQuantity es un snapshot del stock al momento de
// crear el ítem; Difference se deriva y nunca se muta de forma independiente.
type StockAuditItem struct {
	ID               string
	AuditID          string // propiedad exclusiva de una StockAudit
	ProductID        string // referencia débil
	ExpectedQuantity int
	ActualQuantity   int
	Difference       int // ActualQuantity - ExpectedQuantity
	Reconciled       bool
	ReconciledAt     *time.Time
	CreatedAt        time.Time
}
