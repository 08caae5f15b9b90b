package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIn         = "in"         // entrada (compra, recepción)
	MovementTypeOut        = "out"        // salida (venta, merma)
	MovementTypeAdjustment = "adjustment" // ajuste (conciliación de auditoría, corrección manual)
	MovementTypeTransfer   = "transfer"   // traslado hacia otra sucursal
)

// Dirección explícita del movimiento. El tipo "adjustment" no codifica la
// dirección por sí solo; el caller debe declararla siempre.
const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
)

// StockMovement es un hecho inmutable del libro de inventario: "esta cantidad
// cambió, por esta razón, en este momento". Una vez escrito jamás se edita ni
// se borra; las correcciones son movimientos compensatorios nuevos.
type StockMovement struct {
	ID               string
	BranchID         string
	ProductID        string // referencia débil, solo lookup
	Type             string // in, out, adjustment, transfer
	Quantity         int    // magnitud, siempre positiva
	PreviousQuantity int    // capturado al confirmar, nunca recalculado
	NewQuantity      int    // capturado al confirmar, nunca recalculado
	Reason           string
	ReferenceNumber  string // factura, orden, ID de auditoría, etc.
	Notes            string
	CreatedBy        string // UserID del actor
	CreatedAt        time.Time
}

// Delta devuelve el cambio con signo que este movimiento aplicó al stock.
func (m *StockMovement) Delta() int {
	return m.NewQuantity - m.PreviousQuantity
}
