package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para Product.
const (
	ProductStatusActive       = "active"
	ProductStatusInactive     = "inactive"
	ProductStatusDiscontinued = "discontinued" // terminal: nunca se borra físicamente
)

// Product representa un producto o SKU de una sucursal (farmacia).
// StockQuantity solo se modifica a través de movimientos confirmados por el
// libro de inventario; Version es el token de concurrencia optimista.
type Product struct {
	ID            string
	BranchID      string // sucursal propietaria; frontera de tenencia
	SKU           string // código único por sucursal
	Name          string
	Description   string
	StockQuantity int // siempre >= 0
	MinStockLevel int
	MaxStockLevel int
	ReorderPoint  int
	UnitPrice     decimal.Decimal // precio de venta
	CostPrice     decimal.Decimal // costo de compra
	Status        string          // active, inactive, discontinued
	Version       int             // incrementa en cada escritura de stock
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el producto está en o por debajo del nivel mínimo (y aún tiene existencias).
func (p *Product) IsLowStock() bool {
	return p.StockQuantity > 0 && p.StockQuantity <= p.MinStockLevel
}

// IsOutOfStock indica si el producto está agotado.
func (p *Product) IsOutOfStock() bool {
	return p.StockQuantity == 0
}
