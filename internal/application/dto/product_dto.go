package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
// El stock inicial siempre es 0: las existencias entran por movimientos.
type CreateProductRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	MinStockLevel int             `json:"min_stock_level"`
	MaxStockLevel int             `json:"max_stock_level"`
	ReorderPoint  int             `json:"reorder_point"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
}

// UpdateProductRequest body para PUT /api/products/:id (campos opcionales).
// StockQuantity no es actualizable por esta vía.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	MinStockLevel *int             `json:"min_stock_level,omitempty"`
	MaxStockLevel *int             `json:"max_stock_level,omitempty"`
	ReorderPoint  *int             `json:"reorder_point,omitempty"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	CostPrice     *decimal.Decimal `json:"cost_price,omitempty"`
	Status        *string          `json:"status,omitempty"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	BranchID      string          `json:"branch_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	StockQuantity int             `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	MaxStockLevel int             `json:"max_stock_level"`
	ReorderPoint  int             `json:"reorder_point"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
