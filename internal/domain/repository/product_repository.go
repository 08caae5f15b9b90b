package repository

import "github.com/tu-usuario/farmacia-pro/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// StockQuantity jamás se escribe por Update: solo ApplyQuantity, y solo desde
// la transacción del libro de movimientos.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByBranchAndSKU(branchID, sku string) (*entity.Product, error)
	// GetForUpdate lee el producto para el ciclo leer-calcular-escribir del
	// libro. Sobre PostgreSQL bloquea la fila (SELECT ... FOR UPDATE).
	GetForUpdate(id string) (*entity.Product, error)
	// ApplyQuantity confirma la nueva cantidad si version sigue vigente.
	// Devuelve domain.ErrConflict si otro escritor confirmó desde la lectura.
	ApplyQuantity(id string, newQuantity, version int) error
	Update(product *entity.Product) error
	ListByBranch(branchID string, limit, offset int) ([]*entity.Product, error)
	// ListLowStock devuelve los productos activos en o bajo su nivel mínimo
	// o punto de reorden.
	ListLowStock(branchID string) ([]*entity.Product, error)
}
