package memory

import (
	"context"
	"sync"

	"github.com/tu-usuario/farmacia-pro/internal/application/inventory"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta la función sobre los repositorios en memoria serializando
// las "transacciones" con un mutex. No hay rollback: el caso de uso valida
// todo antes de escribir, así que una fn que falla no deja escrituras.
type TxRunner struct {
	mu        sync.Mutex
	products  *ProductRepo
	movements *StockMovementRepo
}

// NewTxRunner construye el ejecutor sobre los repositorios dados.
func NewTxRunner(products *ProductRepo, movements *StockMovementRepo) *TxRunner {
	return &TxRunner{products: products, movements: movements}
}

// Run ejecuta fn bajo exclusión mutua.
func (t *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.movements, t.products)
}
