package inventory

import (
	"context"

	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el movimiento y la nueva
// cantidad del producto se confirmen como una sola unidad (o ninguna).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
