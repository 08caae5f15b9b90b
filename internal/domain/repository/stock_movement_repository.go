package repository

import (
	"time"

	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
)

// StockMovementRepository define el puerto del libro de movimientos.
// El libro es append-only: no existen Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// ListByProduct devuelve los movimientos en orden cronológico ascendente
	// (el orden de confirmación, que sostiene la cadena previous/new).
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
