package audit

import (
	"context"

	"github.com/tu-usuario/farmacia-pro/internal/application/inventory"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
)

// MovementRecorder es el puerto hacia el libro de movimientos: la conciliación
// de una auditoría emite ajustes a través de él, nunca escribe stock directo.
type MovementRecorder interface {
	RegisterMovement(ctx context.Context, input inventory.MovementInput) (*entity.StockMovement, error)
}
