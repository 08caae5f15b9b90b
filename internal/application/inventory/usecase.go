package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// maxConflictRetries acota los reintentos del ciclo leer-calcular-escribir
// ante ErrConflict antes de propagarlo al caller.
const maxConflictRetries = 3

// RegisterMovementUseCase es el libro de movimientos de stock: registra
// hechos inmutables (in, out, adjustment, transfer) y deriva la nueva
// cantidad del producto desde la anterior, todo en una sola transacción.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// MovementInput entrada para registrar un movimiento de stock.
// Direction es obligatoria para adjustment; para in/out/transfer puede
// omitirse (la implica el tipo) pero si viene debe ser coherente.
type MovementInput struct {
	BranchID        string
	UserID          string
	ProductID       string
	Type            string
	Direction       string
	Quantity        int
	Reason          string
	ReferenceNumber string
	Notes           string
}

// RegisterMovement valida la entrada, resuelve el delta con signo y confirma
// atómicamente el movimiento + la nueva cantidad del producto. Ante un
// conflicto de concurrencia reintenta el ciclo completo (acotado) releyendo
// la cantidad vigente; nunca se confirma stock negativo.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	delta, err := signedDelta(input.Type, input.Direction, input.Quantity)
	if err != nil {
		return nil, err
	}
	if input.BranchID == "" || input.UserID == "" || input.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}

	// Verificación de existencia y alcance de sucursal antes de abrir la tx.
	// Un producto de otra sucursal se reporta igual que uno inexistente.
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.BranchID != input.BranchID {
		return nil, domain.ErrNotFound
	}

	var committed *entity.StockMovement
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		err = uc.txRunner.Run(ctx, func(
			movRepo repository.StockMovementRepository,
			productRepo repository.ProductRepository,
		) error {
			p, err := productRepo.GetForUpdate(input.ProductID)
			if err != nil {
				return err
			}
			if p == nil || p.BranchID != input.BranchID {
				return domain.ErrNotFound
			}
			newQuantity := p.StockQuantity + delta
			if newQuantity < 0 {
				return domain.ErrInsufficientStock
			}
			if err := productRepo.ApplyQuantity(p.ID, newQuantity, p.Version); err != nil {
				return err
			}
			mov := &entity.StockMovement{
				ID:               uuid.New().String(),
				BranchID:         input.BranchID,
				ProductID:        input.ProductID,
				Type:             input.Type,
				Quantity:         input.Quantity,
				PreviousQuantity: p.StockQuantity,
				NewQuantity:      newQuantity,
				Reason:           input.Reason,
				ReferenceNumber:  input.ReferenceNumber,
				Notes:            input.Notes,
				CreatedBy:        input.UserID,
				CreatedAt:        time.Now(),
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			committed = mov
			return nil
		})
		if errors.Is(err, domain.ErrConflict) {
			continue // otro escritor confirmó primero: releer y recalcular
		}
		if err != nil {
			return nil, err
		}
		return committed, nil
	}
	return nil, domain.ErrConflict
}

// GetQuantity devuelve la cantidad actual de un producto de la sucursal.
func (uc *RegisterMovementUseCase) GetQuantity(productID, branchID string) (int, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil || product.BranchID != branchID {
		return 0, domain.ErrNotFound
	}
	return product.StockQuantity, nil
}

// ListByProduct lista los movimientos de un producto en orden cronológico.
func (uc *RegisterMovementUseCase) ListByProduct(productID, branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.BranchID != branchID {
		return nil, domain.ErrNotFound
	}
	return uc.movementRepo.ListByProduct(productID, from, to, limit, offset)
}

// ListByBranch lista los movimientos de la sucursal en orden cronológico.
func (uc *RegisterMovementUseCase) ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movementRepo.ListByBranch(branchID, from, to, limit, offset)
}

// signedDelta resuelve el delta con signo a partir del tipo y la dirección
// explícita. El tipo adjustment exige dirección declarada por el caller; para
// los demás tipos la dirección viene dada y solo se valida coherencia.
func signedDelta(movType, direction string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}
	switch movType {
	case entity.MovementTypeIn:
		if direction != "" && direction != entity.DirectionIncrease {
			return 0, domain.ErrInvalidInput
		}
		return quantity, nil
	case entity.MovementTypeOut, entity.MovementTypeTransfer:
		if direction != "" && direction != entity.DirectionDecrease {
			return 0, domain.ErrInvalidInput
		}
		return -quantity, nil
	case entity.MovementTypeAdjustment:
		switch direction {
		case entity.DirectionIncrease:
			return quantity, nil
		case entity.DirectionDecrease:
			return -quantity, nil
		default:
			return 0, domain.ErrInvalidInput
		}
	default:
		return 0, domain.ErrInvalidInput
	}
}
