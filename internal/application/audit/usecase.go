package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/application/inventory"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/domain/repository"
)

// AuditUseCase gestiona las auditorías físicas de stock: conteos, máquina de
// estados y conciliación contra el libro de movimientos. Una auditoría jamás
// corrige stock por sí sola; la conciliación es siempre una llamada explícita.
type AuditUseCase struct {
	auditRepo   repository.StockAuditRepository
	productRepo repository.ProductRepository
	ledger      MovementRecorder
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(
	auditRepo repository.StockAuditRepository,
	productRepo repository.ProductRepository,
	ledger MovementRecorder,
) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo, productRepo: productRepo, ledger: ledger}
}

// CreateAudit crea una auditoría en estado pending con contadores en cero.
func (uc *AuditUseCase) CreateAudit(branchID, userID string, in dto.CreateAuditRequest) (*entity.StockAudit, error) {
	if branchID == "" || userID == "" {
		return nil, domain.ErrInvalidInput
	}
	auditDate := in.AuditDate
	if auditDate.IsZero() {
		auditDate = time.Now()
	}
	now := time.Now()
	audit := &entity.StockAudit{
		ID:        uuid.New().String(),
		BranchID:  branchID,
		AuditDate: auditDate,
		Status:    entity.AuditStatusPending,
		Notes:     in.Notes,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.auditRepo.CreateAudit(audit); err != nil {
		return nil, err
	}
	return audit, nil
}

// AddItem registra el conteo físico de un producto dentro de la auditoría.
// Toma un snapshot de la cantidad esperada al momento de la llamada; el primer
// conteo pasa la auditoría de pending a in_progress. Volver a contar un
// producto reemplaza el ítem anterior (delete+recreate) en vez de duplicarlo.
func (uc *AuditUseCase) AddItem(auditID, branchID string, in dto.AddAuditItemRequest) (*entity.StockAuditItem, error) {
	if in.ActualQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	audit, err := uc.getScopedAudit(auditID, branchID)
	if err != nil {
		return nil, err
	}
	if !audit.CanAddItems() {
		return nil, domain.ErrInvalidState
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.BranchID != branchID {
		return nil, domain.ErrNotFound
	}

	existing, err := uc.auditRepo.GetItemByProduct(auditID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := uc.auditRepo.DeleteItem(existing.ID); err != nil {
			return nil, err
		}
	}

	item := &entity.StockAuditItem{
		ID:               uuid.New().String(),
		AuditID:          auditID,
		ProductID:        in.ProductID,
		ExpectedQuantity: product.StockQuantity,
		ActualQuantity:   in.ActualQuantity,
		Difference:       in.ActualQuantity - product.StockQuantity,
		CreatedAt:        time.Now(),
	}
	if err := uc.auditRepo.CreateItem(item); err != nil {
		return nil, err
	}

	if existing == nil {
		audit.TotalItems++
		audit.CountedItems++
	}
	if err := uc.refreshDiscrepancies(audit); err != nil {
		return nil, err
	}
	if audit.Status == entity.AuditStatusPending {
		audit.Status = entity.AuditStatusInProgress
	}
	audit.UpdatedAt = time.Now()
	if err := uc.auditRepo.UpdateAudit(audit); err != nil {
		return nil, err
	}
	return item, nil
}

// CompleteAudit cierra la auditoría. Solo válido desde in_progress; no toca
// cantidades de productos: la conciliación es un paso aparte.
func (uc *AuditUseCase) CompleteAudit(auditID, branchID string) (*entity.StockAudit, error) {
	audit, err := uc.getScopedAudit(auditID, branchID)
	if err != nil {
		return nil, err
	}
	if audit.Status != entity.AuditStatusInProgress {
		return nil, domain.ErrInvalidState
	}
	audit.Status = entity.AuditStatusCompleted
	audit.UpdatedAt = time.Now()
	if err := uc.auditRepo.UpdateAudit(audit); err != nil {
		return nil, err
	}
	return audit, nil
}

// CancelAudit cancela desde pending o in_progress, sin efectos sobre stock.
// Las auditorías canceladas se conservan como historial.
func (uc *AuditUseCase) CancelAudit(auditID, branchID string) (*entity.StockAudit, error) {
	audit, err := uc.getScopedAudit(auditID, branchID)
	if err != nil {
		return nil, err
	}
	if audit.IsTerminal() {
		return nil, domain.ErrInvalidState
	}
	audit.Status = entity.AuditStatusCancelled
	audit.UpdatedAt = time.Now()
	if err := uc.auditRepo.UpdateAudit(audit); err != nil {
		return nil, err
	}
	return audit, nil
}

// Reconcile emite un movimiento de ajuste cuyo delta con signo es la
// diferencia registrada del ítem, alineando el stock con el conteo físico.
// El delta es relativo (no un overwrite absoluto): los movimientos ocurridos
// entre el conteo y la conciliación se preservan.
func (uc *AuditUseCase) Reconcile(ctx context.Context, auditID, productID, branchID, userID string) (*entity.StockMovement, error) {
	audit, err := uc.getScopedAudit(auditID, branchID)
	if err != nil {
		return nil, err
	}
	if audit.Status != entity.AuditStatusCompleted {
		return nil, domain.ErrInvalidState
	}
	item, err := uc.auditRepo.GetItemByProduct(auditID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.Reconciled {
		return nil, domain.ErrAlreadyReconciled
	}
	if item.Difference == 0 {
		// Sin discrepancia no hay ajuste que emitir.
		return nil, domain.ErrInvalidInput
	}

	direction := entity.DirectionIncrease
	quantity := item.Difference
	if quantity < 0 {
		direction = entity.DirectionDecrease
		quantity = -quantity
	}
	mov, err := uc.ledger.RegisterMovement(ctx, inventory.MovementInput{
		BranchID:        branchID,
		UserID:          userID,
		ProductID:       productID,
		Type:            entity.MovementTypeAdjustment,
		Direction:       direction,
		Quantity:        quantity,
		Reason:          "conciliación de auditoría física",
		ReferenceNumber: audit.ID,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.auditRepo.MarkItemReconciled(item.ID, time.Now()); err != nil {
		return nil, err
	}
	return mov, nil
}

// GetAudit devuelve la auditoría con sus ítems.
func (uc *AuditUseCase) GetAudit(auditID, branchID string) (*entity.StockAudit, []*entity.StockAuditItem, error) {
	audit, err := uc.getScopedAudit(auditID, branchID)
	if err != nil {
		return nil, nil, err
	}
	items, err := uc.auditRepo.ListItems(auditID)
	if err != nil {
		return nil, nil, err
	}
	return audit, items, nil
}

// ListAudits lista auditorías de la sucursal, opcionalmente por estado.
func (uc *AuditUseCase) ListAudits(branchID, status string, limit, offset int) ([]*entity.StockAudit, error) {
	return uc.auditRepo.ListAuditsByBranch(branchID, status, limit, offset)
}

// getScopedAudit resuelve la auditoría validando la sucursal del caller.
// Fuera de alcance se reporta igual que inexistente.
func (uc *AuditUseCase) getScopedAudit(auditID, branchID string) (*entity.StockAudit, error) {
	audit, err := uc.auditRepo.GetAuditByID(auditID)
	if err != nil {
		return nil, err
	}
	if audit == nil || audit.BranchID != branchID {
		return nil, domain.ErrNotFound
	}
	return audit, nil
}

// refreshDiscrepancies recalcula el contador desde los ítems vigentes.
func (uc *AuditUseCase) refreshDiscrepancies(audit *entity.StockAudit) error {
	items, err := uc.auditRepo.ListItems(audit.ID)
	if err != nil {
		return err
	}
	discrepancies := 0
	for _, it := range items {
		if it.Difference != 0 {
			discrepancies++
		}
	}
	audit.Discrepancies = discrepancies
	return nil
}
