package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmacia-pro/internal/application/audit"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/application/inventory"
	"github.com/tu-usuario/farmacia-pro/internal/domain"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pro/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testBranchID      = "00000000-0000-0000-0000-00000000000a"
	testOtherBranchID = "00000000-0000-0000-0000-00000000000b"
	testUserID        = "00000000-0000-0000-0000-000000000001"
)

type auditFixture struct {
	uc       *audit.AuditUseCase
	ledger   *inventory.RegisterMovementUseCase
	products *memory.ProductRepo
}

func newAuditFixture(t *testing.T) *auditFixture {
	t.Helper()
	products := memory.NewProductRepository()
	movements := memory.NewStockMovementRepository()
	audits := memory.NewStockAuditRepository()
	ledger := inventory.NewRegisterMovementUseCase(memory.NewTxRunner(products, movements), products, movements)
	return &auditFixture{
		uc:       audit.NewAuditUseCase(audits, products, ledger),
		ledger:   ledger,
		products: products,
	}
}

func (f *auditFixture) seedProduct(t *testing.T, branchID string, stock int) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		BranchID:  branchID,
		SKU:       "SKU-" + uuid.New().String()[:8],
		Name:      "Loratadina 10mg",
		UnitPrice: decimal.NewFromFloat(3.20),
		Status:    entity.ProductStatusActive,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.products.Create(p))
	if stock > 0 {
		_, err := f.ledger.RegisterMovement(context.Background(), inventory.MovementInput{
			BranchID:  branchID,
			UserID:    testUserID,
			ProductID: p.ID,
			Type:      entity.MovementTypeIn,
			Quantity:  stock,
			Reason:    "stock inicial",
		})
		require.NoError(t, err)
	}
	return p
}

func (f *auditFixture) newAudit(t *testing.T) *entity.StockAudit {
	t.Helper()
	a, err := f.uc.CreateAudit(testBranchID, testUserID, dto.CreateAuditRequest{Notes: "conteo trimestral"})
	require.NoError(t, err)
	return a
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo completo: crear → contar → completar → conciliar
// ──────────────────────────────────────────────────────────────────────────────

func TestAuditoria_CicloCompletoConConciliacion(t *testing.T) {
	f := newAuditFixture(t)
	p := f.seedProduct(t, testBranchID, 70)
	a := f.newAudit(t)
	assert.Equal(t, entity.AuditStatusPending, a.Status)

	// Conteo físico: 65 contra 70 esperados → diferencia -5.
	item, err := f.uc.AddItem(a.ID, testBranchID, dto.AddAuditItemRequest{
		ProductID:      p.ID,
		ActualQuantity: 65,
	})
	require.NoError(t, err)
	assert.Equal(t, 70, item.ExpectedQuantity)
	assert.Equal(t, 65, item.ActualQuantity)
	assert.Equal(t, -5, item.Difference)

	// El primer conteo arranca la auditoría.
	a, items, err := f.uc.GetAudit(a.ID, testBranchID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditStatusInProgress, a.Status)
	assert.Equal(t, 1, a.TotalItems)
	assert.Equal(t, 1, a.CountedItems)
	assert.Equal(t, 1, a.Discrepancies)
	assert.Len(t, items, 1)

	a, err = f.uc.CompleteAudit(a.ID, testBranchID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditStatusCompleted, a.Status)

	// La conciliación emite un ajuste con el delta de la discrepancia.
	mov, err := f.uc.Reconcile(context.Background(), a.ID, p.ID, testBranchID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeAdjustment, mov.Type)
	assert.Equal(t, 5, mov.Quantity)
	assert.Equal(t, -5, mov.Delta())
	assert.Equal(t, a.ID, mov.ReferenceNumber, "el ajuste debe referenciar la auditoría")

	qty, err := f.ledger.GetQuantity(p.ID, testBranchID)
	require.NoError(t, err)
	assert.Equal(t, 65, qty, "el stock debe quedar alineado con el conteo físico")

	// Cada ítem se concilia una única vez.
	_, err = f.uc.Reconcile(context.Background(), a.ID, p.ID, testBranchID, testUserID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReconciled)
}

// El delta de conciliación es relativo: los movimientos ocurridos entre el
// conteo y la conciliación se preservan, no se pisan.
func TestReconcile_DeltaRelativoPreservaMovimientosIntermedios(t *testing.T) {
	f := newAuditFixture(t)
	p := f.seedProduct(t, testBranchID, 70)
	a := f.newAudit(t)

	// Conteo 65 vs 70 → diferencia -5.
	_, err := f.uc.AddItem(a.ID, testBranchID, dto.AddAuditItemRequest{ProductID: p.ID, ActualQuantity: 65})
	require.NoError(t, err)
	_, err = f.uc.CompleteAudit(a.ID, testBranchID)
	require.NoError(t, err)

	// Entre el conteo y la conciliación llega una recepción de 30.
	_, err = f.ledger.RegisterMovement(context.Background(), inventory.MovementInput{
		BranchID:  testBranchID,
		UserID:    testUserID,
		ProductID: p.ID,
		Type:      entity.MovementTypeIn,
		Quantity:  30,
		Reason:    "recepción",
	})
	require.NoError(t, err)

	_, err = f.uc.Reconcile(context.Background(), a.ID, p.ID, testBranchID, testUserID)
	require.NoError(t, err)

	qty, err := f.ledger.GetQuantity(p.ID, testBranchID)
	require.NoError(t, err)
	assert.Equal(t, 95, qty, "70 + 30 - 5: el delta se aplica sobre el stock vigente")
}

// Sin discrepancia no hay ajuste que emitir.
func TestReconcile_SinDiscrepanciaEsInvalido(t *testing.T) {
	f := newAuditFixture(t)
	p := f.seedProduct(t, testBranchID, 40)
	a := f.newAudit(t)

	_, err := f.uc.AddItem(a.ID, testBranchID, dto.AddAuditItemRequest{ProductID: p.ID, ActualQuantity: 40})
	require.NoError(t, err)
	_, err = f.uc.CompleteAudit(a.ID, testBranchID)
	require.NoError(t, err)

	_, err = f.uc.Reconcile(context.Background(), a.ID, p.ID, testBranchID, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Conciliar exige auditoría completada.
func TestReconcile_SoloDesdeCompletada(t *testing.T) {
	f := newAuditFixture(t)
	p := f.seedProduct(t, testBranchID, 40)
	a := f.newAudit(t)

	_, err := f.uc.AddItem(a.ID, testBranchID, dto.AddAuditItemRequest{ProductID: p.ID, ActualQuantity: 35})
	require.NoError(t, err)

	_, err = f.uc.Reconcile(context.Background(), a.ID, p.ID, testBranchID, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReconcile_ProductoNoContadoEsNotFound(t *testing.T) {
	f := newAuditFixture(t)
	counted := f.seedProduct(t, testBranchID, 40)
	other := f.seedProduct(t, testBranchID, 10)
	a := f.newAudit(t)

	_, err := f.uc.AddItem(a.ID, testBranchID, dto.AddAuditItemRequest{ProductID: counted.ID, ActualQuantity: 35})
	require.NoError(t, err)
	_, err = f.uc.CompleteAudit(a.ID, testBranchID)
	require.NoError(t, err)

	_, err = f.uc.Reconcile(context.Background(), a.ID, other.ID, testBranchID, testUserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recuento: volver a contar reemplaza el ítem, no lo duplica
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItem_RecontarReemplazaElItem(t *testing.T) {
	f := newAuditFixture(t)
	p := f.seedProduct(t, testBranchID, 50)
	a := f.newAudit(t)

	_, err := f.uc.AddItem(a.ID, testBranchID, dto.AddAuditItemRequest{ProductID: p.ID, ActualQuantity: 45})
	require.NoError(t, err)
	item, err := f.uc.AddItem(a.ID, testBranchID, dto.AddAuditItemRequest{ProductID: p.ID, ActualQuantity: 50})
	require.NoError(t, err)
	assert.Equal(t, 0, item.Difference)

	a, items, err := f.uc.GetAudit(a.ID, testBranchID)
	require.NoError(t, err)
	assert.Len(t, items, 1, "el recuento no debe duplicar el ítem")
	assert.Equal(t, 1, a.TotalItems)
	assert.Equal(t, 1, a.CountedItems)
	assert.Equal(t, 0, a.Discrepancies, "el recuento exacto elimina la discrepancia")
}

func TestAddItem_ConteoNegativoEsInvalido(t *testing.T) {
	f := newAuditFixture(t)
	p := f.seedProduct(t, testBranchID, 50)
	a := f.newAudit(t)

	_, err := f.uc.AddItem(a.ID, testBranchID, dto.AddAuditItemRequest{ProductID: p.ID, ActualQuantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddItem_ProductoDeOtraSucursalEsNotFound(t *testing.T) {
	f := newAuditFixture(t)
	p := f.seedProduct(t, testOtherBranchID, 50)
	a := f.newAudit(t)

	_, err := f.uc.AddItem(a.ID, testBranchID, dto.AddAuditItemRequest{ProductID: p.ID, ActualQuantity: 10})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestCompleteAudit_SoloDesdeInProgress(t *testing.T) {
	f := newAuditFixture(t)
	a := f.newAudit(t)

	// pending → completed directo no es válido.
	_, err := f.uc.CompleteAudit(a.ID, testBranchID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCancelAudit_DesdePendingYInProgress(t *testing.T) {
	f := newAuditFixture(t)
	p := f.seedProduct(t, testBranchID, 10)

	// pending → cancelled
	a1 := f.newAudit(t)
	a1, err := f.uc.CancelAudit(a1.ID, testBranchID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditStatusCancelled, a1.Status)

	// in_progress → cancelled
	a2 := f.newAudit(t)
	_, err = f.uc.AddItem(a2.ID, testBranchID, dto.AddAuditItemRequest{ProductID: p.ID, ActualQuantity: 10})
	require.NoError(t, err)
	a2, err = f.uc.CancelAudit(a2.ID, testBranchID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditStatusCancelled, a2.Status)
}

func TestAuditoriaTerminal_EsInmutable(t *testing.T) {
	f := newAuditFixture(t)
	p := f.seedProduct(t, testBranchID, 10)
	a := f.newAudit(t)

	_, err := f.uc.AddItem(a.ID, testBranchID, dto.AddAuditItemRequest{ProductID: p.ID, ActualQuantity: 9})
	require.NoError(t, err)
	_, err = f.uc.CompleteAudit(a.ID, testBranchID)
	require.NoError(t, err)

	// completed no admite más conteos ni cancelación ni re-completar.
	_, err = f.uc.AddItem(a.ID, testBranchID, dto.AddAuditItemRequest{ProductID: p.ID, ActualQuantity: 8})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.CancelAudit(a.ID, testBranchID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.CompleteAudit(a.ID, testBranchID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestAuditoriaCancelada_NoAdmiteConteosNiConciliacion(t *testing.T) {
	f := newAuditFixture(t)
	p := f.seedProduct(t, testBranchID, 10)
	a := f.newAudit(t)

	_, err := f.uc.AddItem(a.ID, testBranchID, dto.AddAuditItemRequest{ProductID: p.ID, ActualQuantity: 8})
	require.NoError(t, err)
	_, err = f.uc.CancelAudit(a.ID, testBranchID)
	require.NoError(t, err)

	_, err = f.uc.AddItem(a.ID, testBranchID, dto.AddAuditItemRequest{ProductID: p.ID, ActualQuantity: 8})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.Reconcile(context.Background(), a.ID, p.ID, testBranchID, testUserID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tenencia por sucursal
// ──────────────────────────────────────────────────────────────────────────────

func TestAuditoria_FueraDeSucursalEsNotFound(t *testing.T) {
	f := newAuditFixture(t)
	a := f.newAudit(t)

	_, _, err := f.uc.GetAudit(a.ID, testOtherBranchID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.CompleteAudit(a.ID, testOtherBranchID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.CancelAudit(a.ID, testOtherBranchID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAudits_FiltraPorEstado(t *testing.T) {
	f := newAuditFixture(t)
	p := f.seedProduct(t, testBranchID, 10)

	a1 := f.newAudit(t)
	_, err := f.uc.CancelAudit(a1.ID, testBranchID)
	require.NoError(t, err)

	a2 := f.newAudit(t)
	_, err = f.uc.AddItem(a2.ID, testBranchID, dto.AddAuditItemRequest{ProductID: p.ID, ActualQuantity: 10})
	require.NoError(t, err)

	cancelled, err := f.uc.ListAudits(testBranchID, entity.AuditStatusCancelled, 20, 0)
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, a1.ID, cancelled[0].ID)

	all, err := f.uc.ListAudits(testBranchID, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
