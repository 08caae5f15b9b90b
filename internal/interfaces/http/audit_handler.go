package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-pro/internal/application/audit"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
)

// AuditHandler maneja las auditorías físicas de stock (protegido).
type AuditHandler struct {
	uc *audit.AuditUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// Create godoc
// @Summary      Crear auditoría física (estado pending)
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAuditRequest  true  "audit_date, notes"
// @Success      201   {object}  dto.AuditResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/audits [post]
func (h *AuditHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAuditRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	a, err := h.uc.CreateAudit(GetBranchID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAuditResponse(a))
}

// List godoc
// @Summary      Listar auditorías de la sucursal
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | in_progress | completed | cancelled"
// @Param        limit   query  int     false  "máximo de resultados (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.AuditListResponse
// @Router       /api/audits [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	list, err := h.uc.ListAudits(GetBranchID(c), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.AuditResponse, 0, len(list))
	for _, a := range list {
		items = append(items, toAuditResponse(a))
	}
	return c.JSON(dto.AuditListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID godoc
// @Summary      Detalle de auditoría con sus ítems
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Audit ID"
// @Success      200  {object}  dto.AuditDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/audits/{id} [get]
func (h *AuditHandler) GetByID(c *fiber.Ctx) error {
	a, items, err := h.uc.GetAudit(c.Params("id"), GetBranchID(c))
	if err != nil {
		return respondError(c, err)
	}
	itemDTOs := make([]dto.AuditItemResponse, 0, len(items))
	for _, it := range items {
		itemDTOs = append(itemDTOs, toAuditItemResponse(it))
	}
	return c.JSON(dto.AuditDetailResponse{Audit: toAuditResponse(a), Items: itemDTOs})
}

// AddItem godoc
// @Summary      Registrar conteo físico de un producto
// @Description  Toma snapshot del stock esperado al momento de la llamada.
//
//	Volver a contar un producto reemplaza el conteo anterior.
//
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "Audit ID"
// @Param        body  body  dto.AddAuditItemRequest  true  "product_id, actual_quantity"
// @Success      201   {object}  dto.AuditItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/items [post]
func (h *AuditHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddAuditItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.uc.AddItem(c.Params("id"), GetBranchID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAuditItemResponse(item))
}

// Complete godoc
// @Summary      Completar auditoría (solo desde in_progress)
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Audit ID"
// @Success      200  {object}  dto.AuditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/complete [post]
func (h *AuditHandler) Complete(c *fiber.Ctx) error {
	a, err := h.uc.CompleteAudit(c.Params("id"), GetBranchID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAuditResponse(a))
}

// Cancel godoc
// @Summary      Cancelar auditoría (se conserva como historial)
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Audit ID"
// @Success      200  {object}  dto.AuditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/cancel [post]
func (h *AuditHandler) Cancel(c *fiber.Ctx) error {
	a, err := h.uc.CancelAudit(c.Params("id"), GetBranchID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toAuditResponse(a))
}

// Reconcile godoc
// @Summary      Conciliar un ítem contado contra el stock
// @Description  Emite un movimiento de ajuste con el delta de la discrepancia
//
//	registrada. Solo para auditorías completadas; cada ítem se
//	concilia una única vez.
//
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "Audit ID"
// @Param        productId  path  string  true  "Product ID"
// @Success      201  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/reconcile/{productId} [post]
func (h *AuditHandler) Reconcile(c *fiber.Ctx) error {
	mov, err := h.uc.Reconcile(c.Context(), c.Params("id"), c.Params("productId"), GetBranchID(c), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

func toAuditResponse(a *entity.StockAudit) dto.AuditResponse {
	return dto.AuditResponse{
		ID:            a.ID,
		BranchID:      a.BranchID,
		AuditDate:     a.AuditDate,
		Status:        a.Status,
		TotalItems:    a.TotalItems,
		CountedItems:  a.CountedItems,
		Discrepancies: a.Discrepancies,
		Notes:         a.Notes,
		CreatedBy:     a.CreatedBy,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toAuditItemResponse(it *entity.StockAuditItem) dto.AuditItemResponse {
	return dto.AuditItemResponse{
		ID:               it.ID,
		AuditID:          it.AuditID,
		ProductID:        it.ProductID,
		ExpectedQuantity: it.ExpectedQuantity,
		ActualQuantity:   it.ActualQuantity,
		Difference:       it.Difference,
		Reconciled:       it.Reconciled,
		ReconciledAt:     it.ReconciledAt,
		CreatedAt:        it.CreatedAt,
	}
}
