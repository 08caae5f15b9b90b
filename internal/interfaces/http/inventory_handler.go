package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/application/inventory"
	"github.com/tu-usuario/farmacia-pro/internal/domain/entity"
)

// InventoryHandler maneja el libro de movimientos de stock (protegido).
type InventoryHandler struct {
	uc *inventory.RegisterMovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Confirma atómicamente el movimiento y la nueva cantidad del
//
//	producto. direction es obligatoria para type=adjustment.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type, direction (ajustes), quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.RegisterMovement(c.Context(), inventory.MovementInput{
		BranchID:        GetBranchID(c),
		UserID:          GetUserID(c),
		ProductID:       in.ProductID,
		Type:            in.Type,
		Direction:       in.Direction,
		Quantity:        in.Quantity,
		Reason:          in.Reason,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// ListByBranch godoc
// @Summary      Historial de movimientos de la sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "RFC3339 inicio de ventana"
// @Param        to      query  string  false  "RFC3339 fin de ventana"
// @Param        limit   query  int     false  "máximo de resultados (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListByBranch(c *fiber.Ctx) error {
	from, to, page, err := parseMovementQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	list, err := h.uc.ListByBranch(GetBranchID(c), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementListResponse(list, page))
}

// ListByProduct godoc
// @Summary      Historial de movimientos de un producto (orden cronológico)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "Product ID"
// @Param        from       query  string  false  "RFC3339 inicio de ventana"
// @Param        to         query  string  false  "RFC3339 fin de ventana"
// @Param        limit      query  int     false  "máximo de resultados (default 20)"
// @Param        offset     query  int     false  "desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/product/{productId} [get]
func (h *InventoryHandler) ListByProduct(c *fiber.Ctx) error {
	from, to, page, err := parseMovementQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	list, err := h.uc.ListByProduct(c.Params("productId"), GetBranchID(c), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementListResponse(list, page))
}

func parseMovementQuery(c *fiber.Ctx) (from, to *time.Time, page dto.PageRequest, err error) {
	if err = c.QueryParser(&page); err != nil {
		return nil, nil, page, err
	}
	page.DefaultPage()
	if s := c.Query("from"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, page, perr
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, page, perr
		}
		to = &t
	}
	return from, to, page, nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:               m.ID,
		BranchID:         m.BranchID,
		ProductID:        m.ProductID,
		Type:             m.Type,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reason:           m.Reason,
		ReferenceNumber:  m.ReferenceNumber,
		Notes:            m.Notes,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
	}
}

func toMovementListResponse(list []*entity.StockMovement, page dto.PageRequest) dto.MovementListResponse {
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
}
