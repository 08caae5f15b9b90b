package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-pro/internal/application/dto"
	"github.com/tu-usuario/farmacia-pro/internal/application/stats"
)

// StatsHandler expone el snapshot de estadísticas de la sucursal (protegido).
type StatsHandler struct {
	uc *stats.StatsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *stats.StatsUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// GetStats godoc
// @Summary      Snapshot de estadísticas de inventario
// @Description  Conteos de productos, valor del stock, movimientos por tipo en
//
//	la ventana [from, to] (default último mes) y auditorías por estado.
//
// @Tags         stats
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "RFC3339 inicio de ventana"
// @Param        to    query  string  false  "RFC3339 fin de ventana"
// @Success      200  {object}  dto.StatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	var from, to time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from inválido (RFC3339)"})
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to inválido (RFC3339)"})
		}
		to = t
	}
	resp, err := h.uc.GetStats(c.Context(), GetBranchID(c), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
