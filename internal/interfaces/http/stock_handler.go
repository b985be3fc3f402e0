package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-movimientos/internal/application/analytics"
	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// StockHandler consultas de saldos, resumen consolidado y estadísticas.
type StockHandler struct {
	query         *inventory.StockQueryUseCase
	stats         *analytics.StatsUseCase
	replenishment *inventory.ReplenishmentUseCase
	locations     entity.LocationSet
}

// NewStockHandler construye el handler.
func NewStockHandler(
	query *inventory.StockQueryUseCase,
	stats *analytics.StatsUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	locations entity.LocationSet,
) *StockHandler {
	return &StockHandler{query: query, stats: stats, replenishment: replenishment, locations: locations}
}

// Balance godoc
// @Summary      Saldo de un producto en una ubicación
// @Tags         stock
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Param        location    query  string  true  "Ubicación"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/balance [get]
func (h *StockHandler) Balance(c *fiber.Ctx) error {
	out, err := h.query.Balance(c.UserContext(), c.Query("product_id"), c.Query("location"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Stock consolidado por producto
// @Tags         stock
// @Produce      json
// @Param        search      query  string  false  "Código o descripción"
// @Param        location    query  string  false  "Solo productos con saldo en esta ubicación"
// @Param        only_empty  query  bool    false  "Solo productos sin stock"
// @Success      200  {object}  dto.StockSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	var req dto.StockSummaryRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidQuery(c)
	}
	out, err := h.stats.StockSummary(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Productos con saldo bajo target en location y stock en source, con el traslado sugerido.
// @Tags         stock
// @Produce      json
// @Param        location  query  string  true   "Ubicación a reponer"
// @Param        source    query  string  true   "Ubicación de origen"
// @Param        target    query  int     false  "Stock mínimo deseado"
// @Success      200  {object}  dto.ReplenishmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/replenishment [get]
func (h *StockHandler) Replenishment(c *fiber.Ctx) error {
	var req dto.ReplenishmentRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidQuery(c)
	}
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas del día
// @Tags         stock
// @Produce      json
// @Param        date  query  string  false  "Día (YYYY-MM-DD); vacío = hoy"
// @Success      200  {object}  dto.DailyStatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stats [get]
func (h *StockHandler) Stats(c *fiber.Ctx) error {
	out, err := h.stats.DailyStats(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Locations godoc
// @Summary      Ubicaciones configuradas
// @Tags         stock
// @Produce      json
// @Success      200  {object}  map[string][]string
// @Router       /api/locations [get]
func (h *StockHandler) Locations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"locations": h.locations.Names()})
}
