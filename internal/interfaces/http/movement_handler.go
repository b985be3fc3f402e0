package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/application/inventory"
)

// IdempotencyKeyHeader alternativa al campo idempotency_key del body.
const IdempotencyKeyHeader = "Idempotency-Key"

// MovementHandler maneja las peticiones HTTP del libro de movimientos.
type MovementHandler struct {
	uc    *inventory.RegisterMovementUseCase
	query *inventory.StockQueryUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.RegisterMovementUseCase, query *inventory.StockQueryUseCase) *MovementHandler {
	return &MovementHandler{uc: uc, query: query}
}

// Register godoc
// @Summary      Registrar movimiento de stock
// @Description  ENTRADA (solo destino), TRASLADO (origen y destino distintos) o SALIDA (solo origen).
// @Description  El producto se indica con product_id o con code + description (se crea si no existe).
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia"
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Success      200   {object}  dto.RegisterMovementResponse  "Reintento con la misma clave"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.IdempotencyKey == "" {
		in.IdempotencyKey = c.Get(IdempotencyKeyHeader)
	}
	out, err := h.uc.RegisterMovementFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	if out.Replayed {
		return c.Status(fiber.StatusOK).JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Produce      json
// @Param        kind        query  string  false  "ENTRADA | TRASLADO | SALIDA"
// @Param        product_id  query  string  false  "ID del producto"
// @Param        actor       query  string  false  "Vendedor"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var req dto.ListMovementsRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidQuery(c)
	}
	out, err := h.query.ListMovements(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         movements
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
