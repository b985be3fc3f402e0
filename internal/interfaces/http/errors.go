package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
)

// writeError traduce la taxonomía de dominio a status HTTP y ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	var (
		validation   *domain.ValidationError
		insufficient *domain.InsufficientStockError
		notFound     *domain.NotFoundError
		conflict     *domain.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: validation.Error(), Field: validation.Field,
		})
	case errors.As(err, &insufficient):
		requested := insufficient.Requested
		body := dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: insufficient.Error(),
			Field: insufficient.Location, Requested: &requested,
		}
		if !insufficient.AvailableUnknown {
			available := insufficient.Available
			body.Available = &available
		}
		return c.Status(fiber.StatusConflict).JSON(body)
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFound.Error()})
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: conflict.Error()})
	case errors.Is(err, domain.ErrTransient):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code: "TRANSIENT", Message: "error temporal de almacenamiento, reintente la operación",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func invalidQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
}
