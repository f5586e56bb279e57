package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jcastano/Bodega-api/internal/application/dto"
	"github.com/jcastano/Bodega-api/internal/domain"
)

// respondError traduce errores de dominio a respuestas HTTP. Los errores no
// reconocidos se devuelven como 500 con el mensaje original.
func respondError(c *fiber.Ctx, err error) error {
	var transition *domain.InvalidTransitionError
	var incomplete *domain.IncompletePickingError

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicateDocument):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_DOCUMENT", Message: "número de documento duplicado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_PROCESSED", Message: "la línea ya fue procesada"})
	case errors.Is(err, domain.ErrAlreadyPicked):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_PICKED", Message: "la línea ya fue pickeada"})
	case errors.Is(err, domain.ErrSameStatus):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SAME_STATUS", Message: "el estado destino es igual al actual"})
	case errors.As(err, &transition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: transition.Error()})
	case errors.As(err, &incomplete):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INCOMPLETE_PICKING", Message: incomplete.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
