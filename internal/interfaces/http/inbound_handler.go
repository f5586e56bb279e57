package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastano/Bodega-api/internal/application/dto"
	"github.com/jcastano/Bodega-api/internal/application/history"
	"github.com/jcastano/Bodega-api/internal/application/inbound"
	"github.com/jcastano/Bodega-api/internal/domain/entity"
)

// InboundHandler maneja las peticiones HTTP del flujo de ingreso (protegido).
type InboundHandler struct {
	uc       *inbound.UseCase
	recorder *history.Recorder
}

// NewInboundHandler construye el handler.
func NewInboundHandler(uc *inbound.UseCase, recorder *history.Recorder) *InboundHandler {
	return &InboundHandler{uc: uc, recorder: recorder}
}

// Create crea una nota de ingreso con sus líneas en PENDIENTE.
// POST /api/inbound
func (h *InboundHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInboundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := inbound.CreateOrderInput{
		DocumentNumber: in.DocumentNumber,
		Origin:         in.Origin,
		WarehouseCode:  in.WarehouseCode,
		Actor:          GetUserID(c),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, inbound.CreateOrderLine{
			ProductCode:       l.ProductCode,
			ExpectedQty:       l.ExpectedQty,
			LotCode:           l.LotCode,
			ExpiresAt:         l.ExpiresAt,
			SuggestedLocation: l.SuggestedLocation,
		})
	}
	order, err := h.uc.CreateOrder(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToInboundOrderResponse(order))
}

// GetByID obtiene la nota con sus líneas.
// GET /api/inbound/:id
func (h *InboundHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	order, err := h.uc.GetOrder(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToInboundOrderResponse(order))
}

// StartLineValidation arranca el cronómetro de validación de una línea.
// POST /api/inbound/lines/:lineId/validation/start
func (h *InboundHandler) StartLineValidation(c *fiber.Ctx) error {
	if err := h.uc.StartLineValidation(c.Context(), c.Params("lineId"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "validación iniciada"})
}

// StartLineStorage arranca el cronómetro de almacenaje de una línea.
// POST /api/inbound/lines/:lineId/storage/start
func (h *InboundHandler) StartLineStorage(c *fiber.Ctx) error {
	if err := h.uc.StartLineStorage(c.Context(), c.Params("lineId"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "almacenaje iniciado"})
}

// ValidateLine confirma la cantidad recibida de una línea escaneada.
// POST /api/inbound/lines/validate
func (h *InboundHandler) ValidateLine(c *fiber.Ctx) error {
	var in dto.ValidateLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, line, err := h.uc.ValidateLine(c.Context(), inbound.ValidateLineInput{
		Code:        in.Code,
		ReceivedQty: in.ReceivedQty,
		Actor:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"order": dto.ToInboundOrderResponse(order),
		"line":  dto.ToInboundLineResponse(line),
	})
}

// StoreLine fija la ubicación definitiva de una línea validada.
// POST /api/inbound/lines/store
func (h *InboundHandler) StoreLine(c *fiber.Ctx) error {
	var in dto.StoreLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, line, err := h.uc.StoreLine(c.Context(), inbound.StoreLineInput{
		Code:     in.Code,
		Location: in.Location,
		Actor:    GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"order": dto.ToInboundOrderResponse(order),
		"line":  dto.ToInboundLineResponse(line),
	})
}

// Confirm cierra la nota completa de una vez ("finalizar" del terminal).
// POST /api/inbound/:id/confirm
func (h *InboundHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmInboundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := inbound.ConfirmOrderInput{
		OrderID: c.Params("id"),
		Note:    in.Note,
		Actor:   GetUserID(c),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, inbound.ConfirmLine{
			LineID:      l.LineID,
			ReceivedQty: l.ReceivedQty,
			Location:    l.Location,
		})
	}
	order, err := h.uc.ConfirmOrder(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToInboundOrderResponse(order))
}

// UpdateStatus mueve la nota a un estado explícito validando la tabla de
// transiciones.
// PATCH /api/inbound/:id/status
func (h *InboundHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateInboundStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), entity.InboundStatus(in.Status), GetUserID(c), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToInboundOrderResponse(order))
}

// History devuelve el historial de transiciones de la nota.
// GET /api/inbound/:id/history
func (h *InboundHandler) History(c *fiber.Ctx) error {
	list, err := h.recorder.HistoryFor(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToStateTransitionResponses(list))
}
