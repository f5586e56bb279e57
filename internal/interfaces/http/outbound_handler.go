package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastano/Bodega-api/internal/application/dto"
	"github.com/jcastano/Bodega-api/internal/application/history"
	"github.com/jcastano/Bodega-api/internal/application/outbound"
)

// OutboundHandler maneja las peticiones HTTP del flujo de salida (protegido).
type OutboundHandler struct {
	uc       *outbound.UseCase
	recorder *history.Recorder
}

// NewOutboundHandler construye el handler.
func NewOutboundHandler(uc *outbound.UseCase, recorder *history.Recorder) *OutboundHandler {
	return &OutboundHandler{uc: uc, recorder: recorder}
}

// Create crea una orden de salida con ubicaciones sugeridas por línea.
// POST /api/outbound
func (h *OutboundHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOutboundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := outbound.CreateOrderInput{
		DocumentNumber: in.DocumentNumber,
		Client:         in.Client,
		Destination:    in.Destination,
		Priority:       in.Priority,
		Source:         in.Source,
		WarehouseCode:  in.WarehouseCode,
		Actor:          GetUserID(c),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, outbound.CreateOrderLine{
			ProductCode: l.ProductCode,
			Qty:         l.Qty,
		})
	}
	order, err := h.uc.CreateOrder(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOutboundOrderResponse(order))
}

// GetByID obtiene la orden con sus líneas.
// GET /api/outbound/:id
func (h *OutboundHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	order, err := h.uc.GetOrder(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOutboundOrderResponse(order))
}

// StartPicking asigna la orden al operario y la pasa a EN_PICKING.
// Repetir la llamada es idempotente: no duplica historial.
// POST /api/outbound/:id/picking/start
func (h *OutboundHandler) StartPicking(c *fiber.Ctx) error {
	order, err := h.uc.StartPicking(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOutboundOrderResponse(order))
}

// StartLinePick arranca el cronómetro de picking de una línea.
// POST /api/outbound/lines/:lineId/pick/start
func (h *OutboundHandler) StartLinePick(c *fiber.Ctx) error {
	if err := h.uc.StartLinePick(c.Context(), c.Params("lineId")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "picking de línea iniciado"})
}

// PickLine confirma el pick de una línea y rebaja el libro de stock.
// POST /api/outbound/lines/:lineId/pick
func (h *OutboundHandler) PickLine(c *fiber.Ctx) error {
	var in dto.PickLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, line, err := h.uc.PickLine(c.Context(), outbound.PickLineInput{
		LineID:    c.Params("lineId"),
		PickedQty: in.PickedQty,
		Actor:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"order": dto.ToOutboundOrderResponse(order),
		"line":  dto.ToOutboundLineResponse(line),
	})
}

// Complete cierra el picking y emite el vale.
// POST /api/outbound/:id/complete
func (h *OutboundHandler) Complete(c *fiber.Ctx) error {
	voucher, err := h.uc.Complete(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToVoucherResponse(voucher))
}

// Voucher devuelve el vale de una orden completada o despachada.
// GET /api/outbound/:id/voucher
func (h *OutboundHandler) Voucher(c *fiber.Ctx) error {
	voucher, err := h.uc.Voucher(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToVoucherResponse(voucher))
}

// VoucherPDF devuelve el vale como PDF imprimible.
// GET /api/outbound/:id/voucher/pdf
func (h *OutboundHandler) VoucherPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.VoucherPDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="vale-picking.pdf"`)
	return c.Send(pdfBytes)
}

// Dispatch marca la orden como despachada.
// POST /api/outbound/:id/dispatch
func (h *OutboundHandler) Dispatch(c *fiber.Ctx) error {
	order, err := h.uc.Dispatch(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOutboundOrderResponse(order))
}

// Void anula la orden desde cualquier estado no terminal.
// POST /api/outbound/:id/void
func (h *OutboundHandler) Void(c *fiber.Ctx) error {
	var in dto.VoidOutboundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Void(c.Context(), c.Params("id"), GetUserID(c), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOutboundOrderResponse(order))
}

// History devuelve el historial de transiciones de la orden.
// GET /api/outbound/:id/history
func (h *OutboundHandler) History(c *fiber.Ctx) error {
	list, err := h.recorder.HistoryFor(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToStateTransitionResponses(list))
}
