package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jcastano/Bodega-api/internal/application/dto"
	"github.com/jcastano/Bodega-api/internal/application/stock"
)

// StockHandler maneja las consultas y ajustes del libro de stock (protegido).
type StockHandler struct {
	ledger *stock.Ledger
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.Ledger) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// Availability devuelve las entradas disponibles de un producto y su total
// crudo (incluye lo bloqueado).
// GET /api/stock/:productId
func (h *StockHandler) Availability(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "productId requerido"})
	}
	entries, rawTotal, err := h.ledger.Availability(productID)
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.AvailabilityResponse{ProductID: productID, RawTotal: rawTotal}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, *dto.ToStockEntryResponse(e))
	}
	return c.JSON(resp)
}

// Suggest devuelve la entrada sugerida FEFO/FIFO para una cantidad requerida.
// GET /api/stock/:productId/suggestion?qty=N
func (h *StockHandler) Suggest(c *fiber.Ctx) error {
	productID := c.Params("productId")
	qty, err := decimal.NewFromString(c.Query("qty", "0"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "qty inválida"})
	}
	entry, err := h.ledger.Suggest(productID, qty)
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.SuggestionResponse{}
	if entry != nil {
		resp.Location = entry.Location
		resp.Entry = dto.ToStockEntryResponse(entry)
	}
	return c.JSON(resp)
}

// Reduce rebaja directa de una entrada (ruta de ajustes: falla con 409 si la
// cantidad excede el saldo).
// POST /api/stock/entries/:id/reduce
func (h *StockHandler) Reduce(c *fiber.Ctx) error {
	var in dto.ReduceStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.ledger.Reduce(c.Params("id"), in.Qty); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "stock rebajado"})
}

// Block marca una entrada como BLOQUEADO (no despachable).
// POST /api/stock/entries/:id/block
func (h *StockHandler) Block(c *fiber.Ctx) error {
	if err := h.ledger.Block(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "entrada bloqueada"})
}

// Unblock devuelve una entrada a DISPONIBLE.
// POST /api/stock/entries/:id/unblock
func (h *StockHandler) Unblock(c *fiber.Ctx) error {
	if err := h.ledger.Unblock(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "entrada desbloqueada"})
}
