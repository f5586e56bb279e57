package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastano/Bodega-api/internal/domain/entity"
)

// ReduceStockRequest rebaja directa de una entrada (ruta de ajustes: falla
// si la cantidad excede el saldo).
type ReduceStockRequest struct {
	Qty decimal.Decimal `json:"qty"`
}

// StockEntryResponse entrada del libro de stock.
type StockEntryResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	Location       string          `json:"location"`
	Quantity       decimal.Decimal `json:"quantity"`
	Status         string          `json:"status"`
	InboundLineID  string          `json:"inbound_line_id,omitempty"`
	LastMovementAt time.Time       `json:"last_movement_at"`
}

// AvailabilityResponse disponibilidad de un producto: entradas DISPONIBLES
// más el total crudo (incluye lo bloqueado).
type AvailabilityResponse struct {
	ProductID string               `json:"product_id"`
	Entries   []StockEntryResponse `json:"entries"`
	RawTotal  decimal.Decimal      `json:"raw_total"`
}

// SuggestionResponse resultado de la sugerencia FEFO/FIFO.
type SuggestionResponse struct {
	Location string              `json:"location,omitempty"`
	Entry    *StockEntryResponse `json:"entry,omitempty"`
}

// ToStockEntryResponse mapea la entidad a su DTO de respuesta.
func ToStockEntryResponse(e *entity.StockEntry) *StockEntryResponse {
	if e == nil {
		return nil
	}
	return &StockEntryResponse{
		ID:             e.ID,
		ProductID:      e.ProductID,
		Location:       e.Location,
		Quantity:       e.Quantity,
		Status:         e.Status,
		InboundLineID:  e.InboundLineID,
		LastMovementAt: e.LastMovementAt,
	}
}
