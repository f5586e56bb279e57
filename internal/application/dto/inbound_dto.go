package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastano/Bodega-api/internal/domain/entity"
)

// CreateInboundLineRequest línea declarada en la nota de ingreso.
type CreateInboundLineRequest struct {
	ProductCode       string          `json:"product_code"`
	ExpectedQty       decimal.Decimal `json:"expected_qty"`
	LotCode           string          `json:"lot_code"`
	ExpiresAt         *time.Time      `json:"expires_at"`
	SuggestedLocation string          `json:"suggested_location"`
}

// CreateInboundRequest alta de una nota de ingreso con sus líneas.
type CreateInboundRequest struct {
	DocumentNumber string                     `json:"document_number"`
	Origin         string                     `json:"origin"`
	WarehouseCode  string                     `json:"warehouse_code"`
	Lines          []CreateInboundLineRequest `json:"lines"`
}

// ValidateLineRequest escaneo de validación de una línea.
type ValidateLineRequest struct {
	Code        string          `json:"code"` // código de producto o de barras
	ReceivedQty decimal.Decimal `json:"received_qty"`
}

// StoreLineRequest escaneo de almacenaje de una línea.
type StoreLineRequest struct {
	Code     string `json:"code"`
	Location string `json:"location"`
}

// ConfirmInboundLineRequest tripleta del cierre masivo.
type ConfirmInboundLineRequest struct {
	LineID      string          `json:"line_id"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	Location    string          `json:"location"`
}

// ConfirmInboundRequest cierre masivo de la nota ("finalizar" del terminal).
type ConfirmInboundRequest struct {
	Lines []ConfirmInboundLineRequest `json:"lines"`
	Note  string                      `json:"note"`
}

// UpdateInboundStatusRequest transición explícita de estado.
type UpdateInboundStatusRequest struct {
	Status int    `json:"status"`
	Reason string `json:"reason"`
}

// InboundLineResponse línea de la nota en respuestas.
type InboundLineResponse struct {
	ID                string          `json:"id"`
	ProductCode       string          `json:"product_code"`
	ExpectedQty       decimal.Decimal `json:"expected_qty"`
	ReceivedQty       decimal.Decimal `json:"received_qty"`
	LotCode           string          `json:"lot_code,omitempty"`
	ExpiresAt         *time.Time      `json:"expires_at,omitempty"`
	SuggestedLocation string          `json:"suggested_location,omitempty"`
	FinalLocation     string          `json:"final_location,omitempty"`
	Status            string          `json:"status"`
	ValidatedBy       string          `json:"validated_by,omitempty"`
	StoredBy          string          `json:"stored_by,omitempty"`
	ValidationSeconds int64           `json:"validation_seconds,omitempty"`
	StorageSeconds    int64           `json:"storage_seconds,omitempty"`
}

// InboundOrderResponse nota de ingreso en respuestas.
type InboundOrderResponse struct {
	ID             string                `json:"id"`
	DocumentNumber string                `json:"document_number"`
	Origin         string                `json:"origin,omitempty"`
	WarehouseID    string                `json:"warehouse_id,omitempty"`
	Status         string                `json:"status"`
	CreatedBy      string                `json:"created_by,omitempty"`
	ValidatedBy    string                `json:"validated_by,omitempty"`
	StoredBy       string                `json:"stored_by,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	ValidatedAt    *time.Time            `json:"validated_at,omitempty"`
	StoredAt       *time.Time            `json:"stored_at,omitempty"`
	Lines          []InboundLineResponse `json:"lines,omitempty"`
}

// ToInboundOrderResponse mapea la entidad a su DTO de respuesta.
func ToInboundOrderResponse(o *entity.InboundOrder) *InboundOrderResponse {
	if o == nil {
		return nil
	}
	resp := &InboundOrderResponse{
		ID:             o.ID,
		DocumentNumber: o.DocumentNumber,
		Origin:         o.Origin,
		WarehouseID:    o.WarehouseID,
		Status:         o.Status.String(),
		CreatedBy:      o.CreatedBy,
		ValidatedBy:    o.ValidatedBy,
		StoredBy:       o.StoredBy,
		CreatedAt:      o.CreatedAt,
		ValidatedAt:    o.ValidatedAt,
		StoredAt:       o.StoredAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, *ToInboundLineResponse(l))
	}
	return resp
}

// ToInboundLineResponse mapea la línea a su DTO de respuesta.
func ToInboundLineResponse(l *entity.InboundLine) *InboundLineResponse {
	if l == nil {
		return nil
	}
	return &InboundLineResponse{
		ID:                l.ID,
		ProductCode:       l.ProductCode,
		ExpectedQty:       l.ExpectedQty,
		ReceivedQty:       l.ReceivedQty,
		LotCode:           l.LotCode,
		ExpiresAt:         l.ExpiresAt,
		SuggestedLocation: l.SuggestedLocation,
		FinalLocation:     l.FinalLocation,
		Status:            l.Status.String(),
		ValidatedBy:       l.ValidatedBy,
		StoredBy:          l.StoredBy,
		ValidationSeconds: l.ValidationSeconds,
		StorageSeconds:    l.StorageSeconds,
	}
}
