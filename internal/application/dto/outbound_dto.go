package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcastano/Bodega-api/internal/application/outbound"
	"github.com/jcastano/Bodega-api/internal/domain/entity"
)

// CreateOutboundLineRequest par (producto, cantidad) solicitado.
type CreateOutboundLineRequest struct {
	ProductCode string          `json:"product_code"`
	Qty         decimal.Decimal `json:"qty"`
}

// CreateOutboundRequest alta de una orden de salida.
type CreateOutboundRequest struct {
	DocumentNumber string                      `json:"document_number"`
	Client         string                      `json:"client"`
	Destination    string                      `json:"destination"`
	Priority       int                         `json:"priority"`
	Source         string                      `json:"source"`
	WarehouseCode  string                      `json:"warehouse_code"`
	Lines          []CreateOutboundLineRequest `json:"lines"`
}

// PickLineRequest confirmación de un pick.
type PickLineRequest struct {
	PickedQty decimal.Decimal `json:"picked_qty"`
}

// VoidOutboundRequest anulación de la orden.
type VoidOutboundRequest struct {
	Reason string `json:"reason"`
}

// OutboundLineResponse línea de picking en respuestas.
type OutboundLineResponse struct {
	ID                string          `json:"id"`
	ProductCode       string          `json:"product_code"`
	RequestedQty      decimal.Decimal `json:"requested_qty"`
	PickedQty         decimal.Decimal `json:"picked_qty"`
	SuggestedLocation string          `json:"suggested_location,omitempty"`
	Status            string          `json:"status"`
	PickedBy          string          `json:"picked_by,omitempty"`
	PickingSeconds    int64           `json:"picking_seconds,omitempty"`
}

// OutboundOrderResponse orden de salida en respuestas.
type OutboundOrderResponse struct {
	ID               string                 `json:"id"`
	DocumentNumber   string                 `json:"document_number"`
	Client           string                 `json:"client,omitempty"`
	Destination      string                 `json:"destination,omitempty"`
	Priority         int                    `json:"priority"`
	Source           string                 `json:"source"`
	Status           string                 `json:"status"`
	WarehouseID      string                 `json:"warehouse_id,omitempty"`
	PickerName       string                 `json:"picker_name,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	PickingStartedAt *time.Time             `json:"picking_started_at,omitempty"`
	PickingEndedAt   *time.Time             `json:"picking_ended_at,omitempty"`
	DispatchedAt     *time.Time             `json:"dispatched_at,omitempty"`
	Lines            []OutboundLineResponse `json:"lines,omitempty"`
}

// VoucherLineResponse fila del vale de picking.
type VoucherLineResponse struct {
	ProductCode  string          `json:"product_code"`
	Description  string          `json:"description,omitempty"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
	PickedQty    decimal.Decimal `json:"picked_qty"`
	Location     string          `json:"location,omitempty"`
	Elapsed      string          `json:"elapsed"`
}

// VoucherResponse vale de picking (proyección de solo lectura).
type VoucherResponse struct {
	DocumentNumber string                `json:"document_number"`
	Client         string                `json:"client,omitempty"`
	Destination    string                `json:"destination,omitempty"`
	WarehouseID    string                `json:"warehouse_id,omitempty"`
	Picker         string                `json:"picker,omitempty"`
	StartedAt      *time.Time            `json:"started_at,omitempty"`
	CompletedAt    *time.Time            `json:"completed_at,omitempty"`
	Elapsed        string                `json:"elapsed"`
	Lines          []VoucherLineResponse `json:"lines"`
	TotalLines     int                   `json:"total_lines"`
	TotalPicked    decimal.Decimal       `json:"total_picked"`
}

// ToOutboundOrderResponse mapea la entidad a su DTO de respuesta.
func ToOutboundOrderResponse(o *entity.OutboundOrder) *OutboundOrderResponse {
	if o == nil {
		return nil
	}
	resp := &OutboundOrderResponse{
		ID:               o.ID,
		DocumentNumber:   o.DocumentNumber,
		Client:           o.Client,
		Destination:      o.Destination,
		Priority:         o.Priority,
		Source:           o.Source,
		Status:           o.Status.String(),
		WarehouseID:      o.WarehouseID,
		PickerName:       o.PickerName,
		CreatedAt:        o.CreatedAt,
		PickingStartedAt: o.PickingStartedAt,
		PickingEndedAt:   o.PickingEndedAt,
		DispatchedAt:     o.DispatchedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, *ToOutboundLineResponse(l))
	}
	return resp
}

// ToOutboundLineResponse mapea la línea a su DTO de respuesta.
func ToOutboundLineResponse(l *entity.OutboundLine) *OutboundLineResponse {
	if l == nil {
		return nil
	}
	return &OutboundLineResponse{
		ID:                l.ID,
		ProductCode:       l.ProductCode,
		RequestedQty:      l.RequestedQty,
		PickedQty:         l.PickedQty,
		SuggestedLocation: l.SuggestedLocation,
		Status:            l.Status.String(),
		PickedBy:          l.PickedBy,
		PickingSeconds:    l.PickingSeconds,
	}
}

// ToVoucherResponse mapea el vale a su DTO de respuesta.
func ToVoucherResponse(v *outbound.Voucher) *VoucherResponse {
	if v == nil {
		return nil
	}
	resp := &VoucherResponse{
		DocumentNumber: v.DocumentNumber,
		Client:         v.Client,
		Destination:    v.Destination,
		WarehouseID:    v.WarehouseID,
		Picker:         v.Picker,
		StartedAt:      v.StartedAt,
		CompletedAt:    v.CompletedAt,
		Elapsed:        v.Elapsed,
		TotalLines:     v.TotalLines,
		TotalPicked:    v.TotalPicked,
	}
	for _, l := range v.Lines {
		resp.Lines = append(resp.Lines, VoucherLineResponse{
			ProductCode:  l.ProductCode,
			Description:  l.Description,
			RequestedQty: l.RequestedQty,
			PickedQty:    l.PickedQty,
			Location:     l.Location,
			Elapsed:      l.Elapsed,
		})
	}
	return resp
}
