package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OutboundLineStatus estado de una línea de picking.
type OutboundLineStatus int

const (
	OutboundLinePending OutboundLineStatus = 0
	OutboundLinePicked  OutboundLineStatus = 1
)

// String devuelve el nombre legible del estado de línea.
func (s OutboundLineStatus) String() string {
	switch s {
	case OutboundLinePending:
		return "PENDIENTE"
	case OutboundLinePicked:
		return "PICKEADA"
	}
	return "DESCONOCIDO"
}

// OutboundLine detalle de salida: una posición (producto + cantidad pedida)
// de la orden. La ubicación sugerida se asigna al crear la orden (FEFO/FIFO).
type OutboundLine struct {
	ID                string
	OrderID           string
	ProductCode       string
	RequestedQty      decimal.Decimal
	PickedQty         decimal.Decimal // acumulada, parte en cero
	SuggestedLocation string          // origen sugerido; vacío si no hubo stock candidato
	Status            OutboundLineStatus
	PickedBy          string
	PickStartedAt     *time.Time
	PickedAt          *time.Time
	PickingSeconds    int64 // métrica: segundos entre inicio y confirmación del pick
}
