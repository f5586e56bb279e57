package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InboundLineStatus estado de una línea de detalle de ingreso.
// Solo avanza PENDIENTE -> VALIDADA -> ALMACENADA, nunca retrocede.
type InboundLineStatus int

const (
	InboundLinePending   InboundLineStatus = 0
	InboundLineValidated InboundLineStatus = 1
	InboundLineStored    InboundLineStatus = 2
)

// String devuelve el nombre legible del estado de línea.
func (s InboundLineStatus) String() string {
	switch s {
	case InboundLinePending:
		return "PENDIENTE"
	case InboundLineValidated:
		return "VALIDADA"
	case InboundLineStored:
		return "ALMACENADA"
	}
	return "DESCONOCIDO"
}

// InboundLine detalle de ingreso: una posición (producto + lote) de la nota.
// Pertenece en exclusiva a su InboundOrder; borrar la nota borra sus líneas.
type InboundLine struct {
	ID                string
	OrderID           string
	ProductCode       string
	ExpectedQty       decimal.Decimal // cantidad declarada en el documento
	ReceivedQty       decimal.Decimal // cantidad confirmada al validar
	LotCode           string
	ExpiresAt         *time.Time // vencimiento del lote; nil = no perecedero
	SuggestedLocation string
	FinalLocation     string // solo se fija al llegar a ALMACENADA
	Status            InboundLineStatus
	ValidatedBy       string
	StoredBy          string
	ValidationStartedAt *time.Time
	ValidatedAt         *time.Time
	StorageStartedAt    *time.Time
	StoredAt            *time.Time
	ValidationSeconds   int64 // métrica: segundos entre inicio y fin de validación
	StorageSeconds      int64 // métrica: segundos entre inicio y fin de almacenaje
}
