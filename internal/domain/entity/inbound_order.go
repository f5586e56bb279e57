package entity

import "time"

// InboundStatus estado global de una nota de ingreso.
// Los valores numéricos se conservan del sistema de bodega original
// (PARTIAL es 5; el hueco 4 existía en producción y se respeta).
type InboundStatus int

const (
	InboundPalletized InboundStatus = 0 // paletizada, todas las líneas pendientes
	InboundValidated  InboundStatus = 1 // validada, cantidades confirmadas
	InboundStored     InboundStatus = 2 // almacenada (terminal)
	InboundVoided     InboundStatus = 3 // anulada (terminal)
	InboundPartial    InboundStatus = 5 // derivado: las líneas no coinciden entre sí
)

// String devuelve el nombre legible del estado.
func (s InboundStatus) String() string {
	switch s {
	case InboundPalletized:
		return "PALETIZADA"
	case InboundValidated:
		return "VALIDADA"
	case InboundStored:
		return "ALMACENADA"
	case InboundVoided:
		return "ANULADA"
	case InboundPartial:
		return "PARCIAL"
	}
	return "DESCONOCIDO"
}

// inboundTransitions tabla cerrada de transiciones explícitas permitidas.
// PARTIAL no aparece: solo se alcanza por agregación de líneas, nunca por
// una transición explícita.
var inboundTransitions = map[InboundStatus][]InboundStatus{
	InboundPalletized: {InboundValidated, InboundVoided},
	InboundValidated:  {InboundStored, InboundVoided},
	InboundStored:     {},
	InboundVoided:     {},
}

// CanTransitionTo indica si la tabla permite pasar del estado actual a target.
func (s InboundStatus) CanTransitionTo(target InboundStatus) bool {
	for _, t := range inboundTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal indica si el estado es un sumidero (no admite más transiciones).
func (s InboundStatus) IsTerminal() bool {
	return s == InboundStored || s == InboundVoided
}

// InboundOrder representa una nota de ingreso: el documento que ampara la
// recepción de mercadería en bodega, compuesto por líneas de detalle.
type InboundOrder struct {
	ID             string
	DocumentNumber string // número externo, único entre todas las notas
	Origin         string // origen/procedencia (proveedor, planta, etc.)
	WarehouseID    string
	Status         InboundStatus
	CreatedBy      string
	ValidatedBy    string
	StoredBy       string
	CreatedAt      time.Time
	ValidatedAt    *time.Time
	StoredAt       *time.Time
	Lines          []*InboundLine
}

// AggregateInboundStatus recalcula el estado global a partir de las líneas:
// todas pendientes -> PALETIZADA, todas almacenadas -> ALMACENADA,
// todas validadas -> VALIDADA, cualquier mezcla -> PARCIAL.
func AggregateInboundStatus(lines []*InboundLine) InboundStatus {
	if len(lines) == 0 {
		return InboundPalletized
	}
	pending, validated, stored := 0, 0, 0
	for _, l := range lines {
		switch l.Status {
		case InboundLinePending:
			pending++
		case InboundLineValidated:
			validated++
		case InboundLineStored:
			stored++
		}
	}
	switch len(lines) {
	case pending:
		return InboundPalletized
	case stored:
		return InboundStored
	case validated:
		return InboundValidated
	}
	return InboundPartial
}
